package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/domain/models"
	"pitchdeck/internal/themes"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Document is a finished export, ready for the download sink.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
}

// PDFExporter renders a deck to a landscape A4 PDF.
type PDFExporter struct {
	resolver *imageResolver
	logger   *slog.Logger
}

// NewPDFExporter creates an exporter. The HTTP client is used only for image
// resolution; pass nil for the default client.
func NewPDFExporter(client *http.Client, imageTimeout time.Duration, logger *slog.Logger) *PDFExporter {
	return &PDFExporter{
		resolver: newImageResolver(client, imageTimeout),
		logger:   logger,
	}
}

// Export runs the two-phase pipeline: resolve every slide image, then lay out
// and render. A single failed image load fails the whole export with
// ErrExport; no partial document is emitted.
func (e *PDFExporter) Export(ctx context.Context, deck *models.PitchDeck, theme themes.Theme) (*Document, error) {
	// Snapshot the slide sequence so a caller mutating its deck mid-export
	// cannot skew pagination.
	slides := make([]models.Slide, len(deck.Slides))
	copy(slides, deck.Slides)

	images, err := e.resolver.resolve(ctx, slides)
	if err != nil {
		return nil, err
	}

	plan := BuildPlan(deck.CompanyName, deck.FormData.StartupIdea, deck.CreatedAt, slides, images)

	data, err := e.render(plan, images, theme)
	if err != nil {
		return nil, fmt.Errorf("%w: assemble document: %v", domain.ErrExport, err)
	}

	e.logger.Info("deck exported",
		"company", deck.CompanyName,
		"pages", plan.PageCount(),
		"bytes", len(data),
	)

	return &Document{
		Filename:    deck.CompanyName + "_pitch_deck.pdf",
		ContentType: "application/pdf",
		Data:        data,
		Pages:       plan.PageCount(),
	}, nil
}

// BuildPlan computes the deterministic layout for a deck whose images have
// already been resolved. It performs no I/O.
func BuildPlan(companyName, startupIdea, createdAt string, slides []models.Slide, images map[string]ResolvedImage) *Plan {
	plan := &Plan{
		Cover:  buildCover(companyName, startupIdea, dateStamp(createdAt)),
		Slides: make([]SlidePage, 0, len(slides)),
	}

	for _, s := range slides {
		sp := SlidePage{
			Title:   s.Title,
			Bullets: layoutBullets(s.Content),
			Caption: "Image: " + s.ImagePrompt,
		}
		if s.ImageURL != "" {
			if img, ok := images[s.ImageURL]; ok {
				sp.Image = layoutImage(s.ImageURL, img.Width, img.Height)
			}
		}
		plan.Slides = append(plan.Slides, sp)
	}

	return plan
}

// dateStamp derives the cover date from the deck's creation timestamp so the
// same deck always renders the same cover.
func dateStamp(createdAt string) string {
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("January 2, 2006")
}

func (e *PDFExporter) render(plan *Plan, images map[string]ResolvedImage, theme themes.Theme) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(20).
		WithTopMargin(15).
		WithRightMargin(20).
		Build()

	m := maroto.New(cfg)

	m.AddPages(coverPage(plan.Cover, theme))
	for _, sp := range plan.Slides {
		m.AddPages(slidePage(sp, images, theme))
	}

	document, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return document.GetBytes(), nil
}

func coverPage(cover CoverPage, theme themes.Theme) core.Page {
	heading := colorOf(theme.Heading)
	body := colorOf(theme.Body)

	rows := []core.Row{
		row.New(40).Add(col.New(12).Add(
			text.New(cover.CompanyName, props.Text{
				Size:  coverNameSize,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: heading,
				Top:   20,
			}),
		)),
		row.New(15).Add(col.New(12).Add(
			text.New(cover.Subtitle, props.Text{
				Size:  coverSubSize,
				Align: align.Center,
				Color: heading,
			}),
		)),
		row.New(12).Add(col.New(12).Add(
			text.New(cover.DateStamp, props.Text{
				Size:  coverDateSize,
				Align: align.Center,
				Color: body,
			}),
		)),
	}

	for _, line := range cover.IdeaLines {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(line, props.Text{
				Size:  coverIdeaSize,
				Style: fontstyle.Italic,
				Align: align.Center,
				Color: body,
			}),
		)))
	}

	return page.New().Add(rows...)
}

func slidePage(sp SlidePage, images map[string]ResolvedImage, theme themes.Theme) core.Page {
	heading := colorOf(theme.Heading)
	body := colorOf(theme.Body)

	titleRow := row.New(20).Add(col.New(12).Add(
		text.New(sp.Title, props.Text{
			Size:  titleSize,
			Style: fontstyle.Bold,
			Color: heading,
		}),
	))

	contentHeight := 10.0
	left := col.New(6)
	for _, block := range sp.Bullets {
		for i, line := range block.Lines {
			top := block.Y - slideContentY + bulletLineStep*float64(i)
			left.Add(text.New(line, props.Text{
				Size:  bulletSize,
				Top:   top,
				Color: body,
			}))
			if h := top + bulletLineStep; h > contentHeight {
				contentHeight = h
			}
		}
	}

	right := col.New(6)
	if sp.Image != nil {
		if img, ok := images[sp.Image.URL]; ok {
			right.Add(image.NewFromBytes(img.Data, imageExtension(img.Format), props.Rect{
				Percent: 100,
			}))
			if sp.Image.Height > contentHeight {
				contentHeight = sp.Image.Height
			}
		}
	}
	if limit := slideCaptionY - slideContentY - 10; contentHeight > limit {
		contentHeight = limit
	}

	captionRow := row.New(10).Add(col.New(12).Add(
		text.New(sp.Caption, props.Text{
			Size:  captionSize,
			Style: fontstyle.Italic,
			Color: body,
		}),
	))

	return page.New().Add(
		titleRow,
		row.New(contentHeight).Add(left, right),
		captionRow,
	)
}

func imageExtension(format string) extension.Type {
	if format == "png" {
		return extension.Png
	}
	return extension.Jpg
}

func colorOf(c themes.Color) *props.Color {
	return &props.Color{Red: c.Red, Green: c.Green, Blue: c.Blue}
}
