// Package export turns a pitch deck into a paginated document: a cover page
// plus one page per slide, in slide order. The pipeline has two phases:
// resolve all required images up front, then compute a pure layout plan and
// render it. Layout never waits on the network.
package export

import "strings"

// Page geometry in millimeters, landscape A4.
const (
	pageWidth  = 297.0
	pageHeight = 210.0

	coverNameY     = 60.0
	coverSubY      = 80.0
	coverDateY     = 100.0
	coverIdeaY     = 120.0
	slideTitleY    = 30.0
	slideContentY  = 50.0
	slideCaptionY  = pageHeight - 15.0
	contentLeftX   = 25.0
	bulletLineStep = 10.0

	// The cover is exactly one page. Idea lines that would run past the
	// bottom are dropped, never spilled onto a second page.
	coverIdeaMaxLines = int((pageHeight - coverIdeaY - 10) / bulletLineStep)

	coverNameSize  = 32.0
	coverSubSize   = 24.0
	coverDateSize  = 16.0
	coverIdeaSize  = 20.0
	titleSize      = 28.0
	bulletSize     = 16.0
	captionSize    = 12.0

	// Average glyph width as a fraction of the font size, with points
	// converted to millimeters. Coarse, but deterministic.
	pointToMM  = 0.3528
	glyphRatio = 0.5
)

// CoverPage is the leading page of every exported document.
type CoverPage struct {
	CompanyName string
	Subtitle    string
	DateStamp   string
	IdeaLines   []string
}

// BulletBlock is one bullet point, word-wrapped, anchored at Y. Blocks never
// overlap: each starts where the previous one's wrapped lines ended.
type BulletBlock struct {
	Lines []string
	Y     float64
}

// ImageBox places a slide image in the right half of the page. Height is
// derived from the source aspect ratio at a fixed width.
type ImageBox struct {
	URL    string
	X, Y   float64
	Width  float64
	Height float64
}

// SlidePage is the layout of one slide.
type SlidePage struct {
	Title   string
	Bullets []BulletBlock
	Image   *ImageBox
	Caption string
}

// Plan is the full deterministic layout of a deck. Page order is exactly
// slide order.
type Plan struct {
	Cover  CoverPage
	Slides []SlidePage
}

// PageCount is the cover page plus one page per slide.
func (p *Plan) PageCount() int {
	return len(p.Slides) + 1
}

// buildCover lays out the cover page.
func buildCover(companyName, startupIdea, dateStamp string) CoverPage {
	lines := wrapText(startupIdea, pageWidth-40, coverIdeaSize)
	if len(lines) > coverIdeaMaxLines {
		lines = lines[:coverIdeaMaxLines]
	}
	return CoverPage{
		CompanyName: companyName,
		Subtitle:    "Pitch Deck",
		DateStamp:   "Generated on " + dateStamp,
		IdeaLines:   lines,
	}
}

// layoutBullets word-wraps each bullet into the left half of the page,
// advancing a running vertical cursor by the wrapped line count.
func layoutBullets(content []string) []BulletBlock {
	maxWidth := pageWidth/2 - 30
	blocks := make([]BulletBlock, 0, len(content))

	y := slideContentY
	for _, point := range content {
		lines := wrapText("• "+point, maxWidth, bulletSize)
		blocks = append(blocks, BulletBlock{Lines: lines, Y: y})
		y += bulletLineStep * float64(len(lines))
	}
	return blocks
}

// layoutImage places a resolved image in the right half preserving aspect
// ratio. Width is fixed to half the page minus margin.
func layoutImage(url string, srcWidth, srcHeight int) *ImageBox {
	w := pageWidth/2 - 30
	h := 0.0
	if srcWidth > 0 {
		h = float64(srcHeight) * w / float64(srcWidth)
	}
	return &ImageBox{
		URL:    url,
		X:      pageWidth/2 + 10,
		Y:      slideContentY,
		Width:  w,
		Height: h,
	}
}

// wrapText greedily wraps text to maxWidth millimeters at the given font
// size using an estimated average glyph width. Deterministic for a given
// input; a single overlong word gets its own line.
func wrapText(text string, maxWidth, fontSize float64) []string {
	charWidth := fontSize * pointToMM * glyphRatio
	maxChars := int(maxWidth / charWidth)
	if maxChars < 1 {
		maxChars = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= maxChars {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	lines = append(lines, current)
	return lines
}
