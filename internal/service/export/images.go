package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"

	// Register decoders for dimension probing. Only formats the PDF
	// assembler can embed are accepted; anything else fails resolution.
	_ "image/jpeg"
	_ "image/png"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/domain/models"

	"golang.org/x/sync/errgroup"
)

const (
	maxImageBytes         = 20 << 20
	imageFetchConcurrency = 4
)

// ResolvedImage is a fetched slide image with its intrinsic dimensions.
type ResolvedImage struct {
	Data   []byte
	Format string // "jpeg" or "png"
	Width  int
	Height int
}

// imageResolver fetches every required image before layout starts. Any
// failed or timed-out load fails the whole resolution: the export policy is
// fail-fast, no partial document.
type imageResolver struct {
	client  *http.Client
	timeout time.Duration
}

func newImageResolver(client *http.Client, timeout time.Duration) *imageResolver {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &imageResolver{client: client, timeout: timeout}
}

// resolve fetches all distinct non-empty image URLs concurrently and returns
// them keyed by URL. An empty result map is valid for a deck with no images.
func (r *imageResolver) resolve(ctx context.Context, slides []models.Slide) (map[string]ResolvedImage, error) {
	urls := make([]string, 0, len(slides))
	seen := make(map[string]bool, len(slides))
	for _, s := range slides {
		if s.ImageURL == "" || seen[s.ImageURL] {
			continue
		}
		seen[s.ImageURL] = true
		urls = append(urls, s.ImageURL)
	}
	if len(urls) == 0 {
		return map[string]ResolvedImage{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resolved := make([]ResolvedImage, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(imageFetchConcurrency)

	for i, url := range urls {
		g.Go(func() error {
			img, err := r.fetch(ctx, url)
			if err != nil {
				return fmt.Errorf("%w: load image %s: %v", domain.ErrExport, url, err)
			}
			resolved[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]ResolvedImage, len(urls))
	for i, url := range urls {
		out[url] = resolved[i]
	}
	return out, nil
}

func (r *imageResolver) fetch(ctx context.Context, url string) (ResolvedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ResolvedImage{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return ResolvedImage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ResolvedImage{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return ResolvedImage{}, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ResolvedImage{}, fmt.Errorf("decode image: %w", err)
	}

	return ResolvedImage{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
