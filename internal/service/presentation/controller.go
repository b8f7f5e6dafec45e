// Package presentation owns the slide-navigation state machine for one deck:
// current position, theme, derived progress and the export guard. All state
// lives in the Controller struct and changes only through the named
// transitions.
package presentation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/domain/models"
	"pitchdeck/internal/service/export"
	"pitchdeck/internal/themes"
)

// DeckStore is the persistence surface the controller needs.
type DeckStore interface {
	Save(ctx context.Context, companyName string, slides []models.Slide, formData models.FormData) (string, error)
	Get(ctx context.Context, id string) (*models.PitchDeck, error)
}

// Exporter renders a deck snapshot into a finished document.
type Exporter interface {
	Export(ctx context.Context, deck *models.PitchDeck, theme themes.Theme) (*export.Document, error)
}

// Deps are the controller's injected collaborators.
type Deps struct {
	Store    DeckStore
	Exporter Exporter
	Themes   *themes.Registry
	Logger   *slog.Logger
}

// Controller is a finite-state navigator over a deck's slides. Navigation is
// synchronous and always safe to call; export is serialized so at most one
// runs per controller instance.
type Controller struct {
	mu        sync.Mutex
	deck      *models.PitchDeck
	index     int
	theme     themes.Theme
	exporting bool
	closed    bool

	store    DeckStore
	exporter Exporter
	registry *themes.Registry
	logger   *slog.Logger
}

// New creates a controller over an in-memory deck (typically fresh builder
// output). A nil deck is the undefined-context boundary condition and maps to
// ErrNotFound so the caller can fall back to the deck list.
func New(deck *models.PitchDeck, deps Deps) (*Controller, error) {
	if deck == nil {
		return nil, fmt.Errorf("no deck context: %w", domain.ErrNotFound)
	}

	return &Controller{
		deck:     deck,
		theme:    deps.Themes.Default(),
		store:    deps.Store,
		exporter: deps.Exporter,
		registry: deps.Themes,
		logger:   deps.Logger,
	}, nil
}

// NewFromStore loads a persisted deck by id. A lookup miss propagates
// ErrNotFound; the caller redirects to the deck list rather than showing an
// error page.
func NewFromStore(ctx context.Context, id string, deps Deps) (*Controller, error) {
	deck, err := deps.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return New(deck, deps)
}

// Deck returns the deck under presentation.
func (c *Controller) Deck() *models.PitchDeck {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deck
}

// Index returns the current slide index.
func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Next advances one slide. At the last slide it is a no-op, not an error.
func (c *Controller) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index < len(c.deck.Slides)-1 {
		c.index++
	}
	return c.index
}

// Previous steps back one slide. At the first slide it is a no-op.
func (c *Controller) Previous() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index > 0 {
		c.index--
	}
	return c.index
}

// Theme returns the current theme name.
func (c *Controller) Theme() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme.Name
}

// SetTheme switches the presentation theme. It never resets the slide index.
func (c *Controller) SetTheme(name string) error {
	t, err := c.registry.Get(name)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = t
	return nil
}

// Progress is the derived position as a percentage. For decks of one slide
// or none it is 0 by definition, never NaN.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.deck.Slides)
	if n <= 1 {
		return 0
	}
	return float64(c.index) / float64(n-1) * 100
}

// Save persists the deck through the store and returns the assigned id. On
// failure the controller state is untouched: the caller stays on the current
// slide with the error surfaced.
func (c *Controller) Save(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", domain.ErrPresentationClosed
	}
	deck := c.deck
	c.mu.Unlock()

	return c.store.Save(ctx, deck.CompanyName, deck.Slides, deck.FormData)
}

// Export renders the deck with the current theme. A second call while one
// export is in flight is rejected with ErrExportInProgress. The slide
// sequence is snapshotted at export start, so navigation during the export
// cannot skew the document. A result arriving after Close is discarded.
func (c *Controller) Export(ctx context.Context) (*export.Document, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.ErrPresentationClosed
	}
	if c.exporting {
		c.mu.Unlock()
		return nil, domain.ErrExportInProgress
	}
	c.exporting = true

	snapshot := *c.deck
	snapshot.Slides = make([]models.Slide, len(c.deck.Slides))
	copy(snapshot.Slides, c.deck.Slides)
	theme := c.theme
	c.mu.Unlock()

	doc, err := c.exporter.Export(ctx, &snapshot, theme)

	c.mu.Lock()
	c.exporting = false
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return nil, domain.ErrPresentationClosed
	}
	if err != nil {
		return nil, err
	}

	c.logger.Info("presentation exported",
		"company", snapshot.CompanyName,
		"pages", doc.Pages,
	)
	return doc, nil
}

// Close tears the presentation down. Pending operation results are discarded
// after this point, not applied to stale state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
