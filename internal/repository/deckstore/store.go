// Package deckstore implements durable CRUD over the persisted pitch deck
// collection. The whole collection lives under one well-known key as a JSON
// array; every mutation is a read-modify-write of that value.
package deckstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/domain/models"
	"pitchdeck/internal/kv"

	"github.com/google/uuid"
)

// CollectionKey is the well-known key holding the serialized deck collection.
// It matches the interchange format of the original client.
const CollectionKey = "pitchDecks"

// Store is the sole writer of persisted deck state.
//
// The read-modify-write over the backing key is not transactional across
// concurrent callers; the backing implementations serialize writers within a
// process, which is sufficient under the single-writer deployment model.
type Store struct {
	backing kv.Store
	logger  *slog.Logger
}

// New creates a deck store over the given backing medium.
func New(backing kv.Store, logger *slog.Logger) *Store {
	return &Store{
		backing: backing,
		logger:  logger,
	}
}

// Save constructs a new deck with a fresh unique id and the current
// timestamp, appends it to the persisted collection and returns the id.
// Existing records are never mutated.
func (s *Store) Save(ctx context.Context, companyName string, slides []models.Slide, formData models.FormData) (string, error) {
	decks, err := s.load(ctx)
	if err != nil {
		return "", err
	}

	deck := models.PitchDeck{
		ID:          uuid.NewString(),
		CompanyName: companyName,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Slides:      slides,
		FormData:    formData,
	}

	decks = append(decks, deck)
	if err := s.write(ctx, decks); err != nil {
		return "", err
	}

	s.logger.Info("deck saved",
		"id", deck.ID,
		"company", deck.CompanyName,
		"slides", len(deck.Slides),
	)

	return deck.ID, nil
}

// Get retrieves a deck by id. A miss is ErrNotFound, which is distinct from
// an unreadable store (ErrPersistence).
func (s *Store) Get(ctx context.Context, id string) (*models.PitchDeck, error) {
	decks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range decks {
		if decks[i].ID == id {
			return &decks[i], nil
		}
	}

	return nil, fmt.Errorf("deck %s: %w", id, domain.ErrNotFound)
}

// List returns the full persisted collection in insertion order.
func (s *Store) List(ctx context.Context) ([]models.PitchDeck, error) {
	decks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return decks, nil
}

// Delete removes the matching record and persists the remainder. Deleting an
// unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	decks, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := decks[:0]
	removed := false
	for _, deck := range decks {
		if deck.ID == id {
			removed = true
			continue
		}
		kept = append(kept, deck)
	}

	if !removed {
		return nil
	}

	if err := s.write(ctx, kept); err != nil {
		return err
	}

	s.logger.Info("deck deleted", "id", id)
	return nil
}

// load reads and decodes the collection. An absent key is an empty
// collection; a corrupt payload surfaces as ErrPersistence so callers never
// mistake corruption for an empty dashboard.
func (s *Store) load(ctx context.Context) ([]models.PitchDeck, error) {
	data, ok, err := s.backing.Get(ctx, CollectionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: read collection: %v", domain.ErrPersistence, err)
	}
	if !ok || len(data) == 0 {
		return []models.PitchDeck{}, nil
	}

	var decks []models.PitchDeck
	if err := json.Unmarshal(data, &decks); err != nil {
		return nil, fmt.Errorf("%w: corrupt collection payload: %v", domain.ErrPersistence, err)
	}
	if decks == nil {
		decks = []models.PitchDeck{}
	}
	return decks, nil
}

func (s *Store) write(ctx context.Context, decks []models.PitchDeck) error {
	data, err := json.Marshal(decks)
	if err != nil {
		return fmt.Errorf("%w: marshal collection: %v", domain.ErrPersistence, err)
	}
	if err := s.backing.Set(ctx, CollectionKey, data); err != nil {
		return fmt.Errorf("%w: write collection: %v", domain.ErrPersistence, err)
	}
	return nil
}
