package generation

import (
	"context"
	"errors"

	"pitchdeck/internal/domain/models"
)

// Unavailable is the generator used when no API key is configured. Saved
// decks, playback and export keep working; only new generation is off.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, models.FormData) (*models.GenerationResult, error) {
	return nil, errors.New("generation is not configured: set OPENAI_API_KEY")
}
