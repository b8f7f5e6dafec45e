package export

import (
	"encoding/json"
	"fmt"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/domain/models"
)

// JSON serializes a single deck verbatim for interchange. The payload
// round-trips losslessly through the PitchDeck shape.
func JSON(deck *models.PitchDeck) (*Document, error) {
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: marshal deck: %v", domain.ErrExport, err)
	}

	return &Document{
		Filename:    deck.CompanyName + "_pitch_deck.json",
		ContentType: "application/json",
		Data:        data,
		Pages:       0,
	}, nil
}
