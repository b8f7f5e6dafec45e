// Package deck assembles in-memory, unsaved pitch decks from form input and
// the generation collaborator's output.
package deck

import (
	"fmt"
	"time"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/domain/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Build converts form data plus a generation result into a well-formed,
// storable deck record. The deck is unsaved: id is empty and the record lives
// only in the caller's working state until an explicit save.
//
// Every slide's image URL is normalized to a plain string so downstream
// consumers never branch on missing-versus-empty.
func Build(formData models.FormData, generated *models.GenerationResult) (*models.PitchDeck, error) {
	if generated == nil || generated.Slides == nil {
		return nil, fmt.Errorf("%w: generation output has no slides sequence", domain.ErrMalformedGeneration)
	}

	slides := make([]models.Slide, 0, len(generated.Slides))
	for _, g := range generated.Slides {
		content := g.Content
		if content == nil {
			content = []string{}
		}
		slides = append(slides, models.Slide{
			Title:       g.Title,
			Content:     content,
			ImagePrompt: g.ImagePrompt,
			ImageURL:    g.ImageURL,
		})
	}

	return &models.PitchDeck{
		ID:          "",
		CompanyName: formData.CompanyName,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Slides:      slides,
		FormData:    formData,
	}, nil
}

// ValidateForm checks that all thirteen form fields are present. Fields carry
// no further validation beyond presence.
func ValidateForm(formData *models.FormData) error {
	err := validation.ValidateStruct(formData,
		validation.Field(&formData.CompanyName, validation.Required),
		validation.Field(&formData.StartupIdea, validation.Required),
		validation.Field(&formData.ProblemStatement, validation.Required),
		validation.Field(&formData.Solution, validation.Required),
		validation.Field(&formData.MarketDescription, validation.Required),
		validation.Field(&formData.MarketSize, validation.Required),
		validation.Field(&formData.TargetCustomer, validation.Required),
		validation.Field(&formData.Competitors, validation.Required),
		validation.Field(&formData.UniqueSellingProposition, validation.Required),
		validation.Field(&formData.RevenueModel, validation.Required),
		validation.Field(&formData.MarketingStrategy, validation.Required),
		validation.Field(&formData.TeamMembers, validation.Required),
		validation.Field(&formData.FundingNeeds, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
