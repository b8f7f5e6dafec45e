// Package generation wraps the external content-generation collaborator.
// The core treats it as an opaque capability: form data in, a slide sequence
// out, with no assumption about timing or slide count.
package generation

import (
	"context"

	"pitchdeck/internal/domain/models"
)

// Generator produces slide content for a startup form. Implementations are
// injected so tests run against a stub.
type Generator interface {
	Generate(ctx context.Context, formData models.FormData) (*models.GenerationResult, error)
}
