package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pitchdeck/internal/domain"
	"pitchdeck/internal/domain/models"

	"github.com/sashabaranov/go-openai"
)

const slidePromptTemplate = `Create a professional startup pitch deck with 6 slides based on the following information:
Company Name: %s
Startup Idea: %s
Problem Statement: %s
Solution: %s
Market Description: %s
Market Size: %s
Target Customer: %s
Competitors: %s
Unique Selling Proposition: %s
Revenue Model: %s
Marketing Strategy: %s
Team Members: %s
Funding Needs: %s

For each slide, provide:
1. A title
2. 3-5 bullet points of content
3. A prompt for an image generation model to create a relevant image

Return the result as a JSON object with this structure:
{
  "slides": [
    {
      "title": "Slide Title",
      "content": ["Bullet point 1", "Bullet point 2", "Bullet point 3"],
      "imagePrompt": "Prompt for the image model"
    }
  ]
}
Return only the JSON object, no surrounding prose.`

// retryBackoff is the base wait between completion attempts; the wait grows
// linearly with the attempt number.
const retryBackoff = 2 * time.Second

// OpenAIConfig configures the OpenAI-backed generator.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	ImageModel string
	Timeout    time.Duration
	MaxRetries int
}

// OpenAIGenerator generates slide text with a chat completion and one image
// per slide with the images API. A failed image leaves that slide's imageUrl
// empty rather than failing the whole generation.
type OpenAIGenerator struct {
	client     *openai.Client
	model      string
	imageModel string
	timeout    time.Duration
	maxRetries int
	logger     *slog.Logger
}

// NewOpenAIGenerator creates the production generator.
func NewOpenAIGenerator(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = openai.CreateImageModelDallE3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	return &OpenAIGenerator{
		client:     openai.NewClient(cfg.APIKey),
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, formData models.FormData) (*models.GenerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content, err := g.completeSlides(ctx, formData)
	if err != nil {
		return nil, err
	}

	var result models.GenerationResult
	if err := json.Unmarshal([]byte(extractJSON(content)), &result); err != nil {
		return nil, fmt.Errorf("%w: decode slide content: %v", domain.ErrMalformedGeneration, err)
	}

	for i := range result.Slides {
		url, err := g.generateImage(ctx, result.Slides[i].ImagePrompt)
		if err != nil {
			g.logger.Warn("slide image generation failed",
				"slide", result.Slides[i].Title,
				"error", err,
			)
			result.Slides[i].ImageURL = ""
			continue
		}
		result.Slides[i].ImageURL = url
	}

	return &result, nil
}

// completeSlides runs the chat completion with retries.
func (g *OpenAIGenerator) completeSlides(ctx context.Context, formData models.FormData) (string, error) {
	prompt := fmt.Sprintf(slidePromptTemplate,
		formData.CompanyName,
		formData.StartupIdea,
		formData.ProblemStatement,
		formData.Solution,
		formData.MarketDescription,
		formData.MarketSize,
		formData.TargetCustomer,
		formData.Competitors,
		formData.UniqueSellingProposition,
		formData.RevenueModel,
		formData.MarketingStrategy,
		formData.TeamMembers,
		formData.FundingNeeds,
	)

	attempts := 0
	for attempts < g.maxRetries {
		attempts++

		req := openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.7,
		}

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			if attempts >= g.maxRetries {
				return "", fmt.Errorf("generate slide content: %w", err)
			}
			if err := g.waitRetry(ctx, attempts); err != nil {
				return "", err
			}
			continue
		}

		if len(resp.Choices) == 0 {
			if attempts >= g.maxRetries {
				return "", errors.New("empty response from completion API")
			}
			if err := g.waitRetry(ctx, attempts); err != nil {
				return "", err
			}
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", errors.New("no response from completion API after retries")
}

// waitRetry pauses before the next completion attempt, giving up as soon as
// the context is done.
func (g *OpenAIGenerator) waitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(time.Duration(attempt) * retryBackoff)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (g *OpenAIGenerator) generateImage(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", nil
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Model:  g.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   openai.CreateImageSize1024x1024,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", errors.New("empty response from image API")
	}
	return resp.Data[0].URL, nil
}

// extractJSON strips a markdown code fence if the model wrapped its answer.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
