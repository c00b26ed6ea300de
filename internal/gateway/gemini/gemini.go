package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pixelnow/internal/domain/models"
	"pixelnow/internal/gateway"
	"pixelnow/internal/lib/datauri"
	"pixelnow/internal/lib/logger/sl"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash-image"

// ContentGenerator часть клиента genai, которой пользуется шлюз.
// *genai.Models ему удовлетворяет
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Gateway struct {
	log     *slog.Logger
	client  ContentGenerator
	model   string
	timeout time.Duration
}

type Option func(*Gateway)

func WithModel(model string) Option {
	return func(g *Gateway) {
		if model != "" {
			g.model = model
		}
	}
}

// WithTimeout ограничивает время одного запроса; 0 отключает ограничение
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = timeout
	}
}

func New(log *slog.Logger, client ContentGenerator, opts ...Option) *Gateway {
	g := &Gateway{
		log:    log,
		client: client,
		model:  DefaultModel,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// NewClient создает клиент Gemini API. Пустой ключ приводит к ErrConfiguration.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	const op = "gateway.gemini.NewClient"

	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%s: %w", op, gateway.ErrConfiguration)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, gateway.ErrConfiguration, err)
	}

	return client, nil
}

// GenerateImage отправляет ровно один запрос к сервису и возвращает первое
// изображение из ответа в виде data URI.
func (g *Gateway) GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) (string, error) {
	const op = "gateway.gemini.GenerateImage"

	log := g.log.With(
		slog.String("op", op),
		slog.String("model", g.model),
		slog.String("aspect_ratio", string(ratio)),
	)

	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%s: %w", op, gateway.ErrValidation)
	}

	if ratio == "" {
		ratio = models.AspectRatioSquare
	}
	if !ratio.Valid() {
		return "", fmt.Errorf("%s: %w: unknown aspect ratio %q", op, gateway.ErrValidation, ratio)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	log.Debug("requesting image")

	resp, err := g.client.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{
			AspectRatio: string(ratio),
		},
	})
	if err != nil {
		log.Error("generate content request failed", sl.Err(err))
		return "", fmt.Errorf("%s: %w: %v", op, gateway.ErrGenerationFailed, err)
	}

	uri, err := firstInlineImage(resp)
	if err != nil {
		log.Warn("no image in response", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("image generated")

	return uri, nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", gateway.ErrGenerationFailed)
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no content generated", gateway.ErrGenerationFailed)
	}

	for _, part := range parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}

		return datauri.Encode(part.InlineData.MIMEType, part.InlineData.Data), nil
	}

	return "", fmt.Errorf("%w: no image data found in response", gateway.ErrGenerationFailed)
}
