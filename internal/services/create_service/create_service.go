package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"pixelnow/internal/domain/models"
	"pixelnow/internal/gateway"
	"pixelnow/internal/lib/logger/sl"
	"pixelnow/internal/metrics"
	"pixelnow/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// FailureMessage единственное сообщение, которое видит пользователь при любой ошибке генерации
const FailureMessage = "Failed to generate image. Please try again."

const (
	generatedAuthor = "You"
	modelName       = "Gemini 2.5 Flash Image"
)

var generatedTags = []string{"AI Generated", "Gemini", "Pixel Now"}

var ErrBusy = errors.New("generation already in progress")

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, ratio models.AspectRatio) (string, error)
}

type PinSaver interface {
	AddFront(pin models.Pin) error
}

// Flow форма создания пина одной браузерной сессии.
// Idle -> Generating -> {Succeeded, Failed} -> Idle
type Flow struct {
	mu        sync.Mutex
	id        string
	state     State
	outcome   State
	prompt    string
	ratio     models.AspectRatio
	errMsg    string
	lastPinID string
}

func newFlow(id string) *Flow {
	return &Flow{
		id:    id,
		state: StateIdle,
		ratio: models.AspectRatioSquare,
	}
}

func (f *Flow) setDraft(prompt string, ratio models.AspectRatio) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateGenerating {
		return ErrBusy
	}

	f.prompt = prompt
	f.ratio = ratio

	return nil
}

// begin переводит поток в Generating и возвращает параметры запроса
func (f *Flow) begin() (string, models.AspectRatio, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateGenerating {
		return "", "", ErrBusy
	}

	if strings.TrimSpace(f.prompt) == "" {
		return "", "", gateway.ErrValidation
	}

	f.state = StateGenerating
	f.errMsg = ""

	return f.prompt, f.ratio, nil
}

func (f *Flow) succeed(pinID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = StateIdle
	f.outcome = StateSucceeded
	f.prompt = ""
	f.lastPinID = pinID
}

// fail сохраняет введённый промпт для повторной попытки
func (f *Flow) fail() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = StateIdle
	f.outcome = StateFailed
	f.errMsg = FailureMessage
}

func (f *Flow) snapshot() dto.CreateFlowResponse {
	f.mu.Lock()
	defer f.mu.Unlock()

	return dto.CreateFlowResponse{
		FlowID:      f.id,
		State:       string(f.state),
		LastOutcome: string(f.outcome),
		Prompt:      f.prompt,
		AspectRatio: f.ratio.Label(),
		CanSubmit:   f.state == StateIdle && strings.TrimSpace(f.prompt) != "",
		Error:       f.errMsg,
		LastPinID:   f.lastPinID,
	}
}

type CreateService struct {
	log       *slog.Logger
	generator ImageGenerator
	pins      PinSaver
	flows     *cache.Cache
	newID     func() string
	now       func() time.Time
}

// NewCreateService создает сервис генерации пинов. Формы неактивных сессий
// удаляются через flowTTL после последнего обращения.
func NewCreateService(log *slog.Logger, generator ImageGenerator, pins PinSaver, flowTTL time.Duration) *CreateService {
	return &CreateService{
		log:       log,
		generator: generator,
		pins:      pins,
		flows:     cache.New(flowTTL, flowTTL*2),
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

func (s *CreateService) flow(flowID string) *Flow {
	if v, ok := s.flows.Get(flowID); ok {
		f := v.(*Flow)
		s.flows.SetDefault(flowID, f)
		return f
	}

	f := newFlow(flowID)
	if err := s.flows.Add(flowID, f, cache.DefaultExpiration); err != nil {
		// его уже создал другой запрос
		if v, ok := s.flows.Get(flowID); ok {
			return v.(*Flow)
		}
	}

	return f
}

// GetFlow возвращает текущее состояние формы
func (s *CreateService) GetFlow(ctx context.Context, flowID string) dto.CreateFlowResponse {
	return s.flow(flowID).snapshot()
}

// SetDraft сохраняет введённый промпт и соотношение сторон
func (s *CreateService) SetDraft(ctx context.Context, flowID string, req dto.CreateDraftRequest) (dto.CreateFlowResponse, error) {
	const op = "service.CreateService.SetDraft"

	ratio, err := models.ParseAspectRatio(req.AspectRatio)
	if err != nil {
		return dto.CreateFlowResponse{}, fmt.Errorf("%s: %w: %v", op, gateway.ErrValidation, err)
	}

	f := s.flow(flowID)
	if err := f.setDraft(req.Prompt, ratio); err != nil {
		return f.snapshot(), fmt.Errorf("%s: %w", op, err)
	}

	return f.snapshot(), nil
}

// Submit генерирует изображение по черновику формы и добавляет новый пин
// в начало ленты. При ошибке лента не меняется, промпт сохраняется.
func (s *CreateService) Submit(ctx context.Context, flowID string) (models.Pin, error) {
	const op = "service.CreateService.Submit"

	log := s.log.With(
		slog.String("op", op),
		slog.String("flow_id", flowID),
	)

	f := s.flow(flowID)

	prompt, ratio, err := f.begin()
	if err != nil {
		log.Warn("submit rejected", sl.Err(err))
		return models.Pin{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("generating image", slog.String("aspect_ratio", string(ratio)))

	start := time.Now()
	imageURL, err := s.generator.GenerateImage(ctx, prompt, ratio)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	var pin models.Pin
	if err == nil {
		pin = s.newPin(prompt, ratio, imageURL)
		err = s.pins.AddFront(pin)
	}

	if err != nil {
		f.fail()
		metrics.GenerationsTotal.WithLabelValues(string(StateFailed)).Inc()
		log.Error("generation failed", sl.Err(err))
		return models.Pin{}, fmt.Errorf("%s: %w", op, err)
	}

	f.succeed(pin.ID)
	metrics.GenerationsTotal.WithLabelValues(string(StateSucceeded)).Inc()
	log.Info("pin created", slog.String("pin_id", pin.ID))

	return pin, nil
}

func (s *CreateService) newPin(prompt string, ratio models.AspectRatio, imageURL string) models.Pin {
	return models.Pin{
		ID:          s.newID(),
		Title:       prompt,
		ImageURL:    imageURL,
		Author:      generatedAuthor,
		Description: fmt.Sprintf("Generated with %s. Prompt: \"%s\"", modelName, prompt),
		AspectRatio: ratio.Layout(),
		Tags:        append([]string(nil), generatedTags...),
		IsGenerated: true,
		CreatedAt:   s.now().UTC(),
	}
}
