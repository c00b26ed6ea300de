package app

import (
	"context"
	"fmt"
	"log/slog"

	httpapp "pixelnow/internal/app/http"
	"pixelnow/internal/config"
	"pixelnow/internal/domain/models"
	"pixelnow/internal/gateway/gemini"
	"pixelnow/internal/metrics"
	createsvc "pixelnow/internal/services/create_service"
	pinsvc "pixelnow/internal/services/pin_service"
	"pixelnow/internal/storage/memory"
	httprouters "pixelnow/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server
	Store      *memory.Store
}

// New собирает приложение: хранилище пинов, шлюз генерации, сервисы и HTTP сервер
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	client, err := gemini.NewClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	generator := gemini.New(log, client.Models,
		gemini.WithModel(cfg.Gemini.Model),
		gemini.WithTimeout(cfg.Gemini.Timeout),
	)

	return NewWithGenerator(log, cfg, generator)
}

// NewWithGenerator собирает приложение с заданным генератором изображений
func NewWithGenerator(log *slog.Logger, cfg *config.Config, generator createsvc.ImageGenerator) (*App, error) {
	const op = "app.NewWithGenerator"

	store := memory.New()
	if err := store.Seed(memory.MockPins(cfg.Seed.Count)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PinStoreSize.Set(float64(store.Len()))
	store.Subscribe(func(models.Pin) {
		metrics.PinStoreSize.Set(float64(store.Len()))
	})

	pinService := pinsvc.NewPinService(log, store)
	createService := createsvc.NewCreateService(log, generator, store, cfg.Flow.TTL)

	routers := httprouters.NewRouter(log, pinService, createService, store)

	server := httpapp.New(log, cfg.HTTP.Host, cfg.HTTP.Port, cfg.HTTP.SessionSecret, routers)
	server.BuildRouters()

	log.Info("application initialized", slog.Int("pins", store.Len()))

	return &App{
		HTTPServer: server,
		Store:      store,
	}, nil
}
