package services

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"pixelnow/internal/domain/models"
	"pixelnow/internal/lib/datauri"
	"pixelnow/internal/lib/logger/sl"
	"pixelnow/internal/transport/http/dto"
)

const downloadFilename = "pixel-now-image.png"

type PinProvider interface {
	Filter(query string) iter.Seq[models.Pin]
	Get(id string) (models.Pin, error)
}

type PinService struct {
	log  *slog.Logger
	pins PinProvider
}

func NewPinService(log *slog.Logger, pins PinProvider) *PinService {
	return &PinService{
		log:  log,
		pins: pins,
	}
}

// Search возвращает пины, у которых заголовок или тег содержит query
func (s *PinService) Search(ctx context.Context, query string) dto.PinListResponse {
	const op = "service.PinService.Search"
	log := s.log.With(
		slog.String("op", op),
		slog.String("query", query),
	)

	pins := slices.Collect(s.pins.Filter(query))
	if pins == nil {
		pins = []models.Pin{}
	}

	log.Debug("pins filtered", slog.Int("total", len(pins)))

	return dto.PinListResponse{
		Query: query,
		Pins:  pins,
		Total: len(pins),
		Empty: len(pins) == 0,
	}
}

// GetPin возвращает пин для детального просмотра
func (s *PinService) GetPin(ctx context.Context, id string) (models.Pin, error) {
	const op = "service.PinService.GetPin"

	pin, err := s.pins.Get(id)
	if err != nil {
		s.log.Warn("pin lookup failed", slog.String("op", op), slog.String("pin_id", id), sl.Err(err))
		return models.Pin{}, fmt.Errorf("%s: %w", op, err)
	}

	return pin, nil
}

// Image отдаёт содержимое изображения пина. Для удалённых URL возвращается
// только адрес для перенаправления.
func (s *PinService) Image(ctx context.Context, id string) (dto.PinImage, error) {
	const op = "service.PinService.Image"

	pin, err := s.GetPin(ctx, id)
	if err != nil {
		return dto.PinImage{}, fmt.Errorf("%s: %w", op, err)
	}

	if !datauri.IsDataURI(pin.ImageURL) {
		return dto.PinImage{RedirectURL: pin.ImageURL}, nil
	}

	mimeType, data, err := datauri.Decode(pin.ImageURL)
	if err != nil {
		s.log.Error("stored image is not decodable", slog.String("op", op), slog.String("pin_id", id), sl.Err(err))
		return dto.PinImage{}, fmt.Errorf("%s: %w", op, err)
	}

	return dto.PinImage{
		MimeType: mimeType,
		Data:     data,
		Filename: downloadFilename,
	}, nil
}
