package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	createsvc "pixelnow/internal/services/create_service"

	"pixelnow/internal/domain/models"
	"pixelnow/internal/gateway"
	"pixelnow/internal/lib/logger/sl"
	"pixelnow/internal/storage"
	"pixelnow/internal/transport/http/dto"
	"pixelnow/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

const (
	SessionName = "pixelnow"
	flowIDKey   = "flow_id"
)

type PinService interface {
	Search(ctx context.Context, query string) dto.PinListResponse
	GetPin(ctx context.Context, id string) (models.Pin, error)
	Image(ctx context.Context, id string) (dto.PinImage, error)
}

type CreateService interface {
	GetFlow(ctx context.Context, flowID string) dto.CreateFlowResponse
	SetDraft(ctx context.Context, flowID string, req dto.CreateDraftRequest) (dto.CreateFlowResponse, error)
	Submit(ctx context.Context, flowID string) (models.Pin, error)
}

// PinFeed уведомляет о каждом новом пине в ленте
type PinFeed interface {
	Subscribe(fn func(models.Pin)) func()
}

type Routers struct {
	log           *slog.Logger
	PinService    PinService
	CreateService CreateService
	Feed          PinFeed
}

func NewRouter(log *slog.Logger, pinService PinService, createService CreateService, feed PinFeed) *Routers {
	return &Routers{
		log:           log,
		PinService:    pinService,
		CreateService: createService,
		Feed:          feed,
	}
}

func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{"status": "ok"}))
}

// ListPins
// @Summary Лента пинов с поиском
// @Param q query string false "подстрока заголовка или тега"
// @Router /api/v1/pins [get]
func (r *Routers) ListPins(c echo.Context) error {
	result := r.PinService.Search(c.Request().Context(), c.QueryParam("q"))

	if result.Empty {
		return c.JSON(http.StatusOK, response.Response{
			Status:  "success",
			Data:    result,
			Message: "No pins found.",
		})
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

// GetPin
// @Summary Детальный просмотр пина
// @Router /api/v1/pins/{id} [get]
func (r *Routers) GetPin(c echo.Context) error {
	pin, err := r.PinService.GetPin(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.pinError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pin))
}

// GetPinImage отдаёт изображение для скачивания
func (r *Routers) GetPinImage(c echo.Context) error {
	img, err := r.PinService.Image(c.Request().Context(), c.Param("id"))
	if err != nil {
		return r.pinError(c, err)
	}

	if img.RedirectURL != "" {
		return c.Redirect(http.StatusFound, img.RedirectURL)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", img.Filename))

	return c.Blob(http.StatusOK, img.MimeType, img.Data)
}

// StreamPins отправляет server-sent event на каждый новый пин
func (r *Routers) StreamPins(c echo.Context) error {
	const op = "http.routers.StreamPins"

	log := r.log.With(slog.String("op", op))

	events := make(chan models.Pin, 16)
	unsubscribe := r.Feed.Subscribe(func(pin models.Pin) {
		select {
		case events <- pin:
		default:
			log.Warn("slow stream consumer, event dropped", slog.String("pin_id", pin.ID))
		}
	})
	defer unsubscribe()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case pin := <-events:
			data, err := json.Marshal(pin)
			if err != nil {
				log.Error("failed to encode pin", sl.Err(err))
				continue
			}

			if _, err := fmt.Fprintf(w, "event: pin\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

func (r *Routers) ListAspectRatios(c echo.Context) error {
	ratios := lo.Map(models.AspectRatios(), func(a models.AspectRatio, _ int) dto.AspectRatioResponse {
		return dto.AspectRatioResponse{
			Label:  a.Label(),
			Ratio:  string(a),
			Layout: a.Layout(),
		}
	})

	return c.JSON(http.StatusOK, response.SuccessResponse(ratios))
}

// GetCreateFlow
// @Summary Состояние формы создания пина текущей сессии
// @Router /api/v1/create [get]
func (r *Routers) GetCreateFlow(c echo.Context) error {
	flowID, err := r.flowID(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, response.ErrSessionUnavailable)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(r.CreateService.GetFlow(c.Request().Context(), flowID)))
}

// UpdateCreateDraft
// @Summary Сохранить промпт и соотношение сторон
// @Router /api/v1/create [put]
func (r *Routers) UpdateCreateDraft(c echo.Context) error {
	const op = "http.routers.UpdateCreateDraft"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateDraftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid draft", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	flowID, err := r.flowID(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, response.ErrSessionUnavailable)
	}

	flow, err := r.CreateService.SetDraft(c.Request().Context(), flowID, req)
	if err != nil {
		return r.createError(c, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(flow))
}

// Generate
// @Summary Сгенерировать пин по промпту
// @Success 201 {object} response.Response{data=models.Pin}
// @Failure 400 {object} response.ErrorResponse "Пустой промпт"
// @Failure 409 {object} response.ErrorResponse "Генерация уже идёт"
// @Failure 502 {object} response.ErrorResponse "Ошибка генерации"
// @Router /api/v1/create/generate [post]
func (r *Routers) Generate(c echo.Context) error {
	const op = "http.routers.Generate"

	log := r.log.With(slog.String("op", op))

	var req dto.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid generate request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	flowID, err := r.flowID(c)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, response.ErrSessionUnavailable)
	}

	ctx := c.Request().Context()

	if req.Prompt != nil || req.AspectRatio != nil {
		current := r.CreateService.GetFlow(ctx, flowID)
		draft := dto.CreateDraftRequest{
			Prompt:      lo.FromPtrOr(req.Prompt, current.Prompt),
			AspectRatio: lo.FromPtrOr(req.AspectRatio, current.AspectRatio),
		}

		if _, err := r.CreateService.SetDraft(ctx, flowID, draft); err != nil {
			return r.createError(c, err)
		}
	}

	pin, err := r.CreateService.Submit(ctx, flowID)
	if err != nil {
		return r.createError(c, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(pin))
}

// flowID возвращает поток создания, привязанный к сессии браузера,
// и заводит новый, если в сессии его нет
func (r *Routers) flowID(c echo.Context) (string, error) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		r.log.Error("failed to load session", sl.Err(err))
		return "", err
	}

	if id, ok := sess.Values[flowIDKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[flowIDKey] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		r.log.Error("failed to save session", sl.Err(err))
		return "", err
	}

	return id, nil
}

func (r *Routers) pinError(c echo.Context, err error) error {
	if errors.Is(err, storage.ErrPinNotFound) {
		return c.JSON(http.StatusNotFound, response.ErrPinNotFound)
	}

	r.log.Error("pin request failed", sl.Err(err))

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

// createError сводит ошибки создания к статичному сообщению для пользователя
func (r *Routers) createError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gateway.ErrValidation):
		return c.JSON(http.StatusBadRequest, response.ErrPromptRequired)
	case errors.Is(err, createsvc.ErrBusy):
		return c.JSON(http.StatusConflict, response.ErrGenerationInProgress)
	default:
		return c.JSON(http.StatusBadGateway, response.ErrGenerationFailed)
	}
}
