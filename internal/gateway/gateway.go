package gateway

import "errors"

var (
	// ErrConfiguration означает отсутствующий или неверный ключ API
	ErrConfiguration = errors.New("image generation is not configured")
	// ErrGenerationFailed покрывает пустой ответ, отсутствие изображения
	// и любые ошибки транспорта или сервиса
	ErrGenerationFailed = errors.New("image generation failed")
	// ErrValidation означает пустой промпт; запрос к сервису не выполняется
	ErrValidation = errors.New("prompt is required")
)
