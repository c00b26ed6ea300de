package dto

import "pixelnow/internal/domain/models"

// PinListResponse результат поиска по ленте
type PinListResponse struct {
	Query string       `json:"query"`
	Pins  []models.Pin `json:"pins"`
	Total int          `json:"total"`
	Empty bool         `json:"empty"` // ничего не найдено, показать пустое состояние
}

// PinImage содержимое изображения пина для скачивания.
// Для удалённых изображений заполнен только RedirectURL.
type PinImage struct {
	MimeType    string
	Data        []byte
	Filename    string
	RedirectURL string
}

type AspectRatioResponse struct {
	Label  string `json:"label"`
	Ratio  string `json:"ratio"`
	Layout string `json:"layout"`
}
