package models

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
)

type AspectRatio string

const (
	AspectRatioSquare    AspectRatio = "1:1"
	AspectRatioPortrait  AspectRatio = "3:4"
	AspectRatioLandscape AspectRatio = "16:9"
	AspectRatioTall      AspectRatio = "9:16"
)

var aspectRatioLabels = map[AspectRatio]string{
	AspectRatioSquare:    "square",
	AspectRatioPortrait:  "portrait",
	AspectRatioLandscape: "landscape",
	AspectRatioTall:      "tall",
}

var layoutPattern = regexp.MustCompile(`^\d+/\d+$`)

// AspectRatios возвращает все поддерживаемые соотношения сторон
func AspectRatios() []AspectRatio {
	return []AspectRatio{
		AspectRatioSquare,
		AspectRatioPortrait,
		AspectRatioLandscape,
		AspectRatioTall,
	}
}

// ParseAspectRatio принимает метку ("portrait") или само соотношение ("3:4").
// Пустая строка означает квадрат.
func ParseAspectRatio(s string) (AspectRatio, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AspectRatioSquare, nil
	}

	for ratio, label := range aspectRatioLabels {
		if s == label || s == string(ratio) {
			return ratio, nil
		}
	}

	return "", fmt.Errorf("unknown aspect ratio: %q", s)
}

func (a AspectRatio) Valid() bool {
	_, ok := aspectRatioLabels[a]
	return ok
}

func (a AspectRatio) Label() string {
	return aspectRatioLabels[a]
}

// Layout возвращает соотношение в форме для вёрстки, например "3/4"
func (a AspectRatio) Layout() string {
	return strings.Replace(string(a), ":", "/", 1)
}

// Pin представляет одну карточку изображения в ленте
type Pin struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"image_url"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	AspectRatio string    `json:"aspect_ratio,omitempty"` // только подсказка для вёрстки
	Tags        []string  `json:"tags,omitempty"`
	IsGenerated bool      `json:"is_generated,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate проверяет обязательные поля пина
func (p Pin) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.ImageURL, validation.Required),
		validation.Field(&p.AspectRatio, validation.Match(layoutPattern)),
	)
}

// Clone возвращает копию без общих с p слайсов
func (p Pin) Clone() Pin {
	p.Tags = slices.Clone(p.Tags)
	return p
}

// Matches проверяет, входит ли query в нижнем регистре в заголовок или
// в один из тегов. Пустой query подходит любому пину
func (p Pin) Matches(query string) bool {
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(p.Title), query) {
		return true
	}

	return lo.SomeBy(p.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}
