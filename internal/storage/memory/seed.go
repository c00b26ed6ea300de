package memory

import (
	"fmt"

	"pixelnow/internal/domain/models"
)

const seedDescription = "A beautiful image curated just for you. Explore more like this on Pixel Now."

// MockPins генерирует стартовую ленту из count статических пинов
func MockPins(count int) []models.Pin {
	pins := make([]models.Pin, 0, count)

	for i := 0; i < count; i++ {
		ratio, height := "16/9", 400
		switch {
		case i%3 == 0:
			ratio, height = "3/4", 800
		case i%2 == 0:
			ratio, height = "1/1", 600
		}

		pins = append(pins, models.Pin{
			ID:          fmt.Sprintf("static-%d", i),
			Title:       fmt.Sprintf("Inspiration %d", i+1),
			ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%d/600/%d", i+150, height),
			Author:      fmt.Sprintf("Creator_%d", i),
			Description: seedDescription,
			AspectRatio: ratio,
			Tags:        []string{"nature", "art", "photography"},
		})
	}

	return pins
}
