package memory_test

import (
	"slices"
	"testing"

	"pixelnow/internal/domain/models"
	"pixelnow/internal/storage"
	"pixelnow/internal/storage/memory"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pin(id, title string, tags ...string) models.Pin {
	return models.Pin{
		ID:       id,
		Title:    title,
		ImageURL: "https://example.com/" + id + ".png",
		Author:   "tester",
		Tags:     tags,
	}
}

func ids(pins []models.Pin) []string {
	return lo.Map(pins, func(p models.Pin, _ int) string { return p.ID })
}

func setupStore(t *testing.T, seed ...models.Pin) *memory.Store {
	t.Helper()

	s := memory.New()
	require.NoError(t, s.Seed(seed))

	return s
}

func TestStore_Filter(t *testing.T) {
	s := setupStore(t,
		pin("1", "Forest morning", "nature"),
		pin("2", "Gallery wall", "art"),
		pin("3", "Street Art Tour", "city"),
	)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query returns all in order", query: "", want: []string{"1", "2", "3"}},
		{name: "tag match ignores case", query: "ART", want: []string{"2", "3"}},
		{name: "title match", query: "forest", want: []string{"1"}},
		{name: "substring of tag", query: "atur", want: []string{"1"}},
		{name: "no match", query: "zzz", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(slices.Collect(s.Filter(tt.query)))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_FilterScenario(t *testing.T) {
	s := setupStore(t,
		pin("a", "First", "nature"),
		pin("b", "Second", "art"),
	)

	assert.Equal(t, []string{"b"}, ids(slices.Collect(s.Filter("ART"))))
	assert.Empty(t, slices.Collect(s.Filter("zzz")))
}

func TestStore_FilterIsLazy(t *testing.T) {
	s := setupStore(t, pin("1", "one"), pin("2", "two"), pin("3", "three"))

	var seen []string
	for p := range s.Filter("") {
		seen = append(seen, p.ID)
		if len(seen) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestStore_FilterReevaluated(t *testing.T) {
	s := setupStore(t, pin("1", "one"))
	seq := s.Filter("")

	require.NoError(t, s.AddFront(pin("2", "two")))

	assert.Equal(t, []string{"2", "1"}, ids(slices.Collect(seq)))
}

func TestStore_AddFront(t *testing.T) {
	s := setupStore(t, memory.MockPins(3)...)

	a := pin("A", "pin a")
	b := pin("B", "pin b")

	require.NoError(t, s.AddFront(a))
	first := slices.Collect(s.Filter(""))[0]
	assert.Equal(t, "A", first.ID)

	require.NoError(t, s.AddFront(b))
	assert.Equal(t,
		[]string{"B", "A", "static-0", "static-1", "static-2"},
		ids(slices.Collect(s.Filter(""))),
	)
	assert.Equal(t, 5, s.Len())
}

func TestStore_AddFrontRejects(t *testing.T) {
	s := setupStore(t, pin("1", "one"))

	err := s.AddFront(pin("1", "again"))
	assert.ErrorIs(t, err, storage.ErrPinExists)

	err = s.AddFront(models.Pin{ID: "2"})
	assert.ErrorIs(t, err, storage.ErrInvalidPin)

	bad := pin("3", "three")
	bad.AspectRatio = "wide"
	err = s.AddFront(bad)
	assert.ErrorIs(t, err, storage.ErrInvalidPin)

	assert.Equal(t, 1, s.Len())
}

func TestStore_SeedRejectsDuplicates(t *testing.T) {
	s := memory.New()

	err := s.Seed([]models.Pin{pin("1", "one"), pin("1", "dup")})
	assert.ErrorIs(t, err, storage.ErrPinExists)
}

func TestStore_Get(t *testing.T) {
	s := setupStore(t, pin("1", "one", "x"))

	got, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Title)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, storage.ErrPinNotFound)
}

func TestStore_PinsAreImmutable(t *testing.T) {
	original := pin("1", "one", "nature")
	s := setupStore(t, original)

	original.Tags[0] = "changed"

	got, err := s.Get("1")
	require.NoError(t, err)
	got.Tags[0] = "mutated"

	again, err := s.Get("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"nature"}, again.Tags)
}

func TestStore_Subscribe(t *testing.T) {
	s := setupStore(t)

	var notified []string
	unsubscribe := s.Subscribe(func(p models.Pin) {
		notified = append(notified, p.ID)
	})

	require.NoError(t, s.AddFront(pin("1", "one")))
	assert.Error(t, s.AddFront(pin("1", "one")))

	unsubscribe()
	require.NoError(t, s.AddFront(pin("2", "two")))

	assert.Equal(t, []string{"1"}, notified)
}

func TestMockPins(t *testing.T) {
	pins := memory.MockPins(30)
	require.Len(t, pins, 30)

	assert.Equal(t, "static-0", pins[0].ID)
	assert.Equal(t, "Inspiration 1", pins[0].Title)
	assert.Equal(t, "3/4", pins[0].AspectRatio)
	assert.Equal(t, "https://picsum.photos/seed/150/600/800", pins[0].ImageURL)
	assert.Equal(t, "16/9", pins[1].AspectRatio)
	assert.Equal(t, "https://picsum.photos/seed/151/600/400", pins[1].ImageURL)
	assert.Equal(t, "1/1", pins[2].AspectRatio)
	assert.Equal(t, "Creator_29", pins[29].Author)

	for _, p := range pins {
		assert.NoError(t, p.Validate())
	}
}
