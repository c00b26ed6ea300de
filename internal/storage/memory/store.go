package memory

import (
	"fmt"
	"iter"
	"strings"
	"sync"
	"time"

	"pixelnow/internal/domain/models"
	"pixelnow/internal/storage"

	"github.com/samber/lo"
)

// Store хранит пины в памяти процесса, новые в начале списка
type Store struct {
	mu   sync.RWMutex
	now  func() time.Time
	byID map[string]models.Pin
	list []string // новые первыми

	obsMu     sync.RWMutex
	obsSeq    int
	observers map[int]func(models.Pin)
}

func New() *Store {
	return &Store{
		now:       time.Now,
		byID:      make(map[string]models.Pin),
		observers: make(map[int]func(models.Pin)),
	}
}

// Seed добавляет пины в конец коллекции в заданном порядке.
// Подписчики не уведомляются
func (s *Store) Seed(pins []models.Pin) error {
	const op = "storage.memory.Seed"

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pin := range pins {
		if err := s.check(pin); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		s.byID[pin.ID] = s.stamp(pin)
		s.list = append(s.list, pin.ID)
	}

	return nil
}

// AddFront вставляет пин в начало коллекции и уведомляет подписчиков
func (s *Store) AddFront(pin models.Pin) error {
	const op = "storage.memory.AddFront"

	s.mu.Lock()
	if err := s.check(pin); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}

	pin = s.stamp(pin)
	s.byID[pin.ID] = pin
	s.list = append([]string{pin.ID}, s.list...)
	s.mu.Unlock()

	s.notify(pin)

	return nil
}

// Filter лениво отдаёт пины, у которых заголовок или тег содержит query
// без учёта регистра. Каждый проход идёт по снимку на момент его начала
func (s *Store) Filter(query string) iter.Seq[models.Pin] {
	q := strings.ToLower(query)

	return func(yield func(models.Pin) bool) {
		for _, pin := range s.snapshot() {
			if !pin.Matches(q) {
				continue
			}
			if !yield(pin.Clone()) {
				return
			}
		}
	}
}

func (s *Store) Get(id string) (models.Pin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pin, ok := s.byID[id]
	if !ok {
		return models.Pin{}, storage.ErrPinNotFound
	}

	return pin.Clone(), nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.list)
}

// Subscribe регистрирует наблюдателя, вызываемого после каждого AddFront.
// Возвращает функцию отписки.
func (s *Store) Subscribe(fn func(models.Pin)) func() {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	s.obsSeq++
	id := s.obsSeq
	s.observers[id] = fn

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) notify(pin models.Pin) {
	s.obsMu.RLock()
	observers := lo.Values(s.observers)
	s.obsMu.RUnlock()

	for _, fn := range observers {
		fn(pin.Clone())
	}
}

func (s *Store) snapshot() []models.Pin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Map(s.list, func(id string, _ int) models.Pin {
		return s.byID[id]
	})
}

// check вызывается под mu
func (s *Store) check(pin models.Pin) error {
	if err := pin.Validate(); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrInvalidPin, err)
	}

	if _, ok := s.byID[pin.ID]; ok {
		return fmt.Errorf("%w: %s", storage.ErrPinExists, pin.ID)
	}

	return nil
}

func (s *Store) stamp(pin models.Pin) models.Pin {
	pin = pin.Clone()
	if pin.CreatedAt.IsZero() {
		pin.CreatedAt = s.now().UTC()
	}

	return pin
}
