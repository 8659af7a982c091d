package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/caltrack/backend/internal/domain"
)

// MemoryStore keeps daily entries in a map keyed by date. Food ids increase
// monotonically for the lifetime of the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.DailyEntry
	nextID  int
	target  int
}

// NewMemoryStore creates an empty store. A non-positive target uses domain.DefaultTarget.
func NewMemoryStore(defaultTarget int) *MemoryStore {
	if defaultTarget <= 0 {
		defaultTarget = domain.DefaultTarget
	}
	return &MemoryStore{
		entries: make(map[string]*domain.DailyEntry),
		nextID:  1,
		target:  defaultTarget,
	}
}

func (s *MemoryStore) GetDailyEntry(ctx context.Context, date string) (*domain.DailyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[date]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return entry.Clone(), nil
}

func (s *MemoryStore) ListEntries(ctx context.Context) ([]domain.DailyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.DailyEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		list = append(list, *entry.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Date < list[j].Date })
	return list, nil
}

func (s *MemoryStore) AddFoodItem(ctx context.Context, date string, meal domain.MealType, item domain.FoodItem) (*domain.DailyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, err := s.bucket(date, meal, true)
	if err != nil {
		return nil, err
	}

	item.ID = s.nextID
	s.nextID++
	bucket.Items = append(bucket.Items, item)

	return s.entries[date].Clone(), nil
}

func (s *MemoryStore) RemoveFoodItem(ctx context.Context, date string, meal domain.MealType, foodID int) (*domain.DailyEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, err := s.bucket(date, meal, false)
	if err != nil {
		return nil, err
	}

	kept := bucket.Items[:0]
	for _, item := range bucket.Items {
		if item.ID != foodID {
			kept = append(kept, item)
		}
	}
	bucket.Items = kept

	return s.entries[date].Clone(), nil
}

func (s *MemoryStore) GetDailyTarget(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target, nil
}

func (s *MemoryStore) SetDailyTarget(ctx context.Context, target int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = target
	for _, entry := range s.entries {
		entry.Target = target
	}
	return nil
}

// bucket returns the meal for date; callers hold the write lock
func (s *MemoryStore) bucket(date string, meal domain.MealType, create bool) (*domain.Meal, error) {
	entry, ok := s.entries[date]
	if !ok {
		if !create {
			return nil, domain.ErrEntryNotFound
		}
		entry = domain.NewDailyEntry(date, s.target)
	}
	bucket := entry.Meal(meal)
	if bucket == nil {
		return nil, domain.ErrInvalidMealType
	}
	if !ok {
		s.entries[date] = entry
	}
	return bucket, nil
}
