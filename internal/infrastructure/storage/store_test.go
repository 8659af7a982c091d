package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caltrack/backend/internal/domain"
)

// storeFactories runs every test against both implementations
func storeFactories() map[string]func(t *testing.T) domain.EntryRepository {
	return map[string]func(t *testing.T) domain.EntryRepository{
		"memory": func(t *testing.T) domain.EntryRepository {
			return NewMemoryStore(2500)
		},
		"sqlite": func(t *testing.T) domain.EntryRepository {
			store, err := NewSQLiteStore(MemoryDSN, 2500)
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store
		},
	}
}

func item(name string, calories int) domain.FoodItem {
	return domain.FoodItem{Name: name, Amount: "100g", Calories: calories}
}

func TestStore_GetDailyEntry_NotFound(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			entry, err := store.GetDailyEntry(context.Background(), "2024-05-01")

			assert.Nil(t, entry)
			assert.ErrorIs(t, err, domain.ErrEntryNotFound)
		})
	}
}

func TestStore_AddFoodItem(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			entry, err := store.AddFoodItem(ctx, "2024-05-01", domain.MealBreakfast, item("oatmeal", 150))
			require.NoError(t, err)
			assert.Equal(t, "2024-05-01", entry.Date)
			assert.Equal(t, 2500, entry.Target)
			require.Len(t, entry.Breakfast.Items, 1)
			assert.Equal(t, 1, entry.Breakfast.Items[0].ID)
			assert.Equal(t, "oatmeal", entry.Breakfast.Items[0].Name)
			assert.Empty(t, entry.Lunch.Items)

			entry, err = store.AddFoodItem(ctx, "2024-05-01", domain.MealDinner, item("salmon", 400))
			require.NoError(t, err)
			require.Len(t, entry.Dinner.Items, 1)
			assert.Equal(t, 2, entry.Dinner.Items[0].ID)
			assert.Equal(t, 550, entry.TotalCalories())

			got, err := store.GetDailyEntry(ctx, "2024-05-01")
			require.NoError(t, err)
			assert.Equal(t, entry, got)
		})
	}
}

func TestStore_AddFoodItem_InvalidMealLeavesNoEntry(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			entry, err := store.AddFoodItem(ctx, "2024-05-01", domain.MealType("brunch"), item("toast", 120))
			assert.Nil(t, entry)
			assert.ErrorIs(t, err, domain.ErrInvalidMealType)

			_, err = store.GetDailyEntry(ctx, "2024-05-01")
			assert.ErrorIs(t, err, domain.ErrEntryNotFound)

			entries, err := store.ListEntries(ctx)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestStore_IDsAreMonotonicAcrossDates(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			a, _ := store.AddFoodItem(ctx, "2024-05-01", domain.MealLunch, item("apple", 52))
			removed, _ := store.RemoveFoodItem(ctx, "2024-05-01", domain.MealLunch, a.Lunch.Items[0].ID)
			assert.Empty(t, removed.Lunch.Items)

			b, _ := store.AddFoodItem(ctx, "2024-05-02", domain.MealLunch, item("banana", 89))

			assert.Greater(t, b.Lunch.Items[0].ID, a.Lunch.Items[0].ID, "ids must never be reused")
		})
	}
}

func TestStore_RemoveFoodItem(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			store.AddFoodItem(ctx, "2024-05-01", domain.MealSnacks, item("almonds", 170))
			entry, _ := store.AddFoodItem(ctx, "2024-05-01", domain.MealSnacks, item("chocolate", 210))
			keepID := entry.Snacks.Items[0].ID
			dropID := entry.Snacks.Items[1].ID

			entry, err := store.RemoveFoodItem(ctx, "2024-05-01", domain.MealSnacks, dropID)
			require.NoError(t, err)
			require.Len(t, entry.Snacks.Items, 1)
			assert.Equal(t, keepID, entry.Snacks.Items[0].ID)

			// unknown id and wrong meal are no-ops
			entry, err = store.RemoveFoodItem(ctx, "2024-05-01", domain.MealDinner, keepID)
			require.NoError(t, err)
			assert.Len(t, entry.Snacks.Items, 1)
		})
	}
}

func TestStore_RemoveFoodItem_UnknownDate(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			_, err := store.RemoveFoodItem(context.Background(), "1999-01-01", domain.MealLunch, 1)

			assert.ErrorIs(t, err, domain.ErrEntryNotFound)
		})
	}
}

func TestStore_ListEntries_SortedByDate(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			list, err := store.ListEntries(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			store.AddFoodItem(ctx, "2024-05-03", domain.MealLunch, item("pasta", 300))
			store.AddFoodItem(ctx, "2024-05-01", domain.MealLunch, item("pizza", 500))
			store.AddFoodItem(ctx, "2024-05-02", domain.MealOthers, item("tea", 5))

			list, err = store.ListEntries(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "2024-05-01", list[0].Date)
			assert.Equal(t, "2024-05-02", list[1].Date)
			assert.Equal(t, "2024-05-03", list[2].Date)
			assert.Equal(t, 5, list[1].Others.Items[0].Calories)
		})
	}
}

func TestStore_DailyTarget(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			target, err := store.GetDailyTarget(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2500, target)

			store.AddFoodItem(ctx, "2024-05-01", domain.MealLunch, item("bread", 265))

			require.NoError(t, store.SetDailyTarget(ctx, 1800))

			target, _ = store.GetDailyTarget(ctx)
			assert.Equal(t, 1800, target)

			entry, _ := store.GetDailyEntry(ctx, "2024-05-01")
			assert.Equal(t, 1800, entry.Target, "existing entries take the new target")

			entry, _ = store.AddFoodItem(ctx, "2024-05-02", domain.MealLunch, item("bread", 265))
			assert.Equal(t, 1800, entry.Target, "new entries take the new target")
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()

	entry, _ := store.AddFoodItem(ctx, "2024-05-01", domain.MealLunch, item("apple", 52))
	entry.Lunch.Items[0].Calories = 9999
	entry.Target = 1

	got, _ := store.GetDailyEntry(ctx, "2024-05-01")
	assert.Equal(t, 52, got.Lunch.Items[0].Calories)
	assert.Equal(t, domain.DefaultTarget, got.Target)
}
