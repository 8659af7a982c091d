package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NutritionAPIClient defines the interface for the external recipe nutrition API
type NutritionAPIClient interface {
	SearchRecipes(ctx context.Context, query string) (*EdamamSearchResponse, error)
}

// EntryRepository stores daily entries keyed by date
type EntryRepository interface {
	GetDailyEntry(ctx context.Context, date string) (*DailyEntry, error)
	ListEntries(ctx context.Context) ([]DailyEntry, error)
	AddFoodItem(ctx context.Context, date string, meal MealType, item FoodItem) (*DailyEntry, error)
	RemoveFoodItem(ctx context.Context, date string, meal MealType, foodID int) (*DailyEntry, error)
	GetDailyTarget(ctx context.Context) (int, error)
	SetDailyTarget(ctx context.Context, target int) error
}
