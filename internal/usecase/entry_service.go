package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/caltrack/backend/internal/domain"
)

// DateLayout is the only accepted date format
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FoodItemInput is a food item as submitted by a user. Calories may be left
// at zero when macros are given; they are then estimated.
type FoodItemInput struct {
	Name                string   `json:"name"`
	Amount              string   `json:"amount"`
	Calories            int      `json:"calories"`
	Notes               string   `json:"notes"`
	ProteinG            *float64 `json:"protein_g,omitempty"`
	CarbohydratesTotalG *float64 `json:"carbohydrates_total_g,omitempty"`
	FatTotalG           *float64 `json:"fat_total_g,omitempty"`
}

func (in FoodItemInput) hasMacros() bool {
	return in.ProteinG != nil || in.CarbohydratesTotalG != nil || in.FatTotalG != nil
}

func (in FoodItemInput) macros() domain.MacroInput {
	m := domain.MacroInput{Name: in.Name}
	if in.ProteinG != nil {
		m.ProteinG = *in.ProteinG
	}
	if in.CarbohydratesTotalG != nil {
		m.CarbohydratesTotalG = *in.CarbohydratesTotalG
	}
	if in.FatTotalG != nil {
		m.FatTotalG = *in.FatTotalG
	}
	return m
}

// EntryService validates and records daily food entries
type EntryService struct {
	repo   domain.EntryRepository
	logger *zap.Logger
}

// NewEntryService creates an entry service over repo
func NewEntryService(repo domain.EntryRepository, logger *zap.Logger) *EntryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryService{repo: repo, logger: logger}
}

// ValidateDate checks for a real YYYY-MM-DD calendar date
func ValidateDate(date string) (time.Time, error) {
	if !datePattern.MatchString(date) {
		return time.Time{}, domain.ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}

// ListEntries returns every stored entry ordered by date
func (s *EntryService) ListEntries(ctx context.Context) ([]domain.DailyEntry, error) {
	return s.repo.ListEntries(ctx)
}

// GetEntry returns the entry for date, or an empty one carrying the current
// target when nothing has been logged
func (s *EntryService) GetEntry(ctx context.Context, date string) (*domain.DailyEntry, error) {
	if _, err := ValidateDate(date); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetDailyEntry(ctx, date)
	if errors.Is(err, domain.ErrEntryNotFound) {
		target, err := s.repo.GetDailyTarget(ctx)
		if err != nil {
			return nil, err
		}
		return domain.NewDailyEntry(date, target), nil
	}
	return entry, err
}

// AddFoodItem validates input and appends it to a meal
func (s *EntryService) AddFoodItem(ctx context.Context, date, mealType string, input FoodItemInput) (*domain.DailyEntry, error) {
	if _, err := ValidateDate(date); err != nil {
		return nil, err
	}
	meal, err := domain.ParseMealType(mealType)
	if err != nil {
		return nil, err
	}

	item, err := s.buildFoodItem(input)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.AddFoodItem(ctx, date, meal, item)
	if err != nil {
		return nil, err
	}

	s.logger.Info("food item added",
		zap.String("date", date),
		zap.String("meal", string(meal)),
		zap.String("name", item.Name),
		zap.Int("calories", item.Calories))
	return entry, nil
}

// RemoveFoodItem deletes a food item from a meal
func (s *EntryService) RemoveFoodItem(ctx context.Context, date, mealType string, foodID int) (*domain.DailyEntry, error) {
	if _, err := ValidateDate(date); err != nil {
		return nil, err
	}
	meal, err := domain.ParseMealType(mealType)
	if err != nil {
		return nil, err
	}
	return s.repo.RemoveFoodItem(ctx, date, meal, foodID)
}

// GetTarget returns the current daily calorie target
func (s *EntryService) GetTarget(ctx context.Context) (int, error) {
	return s.repo.GetDailyTarget(ctx)
}

// SetTarget updates the daily target for every stored entry and future ones
func (s *EntryService) SetTarget(ctx context.Context, target int) error {
	if target < 1 {
		return fmt.Errorf("%w: target must be greater than 0", domain.ErrInvalidRequest)
	}
	if err := s.repo.SetDailyTarget(ctx, target); err != nil {
		return err
	}
	s.logger.Info("daily target updated", zap.Int("target", target))
	return nil
}

func (s *EntryService) buildFoodItem(input FoodItemInput) (domain.FoodItem, error) {
	item := domain.FoodItem{
		Name:     strings.TrimSpace(input.Name),
		Amount:   strings.TrimSpace(input.Amount),
		Calories: input.Calories,
		Notes:    input.Notes,
	}

	if item.Name == "" {
		return item, fmt.Errorf("%w: food name is required", domain.ErrInvalidRequest)
	}
	if item.Amount == "" {
		return item, fmt.Errorf("%w: amount is required", domain.ErrInvalidRequest)
	}

	if item.Calories < 1 {
		if !input.hasMacros() {
			return item, fmt.Errorf("%w: calories must be greater than 0", domain.ErrInvalidRequest)
		}
		item.Calories = CalculateEstimatedCalories(input.macros())
		s.logger.Debug("estimated calories from macros",
			zap.String("name", item.Name),
			zap.Int("calories", item.Calories))
	}

	return item, nil
}
