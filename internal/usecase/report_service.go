package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/caltrack/backend/internal/domain"
)

// breakdownDays is the window used for per-meal averages
const breakdownDays = 7

// ReportService summarizes logged calories over date ranges
type ReportService struct {
	repo domain.EntryRepository
}

// NewReportService creates a report service over repo
func NewReportService(repo domain.EntryRepository) *ReportService {
	return &ReportService{repo: repo}
}

// Weekly returns one point per day from the start of today's week (Sunday)
// through today
func (s *ReportService) Weekly(ctx context.Context, today time.Time) ([]domain.ReportPoint, error) {
	today = truncateDay(today)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return s.series(ctx, start, today, "Mon")
}

// Monthly returns one point per day from the first of today's month through today
func (s *ReportService) Monthly(ctx context.Context, today time.Time) ([]domain.ReportPoint, error) {
	today = truncateDay(today)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return s.series(ctx, start, today, "02")
}

// MealBreakdown averages each meal's calories over the last seven days,
// counting only days that have an entry
func (s *ReportService) MealBreakdown(ctx context.Context, today time.Time) ([]domain.MealAverage, error) {
	entries, err := s.entriesByDate(ctx)
	if err != nil {
		return nil, err
	}

	today = truncateDay(today)
	totals := make(map[domain.MealType]int, len(domain.MealTypes))
	days := 0
	for d := today.AddDate(0, 0, -(breakdownDays - 1)); !d.After(today); d = d.AddDate(0, 0, 1) {
		entry, ok := entries[d.Format(DateLayout)]
		if !ok {
			continue
		}
		days++
		for _, m := range domain.MealTypes {
			totals[m] += entry.MealCalories(m)
		}
	}

	averages := make([]domain.MealAverage, 0, len(domain.MealTypes))
	if days == 0 {
		return averages, nil
	}
	for _, m := range domain.MealTypes {
		averages = append(averages, domain.MealAverage{
			Name:     mealLabel(m),
			Calories: int(math.Round(float64(totals[m]) / float64(days))),
		})
	}
	return averages, nil
}

func (s *ReportService) series(ctx context.Context, start, end time.Time, labelLayout string) ([]domain.ReportPoint, error) {
	entries, err := s.entriesByDate(ctx)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.GetDailyTarget(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]domain.ReportPoint, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(DateLayout)
		point := domain.ReportPoint{Date: key, Label: d.Format(labelLayout), Target: target}
		if entry, ok := entries[key]; ok {
			point.Calories = entry.TotalCalories()
			point.Target = entry.Target
		}
		points = append(points, point)
	}
	return points, nil
}

func (s *ReportService) entriesByDate(ctx context.Context) (map[string]*domain.DailyEntry, error) {
	list, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]*domain.DailyEntry, len(list))
	for i := range list {
		byDate[list[i].Date] = &list[i]
	}
	return byDate, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func mealLabel(m domain.MealType) string {
	s := string(m)
	return strings.ToUpper(s[:1]) + s[1:]
}
