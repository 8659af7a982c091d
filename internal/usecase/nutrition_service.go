package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/caltrack/backend/internal/domain"
	"github.com/caltrack/backend/internal/infrastructure/edamam"
)

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	CacheTTL           time.Duration
	MaxCandidates      int
	EnableDebugLogging bool
}

// NutritionService resolves a typed food name and amount into ranked
// nutrition candidates. It is safe for concurrent use.
type NutritionService struct {
	cache         domain.CacheRepository
	client        domain.NutritionAPIClient
	preprocessor  *QueryPreprocessor
	converter     *UnitConverter
	foods         ReliableFoodTable
	logger        *zap.Logger
	inflight      singleflight.Group
	cacheTTL      time.Duration
	maxCandidates int
}

// NewNutritionService creates a new nutrition service with dependencies.
// cache may be nil to disable result caching.
func NewNutritionService(
	cache domain.CacheRepository,
	client domain.NutritionAPIClient,
	logger *zap.Logger,
	config NutritionServiceConfig,
) *NutritionService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = edamam.MaxCandidates
	}

	return &NutritionService{
		cache:         cache,
		client:        client,
		preprocessor:  NewQueryPreprocessor(logger, config.EnableDebugLogging),
		converter:     NewUnitConverter(logger),
		foods:         ReliableFoods(),
		logger:        logger,
		cacheTTL:      cacheTTL,
		maxCandidates: maxCandidates,
	}
}

// Search looks up nutrition candidates for a food.
// Flow: build search text -> strip quantity -> cache / nutrition API ->
// reliable food table when the API has nothing -> empty list.
//
// Errors from a reachable API (bad status, network, malformed payload) are
// returned as is. Missing API credentials are not an error: the result is
// marked unavailable and served from the reliable food table.
func (s *NutritionService) Search(ctx context.Context, query, amount string) (*domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cleaned := s.preprocessor.CleanQuery(BuildSearchText(query, amount))
	result := &domain.SearchResult{Status: domain.StatusResolved}

	candidates, err := s.lookupExternal(ctx, cleaned)
	switch {
	case errors.Is(err, domain.ErrNutritionAPIUnavailable):
		s.logger.Warn("nutrition API unavailable, using reliable food table",
			zap.String("query", query),
			zap.Error(err))
		result.Status = domain.StatusUnavailable
		result.Reason = err.Error()
	case err != nil:
		s.logger.Error("nutrition API lookup failed",
			zap.String("query", cleaned),
			zap.Error(err))
		return nil, err
	}

	if len(candidates) > 0 {
		result.Candidates = candidates
		return result, nil
	}

	result.Candidates = s.lookupReliable(query, amount)
	return result, nil
}

// EstimateCandidate builds a candidate for a food whose macros are known
func (s *NutritionService) EstimateCandidate(input domain.MacroInput) domain.NutritionCandidate {
	calories, source := estimateCalories(s.foods, input)

	candidate := domain.NutritionCandidate{
		Name:                input.Name,
		Calories:            calories,
		ServingSize:         "100g",
		ServingWeight:       100,
		ProteinG:            finiteOrZero(input.ProteinG),
		CarbohydratesTotalG: finiteOrZero(input.CarbohydratesTotalG),
		FatTotalG:           finiteOrZero(input.FatTotalG),
		CalorieSource:       source,
		Confidence:          domain.ConfidenceLow,
	}
	if source == domain.SourceReliableDatabase {
		candidate.Confidence = domain.ConfidenceMedium
	}
	return candidate
}

// lookupExternal consults the cache, then the API. Concurrent identical
// queries share a single upstream call. Queries without a usable key skip
// both the cache and call sharing.
func (s *NutritionService) lookupExternal(ctx context.Context, cleaned string) ([]domain.NutritionCandidate, error) {
	key, ok := s.preprocessor.CacheKey(cleaned)
	if !ok {
		return s.fetchCandidates(ctx, cleaned)
	}

	if cached, ok := s.getFromCache(ctx, key); ok {
		return cached, nil
	}

	v, err, shared := s.inflight.Do(key, func() (interface{}, error) {
		candidates, err := s.fetchCandidates(ctx, cleaned)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			s.setInCache(ctx, key, candidates)
		}
		return candidates, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("shared in-flight nutrition lookup", zap.String("query", cleaned))
	}

	// Each caller gets its own slice.
	candidates := v.([]domain.NutritionCandidate)
	return append([]domain.NutritionCandidate(nil), candidates...), nil
}

func (s *NutritionService) fetchCandidates(ctx context.Context, cleaned string) ([]domain.NutritionCandidate, error) {
	resp, err := s.client.SearchRecipes(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	return edamam.MapToCandidates(resp, s.maxCandidates), nil
}

// lookupReliable answers from the reference table. Only gram amounts rescale
// the per-100g value; anything else keeps the 100g reference serving.
func (s *NutritionService) lookupReliable(query, amount string) []domain.NutritionCandidate {
	food, ok := s.foods.Lookup(query)
	if !ok {
		return []domain.NutritionCandidate{}
	}
	s.logger.Debug("reliable food table hit",
		zap.String("query", query),
		zap.String("pattern", food.Pattern),
		zap.String("group", food.Group))

	calories := food.Calories
	servingSize := "100g"
	servingWeight := 100.0

	if amount != "" {
		if a, ok := ParseAmount(amount); ok && a.Unit == "g" && a.Value != 100 {
			reference := domain.Amount{Value: 100, Unit: "g"}
			calories = s.converter.AdjustCaloriesForAmount(float64(food.Calories), reference, a)
			servingSize = formatQuantity(a.Value) + "g"
			servingWeight = a.Value
		}
	}

	return []domain.NutritionCandidate{{
		Name:          food.Pattern,
		Calories:      calories,
		ServingSize:   servingSize,
		ServingWeight: servingWeight,
		CalorieSource: domain.SourceReliableDatabase,
		Confidence:    domain.ConfidenceMedium,
	}}
}

// getFromCache returns cached candidates; any cache failure is a miss
func (s *NutritionService) getFromCache(ctx context.Context, key string) ([]domain.NutritionCandidate, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var candidates []domain.NutritionCandidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		s.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	return candidates, true
}

// setInCache stores candidates; failures are logged and otherwise ignored
func (s *NutritionService) setInCache(ctx context.Context, key string, candidates []domain.NutritionCandidate) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(candidates)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	if err != nil {
		s.logger.Warn("failed to cache nutrition candidates", zap.String("key", key), zap.Error(err))
	}
}

// formatQuantity prints 150 as "150" and 1.5 as "1.5"
func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

