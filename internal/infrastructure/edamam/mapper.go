package edamam

import (
	"math"

	"github.com/caltrack/backend/internal/domain"
)

// MaxCandidates is how many ranked hits are kept
const MaxCandidates = 3

// referenceWeight is the gram weight candidates are normalized to
const referenceWeight = 100

// MapToCandidates converts the top hits of a search response into candidates,
// preserving the API's ranking
func MapToCandidates(resp *domain.EdamamSearchResponse, limit int) []domain.NutritionCandidate {
	if limit <= 0 {
		limit = MaxCandidates
	}
	candidates := make([]domain.NutritionCandidate, 0, limit)
	if resp == nil {
		return candidates
	}
	for i, hit := range resp.Hits {
		if i == limit {
			break
		}
		candidates = append(candidates, MapRecipe(&hit.Recipe))
	}
	return candidates
}

// MapRecipe normalizes recipe totals to per-100g values. Recipe data is only
// approximate for a single ingredient, hence medium confidence.
func MapRecipe(recipe *domain.EdamamRecipe) domain.NutritionCandidate {
	n := recipe.TotalNutrients
	w := recipe.TotalWeight

	candidate := domain.NutritionCandidate{
		Name:                recipe.Label,
		Calories:            perReferenceCalories(recipe.Calories, w),
		ServingSize:         "100g",
		ServingWeight:       referenceWeight,
		ProteinG:            perReferenceMacro(n.Protein, w),
		CarbohydratesTotalG: perReferenceMacro(n.Carbs, w),
		FatTotalG:           perReferenceMacro(n.Fat, w),
		CalorieSource:       domain.SourceEdamam,
		Confidence:          domain.ConfidenceMedium,
		Image:               recipe.Image,
	}

	if fiber := perReferenceMacro(n.Fiber, w); fiber > 0 {
		candidate.FiberG = &fiber
	}

	return candidate
}

func perReference(total, weight float64) float64 {
	return total / weight * referenceWeight
}

func perReferenceCalories(total, weight float64) int {
	return domain.RoundCalories(perReference(total, weight))
}

// perReferenceMacro returns 0 for absent nutrients or unusable weights
func perReferenceMacro(nutrient *domain.EdamamNutrient, weight float64) float64 {
	if nutrient == nil {
		return 0
	}
	v := perReference(nutrient.Quantity, weight)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Round(v*10) / 10
}
