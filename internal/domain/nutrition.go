package domain

import "math"

// CalorieSource tags where a calorie figure came from
type CalorieSource string

const (
	SourceEdamam           CalorieSource = "edamam"
	SourceReliableDatabase CalorieSource = "reliable_database"
	SourceEstimated        CalorieSource = "estimated"
)

// Confidence is a coarse reliability tag for an estimate
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DefaultCalories is substituted whenever an estimate cannot be computed
const DefaultCalories = 100

// MaxCalories is the largest calorie figure reported; anything above it is
// treated as unusable
const MaxCalories = math.MaxInt32

// RoundCalories rounds half away from zero. NaN, infinite, negative and
// out-of-range values become DefaultCalories.
func RoundCalories(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > MaxCalories {
		return DefaultCalories
	}
	return int(math.Round(v))
}

// Amount is a parsed free-text quantity such as "100g" or "medium apple"
type Amount struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// NutritionCandidate is one possible nutrition record for a searched food
type NutritionCandidate struct {
	Name                string        `json:"name"`
	Calories            int           `json:"calories"`
	ServingSize         string        `json:"servingSize"`
	ServingWeight       float64       `json:"servingWeight"`
	ProteinG            float64       `json:"protein_g"`
	CarbohydratesTotalG float64       `json:"carbohydrates_total_g"`
	FatTotalG           float64       `json:"fat_total_g"`
	FiberG              *float64      `json:"fiber_g,omitempty"`
	CalorieSource       CalorieSource `json:"calorieSource"`
	Confidence          Confidence    `json:"confidence"`
	Image               string        `json:"image,omitempty"`
}

// MacroInput carries known macronutrients for calorie estimation
type MacroInput struct {
	Name                string  `json:"name"`
	ProteinG            float64 `json:"protein_g"`
	CarbohydratesTotalG float64 `json:"carbohydrates_total_g"`
	FatTotalG           float64 `json:"fat_total_g"`
}

// SearchStatus reports whether the external API took part in a search
type SearchStatus string

const (
	StatusResolved    SearchStatus = "resolved"
	StatusUnavailable SearchStatus = "unavailable"
)

// SearchResult is the outcome of a nutrition search. When Status is
// StatusUnavailable the candidates come from local data only and Reason says why.
type SearchResult struct {
	Candidates []NutritionCandidate `json:"candidates"`
	Status     SearchStatus         `json:"status"`
	Reason     string               `json:"reason,omitempty"`
}

// EdamamNutrient is a single nutrient total in an Edamam recipe
type EdamamNutrient struct {
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// EdamamNutrients holds the nutrient totals we read from a recipe
type EdamamNutrients struct {
	Energy  *EdamamNutrient `json:"ENERC_KCAL,omitempty"`
	Protein *EdamamNutrient `json:"PROCNT,omitempty"`
	Fat     *EdamamNutrient `json:"FAT,omitempty"`
	Carbs   *EdamamNutrient `json:"CHOCDF,omitempty"`
	Fiber   *EdamamNutrient `json:"FIBTG,omitempty"`
}

// EdamamRecipe is a recipe from the Edamam Recipe Search API. All nutrient
// quantities are totals for TotalWeight grams.
type EdamamRecipe struct {
	URI            string          `json:"uri"`
	Label          string          `json:"label"`
	Image          string          `json:"image"`
	Source         string          `json:"source"`
	URL            string          `json:"url"`
	Yield          float64         `json:"yield"`
	Calories       float64         `json:"calories"`
	TotalWeight    float64         `json:"totalWeight"`
	TotalNutrients EdamamNutrients `json:"totalNutrients"`
}

// EdamamHit wraps a recipe in the search response
type EdamamHit struct {
	Recipe EdamamRecipe `json:"recipe"`
}

// EdamamSearchResponse represents the response from the Edamam recipe search
type EdamamSearchResponse struct {
	From  int         `json:"from"`
	To    int         `json:"to"`
	Count int         `json:"count"`
	Hits  []EdamamHit `json:"hits"`
}
