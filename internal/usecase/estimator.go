package usecase

import (
	"math"

	"github.com/caltrack/backend/internal/domain"
)

// Energy per gram of each macronutrient
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// CalculateEstimatedCalories estimates calories for a food whose macros are
// known. The reference table is consulted first; otherwise calories are derived
// from the macros. It never fails: unusable results become domain.DefaultCalories.
func CalculateEstimatedCalories(input domain.MacroInput) int {
	calories, _ := estimateCalories(ReliableFoods(), input)
	return calories
}

func estimateCalories(foods ReliableFoodTable, input domain.MacroInput) (int, domain.CalorieSource) {
	if food, ok := foods.Lookup(input.Name); ok {
		return food.Calories, domain.SourceReliableDatabase
	}

	total := finiteOrZero(input.ProteinG)*kcalPerGramProtein +
		finiteOrZero(input.CarbohydratesTotalG)*kcalPerGramCarbs +
		finiteOrZero(input.FatTotalG)*kcalPerGramFat

	if total == 0 {
		return domain.DefaultCalories, domain.SourceEstimated
	}
	return domain.RoundCalories(total), domain.SourceEstimated
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
