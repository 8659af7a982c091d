package usecase

import (
	"math"

	"go.uber.org/zap"

	"github.com/caltrack/backend/internal/domain"
)

// Conversion is the number of base units in one target unit
type Conversion struct {
	Unit   string
	Factor float64
}

// BaseConversions lists the conversions available from one canonical unit
type BaseConversions struct {
	BaseUnit    string
	Conversions []Conversion
}

// factor returns the conversion factor for unit, if listed
func (b BaseConversions) factor(unit string) (float64, bool) {
	for _, c := range b.Conversions {
		if c.Unit == unit {
			return c.Factor, true
		}
	}
	return 0, false
}

// ConversionTable is searched in order: mass (g) first, then volume (ml).
// The cup factors are averages and depend on the food.
var ConversionTable = []BaseConversions{
	{
		BaseUnit: "g",
		Conversions: []Conversion{
			{Unit: "kg", Factor: 1000},
			{Unit: "oz", Factor: 28.35},
			{Unit: "lb", Factor: 453.592},
			{Unit: "cup", Factor: 128},
		},
	},
	{
		BaseUnit: "ml",
		Conversions: []Conversion{
			{Unit: "l", Factor: 1000},
			{Unit: "cup", Factor: 240},
			{Unit: "tbsp", Factor: 15},
			{Unit: "tsp", Factor: 5},
			{Unit: "oz", Factor: 29.57},
		},
	},
}

// UnitConverter rescales calorie values between amounts
type UnitConverter struct {
	logger *zap.Logger
	table  []BaseConversions
}

// NewUnitConverter creates a converter over ConversionTable
func NewUnitConverter(logger *zap.Logger) *UnitConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitConverter{
		logger: logger,
		table:  ConversionTable,
	}
}

// AdjustCaloriesForAmount scales baseCalories, known for base, to target.
// When no conversion path exists the base calories are returned unchanged.
// A non-positive base value yields domain.DefaultCalories.
func (u *UnitConverter) AdjustCaloriesForAmount(baseCalories float64, base, target domain.Amount) int {
	if base.Value <= 0 || math.IsNaN(base.Value) {
		u.logger.Warn("cannot scale from a non-positive base amount",
			zap.Float64("base_value", base.Value),
			zap.String("base_unit", base.Unit))
		return domain.DefaultCalories
	}

	if base.Unit == target.Unit {
		return roundCalories(baseCalories * (target.Value / base.Value))
	}

	for _, b := range u.table {
		if base.Unit == b.BaseUnit {
			if f, ok := b.factor(target.Unit); ok {
				return roundCalories(baseCalories * (target.Value * f / base.Value))
			}
		} else if target.Unit == b.BaseUnit {
			if f, ok := b.factor(base.Unit); ok {
				return roundCalories(baseCalories * (target.Value / (base.Value * f)))
			}
		}
	}

	u.logger.Warn("could not convert between units",
		zap.String("base_unit", base.Unit),
		zap.String("target_unit", target.Unit))
	return roundCalories(baseCalories)
}

func roundCalories(v float64) int {
	return domain.RoundCalories(v)
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
