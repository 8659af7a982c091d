package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/caltrack/backend/internal/domain"
)

var (
	// "100g", "2 cups", "1.5 oz", "3"
	numericAmountPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]+)?$`)

	// "medium apple", "Large egg"
	sizedAmountPattern = regexp.MustCompile(`(?i)^(small|medium|large)\s+(.+)$`)

	parenthesesPattern = regexp.MustCompile(`[()]`)
)

// sizeMultipliers approximate a sized item relative to a medium one
var sizeMultipliers = map[string]float64{
	"small":  0.7,
	"medium": 1,
	"large":  1.3,
}

// DefaultUnit is used when a numeric amount carries no unit
const DefaultUnit = "serving"

// ParseAmount turns a free-text amount into a value and unit.
// It returns false when the text matches neither the numeric nor the sized form.
// Zero values are not rejected; callers validate.
func ParseAmount(text string) (domain.Amount, bool) {
	text = strings.TrimSpace(parenthesesPattern.ReplaceAllString(text, ""))
	if text == "" {
		return domain.Amount{}, false
	}

	if m := numericAmountPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return domain.Amount{}, false
		}
		unit := strings.ToLower(m[2])
		if unit == "" {
			unit = DefaultUnit
		}
		return domain.Amount{Value: value, Unit: unit}, true
	}

	if m := sizedAmountPattern.FindStringSubmatch(text); m != nil {
		return domain.Amount{
			Value: sizeMultipliers[strings.ToLower(m[1])],
			Unit:  m[2],
		}, true
	}

	return domain.Amount{}, false
}
