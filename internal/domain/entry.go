package domain

// MealType buckets food items within a day
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
	MealOthers    MealType = "others"
)

// MealTypes lists every meal type in display order
var MealTypes = []MealType{MealBreakfast, MealLunch, MealSnacks, MealDinner, MealOthers}

// ParseMealType validates a raw meal type
func ParseMealType(s string) (MealType, error) {
	for _, m := range MealTypes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ErrInvalidMealType
}

// DefaultTarget is the daily calorie target before the user sets one
const DefaultTarget = 2500

// FoodItem is a logged food
type FoodItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Calories int    `json:"calories"`
	Notes    string `json:"notes"`
}

// Meal holds the items of one meal type
type Meal struct {
	Items []FoodItem `json:"items"`
}

// DailyEntry is every logged food for one date plus that date's target
type DailyEntry struct {
	Date      string `json:"date"`
	Target    int    `json:"target"`
	Breakfast Meal   `json:"breakfast"`
	Lunch     Meal   `json:"lunch"`
	Snacks    Meal   `json:"snacks"`
	Dinner    Meal   `json:"dinner"`
	Others    Meal   `json:"others"`
}

// NewDailyEntry returns an empty entry with non-nil item slices
func NewDailyEntry(date string, target int) *DailyEntry {
	return &DailyEntry{
		Date:      date,
		Target:    target,
		Breakfast: Meal{Items: []FoodItem{}},
		Lunch:     Meal{Items: []FoodItem{}},
		Snacks:    Meal{Items: []FoodItem{}},
		Dinner:    Meal{Items: []FoodItem{}},
		Others:    Meal{Items: []FoodItem{}},
	}
}

// Meal returns a pointer to the meal bucket for m, or nil for unknown types
func (e *DailyEntry) Meal(m MealType) *Meal {
	switch m {
	case MealBreakfast:
		return &e.Breakfast
	case MealLunch:
		return &e.Lunch
	case MealSnacks:
		return &e.Snacks
	case MealDinner:
		return &e.Dinner
	case MealOthers:
		return &e.Others
	}
	return nil
}

// MealCalories sums the calories of one meal
func (e *DailyEntry) MealCalories(m MealType) int {
	meal := e.Meal(m)
	if meal == nil {
		return 0
	}
	total := 0
	for _, item := range meal.Items {
		total += item.Calories
	}
	return total
}

// TotalCalories sums calories across all meals
func (e *DailyEntry) TotalCalories() int {
	total := 0
	for _, m := range MealTypes {
		total += e.MealCalories(m)
	}
	return total
}

// Clone returns a deep copy so callers cannot mutate stored state
func (e *DailyEntry) Clone() *DailyEntry {
	c := *e
	for _, m := range MealTypes {
		src := e.Meal(m)
		dst := c.Meal(m)
		dst.Items = append(make([]FoodItem, 0, len(src.Items)), src.Items...)
	}
	return &c
}

// ReportPoint is the calorie total of one day in a report
type ReportPoint struct {
	Date     string `json:"date"`
	Label    string `json:"label"`
	Calories int    `json:"calories"`
	Target   int    `json:"target"`
}

// MealAverage is the average calories of one meal type over a window
type MealAverage struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
}
