package usecase

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed reliable_foods.yaml
var reliableFoodsYAML []byte

// ReliableFood maps a food-name pattern to calories per 100 g
type ReliableFood struct {
	Pattern  string `yaml:"pattern"`
	Calories int    `yaml:"calories"`
	Group    string `yaml:"group"`
}

// ReliableFoodTable is an ordered list of patterns. Lookup is first match wins.
type ReliableFoodTable []ReliableFood

// reliableFoods is loaded once and never mutated
var reliableFoods = mustLoadReliableFoods(reliableFoodsYAML)

// ReliableFoods returns the process-wide reference table
func ReliableFoods() ReliableFoodTable {
	return reliableFoods
}

// LoadReliableFoods parses a YAML list of patterns
func LoadReliableFoods(data []byte) (ReliableFoodTable, error) {
	var table ReliableFoodTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse reliable food table: %w", err)
	}
	for i, f := range table {
		if strings.TrimSpace(f.Pattern) == "" {
			return nil, fmt.Errorf("reliable food %d: empty pattern", i)
		}
		if f.Calories < 0 {
			return nil, fmt.Errorf("reliable food %q: negative calories", f.Pattern)
		}
		table[i].Pattern = strings.ToLower(strings.TrimSpace(f.Pattern))
	}
	return table, nil
}

func mustLoadReliableFoods(data []byte) ReliableFoodTable {
	table, err := LoadReliableFoods(data)
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the first entry whose pattern is contained in name
func (t ReliableFoodTable) Lookup(name string) (ReliableFood, bool) {
	name = strings.ToLower(name)
	for _, f := range t {
		if strings.Contains(name, f.Pattern) {
			return f, true
		}
	}
	return ReliableFood{}, false
}
