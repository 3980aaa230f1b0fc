package plan

import (
	"strings"
	"time"
)

// MealPlan is a multi-day sequence of meals with attached metadata.
// The ID is assigned once at creation and never changes.
type MealPlan struct {
	ID           string    `json:"id"`
	GeneratedAt  time.Time `json:"date_generated"`
	WeekStarting time.Time `json:"week_starting"`
	Days         []DayPlan `json:"days"`
}

// DayPlan is the canonical per-day shape. Generation backends produce two
// variants of this (rich per-day detail vs. bare day/meal/description); both
// decode into this one type, with the extra fields simply left empty.
type DayPlan struct {
	Day                     string       `json:"day"`
	Meal                    string       `json:"meal"`
	Description             string       `json:"description"`
	IsRemixed               bool         `json:"is_remixed"`
	ContainsOilyFish        bool         `json:"contains_oily_fish"`
	Ingredients             []Ingredient `json:"ingredients,omitempty"`
	PreparationInstructions []string     `json:"preparation_instructions,omitempty"`
	Recipe                  *Recipe      `json:"recipe,omitempty"`
}

// Recipe holds a standalone recipe attached to a day after generation.
type Recipe struct {
	Name         string       `json:"name"`
	CookingTime  int          `json:"cooking_time"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Source       string       `json:"source"`
	URL          string       `json:"url,omitempty"`
}

// AllIngredients collects every ingredient entry across the plan's days.
// A day's attached recipe takes precedence over the day-level list, since
// the orchestrator copies day ingredients into the recipe when it builds one.
func (p *MealPlan) AllIngredients() []Ingredient {
	var out []Ingredient
	for _, d := range p.Days {
		if d.Recipe != nil && len(d.Recipe.Ingredients) > 0 {
			out = append(out, d.Recipe.Ingredients...)
			continue
		}
		out = append(out, d.Ingredients...)
	}
	return out
}

// OilyFish is the fixed set of oily fish tracked for the weekly
// nutritional goal.
var OilyFish = []string{
	"salmon", "mackerel", "sardines", "trout", "herring", "tuna",
	"anchovies", "pilchards",
}

// ContainsOilyFish reports whether the text mentions any known oily fish.
func ContainsOilyFish(text string) bool {
	lower := strings.ToLower(text)
	for _, fish := range OilyFish {
		if strings.Contains(lower, fish) {
			return true
		}
	}
	return false
}
