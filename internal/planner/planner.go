// Package planner orchestrates meal plan generation: it asks the
// generation backend for a structured plan, attaches recipes, and falls
// back to a deterministic local remix of liked foods when the backend
// yields nothing usable. Plan generation never hard-fails.
package planner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"family-meal-planner/internal/llm"
	"family-meal-planner/internal/plan"
	"family-meal-planner/internal/shopping"
	"family-meal-planner/internal/store"
)

//go:embed plan_system_prompt.md
var planSystemPrompt string

//go:embed plan_prompt.md
var planUserPrompt string

// Weekend meals requested on top of the configured weekday count.
const extraWeekendMeals = 2

// Planner generates weekly meal plans for a household.
type Planner struct {
	textGen llm.TextGenerator
	prefs   *store.Store
	shopper *shopping.Generator
	logger  *zap.Logger

	rng *rand.Rand
	now func() time.Time
}

// NewPlanner creates a planner. textGen may be nil, in which case every
// plan comes from the local fallback.
func NewPlanner(textGen llm.TextGenerator, prefs *store.Store, shopper *shopping.Generator, logger *zap.Logger) *Planner {
	return &Planner{
		textGen: textGen,
		prefs:   prefs,
		shopper: shopper,
		logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
}

// Generate produces a new meal plan, appends it to history and caches its
// shopping list. Backend failures degrade to the local fallback; history
// and cache failures are logged but never fail the plan.
func (p *Planner) Generate(ctx context.Context) (*plan.MealPlan, error) {
	liked := p.prefs.LikedFoods()
	disliked := p.prefs.DislikedFoods()
	recent := recentMeals(p.prefs.RecentPlans(2))
	mealCount := p.prefs.MealCount()
	family := p.prefs.FamilyInfo()

	days, err := p.generateWithBackend(ctx, liked, disliked, recent, mealCount, family)
	if err != nil {
		p.logger.Info("backend plan generation failed, using local fallback", zap.Error(err))
		days = p.generateFallback(liked, recent, mealCount)
	}

	now := p.now()
	mp := &plan.MealPlan{
		ID:           uuid.NewString(),
		GeneratedAt:  now,
		WeekStarting: nextMonday(now),
		Days:         days,
	}

	if err := p.prefs.AppendPlan(*mp); err != nil {
		p.logger.Warn("failed to record plan in history", zap.String("plan_id", mp.ID), zap.Error(err))
	}

	items := p.shopper.Generate(ctx, mp)
	if err := p.prefs.StoreCachedShoppingList(mp.ID, items); err != nil {
		p.logger.Warn("failed to cache shopping list", zap.String("plan_id", mp.ID), zap.Error(err))
	} else {
		p.logger.Info("shopping list cached", zap.String("plan_id", mp.ID), zap.Int("items", len(items)))
	}

	return mp, nil
}

// ShoppingList returns the cached list for a plan, generating and caching
// it on first access. An unknown plan ID yields an empty list.
func (p *Planner) ShoppingList(ctx context.Context, planID string) []shopping.Item {
	if items, ok := p.prefs.CachedShoppingList(planID); ok {
		return items
	}

	for _, mp := range p.prefs.RecentPlans(0) {
		if mp.ID != planID {
			continue
		}
		items := p.shopper.Generate(ctx, &mp)
		if err := p.prefs.StoreCachedShoppingList(planID, items); err != nil {
			p.logger.Warn("failed to cache shopping list", zap.String("plan_id", planID), zap.Error(err))
		}
		return items
	}
	return nil
}

type planPromptData struct {
	Members      int
	ChildrenText string
	MealCount    int
	TotalMeals   int
	LikedFoods   string
	DislikedFood string
	RecentMeals  string
}

type rawPlanResult struct {
	Days []plan.DayPlan `json:"days"`
}

func (p *Planner) generateWithBackend(ctx context.Context, liked, disliked, recent []string, mealCount int, family store.FamilyInfo) ([]plan.DayPlan, error) {
	if p.textGen == nil {
		return nil, llm.ErrUnavailable
	}

	data := planPromptData{
		Members:      family.Members,
		ChildrenText: childrenText(family.ChildrenAges),
		MealCount:    mealCount,
		TotalMeals:   mealCount + extraWeekendMeals,
		LikedFoods:   strings.Join(liked, ", "),
		DislikedFood: strings.Join(disliked, ", "),
		RecentMeals:  strings.Join(recent, ", "),
	}
	system, err := renderPrompt("plan_system", planSystemPrompt, data)
	if err != nil {
		return nil, err
	}
	user, err := renderPrompt("plan_user", planUserPrompt, data)
	if err != nil {
		return nil, err
	}

	rawJSON, err := llm.CompleteStructured(ctx, p.textGen, system, user, llm.DefaultOptions())
	if err != nil {
		return nil, err
	}

	var raw rawPlanResult
	if err := json.Unmarshal(rawJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse plan response: %w", err)
	}
	if len(raw.Days) == 0 {
		return nil, fmt.Errorf("backend returned a plan with no days")
	}

	days := normalizeDayLabels(raw.Days)
	p.attachRecipes(ctx, days)
	return days, nil
}

// normalizeDayLabels guarantees every day carries a unique label even when
// the backend omits or repeats them.
func normalizeDayLabels(days []plan.DayPlan) []plan.DayPlan {
	seen := make(map[string]bool, len(days))
	for i := range days {
		label := strings.TrimSpace(days[i].Day)
		if label == "" || seen[label] {
			label = fmt.Sprintf("Day %d", i+1)
		}
		days[i].Day = label
		seen[label] = true
	}
	return days
}

// attachRecipes gives every day a standalone recipe. Days that already
// carry preparation instructions keep them as-is, avoiding a second
// backend round trip.
func (p *Planner) attachRecipes(ctx context.Context, days []plan.DayPlan) {
	for i := range days {
		day := &days[i]
		if day.Recipe != nil {
			continue
		}
		if len(day.PreparationInstructions) > 0 {
			day.Recipe = &plan.Recipe{
				Name:         day.Meal,
				CookingTime:  30,
				Ingredients:  day.Ingredients,
				Instructions: day.PreparationInstructions,
				Source:       "AI Generated",
			}
			continue
		}
		day.Recipe = p.fetchRecipe(ctx, day.Meal)
	}
}

// generateFallback builds a plan locally from the liked-foods list. Meals
// used in recent plans are avoided when possible, and at least one day is
// guaranteed to involve fish when the preferences allow it.
func (p *Planner) generateFallback(liked, recent []string, mealCount int) []plan.DayPlan {
	available := excludeAll(liked, recent)
	if len(available) == 0 {
		available = liked
	}
	if len(available) == 0 {
		available = []string{"Chef's choice dinner"}
	}

	selected := p.sample(available, mealCount)

	if !containsFishMeal(selected) {
		var fishOptions []string
		for _, meal := range liked {
			if isFishMeal(meal) {
				fishOptions = append(fishOptions, meal)
			}
		}
		if len(fishOptions) > 0 {
			selected[p.rng.Intn(len(selected))] = fishOptions[p.rng.Intn(len(fishOptions))]
		}
	}

	days := make([]plan.DayPlan, 0, len(selected))
	for i, base := range selected {
		name, description := p.remixMeal(base, liked)
		days = append(days, plan.DayPlan{
			Day:              fmt.Sprintf("Day %d", i+1),
			Meal:             name,
			Description:      description,
			ContainsOilyFish: isFishMeal(base),
			Recipe:           fallbackRecipe(p.rng, name),
		})
	}
	return days
}

// sample picks up to n distinct entries in random order.
func (p *Planner) sample(options []string, n int) []string {
	if n > len(options) {
		n = len(options)
	}
	perm := p.rng.Perm(len(options))
	selected := make([]string, n)
	for i := 0; i < n; i++ {
		selected[i] = options[perm[i]]
	}
	return selected
}

// isFishMeal treats both the literal "fish" keyword and any known oily
// fish species as fish content.
func isFishMeal(name string) bool {
	return strings.Contains(strings.ToLower(name), "fish") || plan.ContainsOilyFish(name)
}

func containsFishMeal(meals []string) bool {
	for _, m := range meals {
		if isFishMeal(m) {
			return true
		}
	}
	return false
}

func excludeAll(items, excluded []string) []string {
	var out []string
	for _, item := range items {
		skip := false
		for _, e := range excluded {
			if item == e {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, item)
		}
	}
	return out
}

// recentMeals flattens the meal names of the given plans.
func recentMeals(plans []plan.MealPlan) []string {
	var meals []string
	for _, mp := range plans {
		for _, day := range mp.Days {
			meals = append(meals, day.Meal)
		}
	}
	return meals
}

func childrenText(ages []int) string {
	if len(ages) == 0 {
		return ""
	}
	noun := "children"
	if len(ages) == 1 {
		noun = "child"
	}
	parts := make([]string, len(ages))
	for i, a := range ages {
		parts[i] = fmt.Sprintf("%d", a)
	}
	return fmt.Sprintf("with %d %s aged %s", len(ages), noun, strings.Join(parts, ", "))
}

// nextMonday returns the first Monday strictly after t.
func nextMonday(t time.Time) time.Time {
	daysUntil := 7 - (int(t.Weekday())+6)%7
	return t.AddDate(0, 0, daysUntil)
}

func renderPrompt(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", name, err)
	}
	return buf.String(), nil
}
