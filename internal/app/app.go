// Package app ties the planner, store, cart, clipper and metrics together
// behind the CLI commands.
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"family-meal-planner/internal/cart"
	"family-meal-planner/internal/clipper"
	"family-meal-planner/internal/config"
	"family-meal-planner/internal/metrics"
	"family-meal-planner/internal/plan"
	"family-meal-planner/internal/planner"
	"family-meal-planner/internal/shopping"
	"family-meal-planner/internal/store"
)

// App holds the application's dependencies.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	prefs         *store.Store
	mealPlanner   *planner.Planner
	cartClient    *cart.Client
	recipeClipper *clipper.Clipper
	metricsStore  *metrics.Store
}

// New creates and initializes a new App instance.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	prefs *store.Store,
	mealPlanner *planner.Planner,
	cartClient *cart.Client,
	recipeClipper *clipper.Clipper,
	metricsStore *metrics.Store,
) *App {
	return &App{
		cfg:           cfg,
		logger:        logger,
		prefs:         prefs,
		mealPlanner:   mealPlanner,
		cartClient:    cartClient,
		recipeClipper: recipeClipper,
		metricsStore:  metricsStore,
	}
}

// GeneratePlan generates a new meal plan and prints it.
func (a *App) GeneratePlan(ctx context.Context) error {
	mp, err := a.mealPlanner.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate meal plan: %w", err)
	}

	fmt.Printf("Meal plan %s for week starting %s\n\n", mp.ID, mp.WeekStarting.Format("January 2, 2006"))
	for _, day := range mp.Days {
		marker := " "
		if day.ContainsOilyFish {
			marker = "*"
		}
		fmt.Printf("%s %s: %s\n", marker, day.Day, day.Meal)
		if day.Description != "" {
			fmt.Printf("    %s\n", day.Description)
		}
		if day.Recipe != nil {
			fmt.Printf("    Cooking time: %d minutes\n", day.Recipe.CookingTime)
		}
	}
	fmt.Println("\n* contains oily fish")
	return nil
}

// ShowRecipe prints the full recipe for one day of a stored plan.
func (a *App) ShowRecipe(planID string, dayIndex int) error {
	mp, err := a.findPlan(planID)
	if err != nil {
		return err
	}
	if dayIndex < 1 || dayIndex > len(mp.Days) {
		return fmt.Errorf("plan has %d days, no day %d", len(mp.Days), dayIndex)
	}
	day := mp.Days[dayIndex-1]
	if day.Recipe == nil {
		return fmt.Errorf("no recipe attached for %s", day.Day)
	}
	printRecipe(day.Recipe)
	return nil
}

// ShowShoppingList prints the shopping list for a plan, generating it on
// first access. An empty planID targets the most recent plan.
func (a *App) ShowShoppingList(ctx context.Context, planID string) error {
	mp, err := a.findPlan(planID)
	if err != nil {
		return err
	}

	items := a.mealPlanner.ShoppingList(ctx, mp.ID)
	if len(items) == 0 {
		fmt.Println("The shopping list is empty.")
		return nil
	}

	fmt.Printf("Shopping list for plan %s:\n", mp.ID)
	category := ""
	for _, item := range items {
		if item.Category != category {
			category = item.Category
			fmt.Printf("\n[%s]\n", category)
		}
		fmt.Printf("  %s\n", formatItem(item))
	}
	return nil
}

// AddToCart submits a plan's shopping list to the grocery cart.
func (a *App) AddToCart(ctx context.Context, planID string) error {
	mp, err := a.findPlan(planID)
	if err != nil {
		return err
	}

	items := a.mealPlanner.ShoppingList(ctx, mp.ID)
	result := a.cartClient.AddToCart(items)
	if !result.Success {
		fmt.Println(result.Message)
		return nil
	}

	fmt.Println(result.Message)
	for _, added := range result.ItemsAdded {
		fmt.Printf("  %s -> %s (%.2f)\n", added.Name, added.ProductName, added.Price)
	}
	if len(result.ItemsNotFound) > 0 {
		fmt.Printf("Not found: %s\n", strings.Join(result.ItemsNotFound, ", "))
	}
	fmt.Printf("Total: %.2f\nCart: %s\n", result.TotalPrice, result.CartURL)
	return nil
}

// AddPreference records a liked or disliked food.
func (a *App) AddPreference(food string, dislike bool) error {
	if err := a.prefs.AddPreference(food, !dislike); err != nil {
		return err
	}
	if dislike {
		fmt.Printf("Added %q to disliked foods\n", food)
	} else {
		fmt.Printf("Added %q to liked foods\n", food)
	}
	return nil
}

// RemovePreference removes a food preference.
func (a *App) RemovePreference(food string, dislike bool) error {
	removed, err := a.prefs.RemovePreference(food, !dislike)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("%q was not in the list\n", food)
		return nil
	}
	fmt.Printf("Removed %q\n", food)
	return nil
}

// ListPreferences prints liked and disliked foods.
func (a *App) ListPreferences() error {
	fmt.Println("Liked foods:")
	for _, f := range a.prefs.LikedFoods() {
		fmt.Printf("  %s\n", f)
	}
	disliked := a.prefs.DislikedFoods()
	if len(disliked) > 0 {
		fmt.Println("Disliked foods:")
		for _, f := range disliked {
			fmt.Printf("  %s\n", f)
		}
	}
	return nil
}

// SetMealCount stores the meals-per-plan setting.
func (a *App) SetMealCount(count int) error {
	if err := a.prefs.SetMealCount(count); err != nil {
		return err
	}
	fmt.Printf("Meal count set to %d\n", a.prefs.MealCount())
	return nil
}

// ShowMealCount prints the current meals-per-plan setting.
func (a *App) ShowMealCount() error {
	fmt.Printf("Meal count: %d\n", a.prefs.MealCount())
	return nil
}

// History prints every stored plan, oldest first.
func (a *App) History() error {
	history := a.prefs.RecentPlans(0)
	if len(history) == 0 {
		fmt.Println("No meal planning history found.")
		return nil
	}

	for i, mp := range history {
		fmt.Printf("\nWeek %d (starting %s, plan %s):\n", i+1, mp.WeekStarting.Format("January 2, 2006"), mp.ID)
		for _, day := range mp.Days {
			marker := " "
			if day.ContainsOilyFish {
				marker = "*"
			}
			fmt.Printf("  %s %s: %s\n", marker, day.Day, day.Meal)
		}
	}
	return nil
}

// ClipRecipe imports a recipe from a URL and prints it.
func (a *App) ClipRecipe(ctx context.Context, url string) error {
	recipe, err := a.recipeClipper.ClipURL(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to clip recipe: %w", err)
	}
	printRecipe(recipe)
	return nil
}

// MetricsReport prints per-day backend usage for the last N days.
func (a *App) MetricsReport(days int) error {
	usage, err := a.metricsStore.GetDailyUsage(days)
	if err != nil {
		return fmt.Errorf("failed to query metrics: %w", err)
	}
	if len(usage) == 0 {
		fmt.Println("No backend calls recorded.")
		return nil
	}
	fmt.Printf("%-12s %8s %8s %12s\n", "Date", "Calls", "Failed", "Avg ms")
	for _, u := range usage {
		fmt.Printf("%-12s %8d %8d %12.0f\n", u.Date, u.Calls, u.Failures, u.AvgLatencyMS)
	}
	return nil
}

// findPlan resolves a plan ID against history; an empty ID means the most
// recent plan.
func (a *App) findPlan(planID string) (*plan.MealPlan, error) {
	if planID == "" {
		recent := a.prefs.RecentPlans(1)
		if len(recent) == 0 {
			return nil, fmt.Errorf("no meal plans generated yet")
		}
		return &recent[0], nil
	}
	for _, mp := range a.prefs.RecentPlans(0) {
		if mp.ID == planID {
			return &mp, nil
		}
	}
	return nil, fmt.Errorf("no plan with ID %s in history", planID)
}

func printRecipe(r *plan.Recipe) {
	fmt.Printf("%s (%d minutes)\n\nIngredients:\n", r.Name, r.CookingTime)
	for _, in := range r.Ingredients {
		if in.IsFreeText() {
			fmt.Printf("  - %s\n", in.FreeText)
			continue
		}
		fmt.Printf("  - %s %s %s\n", in.Quantity.String(), in.Unit, in.Name)
	}
	fmt.Println("\nInstructions:")
	for i, step := range r.Instructions {
		fmt.Printf("  %d. %s\n", i+1, step)
	}
	if r.URL != "" {
		fmt.Printf("\nSource: %s (%s)\n", r.Source, r.URL)
	}
}

func formatItem(item shopping.Item) string {
	s := item.Name
	if item.Quantity != "" {
		if item.Unit != "" {
			s = fmt.Sprintf("%s %s %s", item.Quantity, item.Unit, item.Name)
		} else {
			s = fmt.Sprintf("%s %s", item.Quantity, item.Name)
		}
	}
	return s
}
