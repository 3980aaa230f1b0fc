package planner

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"family-meal-planner/internal/llm"
	"family-meal-planner/internal/plan"
)

//go:embed recipe_prompt.md
var recipePrompt string

const recipeSystemPrompt = "You are a professional chef specializing in family-friendly recipes that are easy to follow. " +
	"Your task is to create detailed, practical recipes with specific ingredients and clear instructions. " +
	"Focus on recipes that take around 30 minutes to prepare and cook. " +
	"Use common ingredients that are easy to find in most supermarkets. " +
	"Provide exact measurements and cooking times for a reliable result."

// fetchRecipe obtains a recipe for a meal, preferring the generation
// backend and degrading to a canned recipe on any failure.
func (p *Planner) fetchRecipe(ctx context.Context, meal string) *plan.Recipe {
	if p.textGen != nil {
		r, err := p.recipeFromBackend(ctx, meal)
		if err == nil {
			return r
		}
		p.logger.Warn("backend recipe generation failed, using canned recipe",
			zap.String("meal", meal), zap.Error(err))
	}
	return fallbackRecipe(p.rng, meal)
}

type rawRecipeResult struct {
	Ingredients  []plan.Ingredient `json:"ingredients"`
	Instructions []string          `json:"instructions"`
	CookingTime  int               `json:"cooking_time"`
}

func (p *Planner) recipeFromBackend(ctx context.Context, meal string) (*plan.Recipe, error) {
	user, err := renderPrompt("recipe", recipePrompt, struct{ Meal string }{Meal: meal})
	if err != nil {
		return nil, err
	}

	rawJSON, err := llm.CompleteStructured(ctx, p.textGen, recipeSystemPrompt, user, llm.DefaultOptions())
	if err != nil {
		return nil, err
	}

	var raw rawRecipeResult
	if err := json.Unmarshal(rawJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse recipe response: %w", err)
	}
	if len(raw.Instructions) == 0 {
		return nil, fmt.Errorf("backend returned a recipe with no instructions")
	}

	cookingTime := raw.CookingTime
	if cookingTime == 0 {
		cookingTime = 30
	}
	return &plan.Recipe{
		Name:         meal,
		CookingTime:  cookingTime,
		Ingredients:  raw.Ingredients,
		Instructions: raw.Instructions,
		Source:       "AI-generated recipe",
	}, nil
}

// fallbackRecipe builds a canned recipe matched by keywords in the meal
// name, with a cooking time of roughly half an hour.
func fallbackRecipe(rng *rand.Rand, meal string) *plan.Recipe {
	ingredients, instructions := cannedRecipe(meal)
	return &plan.Recipe{
		Name:         meal,
		CookingTime:  25 + rng.Intn(11),
		Ingredients:  freeTextEntries(ingredients),
		Instructions: instructions,
		Source:       "Generated recipe",
	}
}

func freeTextEntries(lines []string) []plan.Ingredient {
	out := make([]plan.Ingredient, len(lines))
	for i, line := range lines {
		out[i] = plan.FreeTextIngredient(line)
	}
	return out
}

var cannedBaseIngredients = []string{
	"2 tablespoons olive oil",
	"1 teaspoon salt",
	"1/2 teaspoon black pepper",
}

func withBase(extra ...string) []string {
	return append(append([]string{}, cannedBaseIngredients...), extra...)
}

func cannedRecipe(meal string) ([]string, []string) {
	lower := strings.ToLower(meal)
	switch {
	case strings.Contains(lower, "burger"):
		return withBase(
				"500g lean ground beef",
				"4 burger buns",
				"1 large onion, thinly sliced",
				"4 slices cheddar cheese",
				"4 large lettuce leaves",
				"2 ripe tomatoes, sliced",
				"4 tablespoons mayonnaise",
				"2 tablespoons ketchup",
				"1 tablespoon mustard",
			), []string{
				"In a large bowl, season the ground beef with salt and pepper. Mix gently and form into 4 equal-sized patties about 1cm thick.",
				"Heat 1 tablespoon of olive oil in a large pan over medium-high heat.",
				"Cook the patties for 4-5 minutes on each side for medium doneness, or adjust to your preference.",
				"Place a slice of cheese on each patty during the last minute of cooking and cover to melt.",
				"Meanwhile, lightly toast the burger buns in another pan or under the broiler.",
				"Spread mayonnaise on the bottom buns, then layer with lettuce, tomato slices, and the cooked patties with melted cheese.",
				"Add sliced onion on top of the patties, then drizzle with ketchup and mustard.",
				"Place the top buns on and serve immediately while hot.",
			}
	case strings.Contains(lower, "hotdog"):
		return withBase(
				"8 good quality hotdog sausages",
				"8 soft hotdog buns",
				"1 medium onion, finely diced",
				"4 tablespoons ketchup",
				"2 tablespoons yellow mustard",
				"4 tablespoons sweet relish",
			), []string{
				"Fill a large pot halfway with water and bring to a simmer over medium heat.",
				"Gently add the hotdog sausages to the simmering water and cook for 5-7 minutes until heated through.",
				"While the sausages are cooking, lightly toast the hotdog buns in a dry pan or under the broiler until golden.",
				"Drain the sausages well and pat dry with paper towels if needed.",
				"Place each sausage in a toasted bun.",
				"Top with diced onion, then add ketchup, mustard, and relish according to preference.",
				"Serve immediately while the sausages are still hot.",
			}
	case strings.Contains(lower, "chicken nugget"):
		return withBase(
				"500g chicken breast, cut into 2cm chunks",
				"100g panko breadcrumbs",
				"50g plain flour",
				"2 large eggs, beaten",
				"1 teaspoon garlic powder",
				"1 teaspoon paprika",
				"500g russet potatoes, cut into chips",
				"2 cups vegetable oil for frying",
			), []string{
				"Set up a breading station: put flour in one bowl, beaten eggs in a second bowl, and mix breadcrumbs with garlic powder and paprika in a third bowl.",
				"Season the chicken pieces with salt and pepper.",
				"Dredge each piece of chicken in flour, then dip in beaten egg, and finally coat in the seasoned breadcrumbs.",
				"Heat oil in a large, deep pan to 175C.",
				"Fry the chicken pieces in batches for 3-4 minutes until golden brown and cooked through.",
				"Remove with a slotted spoon and drain on paper towels.",
				"Fry the potato chips for 4-5 minutes until golden and crisp.",
				"Season the chips with salt while still hot and serve alongside the nuggets.",
			}
	case strings.Contains(lower, "fish taco"):
		return withBase(
				"500g firm white fish fillets (cod or haddock)",
				"8 small corn tortillas",
				"1 ripe avocado, sliced",
				"1 lime, cut into wedges",
				"200g red cabbage, finely shredded",
				"100g carrot, grated",
				"4 tablespoons sour cream",
				"1 tablespoon cumin",
				"1 teaspoon chili powder",
			), []string{
				"In a small bowl, mix salt, pepper, cumin, and chili powder. Season the fish fillets on both sides.",
				"Heat 1 tablespoon of olive oil in a large non-stick pan over medium-high heat.",
				"Cook the fish for 3-4 minutes per side until opaque and flakes easily with a fork.",
				"While the fish cooks, warm the tortillas in a dry pan or microwave for 20 seconds.",
				"In a bowl, toss the shredded cabbage and grated carrot with a squeeze of lime juice and a pinch of salt.",
				"Break the cooked fish into chunks with a fork.",
				"Assemble the tacos: place some slaw on each tortilla, top with fish pieces, sliced avocado, a dollop of sour cream.",
				"Serve with lime wedges on the side for squeezing over the tacos.",
			}
	case strings.Contains(lower, "fish and broccoli"):
		return withBase(
				"4 salmon or cod fillets (150g each)",
				"400g broccoli florets",
				"2 lemons (1 juiced, 1 cut into wedges)",
				"3 cloves garlic, minced",
				"50g butter",
				"1 tablespoon fresh dill, chopped",
				"200g new potatoes, halved",
			), []string{
				"Boil the new potatoes in salted water for 12-15 minutes until tender.",
				"Steam the broccoli florets for 4-5 minutes until just tender.",
				"Season the fish fillets with salt and pepper.",
				"Melt the butter with the garlic in a large pan over medium heat.",
				"Cook the fish for 3-4 minutes per side, basting with the garlic butter.",
				"Squeeze lemon juice over the fish and scatter with dill.",
				"Serve the fish with the potatoes and broccoli, with lemon wedges on the side.",
			}
	case strings.Contains(lower, "fajita"):
		return withBase(
				"500g chicken breast, sliced into strips",
				"2 bell peppers (1 red, 1 yellow), sliced",
				"1 large onion, sliced",
				"2 tablespoons fajita seasoning",
				"8 flour tortillas",
				"100g sour cream",
				"100g grated cheddar cheese",
				"100g fresh salsa",
				"1 lime, cut into wedges",
			), []string{
				"Toss the chicken strips with the fajita seasoning until evenly coated.",
				"Heat the olive oil in a large pan over high heat.",
				"Cook the chicken for 5-6 minutes until browned and cooked through, then set aside.",
				"In the same pan, cook the peppers and onion for 4-5 minutes until softened and charred in places.",
				"Return the chicken to the pan and toss everything together.",
				"Warm the tortillas in a dry pan or microwave.",
				"Serve the fajita mix with tortillas, sour cream, cheese, salsa, and lime wedges for everyone to assemble.",
			}
	case strings.Contains(lower, "bolognese"):
		return withBase(
				"500g lean ground beef",
				"1 large onion, finely diced",
				"3 cloves garlic, minced",
				"1 large carrot, finely diced",
				"2 celery stalks, finely diced",
				"400g can crushed tomatoes",
				"2 tablespoons tomato paste",
				"1 beef stock cube dissolved in 200ml hot water",
				"1 teaspoon dried oregano",
				"350g spaghetti",
				"50g grated parmesan cheese",
			), []string{
				"Heat the olive oil in a large pot over medium heat and brown the ground beef, breaking it up as it cooks.",
				"Add the onion, garlic, carrot, and celery and cook for 5 minutes until softened.",
				"Stir in the tomato paste and cook for 1 minute.",
				"Add the crushed tomatoes, stock, and oregano. Simmer for 15-20 minutes.",
				"Meanwhile, cook the spaghetti according to package instructions.",
				"Season the sauce to taste with salt and pepper.",
				"Serve the sauce over the spaghetti, topped with grated parmesan.",
			}
	default:
		return []string{
				"2 tablespoons olive oil",
				"1 teaspoon salt",
				"1/2 teaspoon black pepper",
				"500g protein of choice (chicken, beef, fish, or tofu)",
				"1 large onion, diced",
				"2 cloves garlic, minced",
				"2 cups mixed vegetables (bell peppers, carrots, broccoli)",
				"1 cup rice, pasta, or potatoes",
				"2 tablespoons fresh herbs (parsley, basil, or cilantro)",
				"1 lemon or lime, juiced",
				"1 cup stock or broth appropriate for your protein",
			}, []string{
				"Prepare all ingredients according to the list: chop vegetables, measure spices, and prepare the protein.",
				"Heat a large pan or pot over medium heat and add the olive oil.",
				"Season the protein with salt and pepper, then cook until properly done.",
				"Remove the protein and set aside. In the same pan, saute the onions and garlic until fragrant, about 2-3 minutes.",
				"Add any vegetables and cook until tender but still crisp, about 5-7 minutes.",
				"Cook the rice, pasta, or potatoes according to package instructions in a separate pot.",
				"Return the protein to the pan with the vegetables, add any sauces or liquids, and simmer for 5 minutes to combine flavors.",
				"Stir in fresh herbs and a squeeze of citrus juice just before serving.",
				"Taste and adjust seasoning, then serve hot.",
			}
	}
}
