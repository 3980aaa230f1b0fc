package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// builtinModel is the in-process backend variant: a deterministic template
// generator that stands in when neither a hosted API nor a local server is
// reachable. It answers meal-plan prompts with prose day listings and recipe
// prompts with a canned recipe; like the small local models it replaces, it
// makes no attempt to honor "respond with only JSON" instructions for plan
// requests, so callers exercise the extractor's recovery stages.
type builtinModel struct {
	logger *zap.Logger
}

// NewBuiltinModel creates the in-process backend.
func NewBuiltinModel(logger *zap.Logger) TextGenerator {
	return &builtinModel{logger: logger}
}

var builtinDayCountRe = regexp.MustCompile(`(?i)(\d+)[-\s]day meal plan`)

// Rotation of family-friendly meals; salmon sits second so the weekly
// oily-fish goal is met even for two-day plans.
var builtinMeals = []string{
	"Chicken and vegetable stir-fry\nStrips of chicken breast with peppers, broccoli and carrots over rice.",
	"Grilled salmon with roasted vegetables\nSalmon fillets with roasted potatoes, asparagus and cherry tomatoes.",
	"Beef bolognese with spaghetti\nSlow-simmered beef and tomato sauce with hidden grated vegetables.",
	"Loaded fajita night\nSizzling chicken fajitas with peppers, onions and all the fixings.",
	"One-pan sausage bake\nSausages roasted with potatoes, red onion and courgette.",
	"Fish tacos with crunchy slaw\nWhite fish in warm tortillas with cabbage, carrot and lime.",
	"Homestyle burgers with salad\nBeef burgers with lettuce, tomato and a big side salad.",
}

func (m *builtinModel) Complete(_ context.Context, messages []Message, _ Options) (string, error) {
	prompt := lastUserContent(messages)
	lower := strings.ToLower(prompt)

	switch {
	case strings.Contains(lower, "meal plan"):
		return m.mealPlanText(prompt), nil
	case strings.Contains(lower, "recipe"):
		return builtinRecipeJSON, nil
	default:
		return "I can help with meal plans and recipes.", nil
	}
}

func (m *builtinModel) mealPlanText(prompt string) string {
	days := 3
	if match := builtinDayCountRe.FindStringSubmatch(prompt); match != nil {
		fmt.Sscanf(match[1], "%d", &days)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here is a %d-day meal plan for your family.\n\n", days)
	for i := 0; i < days; i++ {
		fmt.Fprintf(&sb, "Day %d: %s\n\n", i+1, builtinMeals[i%len(builtinMeals)])
	}
	return sb.String()
}

const builtinRecipeJSON = `{
  "ingredients": [
    "500g protein of choice (chicken, beef or fish)",
    "1 large onion, diced",
    "2 cloves garlic, minced",
    "2 cups mixed vegetables",
    "1 cup rice or pasta",
    "2 tablespoons olive oil"
  ],
  "instructions": [
    "Prepare all ingredients by washing and chopping as needed.",
    "Heat the oil in a large pan and cook the protein until done.",
    "Add the onion, garlic and vegetables and cook until tender.",
    "Serve over rice or pasta and season to taste."
  ],
  "cooking_time": 30
}`

func lastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content
	}
	return ""
}
