package planner

import "fmt"

// Chance that a remix fuses two liked meals instead of applying a single
// naming template.
const fusionChance = 0.3

type remixTemplate struct {
	name        string
	description string
}

var remixTemplates = []remixTemplate{
	{"Deconstructed %s", "A creative deconstructed version of %s, with all the flavors you love but presented in a new way."},
	{"%s Bowl", "Inspired by %s, but served as a convenient and customizable bowl with all ingredients arranged separately."},
	{"Loaded %s Platter", "A family-style platter based on %s, with extra toppings and sides for everyone to share."},
	{"%s Fusion", "A fusion twist on %s, incorporating flavors from another cuisine while keeping the core ingredients you enjoy."},
	{"One-Pan %s", "A simplified one-pan version of %s, with the same great taste but easier cleanup."},
	{"Crispy %s", "A crispier, more textured version of %s that adds a satisfying crunch to a family favorite."},
	{"Stuffed %s", "A creative stuffed version of %s, with delicious fillings that complement the original flavors."},
	{"%s Medley", "A medley inspired by %s, combining several favorite ingredients in a new and exciting way."},
	{"Inside-Out %s", "An inside-out version of %s, with traditional fillings on the outside and wrappings on the inside."},
	{"Grilled %s", "A grilled version of %s, adding smoky flavors to this family favorite."},
	{"Sheet Pan %s", "A convenient sheet pan version of %s, with all ingredients roasted together for maximum flavor."},
	{"Mini %s", "Fun, bite-sized versions of %s, perfect for little hands and customizable for each family member."},
	{"%s Skewers", "The flavors of %s threaded onto skewers for a fun, interactive meal experience."},
	{"%s Casserole", "A comforting casserole inspired by %s, combining all the flavors in a single baked dish."},
	{"%s Stir-Fry", "A quick stir-fry version of %s, maintaining the flavors while adding fresh vegetables."},
	{"Slow-Cooker %s", "A convenient slow-cooker adaptation of %s, letting the flavors develop throughout the day."},
	{"%s Pasta", "The flavors of %s incorporated into a family-friendly pasta dish."},
	{"%s Wrap", "All the delicious components of %s wrapped up for a handheld meal experience."},
	{"%s Salad", "A lighter salad version of %s, keeping the key flavors while adding fresh elements."},
	{"Homestyle %s", "A comforting homestyle version of %s, with a focus on simple, satisfying flavors."},
}

// remixMeal produces a variant name and description for a base meal,
// occasionally fusing it with another liked meal.
func (p *Planner) remixMeal(base string, allLiked []string) (string, string) {
	var others []string
	for _, m := range allLiked {
		if m != base {
			others = append(others, m)
		}
	}

	if len(others) > 0 && p.rng.Float64() < fusionChance {
		other := others[p.rng.Intn(len(others))]
		name := fmt.Sprintf("%s & %s Fusion", base, other)
		description := fmt.Sprintf("A creative fusion combining elements of %s and %s, using similar ingredients in a new way.", base, other)
		return name, description
	}

	t := remixTemplates[p.rng.Intn(len(remixTemplates))]
	return fmt.Sprintf(t.name, base), fmt.Sprintf(t.description, base)
}
