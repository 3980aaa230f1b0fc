package shopping

import "strings"

// Aisle categories in lookup order; the first category whose keyword set
// matches wins, and anything unmatched lands in "other".
var categoryOrder = []string{
	"produce", "meat", "seafood", "dairy", "bakery", "pantry",
	"frozen", "canned", "beverages", "snacks",
}

var categoryKeywords = map[string][]string{
	"produce": {
		"fruit", "vegetable", "tomato", "onion", "garlic", "potato", "carrot",
		"lettuce", "avocado", "lemon", "lime", "apple", "banana", "berry",
		"pepper", "cucumber", "zucchini", "squash", "broccoli", "cauliflower",
		"spinach", "kale", "herbs", "cilantro", "parsley", "basil", "mint",
	},
	"meat": {
		"beef", "chicken", "pork", "lamb", "turkey", "sausage", "bacon",
		"ham", "steak", "ground", "mince",
	},
	"seafood": {
		"fish", "salmon", "tuna", "cod", "shrimp", "prawn", "crab", "lobster",
		"mussel", "clam", "oyster", "scallop",
	},
	"dairy": {
		"milk", "cheese", "yogurt", "cream", "butter", "egg", "yoghurt",
		"sour cream", "buttermilk", "ice cream",
	},
	"bakery": {
		"bread", "bun", "roll", "tortilla", "wrap", "pita", "bagel",
		"croissant", "pastry", "cake", "cookie", "muffin",
	},
	"pantry": {
		"rice", "pasta", "noodle", "bean", "lentil", "chickpea", "flour",
		"sugar", "oil", "vinegar", "sauce", "spice", "herb", "cereal",
		"grain", "nut", "seed", "syrup", "honey", "jam", "peanut butter",
	},
	"frozen":    {"frozen", "ice cream"},
	"canned":    {"canned", "can of", "tin of", "tinned"},
	"beverages": {"water", "juice", "soda", "coffee", "tea", "wine", "beer", "alcohol", "drink"},
	"snacks":    {"chip", "crisp", "pretzel", "popcorn", "cracker", "chocolate", "candy", "sweet"},
}

// DetermineCategory assigns an aisle category by keyword lookup.
func DetermineCategory(name string) string {
	lower := strings.ToLower(name)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(lower, kw) {
				return cat
			}
		}
	}
	return "other"
}

// Pantry staples assumed already on hand, excluded from shopping lists by
// substring match against the normalized name.
var pantryStaples = []string{
	"salt", "pepper", "olive oil", "vegetable oil", "flour", "sugar",
	"baking powder", "baking soda", "vanilla extract", "garlic powder",
	"onion powder", "dried oregano", "dried basil", "dried thyme",
	"paprika", "cumin", "cinnamon", "nutmeg", "bay leaves",
}

// IsPantryStaple reports whether the ingredient is assumed already owned.
func IsPantryStaple(name string) bool {
	lower := strings.ToLower(name)
	for _, staple := range pantryStaples {
		if strings.Contains(lower, staple) {
			return true
		}
	}
	return false
}
