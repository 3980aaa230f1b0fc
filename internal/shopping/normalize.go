package shopping

import (
	"regexp"
	"strings"
)

// Descriptive modifiers stripped from names as whole words before matching.
var modifierRes = buildModifierRes([]string{
	"fresh", "frozen", "dried", "chopped", "diced", "sliced", "minced",
	"grated", "peeled", "cooked", "raw", "whole", "large", "small", "medium",
})

func buildModifierRes(words []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		res[i] = regexp.MustCompile(`\b` + w + `\b`)
	}
	return res
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Common naming variations folded into one canonical name. Applied as
// substring replacements after modifier stripping. Order matters only for
// overlapping keys, which this table does not have.
var synonymPairs = [][2]string{
	{"tomato sauce", "pasta sauce"},
	{"spaghetti sauce", "pasta sauce"},
	{"marinara", "pasta sauce"},
	{"bell pepper", "pepper"},
	{"capsicum", "pepper"},
	{"scallion", "green onion"},
	{"spring onion", "green onion"},
}

// NormalizeName lowers, strips descriptive modifiers, collapses whitespace
// and folds known synonyms so that variants of the same ingredient share an
// aggregation key.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	for _, re := range modifierRes {
		name = re.ReplaceAllString(name, "")
	}
	name = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))
	for _, pair := range synonymPairs {
		if strings.Contains(name, pair[0]) {
			name = strings.ReplaceAll(name, pair[0], pair[1])
		}
	}
	return name
}
