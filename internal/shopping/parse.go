package shopping

import (
	"regexp"
	"strconv"
	"strings"

	"family-meal-planner/internal/plan"
)

// Matches "500g flour", "2 tablespoons olive oil", "1/2 cup sugar":
// optional leading numeric-or-fraction token, optional alphabetic unit,
// remainder is the name.
var freeTextRe = regexp.MustCompile(`^([\d./]+)?\s*([a-zA-Z]*)\s+(.+)$`)

// ParseFreeText tokenizes a raw ingredient string into a structured entry.
// Without a leading numeric token the quantity defaults to 1 and the unit
// stays empty. The raw string is preserved as provenance.
func ParseFreeText(raw string) plan.Ingredient {
	entry := plan.Ingredient{
		Name:     raw,
		Quantity: plan.Count(1),
		Original: raw,
	}

	m := freeTextRe.FindStringSubmatch(raw)
	if m == nil {
		return entry
	}
	quantityStr, unit, name := m[1], m[2], m[3]

	if quantityStr != "" {
		if v, ok := parseAmount(quantityStr); ok {
			entry.Quantity = plan.Count(v)
		}
	}
	entry.Unit = strings.ToLower(unit)
	entry.Name = strings.ToLower(strings.TrimSpace(name))
	return entry
}

// parseAmount handles plain decimals and "a/b" fraction syntax.
func parseAmount(s string) (float64, bool) {
	if num, denom, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(denom, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
