package shopping

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"family-meal-planner/internal/llm"
	"family-meal-planner/internal/plan"
)

// Generator builds shopping lists from meal plans. The generation backend
// is optional: when present, free-text ingredients are batch-normalized
// through it, and any failure silently falls back to the local tokenizer,
// which is the only deterministic path.
type Generator struct {
	textGen llm.TextGenerator
	logger  *zap.Logger
}

// NewGenerator creates a shopping list generator. textGen may be nil.
func NewGenerator(textGen llm.TextGenerator, logger *zap.Logger) *Generator {
	return &Generator{textGen: textGen, logger: logger}
}

// Generate derives the consolidated shopping list for a plan. It never
// fails: unusable entries are skipped or isolated, and the worst case is a
// shorter list.
func (g *Generator) Generate(ctx context.Context, p *plan.MealPlan) []Item {
	var structured []plan.Ingredient
	var freeText []string
	for _, in := range p.AllIngredients() {
		if in.IsFreeText() {
			freeText = append(freeText, in.FreeText)
			continue
		}
		structured = append(structured, in)
	}

	entries := append(structured, g.normalizeFreeText(ctx, freeText)...)

	slots := aggregate(entries)

	var items []Item
	for _, s := range slots {
		if IsPantryStaple(s.name) {
			continue
		}
		category := s.category
		if category == "" {
			category = DetermineCategory(s.name)
		}
		items = append(items, Item{
			Name:     s.name,
			Quantity: s.quantity(),
			Unit:     s.unit,
			Category: category,
			Original: strings.Join(s.original, ", "),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items
}

// slot is one aggregation bucket. The name is the first-seen entry name,
// kept un-stripped for display, pantry filtering and categorization; only
// the merge key uses the normalized form. Numeric quantities sum; a
// non-numeric quantity owns its slot and never merges with anything.
type slot struct {
	name     string
	unit     string
	category string
	total    float64
	numeric  bool
	text     string
	original []string
}

func (s *slot) quantity() string {
	if s.numeric {
		return plan.Count(s.total).String()
	}
	return s.text
}

// aggregate merges entries by the normalized (name, unit, category) tuple,
// preserving first-seen order.
func aggregate(entries []plan.Ingredient) []*slot {
	byKey := make(map[string]*slot)
	var ordered []*slot
	isolated := 0

	for _, in := range entries {
		name := strings.TrimSpace(in.Name)
		normalized := NormalizeName(name)
		if normalized == "" {
			continue
		}
		unit := strings.ToLower(in.Unit)
		category := in.Category

		qty := in.Quantity
		if qty.IsZero() {
			qty = plan.Count(1)
		}
		original := in.Original
		if original == "" {
			original = in.Name
		}

		v, numeric := qty.Numeric()
		key := fmt.Sprintf("%s|%s|%s", normalized, unit, strings.ToLower(category))
		if !numeric {
			// Unique per-item key so "to taste" entries never merge,
			// not even with each other.
			key = fmt.Sprintf("%s|non-numeric|%d", key, isolated)
			isolated++
		}

		if existing, ok := byKey[key]; ok {
			existing.total += v
			existing.original = append(existing.original, original)
			continue
		}

		s := &slot{
			name:     name,
			unit:     unit,
			category: category,
			total:    v,
			numeric:  numeric,
			text:     qty.String(),
			original: []string{original},
		}
		byKey[key] = s
		ordered = append(ordered, s)
	}
	return ordered
}

// normalizeFreeText turns raw ingredient strings into structured entries,
// preferring a single batch call to the generation backend and falling back
// to the local tokenizer on any unavailability or parse failure.
func (g *Generator) normalizeFreeText(ctx context.Context, raw []string) []plan.Ingredient {
	if len(raw) == 0 {
		return nil
	}

	if g.textGen != nil {
		entries, err := g.normalizeWithBackend(ctx, raw)
		if err == nil {
			g.logger.Info("normalized ingredients with generation backend",
				zap.Int("raw", len(raw)), zap.Int("normalized", len(entries)))
			return entries
		}
		g.logger.Warn("backend ingredient normalization failed, using local parser", zap.Error(err))
	}

	entries := make([]plan.Ingredient, 0, len(raw))
	for _, s := range raw {
		entries = append(entries, ParseFreeText(s))
	}
	return entries
}

const normalizeSystemPrompt = "You are a helpful assistant that normalizes and combines ingredients for a shopping list."

func (g *Generator) normalizeWithBackend(ctx context.Context, raw []string) ([]plan.Ingredient, error) {
	userPrompt := fmt.Sprintf(`Here's a list of ingredients from various recipes:
%s

Please normalize these ingredients by:
1. Identifying the same ingredients that appear multiple times and combining their quantities
2. Converting all quantities to standard units where possible
3. Standardizing ingredient names (e.g., 'tomato sauce' and 'pasta sauce' might be the same thing)
4. Categorizing each ingredient (produce, meat, dairy, bakery, pantry, etc.)

Return the results as a JSON array of objects with these properties:
- name: The normalized ingredient name
- quantity: The combined quantity as a number
- unit: The standardized unit of measurement
- category: The ingredient category
- original: A comma-separated list of the original ingredient strings that were combined

Only include the JSON array in your response, nothing else.`, strings.Join(raw, "\n"))

	rawJSON, err := llm.CompleteStructured(ctx, g.textGen, normalizeSystemPrompt, userPrompt, llm.Options{
		Temperature: 0.2,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, err
	}

	var entries []plan.Ingredient
	if err := json.Unmarshal(rawJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse normalized ingredients: %w", err)
	}

	valid := entries[:0]
	for _, e := range entries {
		if e.IsFreeText() || e.Name == "" {
			continue
		}
		valid = append(valid, e)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("backend returned no usable ingredient entries")
	}
	return valid, nil
}
