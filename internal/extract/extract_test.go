package extract

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"family-meal-planner/internal/plan"
)

func TestJSONRecoveryStages(t *testing.T) {
	want := `{"days": [{"day": "Day 1", "meal": "Tacos"}]}`

	cases := []struct {
		name string
		text string
	}{
		{"bare json", want},
		{"json with surrounding whitespace", "\n  " + want + "\n"},
		{"fenced json", "Here is your plan:\n```json\n" + want + "\n```\nEnjoy!"},
		{"fence without language tag", "```\n" + want + "\n```"},
		{"json embedded in prose", "Sure! The plan is " + want + " as requested."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, ok := JSON(tc.text)
			if !ok {
				t.Fatalf("expected recovery from %q", tc.text)
			}
			var got, expected any
			if err := json.Unmarshal(raw, &got); err != nil {
				t.Fatalf("recovered value is not valid JSON: %v", err)
			}
			if err := json.Unmarshal([]byte(want), &expected); err != nil {
				t.Fatal(err)
			}
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(expected)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("round trip mismatch: got %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestSanitizedBraceSpanStripsDecorations(t *testing.T) {
	text := `Result → {"meal": "Tacos", "day": 1✨}`
	raw, ok := JSON(text)
	if !ok {
		t.Fatalf("expected sanitized recovery from %q", text)
	}
	var v map[string]any
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("sanitized output is not valid JSON: %v", err)
	}
	if v["meal"] != "Tacos" {
		t.Errorf("unexpected recovered value: %v", v)
	}
}

func TestJSONFailsOnPlainProse(t *testing.T) {
	if _, ok := JSON("I am sorry, I cannot help with that."); ok {
		t.Error("expected no recovery from plain prose")
	}
}

func TestDocumentReturnsUnparsableErrorOutsidePlanContext(t *testing.T) {
	_, err := Document("complete garbage", "Extract the recipe from this page")
	var unparsable *UnparsableError
	if !errors.As(err, &unparsable) {
		t.Fatalf("expected UnparsableError, got %v", err)
	}
	if unparsable.Raw != "complete garbage" {
		t.Errorf("expected raw text preserved, got %q", unparsable.Raw)
	}
}

func TestDocumentSynthesizesPlanFromProse(t *testing.T) {
	raw, err := Document(
		"Day 1: Spaghetti Bolognese\nA family classic.\n\nDay 2: Grilled Salmon\nWith roasted vegetables.",
		"Please create a 3-day meal plan for my family.",
	)
	if err != nil {
		t.Fatalf("expected synthesis, got %v", err)
	}
	var mp plan.MealPlan
	if err := json.Unmarshal(raw, &mp); err != nil {
		t.Fatalf("synthesized plan is not valid JSON: %v", err)
	}
	if len(mp.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(mp.Days))
	}
	if mp.Days[0].Meal != "Spaghetti Bolognese" {
		t.Errorf("unexpected first meal: %q", mp.Days[0].Meal)
	}
	if !mp.Days[1].ContainsOilyFish {
		t.Error("expected salmon day flagged as oily fish")
	}
}

func TestFallbackMealPlanDetectsDayCount(t *testing.T) {
	mp := FallbackMealPlan("Here is your 5-day meal plan. Unfortunately I could not format it.")
	if len(mp.Days) != 5 {
		t.Fatalf("expected 5 placeholder days, got %d", len(mp.Days))
	}
	if !mp.Days[1].ContainsOilyFish {
		t.Error("expected oily fish on the second placeholder day")
	}
}

func TestFallbackMealPlanDefaultDayCount(t *testing.T) {
	mp := FallbackMealPlan("no structure at all")
	if len(mp.Days) != 3 {
		t.Fatalf("expected default 3 days, got %d", len(mp.Days))
	}
	for i, d := range mp.Days {
		if d.Day == "" || d.Meal == "" {
			t.Errorf("day %d missing label or meal: %+v", i, d)
		}
	}
}

func TestFallbackMealPlanNumberedList(t *testing.T) {
	mp := FallbackMealPlan("1. Fish tacos\n2. Burgers\n3. Fajitas")
	if len(mp.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(mp.Days))
	}
	if mp.Days[0].Day != "Day 1" || mp.Days[0].Meal != "Fish tacos" {
		t.Errorf("unexpected first day: %+v", mp.Days[0])
	}
}

func TestFallbackMealPlanWeekdayHeaders(t *testing.T) {
	mp := FallbackMealPlan("Monday: Pasta bake\nTuesday: Salmon fillets\nWednesday: Stir fry")
	if len(mp.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(mp.Days))
	}
	if mp.Days[0].Day != "Monday" {
		t.Errorf("expected weekday label preserved, got %q", mp.Days[0].Day)
	}
	if !mp.Days[1].ContainsOilyFish {
		t.Error("expected salmon day flagged")
	}
}

func TestFallbackMealPlanTruncatesLongDescriptions(t *testing.T) {
	long := strings.Repeat("very tasty ", 20)
	mp := FallbackMealPlan("Day 1: Tacos\n" + long)
	if got := len(mp.Days[0].Description); got > 100 {
		t.Errorf("expected description capped at 100 chars, got %d", got)
	}
}

func TestFallbackMealPlanChunksWithoutHeaders(t *testing.T) {
	text := "Spaghetti Bolognese\nA weeknight favourite.\n\n" +
		"This is a long rambling paragraph about food that goes on well past fifty characters without naming a meal.\n\n" +
		"Fish pie"
	mp := FallbackMealPlan(text)
	if len(mp.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(mp.Days))
	}
	if mp.Days[0].Meal != "Spaghetti Bolognese" {
		t.Errorf("unexpected first meal: %q", mp.Days[0].Meal)
	}
	if mp.Days[1].Meal != "Meal for Day 2" {
		t.Errorf("expected prose chunk replaced with placeholder name, got %q", mp.Days[1].Meal)
	}
}
