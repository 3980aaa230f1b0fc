// Package extract recovers structured JSON from generation backend output.
// Backends are asked to respond with only JSON but frequently wrap it in
// prose or markdown fences, or mangle it outright, so recovery runs as an
// ordered pipeline of progressively more tolerant stages.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	codeFenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	sanitizeRe  = regexp.MustCompile(`[^{}\[\]:,"0-9a-zA-Z_.\s-]`)
)

// UnparsableError reports that no stage recovered a JSON value. Raw carries
// the full backend response for diagnostics.
type UnparsableError struct {
	Raw string
}

func (e *UnparsableError) Error() string {
	return fmt.Sprintf("response does not contain valid JSON: %q", snippet(e.Raw, 200))
}

func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Whole parses the entire text as a single JSON value.
func Whole(text string) (json.RawMessage, bool) {
	trimmed := strings.TrimSpace(text)
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil, false
	}
	return json.RawMessage(trimmed), true
}

// CodeFence parses the contents of the first triple-backtick code block,
// with or without a "json" tag.
func CodeFence(text string) (json.RawMessage, bool) {
	m := codeFenceRe.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return Whole(m[1])
}

// BraceSpan parses the substring from the first "{" to the last "}".
func BraceSpan(text string) (json.RawMessage, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	return Whole(text[start : end+1])
}

// SanitizedBraceSpan re-runs BraceSpan after blanking every character that
// is not a JSON delimiter, quote, alphanumeric, underscore, period, hyphen
// or whitespace. Last-ditch recovery for heavily decorated output.
func SanitizedBraceSpan(text string) (json.RawMessage, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, false
	}
	cleaned := sanitizeRe.ReplaceAllString(text[start:end+1], " ")
	return Whole(cleaned)
}

// JSON runs the recovery stages in strict fallback order, stopping at the
// first success.
func JSON(text string) (json.RawMessage, bool) {
	stages := []func(string) (json.RawMessage, bool){
		Whole,
		CodeFence,
		BraceSpan,
		SanitizedBraceSpan,
	}
	for _, stage := range stages {
		if raw, ok := stage(text); ok {
			return raw, true
		}
	}
	return nil, false
}

// mealPlanContext reports whether the prompt looks like a meal-plan request,
// which makes fallback synthesis preferable to a hard parse failure.
func mealPlanContext(prompt string) bool {
	lower := strings.ToLower(prompt)
	return strings.Contains(lower, "day") || strings.Contains(lower, "meal plan")
}

// Document recovers a JSON value from raw backend text. When every parsing
// stage fails but the prompt context indicates a meal-plan request, a
// best-effort plan is synthesized from the prose instead of failing.
func Document(text, promptContext string) (json.RawMessage, error) {
	if raw, ok := JSON(text); ok {
		return raw, nil
	}
	if mealPlanContext(promptContext) {
		synthesized := FallbackMealPlan(text)
		raw, err := json.Marshal(synthesized)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal fallback plan: %w", err)
		}
		return raw, nil
	}
	return nil, &UnparsableError{Raw: text}
}
