package clipper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"family-meal-planner/internal/llm"
)

type mockTextGenerator struct {
	response string
	err      error
}

func (m *mockTextGenerator) Complete(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestFetchAndCleanHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		html := `
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Tasty Recipe</h1>
				<div class="ads">Buy stuff!</div>
				<p>Mix flour and water.</p>
				<script>more_bad_stuff()</script>
				<footer>Copyright 2024</footer>
			</body>
		</html>`
		w.Write([]byte(html))
	}))
	defer ts.Close()

	c := NewClipper(&mockTextGenerator{}, zap.NewNop())

	cleanText, err := c.fetchAndCleanHTML(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if strings.Contains(cleanText, "alert('bad')") {
		t.Error("failed to remove <script> tags")
	}
	if strings.Contains(cleanText, "Buy stuff!") {
		t.Error("failed to remove .ads class")
	}
	if strings.Contains(cleanText, "Copyright 2024") {
		t.Error("failed to remove <footer>")
	}
	if !strings.Contains(cleanText, "Tasty Recipe") {
		t.Error("expected to find 'Tasty Recipe'")
	}
	if !strings.Contains(cleanText, "Mix flour and water.") {
		t.Error("expected to find body content")
	}
}

func TestClipURLSuccess(t *testing.T) {
	// Response wrapped in prose and a fence, as backends tend to produce
	aiResponse := "Here is the recipe:\n```json\n" +
		`{"title": "Mock Pie", "ingredients": ["2 apples", "100g sugar"], "instructions": ["Peel apples.", "Bake."], "cooking_time": "45 mins"}` +
		"\n```"

	c := NewClipper(&mockTextGenerator{response: aiResponse}, zap.NewNop())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Some pie content</body></html>"))
	}))
	defer ts.Close()

	recipe, err := c.ClipURL(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("ClipURL failed: %v", err)
	}

	if recipe.Name != "Mock Pie" {
		t.Errorf("expected title 'Mock Pie', got %q", recipe.Name)
	}
	if recipe.CookingTime != 45 {
		t.Errorf("expected cooking time 45, got %d", recipe.CookingTime)
	}
	if len(recipe.Ingredients) != 2 || !recipe.Ingredients[0].IsFreeText() {
		t.Errorf("expected free-text ingredients, got %v", recipe.Ingredients)
	}
	if recipe.URL != ts.URL || recipe.Source != "Clipped recipe" {
		t.Errorf("unexpected provenance: source=%q url=%q", recipe.Source, recipe.URL)
	}
}

func TestClipURLBackendFailure(t *testing.T) {
	c := NewClipper(&mockTextGenerator{err: llm.ErrUnavailable}, zap.NewNop())

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>content</body></html>"))
	}))
	defer ts.Close()

	if _, err := c.ClipURL(context.Background(), ts.URL); err == nil {
		t.Fatal("expected error when backend is unavailable")
	}
}

func TestClipURLFetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClipper(&mockTextGenerator{response: "{}"}, zap.NewNop())
	if _, err := c.ClipURL(context.Background(), ts.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestParseMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"45 mins", 45},
		{"about 1 hour", 1},
		{"", 30},
		{"quick", 30},
	}
	for _, tc := range cases {
		if got := parseMinutes(tc.in); got != tc.want {
			t.Errorf("parseMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
