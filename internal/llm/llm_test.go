package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"family-meal-planner/internal/config"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) Complete(_ context.Context, _ []Message, _ Options) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestOllamaCompleteSendsChatRequest(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		fmt.Fprint(w, `{"message": {"content": "  Here is your plan.  "}}`)
	}))
	defer srv.Close()

	client := NewOllamaClient(&config.Config{OllamaBaseURL: srv.URL, OllamaModel: "llama3"}, zap.NewNop())
	got, err := client.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You plan meals."},
		{Role: RoleUser, Content: "Plan my week."},
	}, Options{Temperature: 0.4, MaxTokens: 800})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got != "Here is your plan." {
		t.Errorf("expected trimmed content, got %q", got)
	}

	if gotBody["model"] != "llama3" {
		t.Errorf("expected default model in request, got %v", gotBody["model"])
	}
	if gotBody["stream"] != false {
		t.Errorf("expected stream disabled, got %v", gotBody["stream"])
	}
	opts, _ := gotBody["options"].(map[string]any)
	if opts["temperature"] != 0.4 || opts["num_predict"] != float64(800) {
		t.Errorf("unexpected options: %v", opts)
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
}

func TestOllamaCompleteUsesPerCallModel(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)
		fmt.Fprint(w, `{"message": {"content": "ok"}}`)
	}))
	defer srv.Close()

	client := NewOllamaClient(&config.Config{OllamaBaseURL: srv.URL, OllamaModel: "llama3"}, zap.NewNop())
	if _, err := client.Complete(context.Background(), nil, Options{Model: "mistral"}); err != nil {
		t.Fatal(err)
	}
	if gotModel != "mistral" {
		t.Errorf("expected per-call model override, got %q", gotModel)
	}
}

func TestOllamaCompleteFailuresCollapseToErrUnavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}},
		{"garbage payload", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json")
		}},
		{"empty content", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"message": {"content": "   "}}`)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			client := NewOllamaClient(&config.Config{OllamaBaseURL: srv.URL, OllamaModel: "llama3"}, zap.NewNop())
			_, err := client.Complete(context.Background(), nil, DefaultOptions())
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestOllamaCompleteConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewOllamaClient(&config.Config{OllamaBaseURL: srv.URL, OllamaModel: "llama3"}, zap.NewNop())
	_, err := client.Complete(context.Background(), nil, DefaultOptions())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestBuiltinModelAnswersPlanPrompts(t *testing.T) {
	m := NewBuiltinModel(zap.NewNop())
	text, err := m.Complete(context.Background(), []Message{
		{Role: RoleUser, Content: "Please create a 5-day meal plan for my family."},
	}, DefaultOptions())
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	for i := 1; i <= 5; i++ {
		if !strings.Contains(text, fmt.Sprintf("Day %d:", i)) {
			t.Errorf("expected Day %d in response:\n%s", i, text)
		}
	}
	if !strings.Contains(strings.ToLower(text), "salmon") {
		t.Error("expected an oily fish meal in the rotation")
	}
}

func TestBuiltinModelAnswersRecipePrompts(t *testing.T) {
	m := NewBuiltinModel(zap.NewNop())
	text, err := m.Complete(context.Background(), []Message{
		{Role: RoleUser, Content: "Provide a detailed recipe for Burgers."},
	}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var recipe struct {
		Ingredients  []string `json:"ingredients"`
		Instructions []string `json:"instructions"`
		CookingTime  int      `json:"cooking_time"`
	}
	if err := json.Unmarshal([]byte(text), &recipe); err != nil {
		t.Fatalf("recipe response is not valid JSON: %v", err)
	}
	if len(recipe.Ingredients) == 0 || len(recipe.Instructions) == 0 {
		t.Errorf("expected a populated recipe, got %+v", recipe)
	}
	if recipe.CookingTime != 30 {
		t.Errorf("expected cooking time 30, got %d", recipe.CookingTime)
	}
}

func TestBuiltinModelReadsLastUserMessage(t *testing.T) {
	m := NewBuiltinModel(zap.NewNop())
	text, err := m.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are a helpful meal planner."},
		{Role: RoleUser, Content: "hello"},
	}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "meal plans and recipes") {
		t.Errorf("expected help text for unrecognized prompt, got %q", text)
	}
}

type memoryRecorder struct {
	provider string
	model    string
	latency  time.Duration
	failed   bool
	calls    int
	err      error
}

func (r *memoryRecorder) RecordCall(provider, model string, latency time.Duration, failed bool) error {
	r.calls++
	r.provider = provider
	r.model = model
	r.latency = latency
	r.failed = failed
	return r.err
}

func TestInstrumentedRecordsSuccess(t *testing.T) {
	rec := &memoryRecorder{}
	gen := NewInstrumented(&stubGenerator{response: "ok"}, "gemini", rec, zap.NewNop())

	got, err := gen.Complete(context.Background(), nil, Options{Model: "gemini-pro"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "ok" {
		t.Errorf("expected passthrough response, got %q", got)
	}
	if rec.calls != 1 || rec.provider != "gemini" || rec.model != "gemini-pro" || rec.failed {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestInstrumentedRecordsFailure(t *testing.T) {
	rec := &memoryRecorder{}
	gen := NewInstrumented(&stubGenerator{err: ErrUnavailable}, "ollama", rec, zap.NewNop())

	_, err := gen.Complete(context.Background(), nil, DefaultOptions())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected backend error surfaced, got %v", err)
	}
	if rec.calls != 1 || !rec.failed {
		t.Errorf("expected a failed call recorded, got %+v", rec)
	}
}

func TestInstrumentedIgnoresRecorderErrors(t *testing.T) {
	rec := &memoryRecorder{err: errors.New("database locked")}
	gen := NewInstrumented(&stubGenerator{response: "still works"}, "builtin", rec, zap.NewNop())

	got, err := gen.Complete(context.Background(), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("recorder error must not affect the result: %v", err)
	}
	if got != "still works" {
		t.Errorf("unexpected response %q", got)
	}
}

func TestCompleteStructuredRecoversFencedJSON(t *testing.T) {
	stub := &stubGenerator{response: "Here you go:\n```json\n{\"cooking_time\": 20}\n```"}
	raw, err := CompleteStructured(context.Background(), stub, "system", "Extract the recipe.", DefaultOptions())
	if err != nil {
		t.Fatalf("CompleteStructured failed: %v", err)
	}
	var v struct {
		CookingTime int `json:"cooking_time"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatal(err)
	}
	if v.CookingTime != 20 {
		t.Errorf("expected cooking_time 20, got %d", v.CookingTime)
	}
}

func TestCompleteStructuredPropagatesBackendError(t *testing.T) {
	stub := &stubGenerator{err: ErrUnavailable}
	if _, err := CompleteStructured(context.Background(), stub, "system", "Extract the recipe.", DefaultOptions()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewFromConfigRejectsUnknownProvider(t *testing.T) {
	_, err := NewFromConfig(context.Background(), &config.Config{Provider: "bedrock"}, zap.NewNop())
	if err == nil {
		t.Error("expected an error for an unknown provider")
	}
}
