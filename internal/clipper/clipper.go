// Package clipper imports recipes from the web: it fetches a page, strips
// markup noise and asks the generation backend to structure the remaining
// text as a recipe.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"family-meal-planner/internal/llm"
	"family-meal-planner/internal/plan"
)

// Page text beyond this is dropped before prompting, to bound token usage.
const maxContentLength = 8000

const extractSystemPrompt = "You are a recipe extraction expert. You read the text of a web page and return only the recipe it contains, as JSON."

// Clipper fetches and extracts recipes from URLs.
type Clipper struct {
	textGen    llm.TextGenerator
	logger     *zap.Logger
	httpClient *http.Client
}

// NewClipper creates a Clipper. It requires a working generation backend;
// there is no local fallback for unstructured web pages.
func NewClipper(textGen llm.TextGenerator, logger *zap.Logger) *Clipper {
	return &Clipper{
		textGen:    textGen,
		logger:     logger,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type extractedRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookingTime  string   `json:"cooking_time"`
}

// ClipURL fetches the URL and extracts the recipe on it.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*plan.Recipe, error) {
	if c.textGen == nil {
		return nil, llm.ErrUnavailable
	}

	content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	prompt := fmt.Sprintf(`Extract the recipe from the following page text.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "ingredients": ["item 1", "item 2"],
  "instructions": ["Step 1 description", "Step 2 description"],
  "cooking_time": "e.g. 30 mins"
}

Page text:
%s`, content)

	rawJSON, err := llm.CompleteStructured(ctx, c.textGen, extractSystemPrompt, prompt, llm.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("recipe extraction failed: %w", err)
	}

	var extracted extractedRecipe
	if err := json.Unmarshal(rawJSON, &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extracted recipe: %w", err)
	}
	if extracted.Title == "" || len(extracted.Ingredients) == 0 {
		return nil, fmt.Errorf("page did not yield a usable recipe")
	}

	ingredients := make([]plan.Ingredient, len(extracted.Ingredients))
	for i, line := range extracted.Ingredients {
		ingredients[i] = plan.FreeTextIngredient(line)
	}

	c.logger.Info("recipe clipped",
		zap.String("url", url), zap.String("title", extracted.Title))

	return &plan.Recipe{
		Name:         extracted.Title,
		CookingTime:  parseMinutes(extracted.CookingTime),
		Ingredients:  ingredients,
		Instructions: extracted.Instructions,
		Source:       "Clipped recipe",
		URL:          url,
	}, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

var minutesRe = regexp.MustCompile(`(\d+)`)

// parseMinutes pulls the first number out of a free-form duration, with a
// 30 minute default.
func parseMinutes(s string) int {
	m := minutesRe.FindStringSubmatch(s)
	if m == nil {
		return 30
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 30
	}
	return n
}
