package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"family-meal-planner/internal/plan"
)

const (
	defaultFallbackDays = 3
	maxDescriptionLen   = 100
	maxMealNameLen      = 50
)

var (
	dayCountRe = regexp.MustCompile(`(?i)(\d+)[-\s]day meal plan`)
	chunkRe    = regexp.MustCompile(`\n\n+`)

	// Day header patterns tried in order; the first one that matches
	// anything wins.
	dayHeaderRes = []*regexp.Regexp{
		regexp.MustCompile(`Day (\d+)[:\s]+`),
		regexp.MustCompile(`(\d+)\.\s+`),
		regexp.MustCompile(`\b(\w+day)[:\s]+`),
	}
)

// FallbackMealPlan reconstructs an approximate plan directly from prose when
// no valid JSON could be recovered. The result always has the detected (or
// default) number of days, never zero.
func FallbackMealPlan(text string) *plan.MealPlan {
	numDays := defaultFallbackDays
	if m := dayCountRe.FindStringSubmatch(text); m != nil {
		fmt.Sscanf(m[1], "%d", &numDays)
	}

	result := &plan.MealPlan{}

	for _, re := range dayHeaderRes {
		matches := splitByHeaders(re, text)
		if len(matches) == 0 {
			continue
		}
		if len(matches) > numDays {
			matches = matches[:numDays]
		}
		for _, m := range matches {
			name, description := splitNameAndDescription(m.content)
			result.Days = append(result.Days, plan.DayPlan{
				Day:              dayLabel(m.label),
				Meal:             name,
				Description:      truncate(description, maxDescriptionLen),
				ContainsOilyFish: plan.ContainsOilyFish(m.content),
			})
		}
		break
	}

	// No day headers anywhere: treat blank-line separated chunks as days.
	if len(result.Days) == 0 {
		chunks := chunkRe.Split(text, -1)
		for i := 0; i < numDays && i < len(chunks); i++ {
			chunk := strings.TrimSpace(chunks[i])
			if chunk == "" {
				continue
			}
			name, description := splitNameAndDescription(chunk)
			if len(name) > maxMealNameLen {
				// Too long to be a meal name; the chunk is probably prose.
				name = fmt.Sprintf("Meal for Day %d", i+1)
			}
			result.Days = append(result.Days, plan.DayPlan{
				Day:              fmt.Sprintf("Day %d", i+1),
				Meal:             name,
				Description:      truncate(description, maxDescriptionLen),
				ContainsOilyFish: plan.ContainsOilyFish(chunk),
			})
		}
	}

	// Pad with placeholders so callers always get exactly the detected
	// number of days. Oily fish goes on the second day.
	for len(result.Days) < numDays {
		i := len(result.Days)
		result.Days = append(result.Days, plan.DayPlan{
			Day:              fmt.Sprintf("Day %d", i+1),
			Meal:             fmt.Sprintf("Meal for Day %d", i+1),
			Description:      "Reconstructed from model response",
			ContainsOilyFish: i == 1,
		})
	}

	return result
}

// dayLabel formats a header capture as a day label: numeric captures become
// "Day N", weekday names pass through unchanged.
func dayLabel(capture string) string {
	if _, err := strconv.Atoi(capture); err == nil {
		return "Day " + capture
	}
	return capture
}

type headerMatch struct {
	label   string
	content string
}

// splitByHeaders finds every header occurrence and captures the text between
// each header and the next one (or end of text) as that day's content.
func splitByHeaders(re *regexp.Regexp, text string) []headerMatch {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if locs == nil {
		return nil
	}
	var out []headerMatch
	for i, loc := range locs {
		label := text[loc[2]:loc[3]]
		contentStart := loc[1]
		contentEnd := len(text)
		if i+1 < len(locs) {
			contentEnd = locs[i+1][0]
		}
		content := strings.TrimSpace(text[contentStart:contentEnd])
		if content == "" {
			continue
		}
		out = append(out, headerMatch{label: label, content: content})
	}
	return out
}

// splitNameAndDescription takes the first line as the meal name and joins
// the remaining non-empty lines into a single description.
func splitNameAndDescription(content string) (string, string) {
	lines := strings.Split(content, "\n")
	name := strings.TrimSpace(lines[0])
	var rest []string
	for _, line := range lines[1:] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			rest = append(rest, trimmed)
		}
	}
	return name, strings.Join(rest, " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
