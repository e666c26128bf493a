package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
)

const reportSystemPrompt = `You are CityScout, a perceptive local guide. You study a person's Google Maps activity and describe, warmly and concretely, what it reveals about how they like to spend time in a city.`

const tilesSystemPrompt = `You are CityScout. You turn a personality report and Google Maps activity into structured preference tiles. Reply with a single JSON object and nothing else.`

// FullSearchesSummary renders one line per search entry:
// "<n>. <title> (searched <count>x, type: <place type>)".
func FullSearchesSummary(entries []activity.EnrichedEntry) string {
	if len(entries) == 0 {
		return "(no searches in the last year)"
	}
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s (searched %dx, type: %s)\n", i+1, e.TitleCleaned, e.Count, e.PlaceType)
	}
	return strings.TrimRight(b.String(), "\n")
}

func tablesJSON(agg *activity.Result) (string, error) {
	b, err := json.MarshalIndent(map[string]any{
		"top_searches":   agg.Searches,
		"top_directions": agg.Directions,
		"top_views":      agg.Views,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode activity tables: %w", err)
	}
	return string(b), nil
}

func buildReportPrompt(agg *activity.Result) (string, error) {
	tables, err := tablesJSON(agg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("Here is a summary of my Google Maps activity over the past year.\n\n")
	b.WriteString("Top 20 searches, directions and viewed areas, each with a count and the resolved place type ")
	b.WriteString("(a list of Google place types, null when nothing matched, or a note when the lookup failed):\n")
	b.WriteString(tables)
	b.WriteString("\n\nAll searches:\n")
	b.WriteString(FullSearchesSummary(agg.Searches))
	b.WriteString("\n\nWrite a personality report about me in the second person. Cover my lifestyle, ")
	b.WriteString("food and drink tastes, go-to activities, favorite neighborhoods or kinds of places, ")
	b.WriteString("and how I travel and explore. Ground every observation in the data above.")
	return b.String(), nil
}

func buildTilesPrompt(report string, agg *activity.Result) (string, error) {
	tables, err := tablesJSON(agg)
	if err != nil {
		return "", err
	}
	var keys strings.Builder
	for _, c := range insights.Categories {
		fmt.Fprintf(&keys, "- %q: array of 5 to 10 short tag strings\n", string(c))
		fmt.Fprintf(&keys, "- %q: one sentence addressed to me (\"You ...\") explaining the tags\n", c.ReasonKey())
	}

	var b strings.Builder
	b.WriteString("Personality report:\n")
	b.WriteString(report)
	b.WriteString("\n\nActivity tables:\n")
	b.WriteString(tables)
	b.WriteString("\n\nReturn ONLY a JSON object with exactly these keys:\n")
	b.WriteString(keys.String())
	b.WriteString("Tags are two to four words each, specific, and supported by the report or the tables.")
	return b.String(), nil
}

const chatSystemPromptHeader = `You are CityScout, a friendly assistant that recommends places to eat, drink, visit and explore. Tailor every suggestion to the user's confirmed preferences below, and say briefly why each place fits them.`

// ChatSystemPrompt embeds confirmed tiles as recommendation context.
func ChatSystemPrompt(tiles *insights.PersonalityTiles) string {
	var b strings.Builder
	b.WriteString(chatSystemPromptHeader)
	b.WriteString("\n\nConfirmed preferences:\n")
	for _, c := range insights.Categories {
		tags := tiles.Tags[c]
		if len(tags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", c, strings.Join(tags, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
