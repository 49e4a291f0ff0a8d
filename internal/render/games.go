package render

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// SearchResultsMarkdown renders /games/search results as a table.
func SearchResultsMarkdown(query string, results []gjson.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Results for \"%s\"\n\n", query)

	if len(results) == 0 {
		sb.WriteString("_No games found._\n")
		return sb.String()
	}

	sb.WriteString("| App ID | Name | Type |\n")
	sb.WriteString("|---:|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&sb, "| %d | %s | %s |\n",
			r.Get("app_id").Int(),
			escapeCell(r.Get("name").String()),
			orDash(r.Get("type").String()),
		)
	}
	return sb.String()
}

// GameDetailsMarkdown renders a /games/details payload.
func GameDetailsMarkdown(game gjson.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", orDash(game.Get("name").String()))
	if desc := game.Get("short_description").String(); desc != "" {
		sb.WriteString(desc)
		sb.WriteString("\n\n")
	}

	writeField(&sb, "App ID", game.Get("app_id").String())
	writeField(&sb, "Price", game.Get("price").String())
	writeField(&sb, "Released", game.Get("release_date").String())
	writeField(&sb, "Developers", joinStrings(game.Get("developers")))
	writeField(&sb, "Publishers", joinStrings(game.Get("publishers")))
	writeField(&sb, "Genres", joinStrings(game.Get("genres")))
	if mc := game.Get("metacritic"); mc.Exists() && mc.Type != gjson.Null {
		writeField(&sb, "Metacritic", mc.String())
	}
	if players := game.Get("current_players"); players.Exists() && players.Type != gjson.Null {
		writeField(&sb, "Playing now", players.String())
	}

	if reviews := game.Get("reviews_summary"); reviews.Exists() {
		sb.WriteString("\n## Reviews\n\n")
		writeField(&sb, "Score", reviews.Get("review_score_desc").String())
		writeField(&sb, "Positive", reviews.Get("total_positive").String())
		writeField(&sb, "Negative", reviews.Get("total_negative").String())
		writeField(&sb, "Total", reviews.Get("total_reviews").String())
	}

	if samples := game.Get("sample_reviews"); samples.IsArray() && len(samples.Array()) > 0 {
		sb.WriteString("\n## Sample reviews\n\n")
		for _, r := range samples.Array() {
			text := r.Get("review").String()
			if text == "" {
				text = r.String()
			}
			verdict := "👎"
			if r.Get("voted_up").Bool() {
				verdict = "👍"
			}
			fmt.Fprintf(&sb, "> %s %s\n\n", verdict, truncate(text, 280))
		}
	}

	return sb.String()
}

// AnalysisMarkdown renders a /games/analyze payload.
func AnalysisMarkdown(analysis gjson.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Review analysis: %s\n\n", orDash(analysis.Get("game_name").String()))
	if stats := analysis.Get("review_stats"); stats.Exists() {
		writeField(&sb, "Score", stats.Get("score_desc").String())
		writeField(&sb, "Positive", stats.Get("positive").String())
		writeField(&sb, "Negative", stats.Get("negative").String())
		writeField(&sb, "Total", stats.Get("total").String())
		sb.WriteString("\n")
	}
	sb.WriteString(analysis.Get("analysis").String())
	sb.WriteString("\n")
	return sb.String()
}

// HealthMarkdown renders the /health status object.
func HealthMarkdown(health gjson.Result) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Backend: %s\n\n", orDash(health.Get("status").String()))
	writeField(&sb, "Version", health.Get("version").String())
	writeField(&sb, "Timestamp", health.Get("timestamp").String())

	if services := health.Get("services"); services.IsObject() {
		sb.WriteString("\n| Service | Status |\n|---|---|\n")
		services.ForEach(func(key, value gjson.Result) bool {
			status := value.String()
			if value.IsBool() {
				status = "down"
				if value.Bool() {
					status = "up"
				}
			}
			fmt.Fprintf(&sb, "| %s | %s |\n", key.String(), status)
			return true
		})
	}
	return sb.String()
}

// KnowledgeStatsMarkdown renders /knowledge/stats.
func KnowledgeStatsMarkdown(stats gjson.Result) string {
	var sb strings.Builder
	sb.WriteString("## Knowledge base\n\n")
	writeField(&sb, "Collection", stats.Get("collection_name").String())
	writeField(&sb, "Documents", stats.Get("total_documents").String())
	writeField(&sb, "Games", stats.Get("estimated_games").String())
	writeField(&sb, "Reviews", stats.Get("estimated_reviews").String())
	return sb.String()
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "- **%s:** %s\n", label, value)
}

func joinStrings(arr gjson.Result) string {
	if !arr.IsArray() {
		return arr.String()
	}
	var parts []string
	for _, v := range arr.Array() {
		// Steam genres come back as {"id","description"} objects.
		if d := v.Get("description"); d.Exists() {
			parts = append(parts, d.String())
			continue
		}
		parts = append(parts, v.String())
	}
	return strings.Join(parts, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
