package render

import (
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestSearchResultsMarkdown(t *testing.T) {
	results := gjson.Parse(`[
		{"app_id":1245620,"name":"ELDEN RING","type":"app"},
		{"app_id":1,"name":"Pipe | Game"}
	]`).Array()

	md := SearchResultsMarkdown("elden", results)

	for _, want := range []string{`Results for "elden"`, "| 1245620 | ELDEN RING | app |", `Pipe \| Game`, "| - |"} {
		if !strings.Contains(md, want) {
			t.Errorf("SearchResultsMarkdown() missing %q in:\n%s", want, md)
		}
	}

	empty := SearchResultsMarkdown("zzz", nil)
	if !strings.Contains(empty, "No games found") {
		t.Errorf("empty results should say so, got:\n%s", empty)
	}
}

func TestGameDetailsMarkdown(t *testing.T) {
	game := gjson.Parse(`{
		"app_id": 1086940,
		"name": "Baldur's Gate 3",
		"short_description": "Gather your party.",
		"developers": ["Larian Studios"],
		"genres": [{"id":"3","description":"RPG"},{"id":"25","description":"Adventure"}],
		"price": "$59.99",
		"metacritic": null,
		"reviews_summary": {"review_score_desc":"Overwhelmingly Positive","total_positive":600000,"total_negative":20000,"total_reviews":620000},
		"sample_reviews": [{"review":"Best RPG in years.","voted_up":true}]
	}`)

	md := GameDetailsMarkdown(game)

	for _, want := range []string{
		"# Baldur's Gate 3",
		"Gather your party.",
		"**Developers:** Larian Studios",
		"**Genres:** RPG, Adventure",
		"**Price:** $59.99",
		"Overwhelmingly Positive",
		"👍 Best RPG in years.",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("GameDetailsMarkdown() missing %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Metacritic") {
		t.Error("null metacritic should be omitted")
	}
}

func TestAnalysisMarkdown(t *testing.T) {
	md := AnalysisMarkdown(gjson.Parse(`{"game_name":"Hades","analysis":"Players love it.","review_stats":{"total":100,"positive":97,"negative":3,"score_desc":"Overwhelmingly Positive"}}`))

	for _, want := range []string{"Review analysis: Hades", "**Positive:** 97", "Players love it."} {
		if !strings.Contains(md, want) {
			t.Errorf("AnalysisMarkdown() missing %q in:\n%s", want, md)
		}
	}
}

func TestHealthMarkdown(t *testing.T) {
	md := HealthMarkdown(gjson.Parse(`{"status":"healthy","version":"1.0.0","services":{"steam_api":true,"vector_db":false}}`))

	for _, want := range []string{"Backend: healthy", "**Version:** 1.0.0", "| steam_api | up |", "| vector_db | down |"} {
		if !strings.Contains(md, want) {
			t.Errorf("HealthMarkdown() missing %q in:\n%s", want, md)
		}
	}
}

func TestKnowledgeStatsMarkdown(t *testing.T) {
	md := KnowledgeStatsMarkdown(gjson.Parse(`{"total_documents":42,"collection_name":"games"}`))
	if !strings.Contains(md, "**Documents:** 42") || !strings.Contains(md, "**Collection:** games") {
		t.Errorf("KnowledgeStatsMarkdown() = %s", md)
	}
	if strings.Contains(md, "Reviews") {
		t.Error("missing fields should be omitted")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("line one\nline two", 100); got != "line one line two" {
		t.Errorf("truncate() should flatten newlines, got %q", got)
	}
	if got := truncate(strings.Repeat("é", 20), 10); got != strings.Repeat("é", 7)+"..." {
		t.Errorf("truncate() = %q", got)
	}
}
