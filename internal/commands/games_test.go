package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/diogo/gamechat/internal/api"
	apierrors "github.com/diogo/gamechat/internal/errors"
)

func TestGamesSearch_Markdown(t *testing.T) {
	client := &api.MockClient{
		SearchVal: gjson.Parse(`[{"app_id":367520,"name":"Hollow Knight","type":"game"}]`).Array(),
	}
	env := newTestEnv(t, client)

	if err := env.run("games", "search", "hollow", "knight", "--limit", "3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.LastQuery != "hollow knight" || client.LastLimit != 3 {
		t.Errorf("unexpected search args %q/%d", client.LastQuery, client.LastLimit)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "| 367520 | Hollow Knight | game |") {
		t.Errorf("expected markdown table row, got %q", out)
	}
}

func TestGamesSearch_JSON(t *testing.T) {
	client := &api.MockClient{
		SearchVal: gjson.Parse(`[{"app_id":1,"name":"A"},{"app_id":2,"name":"B"}]`).Array(),
	}
	env := newTestEnv(t, client)

	if err := env.run("games", "search", "x", "--json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := env.stdout.String()
	if !gjson.Valid(out) {
		t.Fatalf("expected valid JSON, got %q", out)
	}
	if got := gjson.Get(out, "#").Int(); got != 2 {
		t.Errorf("expected 2 results, got %d", got)
	}
	if !strings.Contains(out, "\n  ") {
		t.Errorf("expected indented output, got %q", out)
	}
}

func TestGamesSearch_InvalidLimit(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{})

	if err := env.run("games", "search", "x", "--limit", "0"); err == nil {
		t.Fatal("expected an error for --limit 0")
	}
}

func TestGamesDetails(t *testing.T) {
	client := &api.MockClient{
		DetailsVal: gjson.Parse(`{"app_id":1245620,"name":"ELDEN RING","price":"$59.99","genres":["Action","RPG"]}`),
	}
	env := newTestEnv(t, client)

	if err := env.run("games", "details", "1245620"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.LastAppID != 1245620 {
		t.Errorf("expected app id 1245620, got %d", client.LastAppID)
	}
	out := env.stdout.String()
	for _, want := range []string{"# ELDEN RING", "$59.99", "Action, RPG"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got %q", want, out)
		}
	}
}

func TestGamesDetails_InvalidAppID(t *testing.T) {
	tests := []string{"abc", "0", "-5"}
	for _, arg := range tests {
		t.Run(arg, func(t *testing.T) {
			env := newTestEnv(t, &api.MockClient{})
			err := env.run("games", "details", "--", arg)
			if !errors.Is(err, apierrors.ErrInvalidAppID) {
				t.Errorf("expected ErrInvalidAppID, got %v", err)
			}
		})
	}
}

func TestGamesDetails_NotFound(t *testing.T) {
	client := &api.MockClient{DetailsErr: apierrors.NewAPIError(404, "/games/details", "Game not found")}
	env := newTestEnv(t, client)

	err := env.run("games", "details", "42")
	if !apierrors.IsNotFound(err) {
		t.Errorf("expected a not found error, got %v", err)
	}
}

func TestGamesAnalyze(t *testing.T) {
	client := &api.MockClient{
		AnalyzeVal: gjson.Parse(`{"game_name":"Hades","analysis":"Players love the combat.","review_stats":{"positive":10}}`),
	}
	env := newTestEnv(t, client)

	if err := env.run("games", "analyze", "1145360"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := env.stdout.String()
	if !strings.Contains(out, "Review analysis: Hades") || !strings.Contains(out, "Players love the combat.") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRawArray(t *testing.T) {
	if got := string(rawArray(nil)); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
	results := gjson.Parse(`[1,{"a":2}]`).Array()
	if got := string(rawArray(results)); got != `[1,{"a":2}]` {
		t.Errorf("unexpected %q", got)
	}
}
