package commands

import (
	"errors"
	"strings"
	"testing"

	apierrors "github.com/diogo/gamechat/internal/errors"
)

func TestFormatErrorMessage_Nil(t *testing.T) {
	if got := formatErrorMessage(nil, "ctx"); got != "" {
		t.Fatalf("expected empty for nil error, got %s", got)
	}
}

func TestFormatErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "api error with body",
			err:  apierrors.NewAPIError(500, "/chat", "failure").WithBody("agent crashed"),
			want: []string{"Failed", "HTTP Status: 500", "Endpoint: /chat", "agent crashed"},
		},
		{
			name: "network error",
			err:  apierrors.NewNetworkError("request", "/chat", errors.New("connection refused")),
			want: []string{"Endpoint: /chat", "Hint", "--api-url"},
		},
		{
			name: "parse error",
			err:  apierrors.NewParseError("missing response", "/chat"),
			want: []string{"Hint", "unexpected payload"},
		},
		{
			name: "not found",
			err:  apierrors.NewAPIError(404, "/games/details", "Game not found"),
			want: []string{"HTTP Status: 404", "Hint", "app_id"},
		},
		{
			name: "plain error",
			err:  errors.New("something odd"),
			want: []string{"Failed", "something odd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := formatErrorMessage(tt.err, "Failed")
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %q in %q", w, out)
				}
			}
		})
	}
}
