package api

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	apierrors "github.com/diogo/gamechat/internal/errors"
	"github.com/diogo/gamechat/internal/models"
)

const testBase = "http://backend.test/api/v1"

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	c, err := NewClient(testBase, WithHTTPClient(routerDoer{handler: backend.router()}))
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		want    string
	}{
		{name: "local default", baseURL: "http://localhost:8000/api/v1", want: "http://localhost:8000/api/v1"},
		{name: "trailing slash trimmed", baseURL: "https://x.example/api/v1/", want: "https://x.example/api/v1"},
		{name: "bad scheme", baseURL: "ftp://x.example", wantErr: true},
		{name: "no host", baseURL: "http://", wantErr: true},
		{name: "garbage", baseURL: "://nope", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.baseURL, WithHTTPClient(doFunc(nil)))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.BaseURL())
		})
	}
}

func TestNewClient_DefaultTransport(t *testing.T) {
	c, err := NewClient("http://localhost:8000/api/v1")
	require.NoError(t, err)
	assert.NotNil(t, c.httpClient)
}

func TestClient_Chat(t *testing.T) {
	backend := newFakeBackend()
	c := newTestClient(t, backend)

	history := []models.Message{
		models.NewUserMessage("Hello"),
		models.NewAssistantMessage("Hi!"),
	}
	resp, err := c.Chat(context.Background(), models.NewChatRequest("Tell me about Elden Ring", history, true))
	require.NoError(t, err)

	assert.Equal(t, "Hi!", resp.Response)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Metadata)

	require.Len(t, backend.chatBodies, 1)
	sent := backend.chatBodies[0]
	assert.Equal(t, "Tell me about Elden Ring", sent.Message)
	assert.Equal(t, history, sent.ConversationHistory)
	assert.True(t, sent.UseTools)
	assert.Equal(t, "application/json", backend.contentType)
}

func TestClient_Chat_NilHistorySentAsArray(t *testing.T) {
	var captured string
	doer := doFunc(func(req *fhttp.Request) (*fhttp.Response, error) {
		buf := make([]byte, 512)
		n, _ := req.Body.Read(buf)
		captured = string(buf[:n])
		return jsonResponse(200, `{"response":"ok"}`), nil
	})

	c, err := NewClient(testBase, WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Contains(t, captured, `"conversation_history":[]`)
}

func TestClient_Chat_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: 500,
			reply:  `{"detail":"anthropic unavailable"}`,
			check: func(t *testing.T, err error) {
				assert.Equal(t, 500, apierrors.GetHTTPStatus(err))
				var apiErr *apierrors.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, "anthropic unavailable", apiErr.Message)
				assert.Equal(t, PathChat, apiErr.Endpoint)
			},
		},
		{
			name:   "validation error with structured detail",
			status: 422,
			reply:  `{"detail":[{"loc":["body","message"],"msg":"too short"}]}`,
			check: func(t *testing.T, err error) {
				assert.Equal(t, 422, apierrors.GetHTTPStatus(err))
				assert.Contains(t, err.Error(), "too short")
			},
		},
		{
			name:   "malformed body",
			status: 200,
			reply:  `<html>proxy error</html>`,
			check: func(t *testing.T, err error) {
				assert.True(t, apierrors.IsParseError(err))
			},
		},
		{
			name:   "missing response field",
			status: 200,
			reply:  `{"success":true}`,
			check: func(t *testing.T, err error) {
				assert.True(t, apierrors.IsParseError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.chatStatus = tt.status
			backend.chatReply = tt.reply
			c := newTestClient(t, backend)

			resp, err := c.Chat(context.Background(), models.NewChatRequest("Hello", nil, true))
			require.Error(t, err)
			assert.Nil(t, resp)
			tt.check(t, err)
		})
	}
}

func TestClient_Chat_NetworkError(t *testing.T) {
	doer := doFunc(func(req *fhttp.Request) (*fhttp.Response, error) {
		return nil, errors.New("dial tcp 127.0.0.1:8000: connection refused")
	})
	c, err := NewClient(testBase, WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), models.NewChatRequest("Hello", nil, true))
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkError(err))
	assert.Equal(t, testBase+PathChat, apierrors.GetEndpoint(err))
}

func TestClient_Chat_EmptyMessage(t *testing.T) {
	called := false
	doer := doFunc(func(req *fhttp.Request) (*fhttp.Response, error) {
		called = true
		return nil, nil
	})
	c, err := NewClient(testBase, WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), models.NewChatRequest("   ", nil, true))
	assert.ErrorIs(t, err, apierrors.ErrEmptyPrompt)
	assert.False(t, called, "empty message must not hit the network")
}

func TestClient_SearchGames(t *testing.T) {
	c := newTestClient(t, newFakeBackend())

	results, err := c.SearchGames(context.Background(), "elden", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "ELDEN RING", results[0].Get("name").String())
	assert.Equal(t, int64(1245620), results[0].Get("app_id").Int())

	_, err = c.SearchGames(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, apierrors.ErrEmptyQuery)
}

func TestClient_SearchGames_NotArray(t *testing.T) {
	doer := doFunc(func(req *fhttp.Request) (*fhttp.Response, error) {
		return jsonResponse(200, `{"results":[]}`), nil
	})
	c, err := NewClient(testBase, WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = c.SearchGames(context.Background(), "x", 0)
	assert.True(t, apierrors.IsParseError(err))
}

func TestClient_GameDetails(t *testing.T) {
	c := newTestClient(t, newFakeBackend())

	details, err := c.GameDetails(context.Background(), 1245620)
	require.NoError(t, err)
	assert.Equal(t, "$59.99", details.Get("price").String())

	_, err = c.GameDetails(context.Background(), 7)
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))

	_, err = c.GameDetails(context.Background(), 0)
	assert.ErrorIs(t, err, apierrors.ErrInvalidAppID)
}

func TestClient_AnalyzeHealthKnowledge(t *testing.T) {
	c := newTestClient(t, newFakeBackend())
	ctx := context.Background()

	analysis, err := c.AnalyzeGame(ctx, 1245620)
	require.NoError(t, err)
	assert.Equal(t, "Very positive.", analysis.Get("analysis").String())

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Get("status").String())
	assert.True(t, health.Get("services.steam_api").Bool())

	stats, err := c.KnowledgeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Get("total_documents").Int())

	cleared, err := c.ClearKnowledge(ctx)
	require.NoError(t, err)
	assert.True(t, cleared.Get("success").Bool())
}

func TestClient_RequestHeaders(t *testing.T) {
	var got fhttp.Header
	var method, path string
	doer := doFunc(func(req *fhttp.Request) (*fhttp.Response, error) {
		got = req.Header
		method = req.Method
		path = req.URL.Path
		return jsonResponse(200, `{"status":"healthy"}`), nil
	})
	c, err := NewClient(testBase, WithHTTPClient(doer))
	require.NoError(t, err)

	_, err = c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fhttp.MethodGet, method)
	assert.Equal(t, "/api/v1/health", path)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Empty(t, got.Get("Authorization"))
}

func jsonResponse(status int, body string) *fhttp.Response {
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestClient_Chat_OversizedResponseIsLogged(t *testing.T) {
	body := `{"response":"` + strings.Repeat("a", maxResponseBytes) + `"}`
	doer := doFunc(func(req *fhttp.Request) (*fhttp.Response, error) {
		return jsonResponse(200, body), nil
	})
	core, logs := observer.New(zap.WarnLevel)
	c, err := NewClient(testBase, WithHTTPClient(doer), WithLogger(zap.New(core)))
	require.NoError(t, err)

	_, err = c.Chat(context.Background(), models.NewChatRequest("list every game", nil, true))
	require.Error(t, err)
	assert.True(t, apierrors.IsParseError(err))

	warnings := logs.FilterMessage("response body truncated").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, PathChat, warnings[0].ContextMap()["endpoint"])
	assert.EqualValues(t, maxResponseBytes, warnings[0].ContextMap()["limit_bytes"])
}

func TestClient_ResponseAtLimitIsNotLogged(t *testing.T) {
	doer := doFunc(func(req *fhttp.Request) (*fhttp.Response, error) {
		return jsonResponse(200, `{"response":"short"}`), nil
	})
	core, logs := observer.New(zap.WarnLevel)
	c, err := NewClient(testBase, WithHTTPClient(doer), WithLogger(zap.New(core)))
	require.NoError(t, err)

	resp, err := c.Chat(context.Background(), models.NewChatRequest("hi", nil, true))
	require.NoError(t, err)
	assert.Equal(t, "short", resp.Response)
	assert.Zero(t, logs.Len())
}
