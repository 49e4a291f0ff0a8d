package api

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tidwall/gjson"

	"github.com/diogo/gamechat/internal/models"
)

// MockClient is a mock implementation of ClientInterface for testing
type MockClient struct {
	// Mock return values
	BaseURLVal        string
	ChatVal           *models.ChatResponse
	ChatErr           error
	SearchVal         []gjson.Result
	SearchErr         error
	DetailsVal        gjson.Result
	DetailsErr        error
	AnalyzeVal        gjson.Result
	AnalyzeErr        error
	HealthVal         gjson.Result
	HealthErr         error
	KnowledgeStatsVal gjson.Result
	KnowledgeStatsErr error
	ClearVal          gjson.Result
	ClearErr          error

	// ChatFunc, when set, replaces ChatVal/ChatErr.
	ChatFunc func(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)

	// Call recorders
	mu           sync.Mutex
	ChatRequests []models.ChatRequest
	LastQuery    string
	LastLimit    int
	LastAppID    int
	ClearCalled  bool
}

// Ensure MockClient implements ClientInterface
var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return "http://mock/api/v1"
	}
	return m.BaseURLVal
}

func (m *MockClient) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.ChatRequests = append(m.ChatRequests, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return m.ChatVal, m.ChatErr
}

// ChatCalls returns how many chat requests were recorded.
func (m *MockClient) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatRequests)
}

func (m *MockClient) SearchGames(ctx context.Context, query string, limit int) ([]gjson.Result, error) {
	m.LastQuery = query
	m.LastLimit = limit
	return m.SearchVal, m.SearchErr
}

func (m *MockClient) GameDetails(ctx context.Context, appID int) (gjson.Result, error) {
	m.LastAppID = appID
	return m.DetailsVal, m.DetailsErr
}

func (m *MockClient) AnalyzeGame(ctx context.Context, appID int) (gjson.Result, error) {
	m.LastAppID = appID
	return m.AnalyzeVal, m.AnalyzeErr
}

func (m *MockClient) Health(ctx context.Context) (gjson.Result, error) {
	return m.HealthVal, m.HealthErr
}

func (m *MockClient) KnowledgeStats(ctx context.Context) (gjson.Result, error) {
	return m.KnowledgeStatsVal, m.KnowledgeStatsErr
}

func (m *MockClient) ClearKnowledge(ctx context.Context) (gjson.Result, error) {
	m.ClearCalled = true
	return m.ClearVal, m.ClearErr
}

// ReplyWith returns a ChatResponse carrying text, for use as ChatVal.
func ReplyWith(text string) *models.ChatResponse {
	resp, _ := models.ParseChatResponse(`{"response":` + jsonString(text) + `,"success":true}`)
	return resp
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
