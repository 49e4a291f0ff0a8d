package api

import (
	"context"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/gamechat/internal/errors"
	"github.com/diogo/gamechat/internal/models"
)

// Chat sends one user message with its prior history.
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, apierrors.ErrEmptyPrompt
	}
	if req.ConversationHistory == nil {
		req.ConversationHistory = []models.Message{}
	}

	body, err := c.doJSON(ctx, http.MethodPost, PathChat, req)
	if err != nil {
		return nil, err
	}

	resp, ok := models.ParseChatResponse(body)
	if !ok {
		return nil, apierrors.NewParseError("chat reply has no response text", PathChat)
	}
	return resp, nil
}

// SearchGames looks games up by name. limit <= 0 leaves the backend default.
func (c *Client) SearchGames(ctx context.Context, query string, limit int) ([]gjson.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apierrors.ErrEmptyQuery
	}

	req := models.GameSearchRequest{Query: query}
	if limit > 0 {
		req.Limit = limit
	}

	body, err := c.doJSON(ctx, http.MethodPost, PathGamesSearch, req)
	if err != nil {
		return nil, err
	}

	result, err := parseJSON(body, PathGamesSearch)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return nil, apierrors.NewParseError("search results are not an array", PathGamesSearch)
	}
	return result.Array(), nil
}

// GameDetails fetches enriched data for a single Steam app.
func (c *Client) GameDetails(ctx context.Context, appID int) (gjson.Result, error) {
	return c.postGame(ctx, PathGamesDetails, appID)
}

// AnalyzeGame asks the backend for a review-sentiment analysis.
func (c *Client) AnalyzeGame(ctx context.Context, appID int) (gjson.Result, error) {
	return c.postGame(ctx, PathGamesAnalyze, appID)
}

func (c *Client) postGame(ctx context.Context, path string, appID int) (gjson.Result, error) {
	if appID <= 0 {
		return gjson.Result{}, apierrors.ErrInvalidAppID
	}
	body, err := c.doJSON(ctx, http.MethodPost, path, models.GameRequest{AppID: appID})
	if err != nil {
		return gjson.Result{}, err
	}
	return parseJSON(body, path)
}

// Health returns the backend's status object.
func (c *Client) Health(ctx context.Context) (gjson.Result, error) {
	return c.getJSON(ctx, PathHealth)
}

// KnowledgeStats returns counts for the backend's knowledge base.
func (c *Client) KnowledgeStats(ctx context.Context) (gjson.Result, error) {
	return c.getJSON(ctx, PathKnowledgeStats)
}

// ClearKnowledge deletes every document in the backend's knowledge base.
func (c *Client) ClearKnowledge(ctx context.Context) (gjson.Result, error) {
	body, err := c.doJSON(ctx, http.MethodDelete, PathKnowledgeClear, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return parseJSON(body, PathKnowledgeClear)
}

func (c *Client) getJSON(ctx context.Context, path string) (gjson.Result, error) {
	body, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return gjson.Result{}, err
	}
	return parseJSON(body, path)
}
