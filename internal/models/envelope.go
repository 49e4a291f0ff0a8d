package models

import (
	"time"

	"github.com/tidwall/gjson"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message             string    `json:"message"`
	ConversationHistory []Message `json:"conversation_history"`
	UseTools            bool      `json:"use_tools"`
}

// NewChatRequest builds a request, copying history so later appends to the
// caller's slice cannot leak into an in-flight request.
func NewChatRequest(message string, history []Message, useTools bool) ChatRequest {
	h := make([]Message, len(history))
	copy(h, history)
	return ChatRequest{
		Message:             message,
		ConversationHistory: h,
		UseTools:            useTools,
	}
}

// ChatResponse is the loosely typed reply envelope from POST /chat.
// Only Response is required; everything else is optional and the raw payload
// is kept so callers can read fields the backend adds later.
type ChatResponse struct {
	Response  string
	Success   bool
	Metadata  map[string]interface{}
	Timestamp string

	raw string
}

// Field reads an arbitrary gjson path from the raw envelope.
func (r *ChatResponse) Field(path string) gjson.Result {
	return gjson.Get(r.raw, path)
}

// Raw returns the undecoded response body.
func (r *ChatResponse) Raw() string {
	return r.raw
}

// Time parses Timestamp. The backend emits ISO-8601 with or without a zone.
func (r *ChatResponse) Time() (time.Time, bool) {
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, r.Timestamp); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseChatResponse decodes a /chat body. ok is false when the body is not a
// JSON object or lacks a string "response" field.
func ParseChatResponse(body string) (*ChatResponse, bool) {
	if !gjson.Valid(body) {
		return nil, false
	}
	root := gjson.Parse(body)
	if !root.IsObject() {
		return nil, false
	}
	text := root.Get("response")
	if text.Type != gjson.String {
		return nil, false
	}

	resp := &ChatResponse{
		Response:  text.String(),
		Success:   root.Get("success").Bool(),
		Timestamp: root.Get("timestamp").String(),
		raw:       body,
	}
	if meta := root.Get("metadata"); meta.IsObject() {
		if m, ok := meta.Value().(map[string]interface{}); ok {
			resp.Metadata = m
		}
	}
	return resp, true
}

// GameSearchRequest is the body of POST /games/search.
type GameSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// GameRequest is the body of POST /games/details and /games/analyze.
type GameRequest struct {
	AppID int `json:"app_id"`
}
