// Package api provides the HTTP client for the game assistant backend.
package api

// Endpoint paths, relative to the configured base URL.
const (
	PathChat           = "/chat"
	PathGamesSearch    = "/games/search"
	PathGamesDetails   = "/games/details"
	PathGamesAnalyze   = "/games/analyze"
	PathHealth         = "/health"
	PathKnowledgeStats = "/knowledge/stats"
	PathKnowledgeClear = "/knowledge/clear"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 10 << 20

// maxErrorBodyBytes bounds the body kept on an APIError.
const maxErrorBodyBytes = 4096
