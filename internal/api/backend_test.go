package api

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/go-chi/chi/v5"

	"github.com/diogo/gamechat/internal/models"
)

// routerDoer serves fhttp requests from an in-process net/http handler.
type routerDoer struct {
	handler nethttp.Handler
}

func (d routerDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	var body io.Reader = nethttp.NoBody
	if req.Body != nil {
		body = req.Body
	}

	r := httptest.NewRequest(req.Method, req.URL.String(), body).WithContext(req.Context())
	for key, values := range req.Header {
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}

	rec := httptest.NewRecorder()
	d.handler.ServeHTTP(rec, r)
	res := rec.Result()

	return &fhttp.Response{
		Status:     res.Status,
		StatusCode: res.StatusCode,
		Header:     fhttp.Header(res.Header),
		Body:       res.Body,
		Request:    req,
	}, nil
}

// doFunc adapts a function to HTTPDoer.
type doFunc func(req *fhttp.Request) (*fhttp.Response, error)

func (f doFunc) Do(req *fhttp.Request) (*fhttp.Response, error) {
	return f(req)
}

// fakeBackend mimics the game assistant API under /api/v1.
type fakeBackend struct {
	mu          sync.Mutex
	chatBodies  []models.ChatRequest
	contentType string
	chatReply   string
	chatStatus  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		chatReply:  `{"response":"Hi!","success":true,"metadata":{"tools_used":[]},"timestamp":"2025-01-02T03:04:05"}`,
		chatStatus: nethttp.StatusOK,
	}
}

func (b *fakeBackend) router() nethttp.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", b.handleChat)
		r.Post("/games/search", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			var req models.GameSearchRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			writeJSON(w, nethttp.StatusOK, []map[string]interface{}{
				{"app_id": 1245620, "name": "ELDEN RING", "type": "app"},
				{"app_id": 2778580, "name": "ELDEN RING NIGHTREIGN", "type": "app"},
			})
		})
		r.Post("/games/details", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			var req models.GameRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.AppID != 1245620 {
				writeJSON(w, nethttp.StatusNotFound, map[string]string{"detail": "Game with ID 7 not found"})
				return
			}
			writeJSON(w, nethttp.StatusOK, map[string]interface{}{
				"app_id": req.AppID,
				"name":   "ELDEN RING",
				"price":  "$59.99",
			})
		})
		r.Post("/games/analyze", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			writeJSON(w, nethttp.StatusOK, map[string]interface{}{
				"game_name": "ELDEN RING",
				"analysis":  "Very positive.",
			})
		})
		r.Get("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			writeJSON(w, nethttp.StatusOK, map[string]interface{}{
				"status":   "healthy",
				"services": map[string]bool{"steam_api": true},
			})
		})
		r.Get("/knowledge/stats", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			writeJSON(w, nethttp.StatusOK, map[string]interface{}{"total_documents": 12})
		})
		r.Delete("/knowledge/clear", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			writeJSON(w, nethttp.StatusOK, map[string]interface{}{"success": true})
		})
	})
	return r
}

func (b *fakeBackend) handleChat(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, nethttp.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	b.mu.Lock()
	b.chatBodies = append(b.chatBodies, req)
	b.contentType = r.Header.Get("Content-Type")
	status, reply := b.chatStatus, b.chatReply
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}

func writeJSON(w nethttp.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
