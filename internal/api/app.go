// Package api exposes DoLater over HTTP and MCP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/dolater/internal/chat"
	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/search"
	"github.com/kalambet/dolater/internal/storage"
)

const maxRequestBodySize = 1 << 20

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// SearchResponse is the body returned by GET /search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Filters search.Filters `json:"filters"`
	Count   int            `json:"count"`
	Results []content.Item `json:"results"`
}

// NewAppHandler builds the HTTP API. /health is public; everything else
// requires the bearer token.
func NewAppHandler(svc *Service, token string) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))

		r.Post("/items", handleSaveItem(svc))
		r.Get("/items", handleListItems(svc))
		r.Delete("/items/{id}", handleDeleteItem(svc))
		r.Get("/search", handleSearch(svc))
		r.Get("/recent-searches", handleRecentSearches(svc))
		r.Post("/analyze", handleAnalyze(svc))
		r.Post("/chat", handleChatSend(svc))
		r.Get("/chat", handleChatHistory(svc))
		r.Delete("/chat", handleChatClear(svc))
	})
	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleSaveItem(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var it content.Item
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		saved, err := svc.SaveItem(it)
		switch {
		case errors.Is(err, ErrInvalidItem):
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		case err != nil:
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save item: %v", err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":     saved.ID,
			"status": "queued",
			"item":   saved,
		})
	}
}

func handleListItems(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Items()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list items: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleDeleteItem(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := svc.DeleteItem(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found", "item %s not found", id)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "failed to delete item: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSearch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := q.Get("q")
		filters := search.Filters{
			Platform:   q.Get("platform"),
			Category:   q.Get("category"),
			DateRange:  q.Get("date"),
			ActionType: q.Get("action"),
		}

		results, err := svc.Search(query, filters)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "search failed: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, SearchResponse{
			Query:   query,
			Filters: filters,
			Count:   len(results),
			Results: results,
		})
	}
}

func handleRecentSearches(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		writeJSON(w, http.StatusOK, svc.SuggestSearches(prefix))
	}
}

func handleAnalyze(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if strings.TrimSpace(req.Title+req.Content+req.URL) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "one of title, content or url is required")
			return
		}
		writeJSON(w, http.StatusOK, svc.Analyze(r.Context(), req.Title, req.Content, req.URL))
	}
}

func handleChatSend(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		msg, err := svc.Ask(r.Context(), req.Message)
		if errors.Is(err, chat.ErrEmptyMessage) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	}
}

func handleChatHistory(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Conversation())
	}
}

func handleChatClear(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.ClearConversation()
		writeJSON(w, http.StatusOK, svc.Conversation())
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}
