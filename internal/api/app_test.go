package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kalambet/dolater/internal/assistant"
	"github.com/kalambet/dolater/internal/chat"
	"github.com/kalambet/dolater/internal/classify"
	"github.com/kalambet/dolater/internal/content"
	"github.com/kalambet/dolater/internal/ingest"
	"github.com/kalambet/dolater/internal/search"
	"github.com/kalambet/dolater/internal/storage"
)

const testToken = "test-token-12345"

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := NewService(ServiceDeps{
		Store:    store,
		Analyzer: classify.NewAnalyzer(nil),
		Engine:   assistant.New(1),
		UserID:   "u1",
		Now:      func() time.Time { return testNow },
	})
	return svc, store
}

func setupAppHandler(t *testing.T) (http.Handler, *Service, *storage.Store) {
	t.Helper()
	svc, store := newTestService(t)
	return NewAppHandler(svc, testToken), svc, store
}

func authReq(method, url, body, token string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthIsPublic(t *testing.T) {
	h, _, _ := setupAppHandler(t)
	rr := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	h, _, _ := setupAppHandler(t)
	for _, tok := range []string{"", "wrong"} {
		rr := serve(h, authReq(http.MethodGet, "/items", "", tok))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", tok, rr.Code)
		}
		var body struct {
			Error struct {
				Type string `json:"type"`
			} `json:"error"`
		}
		json.Unmarshal(rr.Body.Bytes(), &body)
		if body.Error.Type != "authentication_error" {
			t.Errorf("error type = %q", body.Error.Type)
		}
	}
}

func TestEmptyTokenRejectsAll(t *testing.T) {
	svc, _ := newTestService(t)
	h := NewAppHandler(svc, "")
	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Authorization", "Bearer ")
	if rr := serve(h, req); rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestSaveItemQueuesClassification(t *testing.T) {
	h, _, store := setupAppHandler(t)

	body := `{"title":"Morning yoga flow","url":"https://example.com/yoga","category":"Fitness"}`
	rr := serve(h, authReq(http.MethodPost, "/items", body, testToken))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID     string       `json:"id"`
		Status string       `json:"status"`
		Item   content.Item `json:"item"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" || resp.Status != "queued" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Item.UserID != "u1" || !resp.Item.DateAdded.Equal(testNow) || resp.Item.Category != content.Fitness {
		t.Errorf("item = %+v", resp.Item)
	}

	got, err := store.GetItem(resp.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Title != "Morning yoga flow" {
		t.Errorf("stored title = %q", got.Title)
	}

	job, err := store.ClaimNextJob([]string{ingest.ClassifyJobType})
	if err != nil || job == nil {
		t.Fatalf("expected queued job, got %v, %v", job, err)
	}
	if !strings.Contains(job.PayloadJSON, `"keep_category":true`) {
		t.Errorf("payload = %s", job.PayloadJSON)
	}
}

func TestSaveItemValidation(t *testing.T) {
	h, _, _ := setupAppHandler(t)
	for _, body := range []string{`not json`, `{"title":"  "}`} {
		rr := serve(h, authReq(http.MethodPost, "/items", body, testToken))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestSaveItemTitleFromURL(t *testing.T) {
	svc, _ := newTestService(t)
	it, err := svc.SaveItem(content.Item{URL: "https://example.com/a"})
	if err != nil {
		t.Fatalf("SaveItem: %v", err)
	}
	if it.Title != "https://example.com/a" {
		t.Errorf("Title = %q", it.Title)
	}
}

func TestListAndDeleteItems(t *testing.T) {
	h, svc, _ := setupAppHandler(t)
	saved, err := svc.SaveItem(content.Item{Title: "Budget sheet"})
	if err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	rr := serve(h, authReq(http.MethodGet, "/items", "", testToken))
	var items []content.Item
	json.Unmarshal(rr.Body.Bytes(), &items)
	if len(items) != 1 || items[0].ID != saved.ID {
		t.Fatalf("items = %+v", items)
	}

	rr = serve(h, authReq(http.MethodDelete, "/items/"+saved.ID, "", testToken))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = serve(h, authReq(http.MethodDelete, "/items/"+saved.ID, "", testToken))
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}

	rr = serve(h, authReq(http.MethodGet, "/items", "", testToken))
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("list after delete = %s", rr.Body.String())
	}
}

func TestSearchEndpoint(t *testing.T) {
	h, svc, _ := setupAppHandler(t)
	svc.SaveItem(content.Item{Title: "Kettlebell workout", Category: content.Fitness, DateAdded: testNow})
	svc.SaveItem(content.Item{Title: "Index fund basics", Category: content.Finance, DateAdded: testNow.Add(-10 * 24 * time.Hour)})
	svc.SaveItem(content.Item{Title: "Fund a workout group", Category: content.Work, DateAdded: testNow})

	rr := serve(h, authReq(http.MethodGet, "/search?q=fund&date=week", "", testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp SearchResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || resp.Results[0].Title != "Fund a workout group" {
		t.Errorf("results = %+v", resp.Results)
	}

	rr = serve(h, authReq(http.MethodGet, "/search?category=fitness", "", testToken))
	json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Count != 1 || resp.Results[0].Category != content.Fitness {
		t.Errorf("category results = %+v", resp.Results)
	}

	rr = serve(h, authReq(http.MethodGet, "/recent-searches", "", testToken))
	var recent []string
	json.Unmarshal(rr.Body.Bytes(), &recent)
	if len(recent) != 1 || recent[0] != "fund" {
		t.Errorf("recent = %v, blank queries must not be recorded", recent)
	}
}

func TestRecentSearchesPersist(t *testing.T) {
	svc, store := newTestService(t)
	for _, q := range []string{"yoga", "budget", "yoga"} {
		if _, err := svc.Search(q, search.DefaultFilters()); err != nil {
			t.Fatalf("Search: %v", err)
		}
	}
	reloaded := NewService(ServiceDeps{Store: store, UserID: "u1"})
	got := reloaded.RecentSearches()
	if len(got) != 2 || got[0] != "yoga" || got[1] != "budget" {
		t.Errorf("recent = %v", got)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	h, _, _ := setupAppHandler(t)
	body := `{"title":"Retirement savings guide","content":"How to invest for retirement with low-cost index funds and a simple budget."}`
	rr := serve(h, authReq(http.MethodPost, "/analyze", body, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var r classify.Result
	json.Unmarshal(rr.Body.Bytes(), &r)
	if r.Category != content.Finance || r.Summary == "" || r.Tags == nil {
		t.Errorf("result = %+v", r)
	}

	rr = serve(h, authReq(http.MethodPost, "/analyze", `{}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty analyze status = %d", rr.Code)
	}
}

func TestChatEndpoints(t *testing.T) {
	h, _, _ := setupAppHandler(t)

	rr := serve(h, authReq(http.MethodPost, "/chat", `{"message":"hi"}`, testToken))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d; body = %s", rr.Code, rr.Body.String())
	}
	var msg chat.Message
	json.Unmarshal(rr.Body.Bytes(), &msg)
	if msg.Type != chat.Assistant || msg.Content == "" || len(msg.Suggestions) != 4 {
		t.Errorf("reply = %+v", msg)
	}

	rr = serve(h, authReq(http.MethodPost, "/chat", `{"message":"  "}`, testToken))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("blank message status = %d", rr.Code)
	}

	rr = serve(h, authReq(http.MethodGet, "/chat", "", testToken))
	var history []chat.Message
	json.Unmarshal(rr.Body.Bytes(), &history)
	if len(history) != 3 {
		t.Errorf("history length = %d, want 3", len(history))
	}

	rr = serve(h, authReq(http.MethodDelete, "/chat", "", testToken))
	json.Unmarshal(rr.Body.Bytes(), &history)
	if len(history) != 1 || history[0].Content != chat.Greeting {
		t.Errorf("history after clear = %+v", history)
	}
}

func TestChatSeesNewSaves(t *testing.T) {
	svc, _ := newTestService(t)
	empty, _ := svc.Ask(t.Context(), "summarize my content")

	svc.SaveItem(content.Item{Title: "Squat form guide", Category: content.Fitness})
	after, _ := svc.Ask(t.Context(), "summarize my content")

	if empty.Content == after.Content {
		t.Error("summary should change after a save invalidates the cache")
	}
	if !strings.Contains(after.Content, "Squat form guide") {
		t.Errorf("summary = %q", after.Content)
	}
}

func TestChatSeesWorkerClassification(t *testing.T) {
	svc, store := newTestService(t)
	an := classify.NewAnalyzer(nil)
	w := ingest.NewWorker(store, an, time.Millisecond)
	w.OnClassified(func(string) { svc.ItemsChanged() })

	saved, err := svc.SaveItem(content.Item{Title: "Deadlift and squat strength workout"})
	if err != nil {
		t.Fatalf("SaveItem: %v", err)
	}
	if _, err := svc.Ask(t.Context(), "summarize my content"); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if _, err := w.RunOnce(t.Context()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	it, err := store.GetItem(saved.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if it.Category != content.Fitness {
		t.Fatalf("classified category = %q, want fitness", it.Category)
	}

	msg, err := svc.Ask(t.Context(), "summarize my content")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(msg.Content, "FITNESS") || strings.Contains(msg.Content, "KNOWLEDGE") {
		t.Errorf("summary should group the item under its new category:\n%s", msg.Content)
	}
}
