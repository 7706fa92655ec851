package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/vidhi/internal/models"
)

// Request is one request observed by [FakeBackend].
type Request struct {
	Method string
	Path   string
	Query  string
	APIKey string
	Body   string
}

// FakeBackend is an in-process stand-in for the updates API.
//
// It accepts one username/password pair, issues [FakeBackend.Key], and serves
// updates from memory. Setting Expired makes every authorized route answer 401.
type FakeBackend struct {
	*httptest.Server

	Username string
	Password string
	Key      string

	mu        sync.Mutex
	updates   []models.Update
	requests  []Request
	Expired   bool
	FailWith  int // when non-zero, authorized routes answer this status
	ScrapeAdd []models.Update
}

// NewFakeBackend starts a fake backend seeded with updates and registers cleanup on t.
func NewFakeBackend(t *testing.T, updates ...models.Update) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		Username: "admin",
		Password: "secret",
		Key:      "fake-api-key",
		updates:  append([]models.Update(nil), updates...),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", fb.login)
	mux.HandleFunc("GET /updates/", fb.authorized(fb.list))
	mux.HandleFunc("POST /updates/fetch-live", fb.authorized(fb.scrape))
	mux.HandleFunc("DELETE /updates/all", fb.authorized(fb.deleteAll))
	mux.HandleFunc("DELETE /updates/{id}", fb.authorized(fb.deleteOne))

	fb.Server = httptest.NewServer(fb.capture(mux))
	t.Cleanup(fb.Close)
	return fb
}

// Updates returns the updates currently held by the backend.
func (fb *FakeBackend) Updates() []models.Update {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]models.Update(nil), fb.updates...)
}

// Requests returns every request received, in order.
func (fb *FakeBackend) Requests() []Request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]Request(nil), fb.requests...)
}

// Count returns the number of requests matching method and path prefix.
func (fb *FakeBackend) Count(method, prefix string) int {
	n := 0
	for _, r := range fb.Requests() {
		if r.Method == method && strings.HasPrefix(r.Path, prefix) {
			n++
		}
	}
	return n
}

// Expire makes every subsequent authorized request fail with 401.
func (fb *FakeBackend) Expire() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.Expired = true
}

func (fb *FakeBackend) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		fb.mu.Lock()
		fb.requests = append(fb.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			APIKey: r.Header.Get("X-API-KEY"),
			Body:   string(body),
		})
		fb.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		expired, failWith := fb.Expired, fb.FailWith
		fb.mu.Unlock()

		if expired || r.Header.Get("X-API-KEY") != fb.Key {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid or missing API Key"})
			return
		}
		if failWith != 0 {
			writeJSON(w, failWith, map[string]string{"detail": "backend failure"})
			return
		}
		next(w, r)
	}
}

func (fb *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]string{{"msg": "invalid body"}},
		})
		return
	}
	if creds.Username != fb.Username || creds.Password != fb.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}

	fb.mu.Lock()
	fb.Expired = false
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"api_key": fb.Key})
}

func (fb *FakeBackend) list(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("type")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	fb.mu.Lock()
	out := []models.Update{}
	for _, u := range fb.updates {
		if category != "" && u.Category != category {
			continue
		}
		out = append(out, u)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	fb.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (fb *FakeBackend) scrape(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.updates = append(fb.updates, fb.ScrapeAdd...)
	n := len(fb.ScrapeAdd)
	fb.ScrapeAdd = nil
	fb.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "added": n})
}

func (fb *FakeBackend) deleteOne(w http.ResponseWriter, r *http.Request) {
	id := models.UpdateID(r.PathValue("id"))

	fb.mu.Lock()
	defer fb.mu.Unlock()
	before := len(fb.updates)
	fb.updates = models.RemoveUpdate(fb.updates, id)
	if len(fb.updates) == before {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Update not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (fb *FakeBackend) deleteAll(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.updates = nil
	fb.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SampleUpdates returns a small fixed data set spanning every category.
func SampleUpdates() []models.Update {
	return []models.Update{
		{ID: "1", Title: "Law Clerk Recruitment 2026", CourtName: "Supreme Court of India", Category: "hiring", PublishedDate: mustTimestamp("2026-03-01T10:00:00"), SourceURL: "https://example.com/1"},
		{ID: "2", Title: "Research Associate Vacancy", CourtName: "Delhi High Court", Category: "hiring", PublishedDate: mustTimestamp("2026-02-20")},
		{ID: "3", Title: "Summer Vacation Notice", CourtName: "Bombay High Court", Category: "notice", PublishedDate: mustTimestamp("2026-04-15 09:30:00")},
		{ID: "4", Title: "On Judicial Review", ContentSummary: "An essay.", Category: "blog"},
	}
}

func mustTimestamp(s string) models.Timestamp {
	ts, err := models.ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

