// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/vidhi/internal/models"
)

// Call records one invocation made against a test double.
type Call struct {
	Method   string
	Session  models.Session
	Category models.Category
	Limit    int
	ID       models.UpdateID
}

// MockService is a test double for [services.Service].
//
// Each operation returns the configured error, or canned data when the error is nil.
// It is safe for concurrent use.
type MockService struct {
	mu sync.Mutex

	APIKey  string
	Updates map[models.Category][]models.Update

	LoginErr     error
	ListErr      error
	ScrapeErr    error
	DeleteErr    error
	DeleteAllErr error

	// DeleteErrs overrides DeleteErr for individual ids.
	DeleteErrs map[models.UpdateID]error

	calls []Call
}

func (m *MockService) record(c Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

// Calls returns a copy of every recorded invocation in order.
func (m *MockService) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many times method was invoked.
func (m *MockService) CallCount(method string) int {
	n := 0
	for _, c := range m.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (m *MockService) Login(ctx context.Context, username, password string) (string, error) {
	m.record(Call{Method: "Login"})
	if m.LoginErr != nil {
		return "", m.LoginErr
	}
	if m.APIKey == "" {
		return "test-key", nil
	}
	return m.APIKey, nil
}

func (m *MockService) ListUpdates(ctx context.Context, s models.Session, category models.Category, limit int) ([]models.Update, error) {
	m.record(Call{Method: "ListUpdates", Session: s, Category: category, Limit: limit})
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	updates := append([]models.Update{}, m.Updates[category]...)
	if limit > 0 && len(updates) > limit {
		updates = updates[:limit]
	}
	return updates, nil
}

func (m *MockService) TriggerScrape(ctx context.Context, s models.Session) error {
	m.record(Call{Method: "TriggerScrape", Session: s})
	return m.ScrapeErr
}

func (m *MockService) DeleteUpdate(ctx context.Context, s models.Session, id models.UpdateID) error {
	m.record(Call{Method: "DeleteUpdate", Session: s, ID: id})
	if err, ok := m.DeleteErrs[id]; ok {
		return err
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for c, updates := range m.Updates {
		m.Updates[c] = models.RemoveUpdate(updates, id)
	}
	return nil
}

func (m *MockService) DeleteAllUpdates(ctx context.Context, s models.Session) error {
	m.record(Call{Method: "DeleteAllUpdates", Session: s})
	if m.DeleteAllErr != nil {
		return m.DeleteAllErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Updates = nil
	return nil
}

// MemoryRecorder collects activity entries in memory.
type MemoryRecorder struct {
	mu      sync.Mutex
	Entries []models.Activity
	Err     error
}

func (r *MemoryRecorder) Record(ctx context.Context, kind models.ActivityKind, detail string, success bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Entries = append(r.Entries, models.Activity{
		Sequence: len(r.Entries) + 1,
		Kind:     kind,
		Detail:   detail,
		Success:  success,
	})
	return nil
}

// Kinds returns the recorded activity kinds in order.
func (r *MemoryRecorder) Kinds() []models.ActivityKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]models.ActivityKind, len(r.Entries))
	for i, e := range r.Entries {
		kinds[i] = e.Kind
	}
	return kinds
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
