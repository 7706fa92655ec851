package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/vidhi/internal/models"
	"github.com/desertthunder/vidhi/internal/shared"
	tu "github.com/desertthunder/vidhi/internal/testing"
)

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		t.Run("Returns API Key", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			client := NewClient(fb.URL, nil)

			key, err := client.Login(ctx, "admin", "secret")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if key != fb.Key {
				t.Errorf("expected key %q, got %q", fb.Key, key)
			}

			reqs := fb.Requests()
			if len(reqs) != 1 {
				t.Fatalf("expected 1 request, got %d", len(reqs))
			}
			if reqs[0].Body != `{"username":"admin","password":"secret"}` {
				t.Errorf("unexpected login body %s", reqs[0].Body)
			}
			if reqs[0].APIKey != "" {
				t.Error("expected login to be sent without API key")
			}
		})

		t.Run("Rejected Credentials Use Server Detail", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			client := NewClient(fb.URL, nil)

			_, err := client.Login(ctx, "admin", "wrong")

			var authErr *AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %T", err)
			}
			if authErr.Message != "Invalid credentials" {
				t.Errorf("expected server detail, got %q", authErr.Message)
			}
		})

		t.Run("Missing Detail Falls Back", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, nil).Login(ctx, "a", "b")
			if Message(err) != DefaultLoginMessage {
				t.Errorf("expected %q, got %q", DefaultLoginMessage, Message(err))
			}
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Error("expected non-401 login failure to wrap ErrAuthFailed")
			}
		})

		t.Run("Missing Key In Success Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status":"ok"}`))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, nil).Login(ctx, "a", "b")
			if !IsAuthError(err) {
				t.Fatalf("expected AuthError, got %v", err)
			}
		})

		t.Run("Network Failure Is AuthError", func(t *testing.T) {
			client := NewClient("http://example.com", &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("dial failed")),
			})

			_, err := client.Login(ctx, "a", "b")
			if !IsAuthError(err) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if Message(err) != DefaultLoginMessage {
				t.Errorf("expected fallback message, got %q", Message(err))
			}
		})
	})

	t.Run("ListUpdates", func(t *testing.T) {
		t.Run("Filters By Category With Limit", func(t *testing.T) {
			fb := tu.NewFakeBackend(t, tu.SampleUpdates()...)
			client := NewClient(fb.URL, nil)
			s := models.Session{APIKey: fb.Key}

			updates, err := client.ListUpdates(ctx, s, models.CategoryHiring, 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(updates) != 2 {
				t.Fatalf("expected 2 hiring updates, got %d", len(updates))
			}
			if updates[0].ID != "1" || updates[1].ID != "2" {
				t.Errorf("expected server order preserved, got %v", updates)
			}

			reqs := fb.Requests()
			last := reqs[len(reqs)-1]
			if last.Query != "limit=50&type=hiring" {
				t.Errorf("unexpected query %q", last.Query)
			}
			if last.APIKey != fb.Key {
				t.Errorf("expected API key header, got %q", last.APIKey)
			}
		})

		t.Run("Empty Array", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			updates, err := NewClient(fb.URL, nil).ListUpdates(ctx, models.Session{APIKey: fb.Key}, models.CategoryBlog, 10)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if updates == nil || len(updates) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", updates)
			}
		})

		t.Run("401 Is AuthError", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			_, err := NewClient(fb.URL, nil).ListUpdates(ctx, models.Session{APIKey: "stale"}, models.CategoryHiring, 50)

			if !IsAuthError(err) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Error("expected 401 to wrap ErrNotAuthenticated")
			}
		})

		t.Run("500 Is TransportError", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			fb.FailWith = http.StatusInternalServerError

			_, err := NewClient(fb.URL, nil).ListUpdates(ctx, models.Session{APIKey: fb.Key}, models.CategoryHiring, 50)

			var transportErr *TransportError
			if !errors.As(err, &transportErr) {
				t.Fatalf("expected TransportError, got %T", err)
			}
			if transportErr.Status != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", transportErr.Status)
			}
			if transportErr.Message != "backend failure" {
				t.Errorf("expected server detail, got %q", transportErr.Message)
			}
			if IsAuthError(err) {
				t.Error("expected 500 not to be an AuthError")
			}
		})

		t.Run("Odd Dates Do Not Drop Rows", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[
					{"id": 1, "title": "First", "published_date": "2024-05-01T10:00:00"},
					{"id": 2, "title": "Second", "published_date": "01/05/2024"},
					{"id": 3, "title": "Third", "published_date": "2024-05-01T10:00:00+0530"}
				]`))
			}))
			defer server.Close()

			updates, err := NewClient(server.URL, nil).ListUpdates(ctx, models.Session{APIKey: "k"}, models.CategoryHiring, 50)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(updates) != 3 {
				t.Fatalf("expected 3 updates, got %d", len(updates))
			}
			if updates[1].PublishedDate.Date() != "01/05/2024" {
				t.Errorf("expected raw date kept, got %q", updates[1].PublishedDate.Date())
			}
			if updates[2].PublishedDate.IsZero() {
				t.Error("expected offset without colon to parse")
			}
		})

		t.Run("Malformed Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not":"a list"}`))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, nil).ListUpdates(ctx, models.Session{APIKey: "k"}, models.CategoryHiring, 50)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("TriggerScrape", func(t *testing.T) {
		fb := tu.NewFakeBackend(t)
		err := NewClient(fb.URL, nil).TriggerScrape(ctx, models.Session{APIKey: fb.Key})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		reqs := fb.Requests()
		if reqs[0].Method != http.MethodPost || reqs[0].Path != "/updates/fetch-live" {
			t.Errorf("unexpected request %+v", reqs[0])
		}
		if reqs[0].Body != "{}" {
			t.Errorf("expected empty JSON object body, got %q", reqs[0].Body)
		}
	})

	t.Run("DeleteUpdate", func(t *testing.T) {
		t.Run("Removes Update", func(t *testing.T) {
			fb := tu.NewFakeBackend(t, tu.SampleUpdates()...)
			err := NewClient(fb.URL, nil).DeleteUpdate(ctx, models.Session{APIKey: fb.Key}, "3")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(fb.Updates()) != 3 {
				t.Errorf("expected 3 remaining updates, got %d", len(fb.Updates()))
			}
		})

		t.Run("Unknown Id Is TransportError", func(t *testing.T) {
			fb := tu.NewFakeBackend(t)
			err := NewClient(fb.URL, nil).DeleteUpdate(ctx, models.Session{APIKey: fb.Key}, "404")
			if Message(err) != "Update not found" {
				t.Errorf("expected detail message, got %q", Message(err))
			}
		})

		t.Run("Escapes Id", func(t *testing.T) {
			var rawPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				rawPath = r.URL.EscapedPath()
			}))
			defer server.Close()

			_ = NewClient(server.URL, nil).DeleteUpdate(ctx, models.Session{APIKey: "k"}, "a/b")
			if rawPath != "/updates/a%2Fb" {
				t.Errorf("expected escaped id, got %s", rawPath)
			}
		})

		t.Run("Empty Id", func(t *testing.T) {
			err := NewClient("http://example.com", nil).DeleteUpdate(ctx, models.Session{APIKey: "k"}, "")
			if err == nil {
				t.Error("expected error for empty id")
			}
		})
	})

	t.Run("DeleteAllUpdates", func(t *testing.T) {
		fb := tu.NewFakeBackend(t, tu.SampleUpdates()...)
		err := NewClient(fb.URL, nil).DeleteAllUpdates(ctx, models.Session{APIKey: fb.Key})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(fb.Updates()) != 0 {
			t.Errorf("expected no updates, got %d", len(fb.Updates()))
		}
		if fb.Count(http.MethodDelete, "/updates/all") != 1 {
			t.Error("expected one DELETE /updates/all")
		}
	})
}

func TestErrors(t *testing.T) {
	t.Run("detailMessage", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want string
		}{
			{"string detail", `{"detail":"nope"}`, "nope"},
			{"validation list", `{"detail":[{"msg":"a"},{"msg":"b"}]}`, "a; b"},
			{"no detail", `{"error":"x"}`, ""},
			{"not json", `<html>`, ""},
			{"object detail", `{"detail":{"x":1}}`, ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := detailMessage([]byte(tt.body)); got != tt.want {
					t.Errorf("expected %q, got %q", tt.want, got)
				}
			})
		}
	})

	t.Run("statusError Fallback Message", func(t *testing.T) {
		err := statusError(&APIResponse{StatusCode: http.StatusBadGateway})
		if err.Error() != "request failed with status code 502" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Message", func(t *testing.T) {
		if Message(nil) != "" {
			t.Error("expected empty message for nil")
		}
		if Message(errors.New("plain")) != "plain" {
			t.Error("expected plain error text")
		}
		wrapped := errors.Join(errors.New("ctx"), &TransportError{Message: "inner"})
		if Message(wrapped) != "inner" {
			t.Errorf("expected inner message, got %q", Message(wrapped))
		}
	})

	t.Run("TransportError Does Not Match Auth Sentinels", func(t *testing.T) {
		err := &TransportError{Status: 500, Message: "x"}
		if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrAuthFailed) {
			t.Error("transport errors must not match auth sentinels")
		}
	})
}
