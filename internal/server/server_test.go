package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

var quiet = log.New(io.Discard)

func TestServe(t *testing.T) {
	t.Run("Serves Until Context Is Done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("pong"))
		})

		urls := make(chan string, 1)
		errs := make(chan error, 1)
		go func() {
			errs <- Serve(ctx, "127.0.0.1:0", handler, quiet, func(url string) { urls <- url })
		}()

		var url string
		select {
		case url = <-urls:
		case err := <-errs:
			t.Fatalf("serve returned early: %v", err)
		case <-time.After(5 * time.Second):
			t.Fatal("ready was never called")
		}

		resp, err := http.Get(url + "/ping")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || string(body) != "pong" {
			t.Errorf("expected 200 pong, got %d %q", resp.StatusCode, body)
		}

		cancel()
		select {
		case err := <-errs:
			if err != nil {
				t.Errorf("expected clean shutdown, got %v", err)
			}
		case <-time.After(ShutdownTimeout + time.Second):
			t.Fatal("serve did not return after cancel")
		}

		if _, err := http.Get(url + "/ping"); err == nil {
			t.Error("expected listener to be closed")
		}
	})

	t.Run("Bad Address", func(t *testing.T) {
		called := false
		err := Serve(context.Background(), "127.0.0.1:99999", http.NotFoundHandler(), quiet, func(string) { called = true })
		if err == nil {
			t.Fatal("expected listen error")
		}
		if called {
			t.Error("ready should not be called when listen fails")
		}
	})
}

func TestBasicRouter(t *testing.T) {
	ok := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(body)) }
	}

	r := NewBasicRouter()
	r.HandleFunc(http.MethodGet, "/items", ok("list"))
	r.HandleFunc(http.MethodPost, "/items", ok("create"))
	r.NotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	}))

	t.Run("Dispatches By Method", func(t *testing.T) {
		for method, want := range map[string]string{http.MethodGet: "list", http.MethodPost: "create"} {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(method, "/items", nil))
			if rec.Body.String() != want {
				t.Errorf("%s: expected %q, got %q", method, want, rec.Body.String())
			}
		}
	})

	t.Run("HEAD Falls Back To GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/items", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Unregistered Method Is 405", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
		if got := rec.Header().Get("Allow"); got != "GET, POST" {
			t.Errorf("expected Allow 'GET, POST', got %q", got)
		}
	})

	t.Run("Unknown Path Uses NotFound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
			t.Errorf("expected 302 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})
}
