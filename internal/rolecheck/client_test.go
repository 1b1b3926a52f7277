package rolecheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func botServer(t *testing.T, fn http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(fn)
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifySuccess(t *testing.T) {
	srv := botServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/verify-user" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hook-secret" {
			t.Errorf("missing shared secret header")
		}
		var in struct {
			UserID string `json:"userId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.UserID != "42" {
			t.Errorf("bad body: %+v err=%v", in, err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"verified":true}`))
	})

	res := New(srv.URL, "hook-secret").Verify(context.Background(), "42")
	if !res.Verified {
		t.Fatalf("expected verified, got %+v", res)
	}
}

func TestVerifyDenied(t *testing.T) {
	srv := botServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"verified":false,"error":"missing role"}`))
	})
	res := New(srv.URL, "s").Verify(context.Background(), "42")
	if res.Verified || res.Error != "missing role" {
		t.Fatalf("got %+v", res)
	}
}

// Every failure mode must read as "not verified", never as an error
// escaping the boundary and never as authorized-by-default.
func TestVerifyFailsClosed(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		srv := botServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		if res := New(srv.URL, "s").Verify(context.Background(), "42"); res.Verified || res.Error == "" {
			t.Fatalf("got %+v", res)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()
		if res := New(srv.URL, "s").Verify(context.Background(), "42"); res.Verified || res.Error == "" {
			t.Fatalf("got %+v", res)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := botServer(t, func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{"verified":true}`))
		})
		c := New(srv.URL, "s")
		c.HTTP = &http.Client{Timeout: 20 * time.Millisecond}
		if res := c.Verify(context.Background(), "42"); res.Verified {
			t.Fatalf("timeout must not verify: %+v", res)
		}
	})

	t.Run("garbage response", func(t *testing.T) {
		srv := botServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`not json`))
		})
		if res := New(srv.URL, "s").Verify(context.Background(), "42"); res.Verified {
			t.Fatalf("got %+v", res)
		}
	})

	t.Run("unconfigured", func(t *testing.T) {
		if res := New("", "").Verify(context.Background(), "42"); res.Verified || res.Error == "" {
			t.Fatalf("got %+v", res)
		}
	})
}
