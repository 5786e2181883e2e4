package rates

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newServer(t *testing.T, latest, currencies string, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("base"); got != "USD" {
			t.Errorf("base query = %q, want USD", got)
		}
		w.WriteHeader(status)
		w.Write([]byte(latest))
	})
	mux.HandleFunc("/currencies", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(currencies))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientFetch(t *testing.T) {
	srv := newServer(t,
		`{"amount":1.0,"base":"USD","date":"2024-05-02","rates":{"EUR":0.8,"JPY":150.0}}`,
		`{"EUR":"Euro","JPY":"Japanese Yen","USD":"United States Dollar"}`,
		http.StatusOK)

	c := NewClient(srv.URL+"/", "usd", srv.Client())
	got, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []struct {
		code   string
		name   string
		toBase float64
	}{
		{"EUR", "Euro", 1.25},
		{"JPY", "Japanese Yen", 1.0 / 150},
		{"USD", "United States Dollar", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d currencies, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Code != w.code || got[i].Name != w.name {
			t.Errorf("currency %d = %s %q, want %s %q", i, got[i].Code, got[i].Name, w.code, w.name)
		}
		if math.Abs(got[i].ToBase-w.toBase) > 1e-12 {
			t.Errorf("%s ToBase = %v, want %v", w.code, got[i].ToBase, w.toBase)
		}
		if err := got[i].Validate(); err != nil {
			t.Errorf("%s invalid: %v", w.code, err)
		}
	}
}

func TestClientFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		latest string
		status int
	}{
		{"server error", `boom`, http.StatusInternalServerError},
		{"bad json", `{"rates":`, http.StatusOK},
		{"zero rate", `{"base":"USD","rates":{"EUR":0}}`, http.StatusOK},
		{"wrong base", `{"base":"EUR","rates":{"USD":1.1}}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.latest, `{}`, tt.status)
			if _, err := NewClient(srv.URL, "USD", srv.Client()).Fetch(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestClientFetchHonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, "USD", srv.Client()).Fetch(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
