package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	goption "google.golang.org/api/option"

	"moneytracker/internal/sheets"
)

type fakeSheets struct {
	mu      sync.Mutex
	calls   []string
	updated [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		w.Write([]byte(`{"spreadsheetId":"sheet-1","clearedRange":"Transactions!A1:J9"}`))
	case r.Method == http.MethodPut:
		var body struct {
			Values [][]any `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("valueInputOption") != "USER_ENTERED" {
			http.Error(w, "missing valueInputOption", http.StatusBadRequest)
			return
		}
		f.updated = body.Values
		w.Write([]byte(`{"spreadsheetId":"sheet-1","updatedRange":"Transactions!A1:J2","updatedRows":2}`))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), Config{SpreadsheetID: "sheet-1"},
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestExport(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)

	rows := []sheets.Row{{
		ID: 1, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Kind: "expense",
		Category: "Food", Source: "Cash", Amount: 12.5, Rate: 1, Converted: 12.5,
	}}
	got, err := c.Export(context.Background(), rows)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got != "Transactions!A1:J2" {
		t.Errorf("range = %q", got)
	}

	if len(fake.calls) != 2 || !strings.HasPrefix(fake.calls[0], "POST") || !strings.HasPrefix(fake.calls[1], "PUT") {
		t.Fatalf("calls = %v, want clear then update", fake.calls)
	}
	if len(fake.updated) != 2 || fake.updated[0][0] != "ID" || fake.updated[1][3] != "Food" {
		t.Errorf("updated values = %v", fake.updated)
	}
}

func TestExportPropagatesAPIErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	}))
	if _, err := c.Export(context.Background(), nil); err == nil || !strings.Contains(err.Error(), "clear") {
		t.Fatalf("err = %v, want clear failure", err)
	}
}

func TestNewRequiresConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"no spreadsheet", Config{}, "missing spreadsheet id"},
		{"no credentials", Config{SpreadsheetID: "x"}, "missing service account credentials"},
		{"unreadable file", Config{SpreadsheetID: "x", ServiceAccountFile: "/nonexistent/sa.json"}, "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestExportWithoutService(t *testing.T) {
	if _, err := (&Client{}).Export(context.Background(), nil); err == nil {
		t.Fatal("expected error for uninitialized client")
	}
}
