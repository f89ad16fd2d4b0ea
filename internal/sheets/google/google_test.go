package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const testClientJSON = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), " ", Credentials{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewSheetsService_MissingOAuthClient(t *testing.T) {
	_, err := newSheetsService(context.Background(), Credentials{TokenJSON: `{"access_token":"x"}`})
	if err == nil {
		t.Fatal("expected error for missing oauth client")
	}
	expected := "missing oauth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestNewSheetsService_MissingOAuthToken(t *testing.T) {
	_, err := newSheetsService(context.Background(), Credentials{ClientJSON: testClientJSON})
	if err == nil {
		t.Fatal("expected error for missing oauth token")
	}
	expected := "missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestOAuthCredentialParsing(t *testing.T) {
	_, err := newSheetsService(context.Background(), Credentials{ClientJSON: testClientJSON, TokenJSON: "invalid-json"})
	if err == nil || !strings.Contains(err.Error(), "oauth token") {
		t.Errorf("expected token parsing error, got: %v", err)
	}

	_, err = newSheetsService(context.Background(), Credentials{ClientJSON: "invalid-json", TokenJSON: `{"access_token":"test","token_type":"Bearer"}`})
	if err == nil || !strings.Contains(err.Error(), "oauth config") {
		t.Errorf("expected client parsing error, got: %v", err)
	}
}

func TestNewSheetsService_FromFiles(t *testing.T) {
	dir := t.TempDir()
	clientFile := filepath.Join(dir, "client.json")
	tokenFile := filepath.Join(dir, "token.json")
	if err := os.WriteFile(clientFile, []byte(testClientJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tokenFile, []byte(`{"access_token":"test","token_type":"Bearer"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	svc, err := newSheetsService(context.Background(), Credentials{ClientFile: clientFile, TokenFile: tokenFile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected a service")
	}

	_, err = newSheetsService(context.Background(), Credentials{ClientFile: filepath.Join(dir, "missing.json")})
	if err == nil || !strings.Contains(err.Error(), "read oauth client") {
		t.Errorf("expected read error, got: %v", err)
	}
}

func TestQuoteTab(t *testing.T) {
	tests := map[string]string{
		"suppliers":      "'suppliers'",
		"loja1_receipts": "'loja1_receipts'",
		"it's":           "'it''s'",
	}
	for in, want := range tests {
		if got := quoteTab(in); got != want {
			t.Errorf("quoteTab(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReplaceRows_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test"}
	if err := c.ReplaceRows(context.Background(), "suppliers", nil); err == nil {
		t.Fatal("expected error without service")
	}
}

// fakeSheets records the calls the client makes to the Sheets API.
type fakeSheets struct {
	mu      sync.Mutex
	titles  []string
	calls   []string
	updated [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/sheet-1"):
		f.calls = append(f.calls, "get")
		sheets := make([]map[string]any, 0, len(f.titles))
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case strings.HasSuffix(path, ":batchUpdate"):
		f.calls = append(f.calls, "add")
		_, _ = w.Write([]byte(`{}`))
	case strings.HasSuffix(path, ":clear"):
		f.calls = append(f.calls, "clear")
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		f.calls = append(f.calls, "update")
		var vr struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.updated = vr.Values
		_, _ = w.Write([]byte(`{}`))
	default:
		http.Error(w, "unexpected "+r.Method+" "+path, http.StatusNotFound)
	}
}

func newFakeClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return NewWithService(svc, "sheet-1")
}

func TestReplaceRows_CreatesMissingTab(t *testing.T) {
	fake := &fakeSheets{titles: []string{"suppliers"}}
	c := newFakeClient(t, fake)

	rows := [][]any{{"id", "date"}, {"s1", "2024-03-01"}}
	if err := c.ReplaceRows(context.Background(), "loja1_sales", rows); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}
	if err := c.ReplaceRows(context.Background(), "loja1_sales", rows[:1]); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}

	want := []string{"get", "add", "clear", "update", "clear", "update"}
	if strings.Join(fake.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
	if len(fake.updated) != 1 || fake.updated[0][0] != "id" {
		t.Fatalf("unexpected update payload %v", fake.updated)
	}
}

func TestReplaceRows_ExistingTabEmptyRows(t *testing.T) {
	fake := &fakeSheets{titles: []string{"suppliers"}}
	c := newFakeClient(t, fake)

	if err := c.ReplaceRows(context.Background(), "suppliers", nil); err != nil {
		t.Fatalf("ReplaceRows: %v", err)
	}
	want := []string{"get", "clear"}
	if strings.Join(fake.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", fake.calls, want)
	}
}
