package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"compras/internal/config"
)

func TestClientSecret(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "client.json")
	if err := os.WriteFile(file, []byte(`{"installed":{}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := clientSecret(&config.Config{GoogleOAuthClientJSON: `{"web":{}}`, GoogleOAuthClientFile: file})
	if err != nil || string(got) != `{"web":{}}` {
		t.Fatalf("inline JSON should win, got %q %v", got, err)
	}

	got, err = clientSecret(&config.Config{GoogleOAuthClientFile: file})
	if err != nil || string(got) != `{"installed":{}}` {
		t.Fatalf("expected file contents, got %q %v", got, err)
	}

	if _, err := clientSecret(&config.Config{}); err == nil {
		t.Fatal("expected error without client credentials")
	}
	if _, err := clientSecret(&config.Config{GoogleOAuthClientFile: filepath.Join(dir, "missing.json")}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := saveToken(path, &oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file mode = %v", info.Mode().Perm())
	}
	b, _ := os.ReadFile(path)
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		t.Fatal(err)
	}
	if tok.RefreshToken != "r" {
		t.Errorf("refresh token lost: %+v", tok)
	}
}
