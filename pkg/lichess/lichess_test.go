package lichess

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/account" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Fatalf("bad auth header %q", got)
		}
		fmt.Fprint(w, `{"id":"someone","username":"Someone"}`)
	}))
	defer srv.Close()

	c := NewClient("tok123")
	c.base = srv.URL

	username, err := c.Account()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if username != "Someone" {
		t.Fatalf("username = %q", username)
	}
}

func TestClientAccount_NoToken(t *testing.T) {
	c := NewClient("")
	if _, err := c.Account(); err == nil {
		t.Fatalf("expected error without token")
	}
}

func TestClientAccount_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"No such token"}`)
	}))
	defer srv.Close()

	c := NewClient("bad")
	c.http.RetryMax = 0
	c.base = srv.URL

	_, err := c.Account()
	if err == nil || !strings.Contains(err.Error(), "No such token") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestImportPGNToStudy(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/study/abc123/import-pgn" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotBody = r.PostForm.Get("pgn")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewClient("tok")
	c.base = srv.URL

	if err := c.ImportPGNToStudy("abc123", "1.e4 e5 *"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody != "1.e4 e5 *" {
		t.Fatalf("pgn form field = %q", gotBody)
	}
}

func TestStudyURL(t *testing.T) {
	if got := StudyURL("abc123"); got != "https://lichess.org/study/abc123" {
		t.Fatalf("got %q", got)
	}
}

func TestUpload_Validation(t *testing.T) {
	if _, err := Upload("file.pgn", "", "tok"); err == nil {
		t.Fatalf("expected error for missing study ID")
	}
	if _, err := Upload("file.txt", "abc", "tok"); err == nil {
		t.Fatalf("expected error for non-PGN file")
	}
}
