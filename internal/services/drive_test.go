package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/studio/internal/shared"
	"golang.org/x/oauth2"
)

func newTestDrive(t *testing.T, baseURL string) *DriveService {
	t.Helper()

	srv, err := NewDriveService(
		shared.GoogleConfig{ClientID: "id", ClientSecret: "secret", AccessToken: "access"},
		shared.DriveConfig{BaseURL: baseURL},
	)
	if err != nil {
		t.Fatalf("failed to create drive service: %v", err)
	}
	return srv
}

func TestDriveService(t *testing.T) {
	t.Run("NewDriveService", func(t *testing.T) {
		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewDriveService(shared.GoogleConfig{ClientSecret: "secret"}, shared.DriveConfig{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewDriveService(shared.GoogleConfig{ClientID: "id"}, shared.DriveConfig{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Defaults", func(t *testing.T) {
			srv, err := NewDriveService(shared.GoogleConfig{ClientID: "id", ClientSecret: "secret"}, shared.DriveConfig{})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.baseURL != driveBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.OAuthConfig().RedirectURL != "http://localhost:3000/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.OAuthConfig().RedirectURL)
			}
			if srv.Authenticated() {
				t.Error("expected service without token to be unauthenticated")
			}
		})
	})

	t.Run("AuthURL", func(t *testing.T) {
		srv := newTestDrive(t, "")
		authURL := srv.AuthURL("state-123")

		for _, want := range []string{"state=state-123", "access_type=offline", "drive.readonly", "client_id=id"} {
			if !strings.Contains(authURL, want) {
				t.Errorf("expected auth URL to contain %q, got %s", want, authURL)
			}
		}
	})

	t.Run("Not Authenticated", func(t *testing.T) {
		srv, _ := NewDriveService(shared.GoogleConfig{ClientID: "id", ClientSecret: "secret"}, shared.DriveConfig{})

		_, err := srv.ListPhotos(context.Background(), "folder")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("ListPhotos follows pages", func(t *testing.T) {
		var queries []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			queries = append(queries, r.URL.Query().Get("q"))

			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("pageToken") == "" {
				json.NewEncoder(w).Encode(DriveFileList{
					Files: []DriveFile{
						{ID: "a", Name: "a.jpg", MimeType: "image/jpeg", Size: "2048", ModifiedTime: "2025-03-01T10:00:00Z"},
						{ID: "notes", Name: "notes.txt", MimeType: "text/plain"},
					},
					NextPageToken: "page-2",
				})
				return
			}
			json.NewEncoder(w).Encode(DriveFileList{
				Files: []DriveFile{{ID: "b", Name: "b.png", MimeType: "image/png"}},
			})
		}))
		defer server.Close()

		srv := newTestDrive(t, server.URL)
		photos, err := srv.ListPhotos(context.Background(), "folder-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(photos) != 2 {
			t.Fatalf("expected 2 photos, got %d", len(photos))
		}
		if photos[0].ID != "a" || photos[1].ID != "b" {
			t.Errorf("unexpected photo order: %s, %s", photos[0].ID, photos[1].ID)
		}
		if photos[0].Size != 2048 {
			t.Errorf("expected size 2048, got %d", photos[0].Size)
		}
		if photos[0].ModifiedTime.IsZero() {
			t.Error("expected modified time to be parsed")
		}
		if len(queries) != 2 || !strings.Contains(queries[0], "'folder-1' in parents") {
			t.Errorf("unexpected queries: %v", queries)
		}
	})

	t.Run("ListFolders defaults to root", func(t *testing.T) {
		var query string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query().Get("q")
			json.NewEncoder(w).Encode(DriveFileList{
				Files: []DriveFile{{ID: "f1", Name: "Ada 2025", MimeType: folderMimeType}},
			})
		}))
		defer server.Close()

		srv := newTestDrive(t, server.URL)
		folders, err := srv.ListFolders(context.Background(), "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(folders) != 1 || folders[0].Name != "Ada 2025" {
			t.Errorf("unexpected folders: %+v", folders)
		}
		if !strings.HasPrefix(query, "'root' in parents") {
			t.Errorf("expected root query, got %s", query)
		}
	})

	t.Run("Download", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/files/photo-1" || r.URL.Query().Get("alt") != "media" {
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": 404, "message": "File not found: x"}})
				return
			}
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		srv := newTestDrive(t, server.URL)

		var buf bytes.Buffer
		n, err := srv.Download(context.Background(), "photo-1", &buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != int64(len("jpeg-bytes")) || buf.String() != "jpeg-bytes" {
			t.Errorf("unexpected download: %d %q", n, buf.String())
		}

		_, err = srv.Download(context.Background(), "missing", &buf)
		if !errors.Is(err, shared.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
		if err != nil && !strings.Contains(err.Error(), "File not found") {
			t.Errorf("expected API message in error, got %v", err)
		}
	})

	t.Run("Status mapping", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			want   error
		}{
			{name: "unauthorized", status: http.StatusUnauthorized, want: shared.ErrTokenExpired},
			{name: "rate limited", status: http.StatusTooManyRequests, want: shared.ErrServiceUnavailable},
			{name: "server error", status: http.StatusBadGateway, want: shared.ErrServiceUnavailable},
			{name: "bad request", status: http.StatusBadRequest, want: shared.ErrAPIRequest},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}))
				defer server.Close()

				_, err := newTestDrive(t, server.URL).ListFolders(context.Background(), "root")
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Refreshed token is reported", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "fresh",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		defer tokenServer.Close()

		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(DriveFileList{})
		}))
		defer api.Close()

		srv, err := NewDriveService(shared.GoogleConfig{ClientID: "id", ClientSecret: "secret"}, shared.DriveConfig{BaseURL: api.URL})
		if err != nil {
			t.Fatalf("failed to create drive service: %v", err)
		}
		srv.OAuthConfig().Endpoint.TokenURL = tokenServer.URL

		var (
			mu        sync.Mutex
			refreshed *oauth2.Token
		)
		srv.OnTokenRefresh(func(tok *oauth2.Token) {
			mu.Lock()
			defer mu.Unlock()
			refreshed = tok
		})

		srv.SetToken(context.Background(), &oauth2.Token{
			AccessToken:  "stale",
			RefreshToken: "refresh",
			Expiry:       time.Now().Add(-time.Hour),
		})

		if _, err := srv.ListFolders(context.Background(), "root"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		mu.Lock()
		defer mu.Unlock()
		if refreshed == nil || refreshed.AccessToken != "fresh" {
			t.Errorf("expected refreshed token to be reported, got %+v", refreshed)
		}
	})
}

func TestEscapeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "it's", want: `it\'s`},
		{in: `a\b`, want: `a\\b`},
	}

	for _, tt := range tests {
		if got := escapeQuery(tt.in); got != tt.want {
			t.Errorf("escapeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
