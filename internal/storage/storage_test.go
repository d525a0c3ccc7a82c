package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/bobarin/podcaster/internal/models"
)

func TestPublish(t *testing.T) {
	jobID := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	var mu sync.Mutex
	uploaded := map[string]string{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer service-key" {
			t.Errorf("missing service key on %s", r.URL.Path)
		}
		switch {
		case r.Method == "PUT" && strings.HasPrefix(r.URL.Path, "/storage/v1/object/podcasts/"):
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			uploaded[strings.TrimPrefix(r.URL.Path, "/storage/v1/object/podcasts/")] = string(body)
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		case r.Method == "POST" && strings.HasPrefix(r.URL.Path, "/storage/v1/object/sign/podcasts/"):
			object := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/sign/podcasts/")
			json.NewEncoder(w).Encode(map[string]string{
				"signedURL": "/object/sign/podcasts/" + object + "?token=abc",
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	podcast := filepath.Join(dir, "Title_20240102_030405_podcast.mp3")
	script := filepath.Join(dir, "Title_20240102_030405_script.txt")
	os.WriteFile(podcast, []byte("mp3"), 0644)
	os.WriteFile(script, []byte("script"), 0644)

	s := New(srv.URL, "service-key", "podcasts")
	podcastURL, scriptURL, err := s.Publish(context.Background(), jobID, &models.PodcastResult{
		PodcastPath: podcast,
		ScriptPath:  script,
	})
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	wantObject := jobID.String() + "/Title_20240102_030405_podcast.mp3"
	if uploaded[wantObject] != "mp3" {
		t.Errorf("podcast not uploaded to %s: %v", wantObject, uploaded)
	}
	if uploaded[jobID.String()+"/Title_20240102_030405_script.txt"] != "script" {
		t.Errorf("script not uploaded: %v", uploaded)
	}

	wantURL := srv.URL + "/storage/v1/object/sign/podcasts/" + wantObject + "?token=abc"
	if podcastURL != wantURL {
		t.Errorf("expected %s, got %s", wantURL, podcastURL)
	}
	if !strings.HasSuffix(scriptURL, "_script.txt?token=abc") {
		t.Errorf("unexpected script URL %s", scriptURL)
	}
}

func TestUploadErrorStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bucket not found", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(srv.URL, "k", "podcasts")
	err := s.Upload(context.Background(), "a/b.mp3", strings.NewReader("x"), 1, "audio/mpeg")
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}
