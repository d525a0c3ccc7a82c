package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bobarin/podcaster/internal/models"
)

const (
	// Upload timeout; podcasts of an hour are ~60MB at 128kbps
	uploadTimeout = 10 * time.Minute

	// Signed URLs handed out for finished podcasts
	signedURLExpiry = 7 * 24 * 3600
)

// Storage publishes finished podcasts to a Supabase Storage bucket.
type Storage struct {
	url        string
	serviceKey string
	Bucket     string
	client     *http.Client
}

func New(url, serviceKey, bucket string) *Storage {
	return &Storage{
		url:        url,
		serviceKey: serviceKey,
		Bucket:     bucket,
		client: &http.Client{
			Timeout: uploadTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Upload stores body under objectPath. Existing objects are replaced.
func (s *Storage) Upload(ctx context.Context, objectPath string, body io.Reader, size int64, contentType string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.url, s.Bucket, objectPath)

	req, err := http.NewRequestWithContext(ctx, "PUT", url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.ContentLength = size
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// UploadFile streams a local file to objectPath.
func (s *Storage) UploadFile(ctx context.Context, objectPath, localPath, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", localPath, err)
	}

	return s.Upload(ctx, objectPath, f, info.Size(), contentType)
}

// GetSignedURL creates a signed URL for temporary access
func (s *Storage) GetSignedURL(ctx context.Context, objectPath string, expiresIn int) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", s.url, s.Bucket, objectPath)

	body := fmt.Sprintf(`{"expiresIn": %d}`, expiresIn)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBufferString(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get signed URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse signed URL response: %w", err)
	}

	return s.url + "/storage/v1" + result.SignedURL, nil
}

// ObjectPath places an artifact under its job's folder.
func ObjectPath(jobID uuid.UUID, localPath string) string {
	return path.Join(jobID.String(), filepath.Base(localPath))
}

// Publish uploads the podcast audio and script of a finished job and returns
// signed URLs for both.
func (s *Storage) Publish(ctx context.Context, jobID uuid.UUID, result *models.PodcastResult) (podcastURL, scriptURL string, err error) {
	uploads := []struct {
		local       string
		contentType string
		url         *string
	}{
		{result.PodcastPath, "audio/mpeg", &podcastURL},
		{result.ScriptPath, "text/plain; charset=utf-8", &scriptURL},
	}

	for _, u := range uploads {
		objectPath := ObjectPath(jobID, u.local)
		log.Printf("[Storage] Uploading %s -> %s/%s", u.local, s.Bucket, objectPath)

		if err := s.UploadFile(ctx, objectPath, u.local, u.contentType); err != nil {
			return "", "", fmt.Errorf("failed to publish %s: %w", filepath.Base(u.local), err)
		}

		signed, err := s.GetSignedURL(ctx, objectPath, signedURLExpiry)
		if err != nil {
			return "", "", err
		}
		*u.url = signed
	}

	return podcastURL, scriptURL, nil
}
