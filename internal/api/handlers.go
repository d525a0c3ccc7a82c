package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperrors "github.com/bobarin/podcaster/internal/errors"
	"github.com/bobarin/podcaster/internal/models"
	"github.com/bobarin/podcaster/internal/queue"
)

// JobQueue creates and looks up asynchronous podcast jobs.
type JobQueue interface {
	EnqueueCreatePodcast(ctx context.Context, url string) (*models.PodcastJob, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*models.PodcastJob, error)
	GetQueueLength(ctx context.Context, queueName string) (int64, error)
}

type Fetcher interface {
	ValidateURL(url string) error
	Fetch(ctx context.Context, url string) (*models.SourceDocument, error)
}

type Cleaner interface {
	Clean(raw string) (string, error)
}

type ScriptGenerator interface {
	GenerateScripts(ctx context.Context, title, body string) ([]models.ChapterScript, error)
}

type Handler struct {
	queue   JobQueue
	fetcher Fetcher
	cleaner Cleaner
	scripts ScriptGenerator
}

func NewHandler(q JobQueue, fetcher Fetcher, cleaner Cleaner, scripts ScriptGenerator) *Handler {
	return &Handler{
		queue:   q,
		fetcher: fetcher,
		cleaner: cleaner,
		scripts: scripts,
	}
}

// CreatePodcast handles POST /v1/podcasts
func (h *Handler) CreatePodcast(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePodcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.URL = strings.TrimSpace(req.URL)
	if err := h.fetcher.ValidateURL(req.URL); err != nil {
		respondAppError(w, err)
		return
	}

	job, err := h.queue.EnqueueCreatePodcast(r.Context(), req.URL)
	if err != nil {
		log.Printf("[API] Failed to enqueue podcast for %s: %v", req.URL, err)
		respondError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	respondJSON(w, http.StatusAccepted, models.CreatePodcastResponse{
		JobID:  job.ID,
		Status: job.Status,
	})
}

// GetPodcast handles GET /v1/podcasts/{id}
func (h *Handler) GetPodcast(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// GetPodcastDownload handles GET /v1/podcasts/{id}/download
// Serves the local file when present, otherwise redirects to the published copy.
func (h *Handler) GetPodcastDownload(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadJob(w, r)
	if !ok {
		return
	}

	if !job.Finished() {
		respondError(w, http.StatusConflict, fmt.Sprintf("Podcast not ready (status: %s)", job.Status))
		return
	}
	if job.Status == models.JobStatusFailed {
		respondError(w, http.StatusConflict, fmt.Sprintf("Podcast generation failed: %s", job.Error))
		return
	}

	if job.PodcastPath != "" {
		if _, err := os.Stat(job.PodcastPath); err == nil {
			w.Header().Set("Content-Type", "audio/mpeg")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(job.PodcastPath)))
			http.ServeFile(w, r, job.PodcastPath)
			return
		}
	}

	if job.PodcastURL != "" {
		http.Redirect(w, r, job.PodcastURL, http.StatusFound)
		return
	}

	respondError(w, http.StatusNotFound, "Podcast file not found")
}

func (h *Handler) loadJob(w http.ResponseWriter, r *http.Request) (*models.PodcastJob, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid job ID")
		return nil, false
	}

	job, err := h.queue.GetStatus(r.Context(), id)
	if errors.Is(err, queue.ErrJobNotFound) {
		respondError(w, http.StatusNotFound, "Job not found")
		return nil, false
	}
	if err != nil {
		log.Printf("[API] Failed to load job %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to get job")
		return nil, false
	}
	return job, true
}

// Scrape handles POST /v1/scrape
func (h *Handler) Scrape(w http.ResponseWriter, r *http.Request) {
	var req models.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.fetcher.Fetch(r.Context(), strings.TrimSpace(req.URL))
	if err != nil {
		respondAppError(w, err)
		return
	}

	content, err := h.cleaner.Clean(doc.Body)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.ScrapeResponse{
		Status:  models.ResponseStatusSuccess,
		Title:   doc.Title,
		Content: content,
	})
}

// Script handles POST /v1/script
func (h *Handler) Script(w http.ResponseWriter, r *http.Request) {
	var req models.ScriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		respondAppError(w, apperrors.InvalidInput("title and content are required", nil))
		return
	}

	chapters, err := h.scripts.GenerateScripts(r.Context(), req.Title, req.Content)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.ScriptResponse{
		Status:   models.ResponseStatusSuccess,
		Title:    req.Title,
		Script:   models.JoinScripts(chapters),
		Chapters: chapters,
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForKind maps pipeline failure kinds to HTTP status codes.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindScraping:
		return http.StatusBadGateway
	case apperrors.KindContentProcessing:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondAppError writes a classified pipeline error as a structured error
// result. Unclassified errors never leak their message.
func respondAppError(w http.ResponseWriter, err error) {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		log.Printf("[API] Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	log.Printf("[API] Request failed (%s): %v", kind, err)
	respondJSON(w, statusForKind(kind), models.ErrorResponse{
		Status: models.ResponseStatusError,
		Error:  apperrors.Message(err),
	})
}

// Health handles GET /health
// Reports the number of podcast jobs waiting in the queue; an unreachable
// queue makes the service unhealthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	pending, err := h.queue.GetQueueLength(r.Context(), queue.QueueCreatePodcast)
	if err != nil {
		log.Printf("[API] Health check failed: %v", err)
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"queued_jobs": pending,
	})
}
