package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/bobarin/podcaster/internal/errors"
	"github.com/bobarin/podcaster/internal/models"
	"github.com/bobarin/podcaster/internal/queue"
	"github.com/bobarin/podcaster/internal/services"
)

const (
	dequeueTimeout = 5 * time.Second

	// finalStatusTimeout bounds the terminal status write, which runs
	// detached from the job context so a shutdown still records the outcome.
	finalStatusTimeout = 10 * time.Second
)

// JobStore is the slice of the Redis queue the worker needs.
type JobStore interface {
	Dequeue(ctx context.Context, queueName string, timeout time.Duration) (*queue.Job, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*models.PodcastJob, error)
	SaveStatus(ctx context.Context, job *models.PodcastJob) error
}

type TextCleaner interface {
	Clean(raw string) (string, error)
}

type PodcastCreator interface {
	CreatePodcast(ctx context.Context, title, body string) (*models.PodcastResult, error)
}

// Publisher uploads finished artifacts. It is optional.
type Publisher interface {
	Publish(ctx context.Context, jobID uuid.UUID, result *models.PodcastResult) (podcastURL, scriptURL string, err error)
}

type Worker struct {
	store     JobStore
	fetcher   services.ContentFetcher
	cleaner   TextCleaner
	creator   PodcastCreator
	publisher Publisher     // nil when publishing is disabled
	uploadSem chan struct{} // Limits concurrent uploads across consumers
}

func New(
	store JobStore,
	fetcher services.ContentFetcher,
	cleaner TextCleaner,
	creator PodcastCreator,
	publisher Publisher,
) *Worker {
	return &Worker{
		store:     store,
		fetcher:   fetcher,
		cleaner:   cleaner,
		creator:   creator,
		publisher: publisher,
		uploadSem: make(chan struct{}, 2), // Allow max 2 concurrent uploads
	}
}

// uploadWithLimit wraps an upload call with a semaphore to prevent storage congestion.
func (w *Worker) uploadWithLimit(ctx context.Context, label string, fn func() error) error {
	log.Printf("[Upload] %s waiting for upload slot...", label)
	select {
	case w.uploadSem <- struct{}{}:
		// Acquired slot
	case <-ctx.Done():
		return fmt.Errorf("upload cancelled while waiting for slot: %w", ctx.Err())
	}
	defer func() { <-w.uploadSem }()

	log.Printf("[Upload] %s uploading...", label)
	return fn()
}

// Start runs concurrency consumers of the podcast queue until ctx is done.
// Each consumer handles one job at a time.
func (w *Worker) Start(ctx context.Context, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	log.Printf("Worker started with concurrency: %d", concurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		g.Go(func() error {
			w.processQueue(gctx, queue.QueueCreatePodcast)
			return nil
		})
	}

	err := g.Wait()
	log.Println("Worker shutting down...")
	return err
}

func (w *Worker) processQueue(ctx context.Context, queueName string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			job, err := w.store.Dequeue(ctx, queueName, dequeueTimeout)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Error dequeuing from %s: %v", queueName, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				continue // No job available, retry
			}

			w.HandleJob(ctx, job)
		}
	}
}

// HandleJob runs one podcast job and records its outcome. Jobs are never
// retried; a failed job keeps its error kind and message.
func (w *Worker) HandleJob(ctx context.Context, job *queue.Job) {
	log.Printf("Processing job %s (type: %s, url: %s)", job.ID, job.Type, job.URL)

	record, err := w.store.GetStatus(ctx, job.ID)
	if err != nil {
		if !errors.Is(err, queue.ErrJobNotFound) {
			log.Printf("Failed to load job status %s: %v", job.ID, err)
		}
		record = &models.PodcastJob{
			ID:        job.ID,
			SourceURL: job.URL,
			CreatedAt: job.CreatedAt,
		}
	}

	record.Status = models.JobStatusRunning
	w.saveStatus(ctx, record)

	result, err := w.run(ctx, job, record)
	if err != nil {
		log.Printf("Job %s failed: %v", job.ID, err)
		record.Status = models.JobStatusFailed
		record.Error = err.Error()
		if kind, ok := apperrors.KindOf(err); ok {
			record.ErrorKind = string(kind)
		}
		w.saveFinalStatus(ctx, record)
		return
	}

	record.Status = models.JobStatusCompleted
	record.Title = result.Title
	record.PodcastPath = result.PodcastPath
	record.ScriptPath = result.ScriptPath
	record.DurationMs = result.DurationMs
	w.saveFinalStatus(ctx, record)
	log.Printf("Job %s completed successfully: %s", job.ID, result.PodcastPath)
}

func (w *Worker) run(ctx context.Context, job *queue.Job, record *models.PodcastJob) (*models.PodcastResult, error) {
	doc, err := w.fetcher.Fetch(ctx, job.URL)
	if err != nil {
		return nil, err
	}
	record.Title = doc.Title
	w.saveStatus(ctx, record)

	body, err := w.cleaner.Clean(doc.Body)
	if err != nil {
		return nil, err
	}

	result, err := w.creator.CreatePodcast(ctx, doc.Title, body)
	if err != nil {
		return nil, err
	}

	if w.publisher != nil {
		err := w.uploadWithLimit(ctx, job.ID.String(), func() error {
			podcastURL, scriptURL, err := w.publisher.Publish(ctx, job.ID, result)
			if err != nil {
				return err
			}
			record.PodcastURL = podcastURL
			record.ScriptURL = scriptURL
			return nil
		})
		if err != nil {
			// Local artifacts are complete; publishing is best effort.
			log.Printf("Job %s: publish failed: %v", job.ID, err)
		}
	}

	return result, nil
}

func (w *Worker) saveStatus(ctx context.Context, record *models.PodcastJob) {
	if err := w.store.SaveStatus(ctx, record); err != nil {
		log.Printf("Failed to update job status %s: %v", record.ID, err)
	}
}

func (w *Worker) saveFinalStatus(ctx context.Context, record *models.PodcastJob) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalStatusTimeout)
	defer cancel()
	w.saveStatus(ctx, record)
}
