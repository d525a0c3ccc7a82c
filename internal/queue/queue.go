package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/bobarin/podcaster/internal/models"
)

const (
	QueueCreatePodcast = "queue:create_podcast"

	jobStatusKeyPrefix = "podcast:job:"
	defaultStatusTTL   = 24 * time.Hour
)

// ErrJobNotFound is returned when no status record exists for a job.
var ErrJobNotFound = errors.New("job not found")

type Queue struct {
	client    *redis.Client
	statusTTL time.Duration
}

type Job struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

func New(redisURL string, statusTTL time.Duration) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if statusTTL <= 0 {
		statusTTL = defaultStatusTTL
	}

	return &Queue{client: client, statusTTL: statusTTL}, nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

func (q *Queue) Enqueue(ctx context.Context, queueName string, job *Job) error {
	job.CreatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.client.RPush(ctx, queueName, data).Err()
}

func (q *Queue) Dequeue(ctx context.Context, queueName string, timeout time.Duration) (*Job, error) {
	result, err := q.client.BLPop(ctx, timeout, queueName).Result()
	if err == redis.Nil {
		return nil, nil // No job available
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue: %w", err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

func (q *Queue) GetQueueLength(ctx context.Context, queueName string) (int64, error) {
	return q.client.LLen(ctx, queueName).Result()
}

// ---------------------------------------------------------------------------
// Podcast jobs
// ---------------------------------------------------------------------------

// EnqueueCreatePodcast records a queued job for url and pushes it to the
// podcast queue.
func (q *Queue) EnqueueCreatePodcast(ctx context.Context, url string) (*models.PodcastJob, error) {
	now := time.Now().UTC()
	record := &models.PodcastJob{
		ID:        uuid.New(),
		Status:    models.JobStatusQueued,
		SourceURL: url,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := q.SaveStatus(ctx, record); err != nil {
		return nil, err
	}

	job := &Job{
		ID:   record.ID,
		Type: "create_podcast",
		URL:  url,
	}
	if err := q.Enqueue(ctx, QueueCreatePodcast, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return record, nil
}

// StatusKey is the Redis key of a job's status record.
func StatusKey(id uuid.UUID) string {
	return jobStatusKeyPrefix + id.String()
}

// SaveStatus stores the job record; it expires after the status TTL.
func (q *Queue) SaveStatus(ctx context.Context, job *models.PodcastJob) error {
	job.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job status: %w", err)
	}

	if err := q.client.Set(ctx, StatusKey(job.ID), data, q.statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to save job status: %w", err)
	}
	return nil
}

func (q *Queue) GetStatus(ctx context.Context, id uuid.UUID) (*models.PodcastJob, error) {
	data, err := q.client.Get(ctx, StatusKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}

	var job models.PodcastJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job status: %w", err)
	}
	return &job, nil
}
