package api

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/caption-lens/internal/subtitle"
)

// JobStatus is the lifecycle state of an analysis job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrJobNotActive = errors.New("job is not pending or running")
)

// Job is one uploaded video being analyzed.
type Job struct {
	ID             string              `json:"id"`
	Status         JobStatus           `json:"status"`
	Filename       string              `json:"filename"`
	TargetLanguage string              `json:"target_language,omitempty"`
	Error          string              `json:"error,omitempty"`
	Duration       float64             `json:"duration,omitempty"`
	Subtitles      []subtitle.Subtitle `json:"subtitles,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	StartedAt      *time.Time          `json:"started_at,omitempty"`
	FinishedAt     *time.Time          `json:"finished_at,omitempty"`
}

func (j *Job) done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed || j.Status == StatusCancelled
}

// jobStore keeps jobs in memory for the lifetime of the server.
type jobStore struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	cancels map[string]context.CancelFunc
}

func newJobStore() *jobStore {
	return &jobStore{
		jobs:    make(map[string]*Job),
		cancels: make(map[string]context.CancelFunc),
	}
}

func (s *jobStore) create(filename, target string, cancel context.CancelFunc) Job {
	j := &Job{
		ID:             uuid.New().String(),
		Status:         StatusPending,
		Filename:       filename,
		TargetLanguage: target,
		CreatedAt:      time.Now(),
	}

	s.mu.Lock()
	s.jobs[j.ID] = j
	s.cancels[j.ID] = cancel
	s.mu.Unlock()
	return *j
}

// get returns a copy so callers never race with the worker.
func (s *jobStore) get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *j, nil
}

// list returns all jobs, newest first, without their subtitles.
func (s *jobStore) list() []Job {
	s.mu.RLock()
	out := make([]Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		c := *j
		c.Subtitles = nil
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

// start moves a pending job to running. It reports false when the job was
// cancelled while waiting.
func (s *jobStore) start(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Status != StatusPending {
		return false
	}
	now := time.Now()
	j.Status = StatusRunning
	j.StartedAt = &now
	return true
}

// finish records the outcome unless the job was already cancelled.
func (s *jobStore) finish(id string, subs []subtitle.Subtitle, duration time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	delete(s.cancels, id)
	if j.done() {
		return
	}

	now := time.Now()
	j.FinishedAt = &now
	if err != nil {
		j.Status = StatusFailed
		j.Error = err.Error()
		return
	}
	j.Status = StatusCompleted
	j.Subtitles = subs
	j.Duration = duration.Seconds()
}

func (s *jobStore) cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	if j.done() {
		return ErrJobNotActive
	}

	now := time.Now()
	j.Status = StatusCancelled
	j.FinishedAt = &now
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	return nil
}
