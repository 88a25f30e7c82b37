package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rgardner/docchunk/internal/chunker"
	"github.com/rgardner/docchunk/internal/taxonomy"
)

// JobStatus represents the state of a chunking job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusChunking  JobStatus = "chunking"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Job tracks the state of one chunking request: a batch of leaf nodes
// plus the chunking parameters to apply to each.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	leafNodes []taxonomy.LeafNode
	params    chunker.Params
	chunks    []string
	errors    []string
}

// Progress tracks chunking progress across a job's leaf nodes.
type Progress struct {
	TotalLeafNodes   int      `json:"total_leaf_nodes"`
	LeafNodesChunked int      `json:"leaf_nodes_chunked"`
	TotalChunks      int      `json:"total_chunks"`
	Errors           []string `json:"errors"`
}

// NewJob builds a queued job over a batch of leaf nodes.
func NewJob(leafNodes []taxonomy.LeafNode, params chunker.Params) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Progress:  Progress{TotalLeafNodes: len(leafNodes)},
		CreatedAt: now,
		UpdatedAt: now,
		leafNodes: leafNodes,
		params:    params,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a per-leaf failure.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddChunks appends one leaf node's chunks and bumps progress.
func (j *Job) AddChunks(chunks []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.chunks = append(j.chunks, chunks...)
	j.Progress.LeafNodesChunked++
	j.Progress.TotalChunks = len(j.chunks)
	j.UpdatedAt = time.Now()
}

// Chunks returns a copy of the chunks produced so far.
func (j *Job) Chunks() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.chunks))
	copy(out, j.chunks)
	return out
}

// ErrorCount returns the number of recorded failures.
func (j *Job) ErrorCount() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.errors)
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalLeafNodes:   j.Progress.TotalLeafNodes,
			LeafNodesChunked: j.Progress.LeafNodesChunked,
			TotalChunks:      j.Progress.TotalChunks,
			Errors:           errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns a hex
// string. Used to name uploaded files deterministically.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
