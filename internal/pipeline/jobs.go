package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// JobStatus represents the state of an outline job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusParsing     JobStatus = "parsing"
	StatusClassifying JobStatus = "classifying"
	StatusStoring     JobStatus = "storing"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job tracks the state of a single document outline extraction.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	outline  *doctree.DocumentOutline
	errors   []string
}

// NewJob creates a queued job for the given upload.
func NewJob(docID, filename string, data []byte) *Job {
	now := time.Now()
	if docID == "" {
		docID = newID()
	}
	return &Job{
		ID:          newID(),
		DocID:       docID,
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// Progress tracks how far classification got.
type Progress struct {
	Fragments  int      `json:"fragments"`
	Candidates int      `json:"candidates"`
	Headings   int      `json:"headings"`
	Errors     []string `json:"errors"`
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

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetCounts records fragment, candidate and heading totals.
func (j *Job) SetCounts(fragments, candidates, headings int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Fragments = fragments
	j.Progress.Candidates = candidates
	j.Progress.Headings = headings
	j.UpdatedAt = time.Now()
}

// SetOutline records the classification result.
func (j *Job) SetOutline(o doctree.DocumentOutline) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outline = &o
	j.UpdatedAt = time.Now()
}

// Outline returns the classification result, or nil before classification.
func (j *Job) Outline() *doctree.DocumentOutline {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.outline
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFileData drops the upload once it has been parsed.
func (j *Job) releaseFileData() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string                   `json:"job_id"`
	DocID    string                   `json:"doc_id"`
	Status   JobStatus                `json:"status"`
	Phase    string                   `json:"phase"`
	Filename string                   `json:"filename"`
	Progress Progress                 `json:"progress"`
	Outline  *doctree.DocumentOutline `json:"result,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)

	snap := JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			Fragments:  j.Progress.Fragments,
			Candidates: j.Progress.Candidates,
			Headings:   j.Progress.Headings,
			Errors:     errs,
		},
	}
	if j.outline != nil {
		o := *j.outline
		snap.Outline = &o
	}
	return snap
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
