package pipeline

import (
	"sync"
	"time"

	"github.com/HironOficial/wfi/internal/asset"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued         JobStatus = "queued"
	StatusLoading        JobStatus = "loading"
	StatusClassifying    JobStatus = "classifying"
	StatusResolvingFonts JobStatus = "resolving_fonts"
	StatusAssembling     JobStatus = "assembling"
	StatusCompleted      JobStatus = "completed"
	StatusFailed         JobStatus = "failed"
)

// ExtractRequest are the inputs of one extraction run.
type ExtractRequest struct {
	FileID  string
	Token   string
	PageIDs []string
	Kinds   asset.KindSet
	Format  asset.Format
}

// Job tracks the state of a single extraction run. Assets live here for
// the session only; a new extraction supersedes them.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	FileID string    `json:"file_id"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized. The token in particular never leaves
	// the process.
	req    ExtractRequest
	assets []asset.Asset
	errors []string
}

// Progress tracks chunk and asset counts for one run.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	TotalAssets     int      `json:"total_assets"`
	Errors          []string `json:"errors"`
}

// NewJob creates a queued job for the given request.
func NewJob(id string, req ExtractRequest) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		FileID:    req.FileID,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		req:       req,
	}
}

// Request returns the job's extraction request.
func (j *Job) Request() ExtractRequest {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.req
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

// SetChunkProgress records chunk completion counts.
func (j *Job) SetChunkProgress(done, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed = done
	j.Progress.TotalChunks = total
	j.UpdatedAt = time.Now()
}

// SetAssets stores the extraction result.
func (j *Job) SetAssets(assets []asset.Asset) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.assets = assets
	j.Progress.TotalAssets = len(assets)
	j.UpdatedAt = time.Now()
}

// Assets returns the extracted assets, nil until completion.
func (j *Job) Assets() []asset.Asset {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.assets
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string        `json:"job_id"`
	FileID   string        `json:"file_id"`
	Status   JobStatus     `json:"status"`
	Phase    string        `json:"phase"`
	Progress Progress      `json:"progress"`
	Assets   []asset.Asset `json:"assets,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state. Assets are included
// only once the job has completed.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	snap := JobSnapshot{
		ID:     j.ID,
		FileID: j.FileID,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalChunks:     j.Progress.TotalChunks,
			ChunksProcessed: j.Progress.ChunksProcessed,
			TotalAssets:     j.Progress.TotalAssets,
			Errors:          errs,
		},
	}
	if j.Status == StatusCompleted {
		snap.Assets = j.assets
	}
	return snap
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
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
