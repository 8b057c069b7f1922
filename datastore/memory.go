package datastore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/exvulsec/rugscope/model"
)

// MemoryJobStore keeps jobs in a map. Reads take the read lock, so many
// pollers can read while one orchestrator writes.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

var _ JobStore = (*MemoryJobStore)(nil)

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*model.Job)}
}

func (s *MemoryJobStore) Create(_ context.Context, job *model.Job) error {
	if err := validateCreate(job); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return ErrDuplicateKey
	}
	jobCopy := *job
	s.jobs[job.ID] = &jobCopy
	return nil
}

func (s *MemoryJobStore) GetByID(_ context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return nil, ErrNotFound
	}
	jobCopy := *job
	return &jobCopy, nil
}

// UpdateStatusAndResult swaps in a new record so a concurrent reader sees
// either the PENDING job or the terminal one, never a mix.
func (s *MemoryJobStore) UpdateStatusAndResult(_ context.Context, id string, status model.JobStatus, result *model.AnalysisResult) error {
	if err := validateUpdate(status, result); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return ErrNotFound
	}
	next, err := job.Status.Transition(status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	updated := *job
	updated.Status = next
	updated.Result = result
	s.jobs[id] = &updated
	return nil
}

// ListByOwner returns the owner's jobs, newest first.
func (s *MemoryJobStore) ListByOwner(_ context.Context, ownerID string) (model.Jobs, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := model.Jobs{}
	for _, job := range s.jobs {
		if job.OwnerID != nil && *job.OwnerID == ownerID {
			jobCopy := *job
			jobs = append(jobs, &jobCopy)
		}
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}
