package datastore

import (
	"context"
	"errors"

	"github.com/exvulsec/rugscope/model"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTransition is returned when a terminal write targets a job that
	// already left PENDING.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// JobStore persists analysis jobs. Implementations must make the terminal
// status and the result visible together and accept at most one terminal
// write per job.
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	GetByID(ctx context.Context, id string) (*model.Job, error)
	UpdateStatusAndResult(ctx context.Context, id string, status model.JobStatus, result *model.AnalysisResult) error
	ListByOwner(ctx context.Context, ownerID string) (model.Jobs, error)
}

func validateCreate(job *model.Job) error {
	if job == nil || job.ID == "" || job.Status != model.JobStatusPending {
		return ErrInvalidInput
	}
	return nil
}

// validateUpdate rejects a COMPLETED write without a result and a FAILED
// write carrying one.
func validateUpdate(status model.JobStatus, result *model.AnalysisResult) error {
	switch status {
	case model.JobStatusCompleted:
		if result == nil {
			return ErrInvalidInput
		}
	case model.JobStatusFailed:
		if result != nil {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}
