package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/exvulsec/rugscope/utils"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

var ErrIllegalTransition = errors.New("illegal job status transition")

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

func (s JobStatus) IsValid() bool {
	return s == JobStatusPending || s.IsTerminal()
}

// Transition checks a status change. PENDING may move to either terminal
// state; both terminal states are absorbing.
func (s JobStatus) Transition(next JobStatus) (JobStatus, error) {
	if s == JobStatusPending && next.IsTerminal() {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
}

type Job struct {
	ID         string          `json:"id" gorm:"column:id;primaryKey"`
	OwnerID    *string         `json:"userId,omitempty" gorm:"column:user_id"`
	Chain      utils.Chain     `json:"chain" gorm:"column:chain"`
	Identifier string          `json:"identifier" gorm:"column:identifier"`
	Status     JobStatus       `json:"status" gorm:"column:status"`
	Result     *AnalysisResult `json:"result,omitempty" gorm:"-"`
	ResultJSON []byte          `json:"-" gorm:"column:results_json"`
	CreatedAt  time.Time       `json:"createdAt" gorm:"column:created_at"`
}

type Jobs []*Job

func NewJob(id string, chain utils.Chain, identifier string, ownerID string) *Job {
	job := &Job{
		ID:         id,
		Chain:      chain,
		Identifier: identifier,
		Status:     JobStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	if ownerID != "" {
		job.OwnerID = &ownerID
	}
	return job
}

func (j *Job) Symbol() *string {
	if j.Result == nil {
		return nil
	}
	symbol := j.Result.Metadata.Symbol
	return &symbol
}
