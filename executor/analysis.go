package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/rugscope/datastore"
	"github.com/exvulsec/rugscope/metrics"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

var (
	ErrEmptyInput      = errors.New("empty input")
	ErrExecutorStopped = errors.New("analysis executor stopped")
)

type submission struct {
	job  *model.Job
	done chan model.JobStatus
}

// AnalysisExecutor dispatches submitted jobs to a fixed pool of pipeline
// workers. Jobs run independently of each other; the store is the only state
// they share.
type AnalysisExecutor struct {
	items    chan any
	workers  int
	store    datastore.JobStore
	pipeline *Pipeline
	newID    func() string

	mu       sync.RWMutex
	started  bool
	stopped  bool
	running  sync.WaitGroup
	enqueues sync.WaitGroup
}

func NewAnalysisExecutor(store datastore.JobStore, pipeline *Pipeline, workers, queueSize int) *AnalysisExecutor {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &AnalysisExecutor{
		items:    make(chan any, queueSize),
		workers:  workers,
		store:    store,
		pipeline: pipeline,
		newID:    uuid.NewString,
	}
}

func (ae *AnalysisExecutor) Name() string {
	return "Analysis"
}

func (ae *AnalysisExecutor) GetItemsCh() chan any {
	return ae.items
}

// Execute starts the workers and returns. Repeated calls are no-ops.
func (ae *AnalysisExecutor) Execute() {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	ae.startWorkers()
}

// startWorkers runs with mu held.
func (ae *AnalysisExecutor) startWorkers() {
	if ae.started {
		return
	}
	ae.started = true
	for i := 0; i < ae.workers; i++ {
		ae.running.Add(1)
		go func() {
			defer ae.running.Done()
			for item := range ae.items {
				sub, ok := item.(*submission)
				if !ok {
					continue
				}
				metrics.QueueDepth.Dec()
				status := ae.pipeline.Run(context.Background(), sub.job)
				sub.done <- status
				close(sub.done)
			}
		}()
	}
}

// Submit classifies input, records a PENDING job and hands it to the workers
// without waiting for a free slot. A supported chainHint overrides the
// detected chain. The returned channel yields the status of the terminal
// write once the job finishes.
func (ae *AnalysisExecutor) Submit(ctx context.Context, input, chainHint, ownerID string) (*model.Job, <-chan model.JobStatus, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil, ErrEmptyInput
	}

	ae.mu.RLock()
	defer ae.mu.RUnlock()
	if ae.stopped {
		return nil, nil, ErrExecutorStopped
	}

	chain, identifier := utils.ClassifyIdentifier(input)
	if hint, ok := utils.GetSupportChain(chainHint); ok {
		chain = hint
	}

	job := model.NewJob(ae.newID(), chain, identifier, ownerID)
	if err := ae.store.Create(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("create analysis job: %w", err)
	}
	metrics.JobsSubmitted.Inc()

	sub := &submission{job: job, done: make(chan model.JobStatus, 1)}
	metrics.QueueDepth.Inc()
	select {
	case ae.items <- sub:
	default:
		ae.enqueues.Add(1)
		go func() {
			defer ae.enqueues.Done()
			ae.items <- sub
		}()
	}

	logrus.Infof("submit analysis %s for %s on %s", job.ID, identifier, chain)
	return job, sub.done, nil
}

// Stop refuses new submissions, lets every accepted job finish and waits for
// the workers to exit. Workers are started first if Execute never ran, so
// jobs accepted before then are drained instead of blocking the shutdown.
func (ae *AnalysisExecutor) Stop() {
	ae.mu.Lock()
	if ae.stopped {
		ae.mu.Unlock()
		return
	}
	ae.stopped = true
	ae.startWorkers()
	ae.mu.Unlock()

	ae.enqueues.Wait()
	close(ae.items)
	ae.running.Wait()
	logrus.Infof("analysis executor stopped")
}
