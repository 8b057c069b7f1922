package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/exvulsec/rugscope/datastore"
	"github.com/exvulsec/rugscope/metrics"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/notifier"
	"github.com/exvulsec/rugscope/task"
	"github.com/exvulsec/rugscope/utils"
)

// Pipeline runs the stages of one job in order and owns the job's single
// transition out of PENDING.
type Pipeline struct {
	store          datastore.JobStore
	tasks          []task.Task
	notifiers      []notifier.Notifier
	alertThreshold float64
	reportURL      string
	now            func() time.Time
}

func NewPipeline(store datastore.JobStore, tasks []task.Task) *Pipeline {
	return &Pipeline{
		store: store,
		tasks: tasks,
		now:   time.Now,
	}
}

// WithNotifiers alerts every notifier when a completed job's composite score
// reaches threshold.
func (p *Pipeline) WithNotifiers(notifiers []notifier.Notifier, threshold float64, reportURL string) *Pipeline {
	p.notifiers = notifiers
	p.alertThreshold = threshold
	p.reportURL = reportURL
	return p
}

// Run executes every stage and writes the terminal status. The returned status
// is the one the store accepted; a job whose terminal write could not be
// stored at all is reported as PENDING.
func (p *Pipeline) Run(ctx context.Context, job *model.Job) model.JobStatus {
	startTime := p.now()
	logger := logrus.WithFields(logrus.Fields{"analysis": job.ID, "chain": job.Chain})

	result, err := p.analyze(ctx, job)
	if err != nil {
		logger.Errorf("analysis %s for %s failed: %v", job.ID, job.Identifier, err)
		return p.finish(ctx, job.ID, model.JobStatusFailed, nil)
	}

	status := p.finish(ctx, job.ID, model.JobStatusCompleted, result)
	if status != model.JobStatusCompleted {
		return status
	}
	logger.Infof("analysis %s completed for %s, composite %.0f, elapsed %s",
		job.ID, result.Metadata.Symbol, result.Risk.CompositeRugLikelihood.Score, utils.ElapsedSince(startTime, p.now()))
	p.alert(result)
	return status
}

func (p *Pipeline) analyze(ctx context.Context, job *model.Job) (*model.AnalysisResult, error) {
	analysis := task.NewAnalysis(job.ID, job.Chain, job.Identifier)
	for _, stage := range p.tasks {
		if err := p.runStage(ctx, stage, analysis); err != nil {
			return nil, err
		}
	}
	return analysis.Result(p.now().UnixMilli())
}

func (p *Pipeline) runStage(ctx context.Context, stage task.Task, analysis *task.Analysis) (err error) {
	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s panicked: %v", stage.Name(), r)
		}
		elapsed := time.Since(startTime)
		metrics.StageDuration.WithLabelValues(stage.Name()).Observe(elapsed.Seconds())
		logrus.Debugf("stage %s for analysis %s took %s", stage.Name(), analysis.ID, utils.FormatElapsed(elapsed))
	}()

	if err = stage.Run(ctx, analysis); err != nil {
		return fmt.Errorf("stage %s: %w", stage.Name(), err)
	}
	return nil
}

// finish issues the terminal write. If a COMPLETED write is rejected for any
// reason other than the job already being terminal, FAILED is written instead
// so the job does not stay PENDING.
func (p *Pipeline) finish(ctx context.Context, id string, status model.JobStatus, result *model.AnalysisResult) model.JobStatus {
	err := p.store.UpdateStatusAndResult(ctx, id, status, result)
	if err == nil {
		metrics.JobsFinished.WithLabelValues(string(status)).Inc()
		return status
	}

	logrus.Errorf("write %s status of analysis %s is err: %v", status, id, err)
	if status == model.JobStatusCompleted && !errors.Is(err, datastore.ErrInvalidTransition) {
		return p.finish(ctx, id, model.JobStatusFailed, nil)
	}
	if current, getErr := p.store.GetByID(ctx, id); getErr == nil {
		return current.Status
	}
	return model.JobStatusPending
}

func (p *Pipeline) alert(result *model.AnalysisResult) {
	if len(p.notifiers) == 0 || result.Risk.CompositeRugLikelihood.Score < p.alertThreshold {
		return
	}
	alert := notifier.NewAlert(result, p.reportURL)
	for _, n := range p.notifiers {
		n.Notify(alert)
	}
}
