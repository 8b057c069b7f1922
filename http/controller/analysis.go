package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exvulsec/rugscope/datastore"
	"github.com/exvulsec/rugscope/executor"
	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

const UserIDHeader = "X-User-ID"

// Submitter starts an analysis and reports its terminal status on the returned
// channel.
type Submitter interface {
	Submit(ctx context.Context, input, chainHint, ownerID string) (*model.Job, <-chan model.JobStatus, error)
}

type AnalysisController struct {
	Submitter Submitter
	Store     datastore.JobStore
}

type submitRequest struct {
	Input string `json:"input"`
	Chain string `json:"chain"`
}

type submitResponse struct {
	AnalysisID    string          `json:"analysisId"`
	DetectedChain utils.Chain     `json:"detectedChain"`
	Status        model.JobStatus `json:"status"`
}

type summaryResponse struct {
	Status         model.JobStatus `json:"status"`
	Verdict        *model.Verdict  `json:"verdict,omitempty"`
	CompositeScore *float64        `json:"compositeScore,omitempty"`
	Chain          utils.Chain     `json:"chain,omitempty"`
	Timestamp      int64           `json:"timestamp,omitempty"`
}

type jobResponse struct {
	ID         string          `json:"id"`
	UserID     *string         `json:"userId,omitempty"`
	Chain      utils.Chain     `json:"chain"`
	Identifier string          `json:"identifier"`
	Status     model.JobStatus `json:"status"`
	Symbol     *string         `json:"symbol,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func newJobResponse(job *model.Job) jobResponse {
	return jobResponse{
		ID:         job.ID,
		UserID:     job.OwnerID,
		Chain:      job.Chain,
		Identifier: job.Identifier,
		Status:     job.Status,
		Symbol:     job.Symbol(),
		CreatedAt:  job.CreatedAt,
	}
}

// subResources maps each sub-resource path to the slice of the result it
// serves.
var subResources = map[string]func(result *model.AnalysisResult) any{
	"metadata":  func(r *model.AnalysisResult) any { return r.Metadata },
	"holders":   func(r *model.AnalysisResult) any { return r.Holders },
	"liquidity": func(r *model.AnalysisResult) any { return r.Liquidity },
	"clusters":  func(r *model.AnalysisResult) any { return r.Clusters },
	"signals":   func(r *model.AnalysisResult) any { return r.Signals },
	"risk":      func(r *model.AnalysisResult) any { return r.Risk },
	"temporal":  func(r *model.AnalysisResult) any { return r.Temporal },
}

func (ac *AnalysisController) Routers(routers gin.IRouter) {
	routers.POST("/analyze/init", ac.Submit)
	routers.GET("/analysis/:id", ac.GetJob)
	routers.GET("/analysis/:id/summary", ac.GetSummary)
	for name, field := range subResources {
		routers.GET("/analysis/:id/"+name, ac.GetSubResource(name, field))
	}
	routers.GET("/me/archive", ac.GetArchive)
}

func (ac *AnalysisController) Submit(c *gin.Context) {
	req := submitRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, fmt.Errorf("parse request body is err: %v", err).Error(), nil)
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		respond(c, http.StatusBadRequest, "input is required", nil)
		return
	}

	job, _, err := ac.Submitter.Submit(c.Request.Context(), req.Input, req.Chain, c.GetHeader(UserIDHeader))
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, executor.ErrEmptyInput) {
			code = http.StatusBadRequest
		} else if errors.Is(err, executor.ErrExecutorStopped) {
			code = http.StatusServiceUnavailable
		}
		respond(c, code, fmt.Errorf("submit analysis is err: %v", err).Error(), nil)
		return
	}

	respond(c, http.StatusOK, "", submitResponse{
		AnalysisID:    job.ID,
		DetectedChain: job.Chain,
		Status:        job.Status,
	})
}

// loadJob writes the error response itself and returns nil when the job
// cannot be served.
func (ac *AnalysisController) loadJob(c *gin.Context) *model.Job {
	id := c.Param("id")
	job, err := ac.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			respond(c, http.StatusNotFound, fmt.Sprintf("analysis %s not found", id), nil)
			return nil
		}
		respond(c, http.StatusInternalServerError, fmt.Errorf("get analysis %s is err: %v", id, err).Error(), nil)
		return nil
	}
	return job
}

func (ac *AnalysisController) GetJob(c *gin.Context) {
	job := ac.loadJob(c)
	if job == nil {
		return
	}
	respond(c, http.StatusOK, "", newJobResponse(job))
}

func (ac *AnalysisController) GetSummary(c *gin.Context) {
	job := ac.loadJob(c)
	if job == nil {
		return
	}

	summary := summaryResponse{Status: job.Status}
	if job.Status == model.JobStatusCompleted && job.Result != nil {
		composite := job.Result.Risk.CompositeRugLikelihood.Score
		summary.Verdict = &job.Result.Verdict
		summary.CompositeScore = &composite
		summary.Chain = job.Result.Chain
		summary.Timestamp = job.Result.Timestamp
	}
	respond(c, http.StatusOK, "", summary)
}

func (ac *AnalysisController) GetSubResource(name string, field func(result *model.AnalysisResult) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		job := ac.loadJob(c)
		if job == nil {
			return
		}
		if job.Result == nil {
			respond(c, http.StatusNotFound, fmt.Sprintf("%s of analysis %s is not available, status %s", name, job.ID, job.Status), nil)
			return
		}
		respond(c, http.StatusOK, "", field(job.Result))
	}
}

func (ac *AnalysisController) GetArchive(c *gin.Context) {
	userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
	if userID == "" {
		respond(c, http.StatusUnauthorized, "missing "+UserIDHeader+" header", nil)
		return
	}

	jobs, err := ac.Store.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		respond(c, http.StatusInternalServerError, fmt.Errorf("list archive of %s is err: %v", userID, err).Error(), nil)
		return
	}

	archive := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		archive = append(archive, newJobResponse(job))
	}
	respond(c, http.StatusOK, "", archive)
}
