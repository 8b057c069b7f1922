package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

var ErrMissingInput = errors.New("stage input not produced")

// Task is one analysis stage. It reads what earlier stages left on the
// Analysis and writes its own output back onto it.
type Task interface {
	Name() string
	Run(ctx context.Context, analysis *Analysis) error
}

// Analysis is the working state of one pipeline run.
type Analysis struct {
	ID         string
	Chain      utils.Chain
	Identifier string

	Metadata  *model.TokenMetadata
	Holders   *model.HolderAnalysis
	Liquidity *model.LiquidityAnalysis
	Clusters  []model.WalletCluster
	Signals   []model.Signal
	Risk      *model.RiskAssessment
	Temporal  *model.TemporalAnalysis
	Verdict   *model.Verdict
}

func NewAnalysis(id string, chain utils.Chain, identifier string) *Analysis {
	return &Analysis{ID: id, Chain: chain, Identifier: identifier}
}

// Result assembles the immutable result once every stage has run.
func (a *Analysis) Result(timestamp int64) (*model.AnalysisResult, error) {
	missing := ""
	switch {
	case a.Metadata == nil:
		missing = "metadata"
	case a.Holders == nil:
		missing = "holders"
	case a.Liquidity == nil:
		missing = "liquidity"
	case a.Clusters == nil:
		missing = "clusters"
	case a.Risk == nil:
		missing = "risk"
	case a.Temporal == nil:
		missing = "temporal"
	case a.Verdict == nil:
		missing = "verdict"
	}
	if missing != "" {
		return nil, fmt.Errorf("assemble result for %s: %w: %s", a.ID, ErrMissingInput, missing)
	}
	return &model.AnalysisResult{
		ID:         a.ID,
		Chain:      a.Chain,
		Identifier: a.Identifier,
		Metadata:   *a.Metadata,
		Holders:    *a.Holders,
		Liquidity:  *a.Liquidity,
		Clusters:   a.Clusters,
		Signals:    a.Signals,
		Risk:       *a.Risk,
		Temporal:   *a.Temporal,
		Verdict:    *a.Verdict,
		Timestamp:  timestamp,
	}, nil
}

// NewDefaultTasks returns the stages in their canonical order.
func NewDefaultTasks(scorer utils.Scorer) []Task {
	return []Task{
		NewMetadataTask(scorer),
		NewHolderTask(scorer),
		NewLiquidityTask(scorer),
		NewClusterTask(scorer),
		NewRiskTask(scorer),
		NewTemporalTask(scorer),
		NewVerdictTask(),
	}
}

func missingInput(stage, input string) error {
	return fmt.Errorf("%s stage: %w: %s", stage, ErrMissingInput, input)
}
