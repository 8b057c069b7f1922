package task

import (
	"context"

	"github.com/exvulsec/rugscope/model"
)

type verdictBand struct {
	below       float64
	summary     string
	explanation string
}

// bands are checked in order; the last one catches everything from 80 up.
var verdictBands = []verdictBand{
	{
		below:       20,
		summary:     "No strong manipulation signals",
		explanation: "The token exhibits organic growth patterns with decentralized ownership and stable liquidity. Risk of engineered manipulation is low.",
	},
	{
		below:       50,
		summary:     "Mixed signals",
		explanation: "While liquidity is stable, we detected some coordinated wallet clusters. Exercise caution as these entities may influence price action.",
	},
	{
		below:       80,
		summary:     "Coordinated structure detected",
		explanation: "High probability of insider coordination. Multiple wallet clusters share funding sources and trade in sync. Structural weakness in liquidity detected.",
	},
	{
		summary:     "High probability engineered token",
		explanation: "Extremely high risk. The token structure is heavily centralized with clear evidence of bot-driven coordination and predatory liquidity settings.",
	},
}

type verdictTask struct{}

func NewVerdictTask() Task {
	return &verdictTask{}
}

func (vt *verdictTask) Name() string {
	return "verdict"
}

func (vt *verdictTask) Run(_ context.Context, analysis *Analysis) error {
	if analysis.Risk == nil {
		return missingInput(vt.Name(), "risk")
	}
	verdict := GenerateVerdict(*analysis.Risk)
	analysis.Verdict = &verdict
	return nil
}

func GenerateVerdict(risk model.RiskAssessment) model.Verdict {
	composite := risk.CompositeRugLikelihood.Score
	band := verdictBands[len(verdictBands)-1]
	for _, b := range verdictBands[:len(verdictBands)-1] {
		if composite < b.below {
			band = b
			break
		}
	}
	return model.Verdict{
		Summary:     band.summary,
		Explanation: band.explanation,
		Confidence:  risk.CompositeRugLikelihood.Confidence,
	}
}
