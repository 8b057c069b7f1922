package task

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

const (
	confidenceFloor = 0.85

	stableLPRiskBelow  = 30
	highLPRiskAbove    = 50
	criticalClustersAt = 2
)

type riskTask struct {
	scorer utils.Scorer
}

func NewRiskTask(scorer utils.Scorer) Task {
	return &riskTask{scorer: scorer}
}

func (rt *riskTask) Name() string {
	return "risk"
}

func (rt *riskTask) Run(_ context.Context, analysis *Analysis) error {
	switch {
	case analysis.Metadata == nil:
		return missingInput(rt.Name(), "metadata")
	case analysis.Holders == nil:
		return missingInput(rt.Name(), "holders")
	case analysis.Liquidity == nil:
		return missingInput(rt.Name(), "liquidity")
	case analysis.Clusters == nil:
		return missingInput(rt.Name(), "clusters")
	}
	risk, signals := ScoreRisk(rt.scorer, *analysis.Metadata, *analysis.Holders, *analysis.Liquidity, analysis.Clusters)
	analysis.Risk = &risk
	analysis.Signals = signals
	return nil
}

// ScoreRisk derives the three signals and the risk assessment. Ownership and
// contract risk are seeded from the deployer; contract risk is reported but
// left out of the composite.
func ScoreRisk(
	scorer utils.Scorer,
	metadata model.TokenMetadata,
	holders model.HolderAnalysis,
	liquidity model.LiquidityAnalysis,
	clusters []model.WalletCluster,
) (model.RiskAssessment, []model.Signal) {
	seed := metadata.Deployer
	signals := buildSignals(metadata, liquidity, clusters)

	newScore := func(tag string, score float64, label string, evidence []string) model.RiskScore {
		return model.RiskScore{
			Score:      score,
			Label:      label,
			Evidence:   evidence,
			Confidence: confidenceFloor + float64(utils.SeedScore(scorer, seed, "conf_"+tag, 0, 100))/1000,
		}
	}

	insiderEvidence := []string{"Coordinated buy patterns", "Shared funding sources"}
	if wallets := distinctWallets(clusters); wallets > 0 {
		insiderEvidence = append(insiderEvidence, fmt.Sprintf("%d distinct wallets across clusters", wallets))
	}

	risk := model.RiskAssessment{
		OwnershipRisk: newScore("own",
			float64(utils.SeedScore(scorer, seed, "own_risk", 10, 90)),
			"Ownership Risk",
			[]string{"Contract not renounced", "Admin functions active"}),
		ConcentrationRisk: newScore("conc",
			float64(holders.Top10Percentage),
			"Concentration Risk",
			[]string{
				fmt.Sprintf("Top 10 holders control %.1f%%", float64(holders.Top10Percentage)),
				"Single wallet dominance detected",
			}),
		LiquidityRisk: newScore("liq",
			float64(liquidity.LPOwnershipRisk),
			"Liquidity Risk",
			[]string{"Low liquidity depth", "LP tokens not burnt"}),
		InsiderCoordinationRisk: newScore("ins",
			meanCoordination(clusters),
			"Insider Coordination Risk",
			insiderEvidence),
		ContractRisk: newScore("cont",
			float64(utils.SeedScore(scorer, seed, "cont_risk", 5, 40)),
			"Contract Risk",
			[]string{"Standard SPL/ERC20 implementation", "No malicious functions detected"}),
	}

	risk.CompositeRugLikelihood = newScore("comp",
		model.CompositeScore(
			risk.OwnershipRisk.Score,
			risk.ConcentrationRisk.Score,
			risk.LiquidityRisk.Score,
			risk.InsiderCoordinationRisk.Score,
		),
		"Composite Rug Likelihood",
		[]string{risk.LiquidityRisk.Evidence[0], risk.InsiderCoordinationRisk.Evidence[0]})

	return risk, signals
}

func buildSignals(metadata model.TokenMetadata, liquidity model.LiquidityAnalysis, clusters []model.WalletCluster) []model.Signal {
	ownership := model.Signal{
		ID:          "OWN-01",
		Name:        "Ownership Privileges",
		Value:       "Active",
		Description: "The contract owner has the ability to modify parameters.",
		Severity:    model.SeverityHigh,
	}
	if metadata.Graduated() {
		ownership.Value = "Renounced"
		ownership.Severity = model.SeverityLow
	}

	clusterSeverity := model.SeverityMedium
	if len(clusters) > criticalClustersAt {
		clusterSeverity = model.SeverityCritical
	}

	stability := "Volatile"
	if liquidity.LPOwnershipRisk < stableLPRiskBelow {
		stability = "Stable"
	}
	liquiditySeverity := model.SeverityLow
	if liquidity.LPOwnershipRisk > highLPRiskAbove {
		liquiditySeverity = model.SeverityHigh
	}

	return []model.Signal{
		ownership,
		{
			ID:          "CLU-01",
			Name:        "Insider Cluster Size",
			Value:       len(clusters),
			Description: fmt.Sprintf("Detected %d distinct coordinated wallet clusters.", len(clusters)),
			Severity:    clusterSeverity,
		},
		{
			ID:          "LIQ-01",
			Name:        "Liquidity Stability",
			Value:       stability,
			Description: "Assessment of how easily liquidity can be removed.",
			Severity:    liquiditySeverity,
		},
	}
}

// meanCoordination is 0 when no cluster was emitted.
func meanCoordination(clusters []model.WalletCluster) float64 {
	if len(clusters) == 0 {
		return 0
	}
	total := 0
	for _, cluster := range clusters {
		total += cluster.CoordinationScore
	}
	return float64(total) / float64(len(clusters))
}

func distinctWallets(clusters []model.WalletCluster) int {
	wallets := mapset.NewSet[string]()
	for _, cluster := range clusters {
		for _, wallet := range cluster.Wallets {
			wallets.Add(wallet)
		}
	}
	return wallets.Cardinality()
}
