package task

import (
	"context"
	"fmt"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

// clusterHeuristic emits a cluster only when its member count is above
// threshold.
type clusterHeuristic struct {
	clusterType  model.ClusterType
	walletPrefix string
	countTag     string
	countMin     int
	countMax     int
	threshold    int
	coordTag     string
	coordMin     int
	coordMax     int
	evidence     []string
}

var clusterHeuristics = []clusterHeuristic{
	{
		clusterType:  model.ClusterFunding,
		walletPrefix: "fund",
		countTag:     "fund_count",
		countMin:     2,
		countMax:     8,
		threshold:    3,
		coordTag:     "fund_coord",
		coordMin:     60,
		coordMax:     95,
		evidence:     []string{"Shared CEX deposit address", "Gas wallet funding chain"},
	},
	{
		clusterType:  model.ClusterTiming,
		walletPrefix: "time",
		countTag:     "time_count",
		countMin:     3,
		countMax:     12,
		threshold:    4,
		coordTag:     "time_coord",
		coordMin:     70,
		coordMax:     99,
		evidence:     []string{"Identical buy timestamps", "Same block execution"},
	},
	{
		clusterType:  model.ClusterBehavioral,
		walletPrefix: "beh",
		countTag:     "beh_count",
		countMin:     2,
		countMax:     6,
		threshold:    2,
		coordTag:     "beh_coord",
		coordMin:     50,
		coordMax:     85,
		evidence:     []string{"Circular token transfers", "Wash trading patterns"},
	},
}

type clusterTask struct {
	scorer utils.Scorer
}

func NewClusterTask(scorer utils.Scorer) Task {
	return &clusterTask{scorer: scorer}
}

func (ct *clusterTask) Name() string {
	return "clusters"
}

func (ct *clusterTask) Run(_ context.Context, analysis *Analysis) error {
	analysis.Clusters = ClusterWallets(ct.scorer, analysis.Identifier)
	return nil
}

// ClusterWallets runs the funding, timing and behavioral heuristics in that
// order. An empty, non-nil slice means no coordination was detected.
func ClusterWallets(scorer utils.Scorer, identifier string) []model.WalletCluster {
	clusters := []model.WalletCluster{}
	suffix := utils.Tail(identifier, 4)
	for _, h := range clusterHeuristics {
		count := utils.SeedScore(scorer, identifier, h.countTag, h.countMin, h.countMax)
		if count <= h.threshold {
			continue
		}
		wallets := make([]string, 0, count)
		for i := 0; i < count; i++ {
			wallets = append(wallets, fmt.Sprintf("0x_%s_%d_%s", h.walletPrefix, i, suffix))
		}
		clusters = append(clusters, model.WalletCluster{
			Type:              h.clusterType,
			Wallets:           wallets,
			CoordinationScore: utils.SeedScore(scorer, identifier, h.coordTag, h.coordMin, h.coordMax),
			Evidence:          append([]string(nil), h.evidence...),
		})
	}
	return clusters
}
