package task

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

type liquidityTask struct {
	scorer utils.Scorer
}

func NewLiquidityTask(scorer utils.Scorer) Task {
	return &liquidityTask{scorer: scorer}
}

func (lt *liquidityTask) Name() string {
	return "liquidity"
}

func (lt *liquidityTask) Run(_ context.Context, analysis *Analysis) error {
	liquidity := FetchLiquidity(lt.scorer, analysis.Chain, analysis.Identifier)
	analysis.Liquidity = &liquidity
	return nil
}

func FetchLiquidity(scorer utils.Scorer, chain utils.Chain, identifier string) model.LiquidityAnalysis {
	profile := profileFor(chain)
	base := utils.SeedScore(scorer, identifier, "liq_base", 0, 100)

	platform := profile.poolPlatformLow
	if base >= profile.platformGateThreshold {
		platform = profile.poolPlatformHigh
	}
	ownership := base
	if base > profile.ownershipCapAbove {
		ownership = 100
	}

	pools := []model.LiquidityPool{
		{
			Platform:            platform,
			Address:             profile.poolAddress(identifier),
			LiquidityUSD:        decimal.NewFromInt(int64(base) * profile.poolUSDPerPoint),
			IsLocked:            base > profile.lockAbove,
			OwnershipPercentage: ownership,
			ProximityToDev:      utils.SeedScore(scorer, identifier, "dev_prox", 0, 100),
		},
	}

	total := decimal.Zero
	for _, pool := range pools {
		total = total.Add(pool.LiquidityUSD)
	}

	return model.LiquidityAnalysis{
		PrimaryPools:      pools,
		TotalLiquidityUSD: total,
		LPOwnershipRisk:   utils.SeedScore(scorer, identifier, "lp_risk", 0, 100),
		RemovalRisk:       utils.SeedScore(scorer, identifier, "rem_risk", 0, 100),
		DepthScore:        utils.SeedScore(scorer, identifier, "depth", 0, 100),
	}
}
