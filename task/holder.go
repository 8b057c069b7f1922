package task

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

const (
	holderCount        = 10
	contractHolderRank = 0
	creatorHolderRank  = 5
	dominanceThreshold = 20
)

var holderBalanceUnit = decimal.NewFromInt(1000000)

type holderTask struct {
	scorer utils.Scorer
}

func NewHolderTask(scorer utils.Scorer) Task {
	return &holderTask{scorer: scorer}
}

func (ht *holderTask) Name() string {
	return "holders"
}

func (ht *holderTask) Run(_ context.Context, analysis *Analysis) error {
	holders := FetchHolders(ht.scorer, analysis.Chain, analysis.Identifier)
	analysis.Holders = &holders
	return nil
}

// FetchHolders builds the top ten holders, largest rank first. Rank 0 is the
// pool contract and rank 5 the creator.
func FetchHolders(scorer utils.Scorer, chain utils.Chain, identifier string) model.HolderAnalysis {
	profile := profileFor(chain)
	analysis := model.HolderAnalysis{
		Holders: make([]model.Holder, 0, holderCount),
	}

	for rank := 0; rank < holderCount; rank++ {
		percentage := utils.SeedScore(scorer, identifier+strconv.Itoa(rank), "holder_perc", 1, 15)
		holder := model.Holder{
			Address:    profile.holderAddress(rank, identifier),
			Balance:    decimal.NewFromInt(int64(percentage)).Mul(holderBalanceUnit),
			Percentage: percentage,
			IsContract: rank == contractHolderRank,
			IsCreator:  rank == creatorHolderRank,
		}
		if holder.IsCreator {
			analysis.CreatorShare = percentage
		}
		analysis.Top10Percentage += percentage
		analysis.Holders = append(analysis.Holders, holder)
	}

	analysis.GiniCoefficient = float64(utils.SeedScore(scorer, identifier, "gini", 30, 90)) / 100
	analysis.SingleWalletDominance = analysis.Holders[contractHolderRank].Percentage > dominanceThreshold
	return analysis
}
