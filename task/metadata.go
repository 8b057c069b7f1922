package task

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/exvulsec/rugscope/model"
	"github.com/exvulsec/rugscope/utils"
)

const (
	baseCreationBlock = 18000000
	baseCreationSlot  = 250000000
	pumpFunSuffix     = "pump"
)

var (
	tokenNames   = []string{"Pepe", "Dogecoin", "Shiba Inu", "Floki", "Bonk", "Wif", "Popcat", "Mog", "Brett", "Toshi"}
	tokenSymbols = []string{"PEPE", "DOGE", "SHIB", "FLOKI", "BONK", "WIF", "POPCAT", "MOG", "BRETT", "TOSHI"}

	defaultTotalSupply = decimal.RequireFromString("1000000000000000")
)

type metadataTask struct {
	scorer utils.Scorer
}

func NewMetadataTask(scorer utils.Scorer) Task {
	return &metadataTask{scorer: scorer}
}

func (mt *metadataTask) Name() string {
	return "metadata"
}

func (mt *metadataTask) Run(_ context.Context, analysis *Analysis) error {
	metadata := FetchMetadata(mt.scorer, analysis.Chain, analysis.Identifier)
	analysis.Metadata = &metadata
	return nil
}

func FetchMetadata(scorer utils.Scorer, chain utils.Chain, identifier string) model.TokenMetadata {
	profile := profileFor(chain)
	nameSeed := utils.SeedScore(scorer, identifier, "name", 0, 1000)

	metadata := model.TokenMetadata{
		Name:        tokenNames[nameSeed%len(tokenNames)],
		Symbol:      tokenSymbols[nameSeed%len(tokenSymbols)],
		Decimals:    profile.decimals,
		TotalSupply: defaultTotalSupply,
		Chain:       chain,
		Deployer:    utils.ShortenAddress(identifier),
	}

	if profile.accountModel {
		block := int64(baseCreationBlock + nameSeed*100)
		metadata.CreationBlock = &block
	} else {
		slot := int64(baseCreationSlot + nameSeed*1000)
		metadata.CreationSlot = &slot
	}

	if profile.launchpads {
		switch {
		case utils.HasSuffixFold(identifier, pumpFunSuffix):
			progress := utils.SeedScore(scorer, identifier, "bonding", 0, 100)
			graduated := progress == 100
			metadata.LaunchpadType = model.LaunchpadPumpFun
			metadata.BondingCurveProgress = &progress
			metadata.IsGraduated = &graduated
		case nameSeed%5 == 0:
			metadata.LaunchpadType = model.LaunchpadBonk
		default:
			metadata.LaunchpadType = model.LaunchpadStandard
		}
	}
	return metadata
}
