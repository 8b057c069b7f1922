package task

import (
	"fmt"

	"github.com/exvulsec/rugscope/utils"
)

// chainProfile gathers every chain-family dependent constant so the stages
// never branch on the chain themselves.
type chainProfile struct {
	decimals     int
	accountModel bool // creation block instead of creation slot
	launchpads   bool

	poolPlatformHigh      string
	poolPlatformLow       string
	poolUSDPerPoint       int64
	lockAbove             int
	ownershipCapAbove     int
	platformGateThreshold int

	holderAddress func(rank int, identifier string) string
	poolAddress   func(identifier string) string
}

func evmHolderAddress(rank int, identifier string) string {
	return fmt.Sprintf("0x%d...%s", rank, utils.Tail(identifier, 4))
}

func evmPoolAddress(identifier string) string {
	return fmt.Sprintf("0x%s...lp", utils.Slice(identifier, 2, 10))
}

func solanaHolderAddress(rank int, identifier string) string {
	return fmt.Sprintf("wallet_%d_%s", rank, utils.Head(identifier, 4))
}

func solanaPoolAddress(identifier string) string {
	return "pool_" + utils.Head(identifier, 8)
}

var chainProfiles = map[utils.Chain]chainProfile{
	utils.ChainEthereum: {
		decimals:              18,
		accountModel:          true,
		poolPlatformHigh:      "Uniswap V3",
		poolPlatformLow:       "Uniswap V3",
		poolUSDPerPoint:       50000,
		lockAbove:             40,
		ownershipCapAbove:     70,
		platformGateThreshold: 50,
		holderAddress:         evmHolderAddress,
		poolAddress:           evmPoolAddress,
	},
	utils.ChainBase: {
		decimals:              18,
		accountModel:          true,
		poolPlatformHigh:      "Aerodrome",
		poolPlatformLow:       "Aerodrome",
		poolUSDPerPoint:       50000,
		lockAbove:             40,
		ownershipCapAbove:     70,
		platformGateThreshold: 50,
		holderAddress:         evmHolderAddress,
		poolAddress:           evmPoolAddress,
	},
	utils.ChainSolana: {
		decimals:              6,
		launchpads:            true,
		poolPlatformHigh:      "Raydium",
		poolPlatformLow:       "Orca",
		poolUSDPerPoint:       10000,
		lockAbove:             30,
		ownershipCapAbove:     80,
		platformGateThreshold: 50,
		holderAddress:         solanaHolderAddress,
		poolAddress:           solanaPoolAddress,
	},
}

func profileFor(chain utils.Chain) chainProfile {
	if profile, ok := chainProfiles[chain]; ok {
		return profile
	}
	return chainProfiles[utils.ChainEthereum]
}
