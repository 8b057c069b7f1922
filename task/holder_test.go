package task

import (
	"testing"

	"github.com/magiconair/properties/assert"

	"github.com/exvulsec/rugscope/utils"
)

func TestFetchHoldersEVM(t *testing.T) {
	holders := FetchHolders(utils.HashScorer{}, utils.ChainEthereum, evmToken)

	want := []int{7, 1, 10, 4, 13, 7, 1, 10, 14, 5}
	assert.Equal(t, len(holders.Holders), len(want))
	for i, holder := range holders.Holders {
		assert.Equal(t, holder.Percentage, want[i])
		assert.Equal(t, holder.IsContract, i == 0)
		assert.Equal(t, holder.IsCreator, i == 5)
	}
	assert.Equal(t, holders.Top10Percentage, 72)
	assert.Equal(t, holders.CreatorShare, 7)
	assert.Equal(t, holders.GiniCoefficient, 0.69)
	assert.Equal(t, holders.SingleWalletDominance, false)
	assert.Equal(t, holders.Holders[0].Address, "0x0...aaaa")
	assert.Equal(t, holders.Holders[4].Balance.String(), "13000000")
}

func TestFetchHoldersSolanaAddresses(t *testing.T) {
	holders := FetchHolders(utils.HashScorer{}, utils.ChainSolana, solanaToken)
	assert.Equal(t, holders.Top10Percentage, 84)
	assert.Equal(t, holders.CreatorShare, 5)
	assert.Equal(t, holders.Holders[3].Address, "wallet_3_7GCi")
}

func TestFetchHoldersInvariants(t *testing.T) {
	for _, identifier := range []string{evmToken, solanaToken, "token52", "token12", ""} {
		holders := FetchHolders(utils.HashScorer{}, utils.ChainEthereum, identifier)
		sum := 0
		for _, holder := range holders.Holders {
			if holder.Percentage < 1 || holder.Percentage > 15 {
				t.Fatalf("%q: holder percentage %d out of range", identifier, holder.Percentage)
			}
			sum += holder.Percentage
		}
		assert.Equal(t, holders.Top10Percentage, sum)
		assert.Equal(t, holders.SingleWalletDominance, false)
		if holders.GiniCoefficient < 0.3 || holders.GiniCoefficient > 0.9 {
			t.Fatalf("%q: gini %f out of range", identifier, holders.GiniCoefficient)
		}
	}
}
