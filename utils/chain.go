package utils

import (
	"regexp"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

type Chain string

const (
	ChainEmpty    Chain = ""
	ChainEthereum Chain = "ethereum"
	ChainBase     Chain = "base"
	ChainSolana   Chain = "solana"
)

var (
	SupportChains = mapset.NewSet[Chain](ChainEthereum, ChainBase, ChainSolana)

	evmAddressRegexp    = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	base58AddressRegexp = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

func (c Chain) String() string {
	return string(c)
}

func (c Chain) IsSupported() bool {
	return SupportChains.Contains(c)
}

// SupportedChains lists the supported chains in name order.
func SupportedChains() []Chain {
	chains := SupportChains.ToSlice()
	slices.Sort(chains)
	return chains
}

// GetSupportChain parses a chain name case-insensitively and reports whether
// it names a supported chain.
func GetSupportChain(chain string) (Chain, bool) {
	c := Chain(strings.ToLower(strings.TrimSpace(chain)))
	if c == ChainEmpty || !c.IsSupported() {
		return ChainEmpty, false
	}
	return c, true
}

// DetectChain classifies an identifier. Anything that is neither an EVM
// address nor a base58 mint falls back to ethereum.
func DetectChain(input string) Chain {
	if evmAddressRegexp.MatchString(input) && common.IsHexAddress(input) {
		return ChainEthereum
	}
	if base58AddressRegexp.MatchString(input) {
		if _, err := base58.Decode(input); err == nil {
			return ChainSolana
		}
	}
	return ChainEthereum
}

// NormalizeIdentifier trims the input, keeps the last path segment of a
// URL-like value and drops any query string.
func NormalizeIdentifier(input string) string {
	normalized := strings.TrimSpace(input)
	if strings.Contains(normalized, "/") {
		parts := strings.Split(normalized, "/")
		normalized = parts[len(parts)-1]
		if normalized == "" && len(parts) > 1 {
			normalized = parts[len(parts)-2]
		}
	}
	if index := strings.Index(normalized, "?"); index >= 0 {
		normalized = normalized[:index]
	}
	return normalized
}

// ClassifyIdentifier returns the detected chain and the normalized identifier.
func ClassifyIdentifier(raw string) (Chain, string) {
	return DetectChain(raw), NormalizeIdentifier(raw)
}
