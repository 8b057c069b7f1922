package model

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/exvulsec/rugscope/utils"
)

type LaunchpadType string

const (
	LaunchpadPumpFun  LaunchpadType = "pumpfun"
	LaunchpadBonk     LaunchpadType = "bonk"
	LaunchpadStandard LaunchpadType = "standard"
)

// TokenMetadata carries either CreationBlock (account-model chains) or
// CreationSlot plus the launchpad fields (solana), never both.
type TokenMetadata struct {
	Name                 string          `json:"name"`
	Symbol               string          `json:"symbol"`
	Decimals             int             `json:"decimals"`
	TotalSupply          decimal.Decimal `json:"totalSupply"`
	Chain                utils.Chain     `json:"chain"`
	CreationBlock        *int64          `json:"creationBlock,omitempty"`
	CreationSlot         *int64          `json:"creationSlot,omitempty"`
	Deployer             string          `json:"deployer"`
	LaunchpadType        LaunchpadType   `json:"launchpadType,omitempty"`
	BondingCurveProgress *int            `json:"bondingCurveProgress,omitempty"`
	IsGraduated          *bool           `json:"isGraduated,omitempty"`
}

func (tm *TokenMetadata) Graduated() bool {
	return tm.IsGraduated != nil && *tm.IsGraduated
}

type Holder struct {
	Address    string          `json:"address"`
	Balance    decimal.Decimal `json:"balance"`
	Percentage int             `json:"percentage"`
	IsContract bool            `json:"isContract"`
	IsCreator  bool            `json:"isCreator"`
}

type HolderAnalysis struct {
	Top10Percentage       int      `json:"top10Percentage"`
	GiniCoefficient       float64  `json:"giniCoefficient"`
	SingleWalletDominance bool     `json:"singleWalletDominance"`
	CreatorShare          int      `json:"creatorShare"`
	Holders               []Holder `json:"holders"`
}

type LiquidityPool struct {
	Platform            string          `json:"platform"`
	Address             string          `json:"address"`
	LiquidityUSD        decimal.Decimal `json:"liquidityUSD"`
	IsLocked            bool            `json:"isLocked"`
	OwnershipPercentage int             `json:"ownershipPercentage"`
	ProximityToDev      int             `json:"proximityToDev"`
}

type LiquidityAnalysis struct {
	PrimaryPools      []LiquidityPool `json:"primaryPools"`
	TotalLiquidityUSD decimal.Decimal `json:"totalLiquidityUSD"`
	LPOwnershipRisk   int             `json:"lpOwnershipRisk"`
	RemovalRisk       int             `json:"removalRisk"`
	DepthScore        int             `json:"depthScore"`
}

type ClusterType string

const (
	ClusterFunding    ClusterType = "funding"
	ClusterTiming     ClusterType = "timing"
	ClusterBehavioral ClusterType = "behavioral"
)

type WalletCluster struct {
	Type              ClusterType `json:"type"`
	Wallets           []string    `json:"wallets"`
	CoordinationScore int         `json:"coordinationScore"`
	Evidence          []string    `json:"evidence"`
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Signal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Value       any      `json:"value"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type RiskScore struct {
	Score      float64  `json:"score"`
	Label      string   `json:"label"`
	Evidence   []string `json:"evidence"`
	Confidence float64  `json:"confidence"`
}

// RiskAssessment. CompositeRugLikelihood is always derived from the other
// components by CompositeScore and ContractRisk never feeds into it.
type RiskAssessment struct {
	OwnershipRisk           RiskScore `json:"ownershipRisk"`
	ConcentrationRisk       RiskScore `json:"concentrationRisk"`
	LiquidityRisk           RiskScore `json:"liquidityRisk"`
	InsiderCoordinationRisk RiskScore `json:"insiderCoordinationRisk"`
	ContractRisk            RiskScore `json:"contractRisk"`
	CompositeRugLikelihood  RiskScore `json:"compositeRugLikelihood"`
}

type TemporalPhase string

const (
	PhaseLaunch            TemporalPhase = "launch"
	PhaseEarlyAccumulation TemporalPhase = "early_accumulation"
	PhaseDistribution      TemporalPhase = "distribution"
)

type TemporalScores struct {
	LaunchMomentum          int `json:"launchMomentum"`
	ParticipationDispersion int `json:"participationDispersion"`
	ClusterPersistence      int `json:"clusterPersistence"`
	LiquidityVelocity       int `json:"liquidityVelocity"`
}

type TemporalAnalysis struct {
	CurrentPhase     TemporalPhase  `json:"currentPhase"`
	TemporalScores   TemporalScores `json:"temporalScores"`
	TemporalEvidence []string       `json:"temporalEvidence"`
}

type Verdict struct {
	Summary     string  `json:"summary"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// AnalysisResult is written once, together with the COMPLETED status, and
// never modified afterwards.
type AnalysisResult struct {
	ID         string            `json:"id"`
	Chain      utils.Chain       `json:"chain"`
	Identifier string            `json:"identifier"`
	Metadata   TokenMetadata     `json:"metadata"`
	Holders    HolderAnalysis    `json:"holders"`
	Liquidity  LiquidityAnalysis `json:"liquidity"`
	Clusters   []WalletCluster   `json:"clusters"`
	Signals    []Signal          `json:"signals"`
	Risk       RiskAssessment    `json:"risk"`
	Temporal   TemporalAnalysis  `json:"temporal"`
	Verdict    Verdict           `json:"verdict"`
	Timestamp  int64             `json:"timestamp"`
}

// CompositeScore is the fixed-weight blend of ownership, concentration,
// liquidity and insider-coordination risk, rounded half up.
func CompositeScore(ownership, concentration, liquidity, insider float64) float64 {
	return math.Floor(ownership*0.2 + concentration*0.2 + liquidity*0.3 + insider*0.3 + 0.5)
}
