package model

// TPLevel is one rung of the take-profit ladder.
type TPLevel struct {
	Name   string
	Price  float64
	Reason string
}

// TradePlan is the fully-priced output of the planner, ready for scoring.
type TradePlan struct {
	Symbol       string
	Intent       Intent
	Entry1       float64
	Entry2       *float64
	SL           float64
	SLReason     string
	TPs          [5]TPLevel
	RiskPerUnit  float64
	RRTp2        *float64
	RRTp2Entry2  *float64
	LeewayPrice  float64
	LeewayReason string
	Meta         map[string]any
}

// Tier is the opportunity grade assigned by the scorer.
type Tier string

const (
	TierA    Tier = "A"
	TierB    Tier = "B"
	TierC    Tier = "C"
	TierSkip Tier = "SKIP"
)

// ScoreResult is the final verdict for a symbol's trade plan.
type ScoreResult struct {
	Passed   bool
	Tier     Tier
	RiskMult float64
	Score    int
	RRTp2    float64
	Reasons  []string
	Checks   map[string]any
}
