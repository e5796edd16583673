package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionReport summarizes one monthly distribution run. Skipped counts
// members whose period was already credited (a normal no-op outcome), kept
// separate from genuine failures.
type DistributionReport struct {
	Period        string          `json:"period"`
	Processed     int             `json:"processed"`
	Skipped       int             `json:"skipped"`
	Failed        int             `json:"failed"`
	TotalYield    decimal.Decimal `json:"totalYield"`
	TotalReferral decimal.Decimal `json:"totalReferral"`
	StartedAt     time.Time       `json:"startedAt"`
	FinishedAt    time.Time       `json:"finishedAt"`
}

// TreeStats aggregates the binary-leg metrics for one member.
type TreeStats struct {
	MemberID       string `json:"memberID"`
	LeftLegSize    int    `json:"leftLegSize"`
	RightLegSize   int    `json:"rightLegSize"`
	PotentialPairs int    `json:"potentialPairs"` // min(left, right)
	DirectLeft     int    `json:"directLeft"`
	DirectRight    int    `json:"directRight"`
	Booster        bool   `json:"booster"`
}
