package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the side a committee or donor takes on a measure
type Position string

// Committee positions
const (
	PositionSupport    Position = "support"
	PositionOpposition Position = "opposition"
)

// Committee is a campaign committee registered for or against a measure
type Committee struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Position    Position        `json:"position"`
	TotalRaised decimal.Decimal `json:"total_raised"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// Donor is a ranked contributor to one side of a measure
type Donor struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Position Position        `json:"position"`
}

// PropositionFinance summarizes campaign money for a measure. Snapshots are replaced, not mutated.
type PropositionFinance struct {
	TotalSupport    decimal.Decimal `json:"total_support"`
	TotalOpposition decimal.Decimal `json:"total_opposition"`
	Committees      []Committee     `json:"committees,omitempty"`
	TopDonors       []Donor         `json:"top_donors,omitempty"`
	FetchedAt       time.Time       `json:"fetched_at"`
}

// Total returns combined support and opposition spending
func (f *PropositionFinance) Total() decimal.Decimal {
	return f.TotalSupport.Add(f.TotalOpposition)
}

// SupportShare returns support / (support + opposition). The second value is false when there is no money.
func (f *PropositionFinance) SupportShare() (float64, bool) {
	if f == nil {
		return 0, false
	}
	total := f.Total()
	if !total.IsPositive() {
		return 0, false
	}
	return f.TotalSupport.Div(total).InexactFloat64(), true
}

// OppositionCommittees counts committees registered against the measure
func (f *PropositionFinance) OppositionCommittees() int {
	if f == nil {
		return 0
	}
	count := 0
	for _, c := range f.Committees {
		if c.Position == PositionOpposition {
			count++
		}
	}
	return count
}

// Scaled returns a new snapshot with each side multiplied. Nil finance scales a zero baseline.
func (f *PropositionFinance) Scaled(supportMultiplier, oppositionMultiplier float64) *PropositionFinance {
	if f == nil {
		return &PropositionFinance{
			TotalSupport:    decimal.Zero,
			TotalOpposition: decimal.Zero,
		}
	}
	scaled := &PropositionFinance{
		TotalSupport:    f.TotalSupport.Mul(decimal.NewFromFloat(supportMultiplier)),
		TotalOpposition: f.TotalOpposition.Mul(decimal.NewFromFloat(oppositionMultiplier)),
		Committees:      append([]Committee(nil), f.Committees...),
		TopDonors:       append([]Donor(nil), f.TopDonors...),
		FetchedAt:       f.FetchedAt,
	}
	return scaled
}
