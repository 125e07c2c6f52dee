package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropositionIDRoundTrip(t *testing.T) {
	id := PropositionID(2020, " 1a")
	assert.Equal(t, "2020-1A", id)

	year, number, err := ParsePropositionID(id)
	require.NoError(t, err)
	assert.Equal(t, 2020, year)
	assert.Equal(t, "1A", number)

	_, _, err = ParsePropositionID("prop-22")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, _, err = ParsePropositionID("2020-")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	prop := Proposition{Year: 2024, Number: "1", ElectionDate: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, StatusUpcoming, prop.DeriveStatus(now))

	prop.ElectionDate = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusActive, prop.DeriveStatus(now))

	passed := NewElectionResult(600, 400)
	prop.Result = &passed
	assert.Equal(t, StatusPassed, prop.DeriveStatus(now))

	failed := NewElectionResult(400, 600)
	prop.Result = &failed
	assert.Equal(t, StatusFailed, prop.DeriveStatus(now))
}

func TestNewElectionResult(t *testing.T) {
	result := NewElectionResult(3, 1)
	assert.True(t, result.Passed)
	assert.InDelta(t, 75.0, result.YesPercentage, 1e-9)
	assert.InDelta(t, 25.0, result.NoPercentage, 1e-9)

	tie := NewElectionResult(5, 5)
	assert.False(t, tie.Passed)

	empty := NewElectionResult(0, 0)
	assert.Zero(t, empty.YesPercentage)
}

func TestPropositionValidate(t *testing.T) {
	valid := Proposition{Year: 2022, Number: "30", Title: "Tax on income above $2 million", Category: CategoryTaxation}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(p *Proposition)
	}{
		{"zero year", func(p *Proposition) { p.Year = 0 }},
		{"blank number", func(p *Proposition) { p.Number = "  " }},
		{"missing title", func(p *Proposition) { p.Title = "" }},
		{"unknown category", func(p *Proposition) { p.Category = "sports" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrMalformedProposition)
		})
	}
}

func TestFinanceSupportShare(t *testing.T) {
	f := &PropositionFinance{
		TotalSupport:    decimal.NewFromInt(3_000_000),
		TotalOpposition: decimal.NewFromInt(1_000_000),
	}
	share, ok := f.SupportShare()
	require.True(t, ok)
	assert.InDelta(t, 0.75, share, 1e-9)

	var missing *PropositionFinance
	_, ok = missing.SupportShare()
	assert.False(t, ok)

	_, ok = (&PropositionFinance{}).SupportShare()
	assert.False(t, ok)
}

func TestFinanceScaledDoesNotMutate(t *testing.T) {
	f := &PropositionFinance{
		TotalSupport:    decimal.NewFromInt(100),
		TotalOpposition: decimal.NewFromInt(200),
		Committees:      []Committee{{ID: "c1", Position: PositionOpposition}},
	}
	scaled := f.Scaled(2, 0.5)

	assert.True(t, scaled.TotalSupport.Equal(decimal.NewFromInt(200)))
	assert.True(t, scaled.TotalOpposition.Equal(decimal.NewFromInt(100)))
	assert.True(t, f.TotalSupport.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 1, scaled.OppositionCommittees())

	var missing *PropositionFinance
	zero := missing.Scaled(3, 3)
	require.NotNil(t, zero)
	assert.True(t, zero.Total().IsZero())
}

func TestImpactAndDataQuality(t *testing.T) {
	assert.Equal(t, ImpactPositive, ImpactOf(0.56))
	assert.Equal(t, ImpactNeutral, ImpactOf(0.55))
	assert.Equal(t, ImpactNeutral, ImpactOf(0.45))
	assert.Equal(t, ImpactNegative, ImpactOf(0.44))

	assert.Equal(t, DataQualityStrong, DataQualityFor(2))
	assert.Equal(t, DataQualityModerate, DataQualityFor(1))
	assert.Equal(t, DataQualityLimited, DataQualityFor(0))
}

func TestFactorKindJSON(t *testing.T) {
	for _, kind := range FactorKinds {
		assert.NotEqual(t, "Unknown Factor", kind.Label())
	}
	assert.False(t, FactorFinance.Illustrative())
	assert.True(t, FactorTiming.Illustrative())

	data, err := json.Marshal(PredictionFactor{Kind: FactorFinance})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"campaign_finance"`)

	var decoded PredictionFactor
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, FactorFinance, decoded.Kind)

	var bad FactorKind
	assert.Error(t, bad.UnmarshalText([]byte("astrology")))
}
