package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-forecast/internal/models"
)

func TestParseYearList(t *testing.T) {
	years, err := parseYearList("2016, 2018,2020")
	require.NoError(t, err)
	assert.Equal(t, []int{2016, 2018, 2020}, years)

	years, err = parseYearList("")
	require.NoError(t, err)
	assert.Nil(t, years)

	_, err = parseYearList("2016,twenty")
	assert.Error(t, err)
}

func TestLatestElectionYear(t *testing.T) {
	assert.Zero(t, latestElectionYear()%2)
}

func TestReadDetailsExample(t *testing.T) {
	details, err := readDetails("../../examples/prop-2024-33.json")
	require.NoError(t, err)

	assert.Equal(t, "2024-33", details.ID())
	assert.Equal(t, models.CategoryHousing, details.Category)
	require.NotNil(t, details.Finance)
	share, ok := details.Finance.SupportShare()
	require.True(t, ok)
	assert.InDelta(t, 0.625, share, 1e-9)
	assert.Len(t, details.Opponents, 2)

	_, err = readDetails("")
	assert.Error(t, err)
}
