package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(date))

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestPrevNextDay(t *testing.T) {
	noon := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-29", FormatDate(PrevDay(noon)))
	assert.Equal(t, "2024-03-02", FormatDate(NextDay(noon)))
}

func TestTruncateToDay(t *testing.T) {
	noon := time.Date(2024, 3, 1, 12, 30, 45, 999, time.UTC)
	truncated := TruncateToDay(noon)

	assert.Equal(t, 0, truncated.Hour())
	assert.True(t, SameDay(noon, truncated))
	assert.False(t, SameDay(noon, NextDay(noon)))
}
