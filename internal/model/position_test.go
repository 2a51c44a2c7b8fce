package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPosition_ApplyBuy(t *testing.T) {
	tests := []struct {
		name        string
		position    Position
		shares      int64
		price       string
		wantShares  int64
		wantAvgCost string
	}{
		{
			name:        "doubles down at higher price",
			position:    Position{Shares: 10, AvgCost: dec("100")},
			shares:      10,
			price:       "200",
			wantShares:  20,
			wantAvgCost: "150",
		},
		{
			name:        "uneven share counts weight proportionally",
			position:    Position{Shares: 30, AvgCost: dec("10")},
			shares:      10,
			price:       "30",
			wantShares:  40,
			wantAvgCost: "15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.position.ApplyBuy(tt.shares, dec(tt.price))
			assert.Equal(t, tt.wantShares, tt.position.Shares)
			assert.Truef(t, dec(tt.wantAvgCost).Equal(tt.position.AvgCost),
				"want avg cost %s, got %s", tt.wantAvgCost, tt.position.AvgCost)
		})
	}
}

func TestPosition_ApplySell(t *testing.T) {
	position := Position{Shares: 20, AvgCost: dec("150")}
	position.ApplySell(5, dec("180"))

	assert.Equal(t, int64(15), position.Shares)
	assert.True(t, dec("150").Equal(position.AvgCost), "partial sell must not change avg cost")
	assert.True(t, dec("2250").Equal(position.TotalCost))
	assert.True(t, dec("2700").Equal(position.CurrentValue))
	assert.True(t, dec("450").Equal(position.UnrealizedGain))
	assert.True(t, dec("20").Equal(position.UnrealizedGainPercent))
}

func TestPosition_RevalueZeroCostGuard(t *testing.T) {
	position := Position{Shares: 0, AvgCost: decimal.Zero}
	position.Revalue(dec("100"))

	assert.True(t, position.UnrealizedGainPercent.IsZero())
	assert.True(t, position.CurrentValue.IsZero())
}
