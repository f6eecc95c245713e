package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	m := Market{Region: "UAE (Dubai)", Currency: "AED", ShippingCostUSD: 25, AvgResaleMultiplier: 1.3}
	e := Simulate(835, m)
	assert.Equal(t, "860", e.DeliveredCost.String())
	assert.Equal(t, "1086", e.EstimatedResale.String(), "835 * 1.3 = 1085.5 rounds up")
	assert.Equal(t, "226", e.Profit.String())
	assert.Equal(t, int64(26), e.MarginPct)
}

func TestSimulateLoss(t *testing.T) {
	m := Market{Region: "Far", ShippingCostUSD: 100, AvgResaleMultiplier: 1}
	e := Simulate(300, m)
	assert.Equal(t, "-100", e.Profit.String())
	assert.Equal(t, int64(-25), e.MarginPct)
}

func TestSimulateHalfRoundsUp(t *testing.T) {
	// profit -5 over delivered 200 is -2.5%, which rounds to -2.
	m := Market{Region: "Edge", ShippingCostUSD: 100, AvgResaleMultiplier: 1.95}
	e := Simulate(100, m)
	assert.Equal(t, "195", e.EstimatedResale.String())
	assert.Equal(t, int64(-2), e.MarginPct)
}

func TestSimulateZeroCost(t *testing.T) {
	e := Simulate(0, Market{Region: "Free"})
	assert.Equal(t, int64(0), e.MarginPct)
	assert.True(t, e.Profit.IsZero())
}

func TestSimulateAllFollowsMarkets(t *testing.T) {
	all := SimulateAll(394)
	require.Len(t, all, len(Markets))
	for i, e := range all {
		assert.Equal(t, Markets[i].Region, e.Market.Region)
	}
	assert.Equal(t, "0", all[0].DeliveredCost.Sub(all[0].UnitCost).String(), "the default market ships locally")
}
