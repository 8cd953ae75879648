package holders

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress("Addr1"))
	assert.False(t, ValidAddress(""))
	assert.False(t, ValidAddress("   "))
	assert.False(t, ValidAddress("Addr 1"))
	assert.False(t, ValidAddress("Addr\x001"))
	assert.False(t, ValidAddress(string([]byte{0xff, 0xfe})))
}

func TestNormalizeGuards(t *testing.T) {
	in := []Record{
		{Address: "A", BalanceTokens: 10},
		{Address: "", BalanceTokens: 5},
		{Address: "B", BalanceTokens: math.NaN()},
		{Address: "A", BalanceTokens: 30},
		{Address: "C", BalanceTokens: math.Inf(1), PnL: math.NaN()},
		{Address: "bad addr", BalanceTokens: 1},
		{Address: "D", BalanceTokens: -4},
	}

	out, skipped := Normalize(in, 0)
	assert.Equal(t, 2, skipped)
	require.Len(t, out, 4)

	assert.Equal(t, Record{Address: "A", BalanceTokens: 30}, out[0])
	assert.Equal(t, Record{Address: "B"}, out[1])
	assert.Equal(t, Record{Address: "C"}, out[2])
	assert.Equal(t, Record{Address: "D"}, out[3])
}

func TestNormalizeMinTokens(t *testing.T) {
	in := []Record{
		{Address: "A", BalanceTokens: 50000},
		{Address: "B", BalanceTokens: 100000},
		{Address: "C", BalanceTokens: 500000},
	}
	out, skipped := Normalize(in, DefaultMinTokens)
	assert.Zero(t, skipped)
	require.Len(t, out, 2)
	assert.Equal(t, "B", out[0].Address)
	assert.Equal(t, "C", out[1].Address)
}

func TestDemo(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	recs := Demo(r, 60, DefaultMinTokens)
	require.Len(t, recs, 60)

	seen := map[string]bool{}
	for i, h := range recs {
		assert.True(t, strings.HasPrefix(h.Address, "DemoWallet"))
		assert.True(t, strings.HasSuffix(h.Address, strconv.Itoa(1000+i)))
		assert.True(t, ValidAddress(h.Address))
		assert.GreaterOrEqual(t, h.BalanceTokens, float64(DefaultMinTokens))
		assert.Less(t, h.BalanceTokens, float64(DefaultMinTokens*16))
		assert.GreaterOrEqual(t, h.PnL, -5.0)
		assert.Less(t, h.PnL, 5.0)
		seen[h.Address] = true
	}
	assert.Len(t, seen, 60)

	// Same source seed, same snapshot
	again := Demo(rand.New(rand.NewSource(42)), 60, DefaultMinTokens)
	assert.Equal(t, recs, again)
}

func TestChurnKeepsSizeAndSurvivors(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	prev := Demo(r, 40, DefaultMinTokens)
	next := Churn(r, prev, 0.75, DefaultMinTokens)
	require.Len(t, next, len(prev))

	prevSet := map[string]bool{}
	for _, h := range prev {
		prevSet[h.Address] = true
	}
	survivors := 0
	for _, h := range next {
		if prevSet[h.Address] {
			survivors++
		}
		assert.GreaterOrEqual(t, h.BalanceTokens, float64(DefaultMinTokens))
	}
	assert.Greater(t, survivors, 0)

	all := Churn(r, prev, 1, DefaultMinTokens)
	for i := range prev {
		assert.Equal(t, prev[i].Address, all[i].Address)
	}
}

func TestPickWinner(t *testing.T) {
	_, ok := PickWinner(rand.New(rand.NewSource(1)), nil)
	assert.False(t, ok)

	recs := []Record{{Address: "A"}, {Address: "B"}, {Address: "C"}}
	w, ok := PickWinner(fixedRand(0.999999), recs)
	assert.True(t, ok)
	assert.Equal(t, "C", w.Address)

	w, _ = PickWinner(fixedRand(0), recs)
	assert.Equal(t, "A", w.Address)
}

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }
