package holders

import (
	"strconv"
	"strings"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// Rand is a uniform [0, 1) source; *rand.Rand satisfies it.
// Demo data, winner picks and swarm spawning all draw from it.
type Rand interface {
	Float64() float64
}

// Demo generates n synthetic holders with balances in [minTokens, 16*minTokens)
func Demo(r Rand, n int, minTokens float64) []Record {
	if minTokens <= 0 {
		minTokens = DefaultMinTokens
	}
	out := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, demoRecord(r, 1000+i, minTokens))
	}
	return out
}

func demoRecord(r Rand, suffix int, minTokens float64) Record {
	var sb strings.Builder
	sb.WriteString("DemoWallet")
	for j := 0; j < 8; j++ {
		sb.WriteByte(base36[int(r.Float64()*36)%36])
	}
	sb.WriteString(strconv.Itoa(suffix))

	return Record{
		Address:       sb.String(),
		BalanceTokens: minTokens + float64(int64(r.Float64()*minTokens*15)),
		PnL:           (r.Float64() - 0.5) * 10,
	}
}

// Churn derives the next demo snapshot from prev: each holder survives with probability keep
// (its balance drifting by up to ±10%), and fresh holders top the list back up to len(prev).
func Churn(r Rand, prev []Record, keep, minTokens float64) []Record {
	if minTokens <= 0 {
		minTokens = DefaultMinTokens
	}
	out := make([]Record, 0, len(prev))
	for _, h := range prev {
		if r.Float64() >= keep {
			continue
		}
		h.BalanceTokens *= 1 + (r.Float64()-0.5)*0.2
		if h.BalanceTokens < minTokens {
			h.BalanceTokens = minTokens
		}
		out = append(out, h)
	}
	for i := len(out); i < len(prev); i++ {
		out = append(out, demoRecord(r, 1000+i, minTokens))
	}
	return out
}

// PickWinner draws one holder uniformly; ok is false for an empty snapshot
func PickWinner(r Rand, records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	i := int(r.Float64() * float64(len(records)))
	if i >= len(records) {
		i = len(records) - 1
	}
	return records[i], true
}
