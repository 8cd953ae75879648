// Package holders holds the token-holder snapshot fed into the swarm and the guards applied to it
// before reconciliation, plus the demo snapshot generator and winner pick used by the viewer.
package holders

import (
	"unicode"
	"unicode/utf8"

	"github.com/olivierh59500/holder-aquarium-go/vmath"
)

// DefaultMinTokens is the balance threshold below which a wallet is not shown
const DefaultMinTokens = 100000

// Record is one holder in a snapshot
type Record struct {
	Address       string  `json:"address"`
	BalanceTokens float64 `json:"balanceTokens"`
	// PnL is display flavour only and carries no financial meaning
	PnL float64 `json:"pnl,omitempty"`
}

// ValidAddress reports whether address can key an agent: non-empty valid UTF-8
// with no whitespace or control characters
func ValidAddress(address string) bool {
	if address == "" || !utf8.ValidString(address) {
		return false
	}
	for _, r := range address {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// SanitizeBalance maps non-finite and negative balances to zero
func SanitizeBalance(b float64) float64 {
	if !vmath.IsFinite(b) || b < 0 {
		return 0
	}
	return b
}

// Normalize returns records with invalid addresses dropped, balances sanitised,
// balances under minTokens filtered out (minTokens <= 0 disables the filter) and
// duplicate addresses collapsed. A duplicate keeps the slot of its first occurrence
// and the values of its last. skipped counts records dropped for a bad address.
func Normalize(records []Record, minTokens float64) (out []Record, skipped int) {
	out = make([]Record, 0, len(records))
	index := make(map[string]int, len(records))

	for _, r := range records {
		if !ValidAddress(r.Address) {
			skipped++
			continue
		}
		r.BalanceTokens = SanitizeBalance(r.BalanceTokens)
		if !vmath.IsFinite(r.PnL) {
			r.PnL = 0
		}
		if i, ok := index[r.Address]; ok {
			out[i] = r
			continue
		}
		index[r.Address] = len(out)
		out = append(out, r)
	}

	if minTokens <= 0 {
		return out, skipped
	}
	kept := out[:0]
	for _, r := range out {
		if r.BalanceTokens >= minTokens {
			kept = append(kept, r)
		}
	}
	return kept, skipped
}
