// Package identity maps wallet addresses to stable seeds and everything derived from them:
// appearance variant, hue, size, colour palette, agent id and display label.
//
// Every value here is a pure function of the address string so a holder looks the same
// across reloads and across processes.
package identity

import (
	"unicode/utf16"

	"github.com/google/uuid"
)

// FNV-1a 32-bit parameters
const (
	offset32 uint32 = 0x811C9DC5
	prime32  uint32 = 16777619
)

// namespace scopes name-based agent ids
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("holder-aquarium/agent"))

// Hash returns the FNV-1a seed of address.
// Characters are folded in as UTF-16 code units so the seed matches browser clients
// hashing the same address with charCodeAt.
func Hash(address string) uint32 {
	h := offset32
	for _, r := range address {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			h = (h ^ uint32(hi)) * prime32
			h = (h ^ uint32(lo)) * prime32
			continue
		}
		h = (h ^ uint32(r)) * prime32
	}
	return h
}

// ID returns the stable name-based UUID for address
func ID(address string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(address))
}

// Short renders address as its first and last four characters around a mask, e.g. "Abcd****wxyz".
// Addresses too short to mask are returned unchanged.
func Short(address string) string {
	r := []rune(address)
	if len(r) <= 8 {
		return address
	}
	return string(r[:4]) + "****" + string(r[len(r)-4:])
}
