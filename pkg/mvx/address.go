package mvx

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// AddressHRP is the human readable part of ledger account addresses.
	AddressHRP = "erd"

	// AddressLen is the length of a decoded account address (an ed25519 public key).
	AddressLen = 32
)

// ESDTSystemAddress is the system contract handling token issuance and roles.
const ESDTSystemAddress = "erd1qqqqqqqqqqqqqqqpqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqzllls8a5w6u"

// Address is a decoded 32-byte account address.
type Address []byte

// AddressFromBech32 decodes an "erd1..." address.
func AddressFromBech32(s string) (Address, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode bech32 address %q: %w", s, err)
	}
	if hrp != AddressHRP {
		return nil, fmt.Errorf("unexpected address prefix %q", hrp)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("convert address bits: %w", err)
	}
	return AddressFromPublicKey(raw)
}

// AddressFromPublicKey wraps a raw 32-byte public key.
func AddressFromPublicKey(pk []byte) (Address, error) {
	if len(pk) != AddressLen {
		return nil, fmt.Errorf("invalid address length %d", len(pk))
	}
	out := make(Address, AddressLen)
	copy(out, pk)
	return out, nil
}

// MustAddress decodes a bech32 address and panics on failure. Only for constants.
func MustAddress(s string) Address {
	a, err := AddressFromBech32(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Bech32 returns the "erd1..." form of the address.
func (a Address) Bech32() string {
	conv, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return ""
	}
	s, err := bech32.Encode(AddressHRP, conv)
	if err != nil {
		return ""
	}
	return s
}

// Hex returns the lowercase hex of the public key, the form used in call arguments.
func (a Address) Hex() string {
	return hex.EncodeToString(a)
}

func (a Address) String() string {
	return a.Bech32()
}
