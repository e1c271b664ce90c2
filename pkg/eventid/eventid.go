// Package eventid extracts the cross-chain event identifier a bridge contract
// reports in the smart contract results of a finalized transfer.
package eventid

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
)

// okMarker is the hex encoding of "ok".
const okMarker = "6f6b"

// ID is a cross-chain event identifier.
type ID uint64

// String returns the decimal form used when forwarding the id to the relay.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ExtractionError is returned when no record carries a well-formed event id.
type ExtractionError struct {
	Records int
	Reason  string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("event id extraction failed over %d records: %s", e.Records, e.Reason)
}

// Extract scans records in order and returns the id of the first record that
// matches "@6f6b@<hex id>". Records with nonce 0 are ignored.
//
// Extract has no side effects; calling it twice on the same records gives the
// same answer.
func Extract(records []mvx.ContractResult) (ID, error) {
	for _, r := range records {
		if r.Nonce == 0 {
			continue
		}
		if id, ok := parse(r.Data); ok {
			return id, nil
		}
	}
	return 0, &ExtractionError{Records: len(records), Reason: "no record matched @6f6b@<id>"}
}

func parse(data string) (ID, bool) {
	parts := strings.Split(data, mvx.ArgSeparator)
	if len(parts) != 3 || parts[0] != "" || parts[1] != okMarker || !isHex(parts[2]) {
		return 0, false
	}
	v, ok := new(big.Int).SetString(parts[2], 16)
	if !ok || !v.IsUint64() {
		return 0, false
	}
	return ID(v.Uint64()), true
}

// isHex reports whether s is a non-empty run of hex digits. big.Int alone
// would also take a sign prefix.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
