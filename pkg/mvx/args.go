package mvx

import (
	"encoding/hex"
	"math/big"
	"strings"
)

// ArgSeparator separates the function name and arguments in call data.
const ArgSeparator = "@"

// CallData joins a function name and already hex-encoded arguments.
func CallData(function string, args ...string) []byte {
	var b strings.Builder
	b.WriteString(function)
	for _, a := range args {
		b.WriteString(ArgSeparator)
		b.WriteString(a)
	}
	return []byte(b.String())
}

// HexString encodes a string argument.
func HexString(s string) string {
	return hex.EncodeToString([]byte(s))
}

// HexBytes encodes a raw byte argument.
func HexBytes(b []byte) string {
	return hex.EncodeToString(b)
}

// HexUint encodes an unsigned integer in its minimal big-endian form. Zero encodes as "".
func HexUint(v uint64) string {
	return HexBigInt(new(big.Int).SetUint64(v))
}

// HexBigInt encodes a non-negative big integer in its minimal big-endian form.
func HexBigInt(v *big.Int) string {
	if v == nil || v.Sign() == 0 {
		return ""
	}
	return hex.EncodeToString(v.Bytes())
}

// HexBool encodes a boolean as the hex of "true" or "false".
func HexBool(b bool) string {
	if b {
		return HexString("true")
	}
	return HexString("false")
}
