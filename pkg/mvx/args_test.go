package mvx

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHexUint(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, ""},
		{1, "01"},
		{10, "0a"},
		{255, "ff"},
		{256, "0100"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, HexUint(tc.in), "HexUint(%d)", tc.in)
	}
}

func TestHexBigInt(t *testing.T) {
	v, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(t, "0de0b6b3a7640000", HexBigInt(v))
	assert.Equal(t, "", HexBigInt(nil))
}

func TestCallData(t *testing.T) {
	got := CallData("freezeSend", HexUint(4), HexString("0xabc"))
	assert.Equal(t, "freezeSend@04@3078616263", string(got))
	assert.Equal(t, "issue", string(CallData("issue")))
	assert.Equal(t, HexString("true"), HexBool(true))
	assert.Equal(t, "66616c7365", HexBool(false))
}
