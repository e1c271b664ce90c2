package bridge

import (
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	evmChain   = uint64(4)
	otherChain = uint64(9)
	evmTo      = "0x000000000000000000000000000000000000dEaD"
)

func testAddress(b byte) mvx.Address {
	a := make(mvx.Address, mvx.AddressLen)
	for i := range a {
		a[i] = b
	}
	return a
}

func testConfig() *Config {
	return &Config{
		ChainID:       "T",
		MinterAddress: testAddress(0xaa).Bech32(),
		WrappedToken:  "WEGLD-abcdef",
		TxFee:         "5",
		Chains: map[uint64]Chain{
			evmChain:   {Name: "ethereum", Kind: ChainKindEVM, Token: "WETH-123456"},
			otherChain: {Name: "elrond-side", Kind: ChainKindOther},
		},
	}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(testConfig())
	require.NoError(t, err)
	return b
}

func h(s string) string { return hex.EncodeToString([]byte(s)) }

func TestBuildLockNative(t *testing.T) {
	b := newTestBuilder(t)
	sender := testAddress(0x01)

	tx, err := b.BuildLockNative(sender, NativeTransfer{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(100)})
	require.NoError(t, err)

	assert.Equal(t, "freezeSend@04@"+h(evmTo), string(tx.Data))
	assert.Equal(t, "105", tx.Value)
	assert.Equal(t, testAddress(0xaa).Bech32(), tx.Receiver)
	assert.Equal(t, sender.Bech32(), tx.Sender)
	assert.Equal(t, "T", tx.ChainID)
	assert.Equal(t, uint64(1000000000), tx.GasPrice)
	assert.Equal(t, uint64(50000000), tx.GasLimit)
	assert.Zero(t, tx.Nonce)
	assert.Empty(t, tx.Signature)
}

func TestBuildUnlockWrapped(t *testing.T) {
	b := newTestBuilder(t)

	tx, err := b.BuildUnlockWrapped(testAddress(0x01), WrappedUnfreeze{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(1000)})
	require.NoError(t, err)

	want := "ESDTTransfer@" + h("WEGLD-abcdef") + "@03e8@7769746864726177@04@" + h(evmTo)
	assert.Equal(t, want, string(tx.Data))
	assert.Equal(t, "5", tx.Value)
	assert.Equal(t, testAddress(0xaa).Bech32(), tx.Receiver)
}

func TestBuildNftTransfers(t *testing.T) {
	b := newTestBuilder(t)
	sender := testAddress(0x01)
	minterHex := strings.Repeat("aa", 32)

	lock, err := b.BuildLockNft(sender, NftTransfer{ChainNonce: evmChain, To: evmTo, Token: "ART-1a2b3c", Nonce: 10})
	require.NoError(t, err)
	assert.Equal(t,
		"ESDTNFTTransfer@"+h("ART-1a2b3c")+"@0a@01@"+minterHex+"@"+h("freezeSendNft")+"@04@"+h(evmTo),
		string(lock.Data))
	assert.Equal(t, sender.Bech32(), lock.Receiver)
	assert.Equal(t, "0", lock.Value)
	assert.Equal(t, uint64(70000000), lock.GasLimit)

	unlock, err := b.BuildUnlockNft(sender, NftUnfreeze{ChainNonce: otherChain, To: "side-addr", Token: "WART-1a2b3c", Nonce: 256})
	require.NoError(t, err)
	assert.Equal(t,
		"ESDTNFTTransfer@"+h("WART-1a2b3c")+"@0100@01@"+minterHex+"@"+h("withdrawNft")+"@09@"+h("side-addr"),
		string(unlock.Data))
	assert.Equal(t, sender.Bech32(), unlock.Receiver)
}

func TestBuildMintNft(t *testing.T) {
	b := newTestBuilder(t)
	sender := testAddress(0x01)

	tx, err := b.BuildMintNft(sender, MintNft{
		Token:      "ART-1a2b3c",
		Name:       "Sunset",
		Royalties:  750,
		Hash:       "abc",
		Attributes: []byte("tags:sun"),
		URIs:       []string{"https://a", "https://b"},
	})
	require.NoError(t, err)

	want := "ESDTNFTCreate@" + h("ART-1a2b3c") + "@01@" + h("Sunset") + "@02ee@" + h("abc") + "@" + h("tags:sun") +
		"@" + h("https://a") + "@" + h("https://b")
	assert.Equal(t, want, string(tx.Data))
	assert.Equal(t, sender.Bech32(), tx.Receiver)
}

func TestBuildIssueNft_OmitsUnsetFlags(t *testing.T) {
	b := newTestBuilder(t)
	yes, no := true, false

	tx, err := b.BuildIssueNft(testAddress(0x01), IssueNft{Name: "ArtCollection", Ticker: "ART"})
	require.NoError(t, err)
	assert.Equal(t, "issueNonFungible@"+h("ArtCollection")+"@"+h("ART"), string(tx.Data))
	assert.Equal(t, mvx.ESDTSystemAddress, tx.Receiver)
	assert.Equal(t, "50000000000000000", tx.Value)

	tx, err = b.BuildIssueNft(testAddress(0x01), IssueNft{Name: "ArtCollection", Ticker: "ART", CanFreeze: &yes, CanTransferNFTCreateRole: &no})
	require.NoError(t, err)
	assert.Equal(t,
		"issueNonFungible@"+h("ArtCollection")+"@"+h("ART")+"@"+h("canFreeze")+"@"+h("true")+"@"+h("canTransferNFTCreateRole")+"@"+h("false"),
		string(tx.Data))
	assert.NotContains(t, string(tx.Data), h("canWipe"))
}

func TestBuildSetRoles(t *testing.T) {
	b := newTestBuilder(t)
	grantee := testAddress(0x02)

	tx, err := b.BuildSetRoles(testAddress(0x01), SetRoles{Token: "ART-1a2b3c", Address: grantee, Roles: []string{"ESDTRoleNFTCreate", "ESDTRoleNFTBurn"}})
	require.NoError(t, err)
	assert.Equal(t,
		"setSpecialRole@"+h("ART-1a2b3c")+"@"+grantee.Hex()+"@"+h("ESDTRoleNFTCreate")+"@"+h("ESDTRoleNFTBurn"),
		string(tx.Data))
	assert.Equal(t, mvx.ESDTSystemAddress, tx.Receiver)
}

func TestBuilders_AreDeterministic(t *testing.T) {
	b := newTestBuilder(t)
	sender := testAddress(0x01)
	req := NativeTransfer{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(100)}

	first, err := b.BuildLockNative(sender, req)
	require.NoError(t, err)
	second, err := b.BuildLockNative(sender, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, "100", req.Amount.String())
}

func TestBuilders_RejectInvalidRequests(t *testing.T) {
	b := newTestBuilder(t)
	sender := testAddress(0x01)

	tests := []struct {
		name  string
		build func() error
	}{
		{"zero amount", func() error {
			_, err := b.BuildLockNative(sender, NativeTransfer{ChainNonce: evmChain, To: evmTo, Amount: big.NewInt(0)})
			return err
		}},
		{"missing amount", func() error {
			_, err := b.BuildUnlockWrapped(sender, WrappedUnfreeze{ChainNonce: evmChain, To: evmTo})
			return err
		}},
		{"unknown chain", func() error {
			_, err := b.BuildLockNative(sender, NativeTransfer{ChainNonce: 77, To: evmTo, Amount: big.NewInt(1)})
			return err
		}},
		{"malformed evm address", func() error {
			_, err := b.BuildLockNft(sender, NftTransfer{ChainNonce: evmChain, To: "0x1234", Token: "ART-1a2b3c", Nonce: 1})
			return err
		}},
		{"lowercase ticker", func() error {
			_, err := b.BuildIssueNft(sender, IssueNft{Name: "ArtCollection", Ticker: "art"})
			return err
		}},
		{"no roles", func() error {
			_, err := b.BuildSetRoles(sender, SetRoles{Token: "ART-1a2b3c", Address: testAddress(2)})
			return err
		}},
		{"no uris", func() error {
			_, err := b.BuildMintNft(sender, MintNft{Token: "ART-1a2b3c", Name: "x"})
			return err
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.build()
			assert.True(t, errors.Is(err, ErrInvalidRequest), "got %v", err)
		})
	}
}

func TestNewBuilder_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MinterAddress = "erd1invalid"
	_, err := NewBuilder(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.TxFee = "-1"
	_, err = NewBuilder(cfg)
	assert.Error(t, err)
}

func TestConfig_ChainTokens(t *testing.T) {
	assert.Equal(t, map[uint64]string{evmChain: "WETH-123456"}, testConfig().ChainTokens())
}
