package bridge

import (
	"errors"
	"math/big"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// NativeTransfer locks native currency for release on a foreign chain.
type NativeTransfer struct {
	ChainNonce uint64   `validate:"required"`
	To         string   `validate:"required"`
	Amount     *big.Int `validate:"required"`
}

// WrappedUnfreeze returns wrapped tokens so the original asset is released
// on its home chain.
type WrappedUnfreeze struct {
	ChainNonce uint64   `validate:"required"`
	To         string   `validate:"required"`
	Amount     *big.Int `validate:"required"`
}

// NftTransfer locks a native NFT in escrow for a foreign chain.
type NftTransfer struct {
	ChainNonce uint64 `validate:"required"`
	To         string `validate:"required"`
	Token      string `validate:"required"`
	Nonce      uint64 `validate:"required"`
}

// NftUnfreeze returns a wrapped NFT so the original is released on its home chain.
type NftUnfreeze struct {
	ChainNonce uint64 `validate:"required"`
	To         string `validate:"required"`
	Token      string `validate:"required"`
	Nonce      uint64 `validate:"required"`
}

// MintNft creates a new NFT in a collection the sender holds the create role for.
// Attributes and URIs are opaque payload.
type MintNft struct {
	Token string `validate:"required"`
	// Quantity defaults to one when nil.
	Quantity   *big.Int
	Name       string `validate:"required"`
	Royalties  uint32 `validate:"lte=10000"`
	Hash       string
	Attributes []byte
	URIs       []string `validate:"min=1,dive,required"`
}

// IssueNft issues a new NFT collection. A nil flag is left out of the
// transaction so the ledger default applies.
type IssueNft struct {
	Name                     string `validate:"required,alphanum,min=3,max=20"`
	Ticker                   string `validate:"required,alphanum,uppercase,min=3,max=10"`
	CanFreeze                *bool
	CanWipe                  *bool
	CanTransferNFTCreateRole *bool
}

// SetRoles grants special roles on a token to an address.
type SetRoles struct {
	Token   string      `validate:"required"`
	Address mvx.Address `validate:"len=32"`
	Roles   []string    `validate:"min=1,dive,required"`
}
