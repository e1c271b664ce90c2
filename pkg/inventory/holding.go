package inventory

import (
	"fmt"
	"math/big"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
)

// Holding is one entry of an account's holdings: either *Fungible or *NFT.
type Holding interface {
	Identifier() string
	holding()
}

// Fungible is a token balance.
type Fungible struct {
	TokenID string
	Balance *big.Int
}

func (f *Fungible) Identifier() string { return f.TokenID }
func (*Fungible) holding()             {}

// NFT is a single non-fungible token instance. Attributes and URIs are opaque.
type NFT struct {
	TokenID    string
	Nonce      uint64
	Name       string
	Creator    string
	Royalties  string
	Hash       string
	Attributes string
	URIs       []string
}

func (n *NFT) Identifier() string { return n.TokenID }
func (*NFT) holding()             {}

// decode classifies a gateway entry. It is an NFT iff the balance is exactly
// "1" and a creator is present.
func decode(key string, d mvx.TokenData) (Holding, error) {
	id := d.TokenIdentifier
	if id == "" {
		id = key
	}

	if d.Balance == "1" && d.Creator != "" {
		return &NFT{
			TokenID:    id,
			Nonce:      d.Nonce,
			Name:       d.Name,
			Creator:    d.Creator,
			Royalties:  d.Royalties,
			Hash:       d.Hash,
			Attributes: d.Attributes,
			URIs:       d.URIs,
		}, nil
	}

	bal, ok := new(big.Int).SetString(d.Balance, 10)
	if !ok || bal.Sign() < 0 {
		return nil, fmt.Errorf("holding %s: invalid balance %q", key, d.Balance)
	}
	return &Fungible{TokenID: id, Balance: bal}, nil
}
