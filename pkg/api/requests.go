package api

import (
	"math/big"
	"net/http"

	apperrors "github.com/chainsafe/mvx-bridge-adapter/pkg/app/errors"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/inventory"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"

	"github.com/shopspring/decimal"
)

// TransferRequest is the body of the fungible transfer endpoints.
// Amount is a decimal string in whole units of the native currency.
type TransferRequest struct {
	ChainNonce uint64 `json:"chain_nonce"`
	To         string `json:"to"`
	Amount     string `json:"amount"`
}

// NftTransferRequest is the body of the NFT transfer endpoints.
type NftTransferRequest struct {
	ChainNonce uint64 `json:"chain_nonce"`
	To         string `json:"to"`
	Token      string `json:"token"`
	Nonce      uint64 `json:"nonce"`
}

// MintRequest is the body of the NFT mint endpoint.
type MintRequest struct {
	Token      string   `json:"token"`
	Quantity   string   `json:"quantity,omitempty"`
	Name       string   `json:"name"`
	Royalties  uint32   `json:"royalties"`
	Hash       string   `json:"hash,omitempty"`
	Attributes string   `json:"attributes,omitempty"`
	URIs       []string `json:"uris"`
}

// IssueRequest is the body of the NFT collection issue endpoint.
type IssueRequest struct {
	Name                     string `json:"name"`
	Ticker                   string `json:"ticker"`
	CanFreeze                *bool  `json:"can_freeze,omitempty"`
	CanWipe                  *bool  `json:"can_wipe,omitempty"`
	CanTransferNFTCreateRole *bool  `json:"can_transfer_nft_create_role,omitempty"`
}

// RolesRequest is the body of the set roles endpoint.
type RolesRequest struct {
	Token   string   `json:"token"`
	Address string   `json:"address"`
	Roles   []string `json:"roles"`
}

func (h *HTTP) nativeRequest(r *http.Request) (bridge.NativeTransfer, error) {
	var body TransferRequest
	if err := decodeBody(r, &body); err != nil {
		return bridge.NativeTransfer{}, err
	}

	amount, err := toBaseUnits(body.Amount, h.cfg.Decimals)
	if err != nil {
		return bridge.NativeTransfer{}, err
	}

	return bridge.NativeTransfer{
		ChainNonce: body.ChainNonce,
		To:         body.To,
		Amount:     amount,
	}, nil
}

func (h *HTTP) nftRequest(r *http.Request) (bridge.NftTransfer, error) {
	var body NftTransferRequest
	if err := decodeBody(r, &body); err != nil {
		return bridge.NftTransfer{}, err
	}
	return bridge.NftTransfer{
		ChainNonce: body.ChainNonce,
		To:         body.To,
		Token:      body.Token,
		Nonce:      body.Nonce,
	}, nil
}

func (h *HTTP) mintRequest(r *http.Request) (bridge.MintNft, error) {
	var body MintRequest
	if err := decodeBody(r, &body); err != nil {
		return bridge.MintNft{}, err
	}

	var quantity *big.Int
	if body.Quantity != "" {
		q, ok := new(big.Int).SetString(body.Quantity, 10)
		if !ok || q.Sign() <= 0 {
			return bridge.MintNft{}, apperrors.BadRequestError(nil, "invalid quantity")
		}
		quantity = q
	}

	return bridge.MintNft{
		Token:      body.Token,
		Quantity:   quantity,
		Name:       body.Name,
		Royalties:  body.Royalties,
		Hash:       body.Hash,
		Attributes: []byte(body.Attributes),
		URIs:       body.URIs,
	}, nil
}

func (h *HTTP) issueRequest(r *http.Request) (bridge.IssueNft, error) {
	var body IssueRequest
	if err := decodeBody(r, &body); err != nil {
		return bridge.IssueNft{}, err
	}
	return bridge.IssueNft{
		Name:                     body.Name,
		Ticker:                   body.Ticker,
		CanFreeze:                body.CanFreeze,
		CanWipe:                  body.CanWipe,
		CanTransferNFTCreateRole: body.CanTransferNFTCreateRole,
	}, nil
}

func (h *HTTP) rolesRequest(r *http.Request) (bridge.SetRoles, error) {
	var body RolesRequest
	if err := decodeBody(r, &body); err != nil {
		return bridge.SetRoles{}, err
	}

	addr, err := mvx.AddressFromBech32(body.Address)
	if err != nil {
		return bridge.SetRoles{}, apperrors.BadRequestError(err, "invalid address")
	}

	return bridge.SetRoles{
		Token:   body.Token,
		Address: addr,
		Roles:   body.Roles,
	}, nil
}

// toBaseUnits converts a decimal amount in whole units to base units.
// Amounts finer than one base unit are rejected.
func toBaseUnits(s string, decimals int32) (*big.Int, error) {
	if s == "" {
		return nil, apperrors.BadRequestError(nil, "amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, apperrors.BadRequestError(err, "invalid amount")
	}

	base := d.Shift(decimals)
	if !base.IsInteger() {
		return nil, apperrors.BadRequestError(nil, "amount has more precision than the currency supports")
	}
	if base.Sign() <= 0 {
		return nil, apperrors.BadRequestError(nil, "amount must be positive")
	}
	return base.BigInt(), nil
}

type holdingView struct {
	Type       string   `json:"type"`
	Identifier string   `json:"identifier"`
	Balance    string   `json:"balance,omitempty"`
	Nonce      uint64   `json:"nonce,omitempty"`
	Name       string   `json:"name,omitempty"`
	Creator    string   `json:"creator,omitempty"`
	Royalties  string   `json:"royalties,omitempty"`
	Hash       string   `json:"hash,omitempty"`
	Attributes string   `json:"attributes,omitempty"`
	URIs       []string `json:"uris,omitempty"`
}

func toHoldingView(h inventory.Holding) holdingView {
	switch v := h.(type) {
	case *inventory.NFT:
		return holdingView{
			Type:       "nft",
			Identifier: v.TokenID,
			Nonce:      v.Nonce,
			Name:       v.Name,
			Creator:    v.Creator,
			Royalties:  v.Royalties,
			Hash:       v.Hash,
			Attributes: v.Attributes,
			URIs:       v.URIs,
		}
	case *inventory.Fungible:
		return holdingView{
			Type:       "fungible",
			Identifier: v.TokenID,
			Balance:    v.Balance.String(),
		}
	default:
		return holdingView{Type: "unknown", Identifier: h.Identifier()}
	}
}
