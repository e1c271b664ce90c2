// Package inventory lists account holdings and locates NFTs held in escrow.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/chainsafe/mvx-bridge-adapter/internal/metrics"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when the escrow account holds no entry for the key.
	ErrNotFound = errors.New("locked nft not found")
	// ErrNotNft is returned when the escrow entry exists but is not an NFT.
	ErrNotNft = errors.New("escrow holding is not an nft")
)

// TokenQuerier is the part of the gateway client the lister depends on.
type TokenQuerier interface {
	GetTokens(ctx context.Context, addr mvx.Address) (map[string]mvx.TokenData, error)
}

// Lister reads holdings through the ledger gateway.
type Lister struct {
	ledger TokenQuerier
	escrow mvx.Address
	// chainTokens maps a foreign chain nonce to the token identifier that
	// represents its wrapped asset.
	chainTokens map[uint64]string
	logger      *zap.Logger
}

// New creates a lister. escrow is the minter account that custodies locked NFTs.
func New(ledger TokenQuerier, escrow mvx.Address, chainTokens map[uint64]string, logger *zap.Logger) *Lister {
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := make(map[uint64]string, len(chainTokens))
	for k, v := range chainTokens {
		tokens[k] = v
	}
	return &Lister{ledger: ledger, escrow: escrow, chainTokens: tokens, logger: logger}
}

// LockedNftKey is the holdings key under which the ledger stores the NFT
// (token, nonce): the token identifier, "-0" and the lowercase hex nonce.
func LockedNftKey(token string, nonce uint64) string {
	return token + "-0" + strconv.FormatUint(nonce, 16)
}

// List returns all holdings of addr ordered by holdings key.
func (l *Lister) List(ctx context.Context, addr mvx.Address) ([]Holding, error) {
	raw, err := l.ledger.GetTokens(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("get holdings of %s: %w", addr, err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Holding, 0, len(keys))
	for _, k := range keys {
		h, err := decode(k, raw[k])
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// LockedNft looks up the NFT (token, nonce) among the escrow account's holdings.
func (l *Lister) LockedNft(ctx context.Context, token string, nonce uint64) (*NFT, error) {
	raw, err := l.ledger.GetTokens(ctx, l.escrow)
	if err != nil {
		return nil, fmt.Errorf("get escrow holdings: %w", err)
	}

	key := LockedNftKey(token, nonce)
	entry, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	h, err := decode(key, entry)
	if err != nil {
		return nil, err
	}
	nft, ok := h.(*NFT)
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotNft)
	}
	return nft, nil
}

// Balances returns, for every requested chain, the balance addr holds of the
// token configured for that chain. Chains without a configured token, or whose
// token addr does not hold, report zero.
func (l *Lister) Balances(ctx context.Context, addr mvx.Address, chains []uint64) (map[uint64]*big.Int, error) {
	out := make(map[uint64]*big.Int, len(chains))
	for _, c := range chains {
		out[c] = new(big.Int)
	}
	if len(chains) == 0 {
		return out, nil
	}

	holdings, err := l.List(ctx, addr)
	if err != nil {
		return nil, err
	}

	byToken := make(map[string]*big.Int, len(holdings))
	for _, h := range holdings {
		if f, ok := h.(*Fungible); ok {
			byToken[f.TokenID] = f.Balance
		}
	}

	escrow := addr.Hex() == l.escrow.Hex()
	for _, c := range chains {
		token, ok := l.chainTokens[c]
		if !ok {
			l.logger.Debug("No token configured for chain", zap.Uint64("chain", c))
			continue
		}
		if bal, ok := byToken[token]; ok {
			out[c] = new(big.Int).Set(bal)
		}
		if escrow {
			f, _ := new(big.Float).SetInt(out[c]).Float64()
			metrics.BridgeBalance.WithLabelValues(strconv.FormatUint(c, 10), token).Set(f)
		}
	}
	return out, nil
}
