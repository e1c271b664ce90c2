package bridge

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// ChainKind tells how destination addresses on a foreign chain are validated.
type ChainKind string

const (
	ChainKindEVM   ChainKind = "evm"
	ChainKindOther ChainKind = "other"
)

// Chain describes one foreign chain the bridge can reach.
type Chain struct {
	Name string    `validate:"required"`
	Kind ChainKind `validate:"omitempty,oneof=evm other"`
	// Token is the identifier of the wrapped token representing this chain's asset.
	Token string
}

// GasLimits per transaction kind.
type GasLimits struct {
	LockNative    uint64 `default:"50000000"`
	UnlockWrapped uint64 `default:"50000000"`
	NftTransfer   uint64 `default:"70000000"`
	MintNft       uint64 `default:"60000000"`
	IssueNft      uint64 `default:"60000000"`
	SetRoles      uint64 `default:"60000000"`
}

// Config holds the contract conventions transactions are built against.
type Config struct {
	ChainID           string `validate:"required" default:"D"`
	MinterAddress     string `validate:"required"`
	ESDTSystemAddress string `default:"erd1qqqqqqqqqqqqqqqpqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqzllls8a5w6u"`
	WrappedToken      string `validate:"required"`
	// TxFee is added to the value of transfers, in base units.
	TxFee string `default:"0" validate:"numeric"`
	// IssueCost is the value sent with collection issuance, in base units.
	IssueCost string `default:"50000000000000000" validate:"numeric"`
	GasPrice  uint64 `default:"1000000000"`
	GasLimits GasLimits
	Chains    map[uint64]Chain `validate:"dive"`
}

func (c *Config) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	return validator.New().Struct(c)
}

// ChainTokens returns the chain nonce to wrapped token mapping used for balance lookups.
func (c *Config) ChainTokens() map[uint64]string {
	out := make(map[uint64]string, len(c.Chains))
	for nonce, ch := range c.Chains {
		if ch.Token != "" {
			out[nonce] = ch.Token
		}
	}
	return out
}

func parseAmount(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}

func parseAddress(field, s string) (mvx.Address, error) {
	a, err := mvx.AddressFromBech32(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return a, nil
}
