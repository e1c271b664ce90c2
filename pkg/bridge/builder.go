package bridge

import (
	"fmt"
	"math/big"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Contract endpoints and token built-in functions used in call data.
const (
	fnFreezeSend     = "freezeSend"
	fnWithdraw       = "withdraw"
	fnFreezeSendNft  = "freezeSendNft"
	fnWithdrawNft    = "withdrawNft"
	fnESDTTransfer   = "ESDTTransfer"
	fnNFTTransfer    = "ESDTNFTTransfer"
	fnNFTCreate      = "ESDTNFTCreate"
	fnIssueNFT       = "issueNonFungible"
	fnSetSpecialRole = "setSpecialRole"

	txVersion = 1
)

// Builder turns bridge requests into unsigned transactions. Its methods do no
// I/O and return equal transactions for equal inputs. The nonce is left zero
// for the submitter to fill in.
type Builder struct {
	chainID    string
	minter     mvx.Address
	esdtSystem mvx.Address
	wrapped    string
	fee        *big.Int
	issueCost  *big.Int
	gasPrice   uint64
	gas        GasLimits
	chains     map[uint64]Chain
	validate   *validator.Validate
}

// NewBuilder creates a builder from cfg, applying defaults.
func NewBuilder(cfg *Config) (*Builder, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid bridge config: %w", err)
	}

	minter, err := parseAddress("minter address", cfg.MinterAddress)
	if err != nil {
		return nil, err
	}
	esdtSystem, err := parseAddress("esdt system address", cfg.ESDTSystemAddress)
	if err != nil {
		return nil, err
	}
	fee, err := parseAmount("tx fee", cfg.TxFee)
	if err != nil {
		return nil, err
	}
	issueCost, err := parseAmount("issue cost", cfg.IssueCost)
	if err != nil {
		return nil, err
	}

	chains := make(map[uint64]Chain, len(cfg.Chains))
	for k, v := range cfg.Chains {
		chains[k] = v
	}

	return &Builder{
		chainID:    cfg.ChainID,
		minter:     minter,
		esdtSystem: esdtSystem,
		wrapped:    cfg.WrappedToken,
		fee:        fee,
		issueCost:  issueCost,
		gasPrice:   cfg.GasPrice,
		gas:        cfg.GasLimits,
		chains:     chains,
		validate:   validator.New(),
	}, nil
}

// Minter returns the escrow account that custodies locked assets.
func (b *Builder) Minter() mvx.Address { return b.minter }

// BuildLockNative sends amount plus the bridge fee to the minter.
func (b *Builder) BuildLockNative(sender mvx.Address, req NativeTransfer) (*mvx.Transaction, error) {
	if err := b.check(req); err != nil {
		return nil, err
	}
	if err := b.checkAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := b.checkDestination(req.ChainNonce, req.To); err != nil {
		return nil, err
	}

	value := new(big.Int).Add(req.Amount, b.fee)
	data := mvx.CallData(fnFreezeSend,
		mvx.HexUint(req.ChainNonce),
		mvx.HexString(req.To))
	return b.tx(sender, b.minter, value, b.gas.LockNative, data), nil
}

// BuildUnlockWrapped transfers wrapped tokens to the minter's withdraw endpoint.
func (b *Builder) BuildUnlockWrapped(sender mvx.Address, req WrappedUnfreeze) (*mvx.Transaction, error) {
	if err := b.check(req); err != nil {
		return nil, err
	}
	if err := b.checkAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := b.checkDestination(req.ChainNonce, req.To); err != nil {
		return nil, err
	}

	data := mvx.CallData(fnESDTTransfer,
		mvx.HexString(b.wrapped),
		mvx.HexBigInt(req.Amount),
		mvx.HexString(fnWithdraw),
		mvx.HexUint(req.ChainNonce),
		mvx.HexString(req.To))
	return b.tx(sender, b.minter, b.fee, b.gas.UnlockWrapped, data), nil
}

// BuildLockNft moves a native NFT into escrow.
func (b *Builder) BuildLockNft(sender mvx.Address, req NftTransfer) (*mvx.Transaction, error) {
	if err := b.check(req); err != nil {
		return nil, err
	}
	if err := b.checkDestination(req.ChainNonce, req.To); err != nil {
		return nil, err
	}
	return b.nftTransfer(sender, req.Token, req.Nonce, fnFreezeSendNft, req.ChainNonce, req.To), nil
}

// BuildUnlockNft returns a wrapped NFT to the minter for release on its home chain.
func (b *Builder) BuildUnlockNft(sender mvx.Address, req NftUnfreeze) (*mvx.Transaction, error) {
	if err := b.check(req); err != nil {
		return nil, err
	}
	if err := b.checkDestination(req.ChainNonce, req.To); err != nil {
		return nil, err
	}
	return b.nftTransfer(sender, req.Token, req.Nonce, fnWithdrawNft, req.ChainNonce, req.To), nil
}

// BuildMintNft creates an NFT owned by sender.
func (b *Builder) BuildMintNft(sender mvx.Address, req MintNft) (*mvx.Transaction, error) {
	if err := b.check(req); err != nil {
		return nil, err
	}
	quantity := req.Quantity
	if quantity == nil {
		quantity = big.NewInt(1)
	}
	if quantity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
	}

	args := []string{
		mvx.HexString(req.Token),
		mvx.HexBigInt(quantity),
		mvx.HexString(req.Name),
		mvx.HexUint(uint64(req.Royalties)),
		mvx.HexString(req.Hash),
		mvx.HexBytes(req.Attributes),
	}
	for _, uri := range req.URIs {
		args = append(args, mvx.HexString(uri))
	}
	return b.tx(sender, sender, new(big.Int), b.gas.MintNft, mvx.CallData(fnNFTCreate, args...)), nil
}

// BuildIssueNft issues an NFT collection through the system contract.
// Only the flags that are set appear in the call data.
func (b *Builder) BuildIssueNft(sender mvx.Address, req IssueNft) (*mvx.Transaction, error) {
	if err := b.check(req); err != nil {
		return nil, err
	}

	args := []string{mvx.HexString(req.Name), mvx.HexString(req.Ticker)}
	for _, flag := range []struct {
		name  string
		value *bool
	}{
		{"canFreeze", req.CanFreeze},
		{"canWipe", req.CanWipe},
		{"canTransferNFTCreateRole", req.CanTransferNFTCreateRole},
	} {
		if flag.value == nil {
			continue
		}
		args = append(args, mvx.HexString(flag.name), mvx.HexBool(*flag.value))
	}
	return b.tx(sender, b.esdtSystem, b.issueCost, b.gas.IssueNft, mvx.CallData(fnIssueNFT, args...)), nil
}

// BuildSetRoles grants roles on a token through the system contract.
func (b *Builder) BuildSetRoles(sender mvx.Address, req SetRoles) (*mvx.Transaction, error) {
	if err := b.check(req); err != nil {
		return nil, err
	}

	args := []string{mvx.HexString(req.Token), req.Address.Hex()}
	for _, role := range req.Roles {
		args = append(args, mvx.HexString(role))
	}
	return b.tx(sender, b.esdtSystem, new(big.Int), b.gas.SetRoles, mvx.CallData(fnSetSpecialRole, args...)), nil
}

// nftTransfer sends one unit of an NFT to the minter's endpoint. NFT transfers
// are addressed to the sender itself; the real destination is in the call data.
func (b *Builder) nftTransfer(sender mvx.Address, token string, nonce uint64, endpoint string, chain uint64, to string) *mvx.Transaction {
	data := mvx.CallData(fnNFTTransfer,
		mvx.HexString(token),
		mvx.HexUint(nonce),
		mvx.HexUint(1),
		b.minter.Hex(),
		mvx.HexString(endpoint),
		mvx.HexUint(chain),
		mvx.HexString(to))
	return b.tx(sender, sender, new(big.Int), b.gas.NftTransfer, data)
}

func (b *Builder) tx(sender, receiver mvx.Address, value *big.Int, gasLimit uint64, data []byte) *mvx.Transaction {
	return &mvx.Transaction{
		Value:    value.String(),
		Receiver: receiver.Bech32(),
		Sender:   sender.Bech32(),
		GasPrice: b.gasPrice,
		GasLimit: gasLimit,
		Data:     data,
		ChainID:  b.chainID,
		Version:  txVersion,
	}
}

func (b *Builder) check(req any) error {
	if err := b.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func (b *Builder) checkAmount(v *big.Int) error {
	if v.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	return nil
}

// checkDestination rejects unknown chains once any chain is configured, and
// malformed addresses for EVM chains.
func (b *Builder) checkDestination(chain uint64, to string) error {
	if len(b.chains) == 0 {
		return nil
	}
	c, ok := b.chains[chain]
	if !ok {
		return fmt.Errorf("%w: unknown destination chain %d", ErrInvalidRequest, chain)
	}
	if c.Kind == ChainKindEVM && !common.IsHexAddress(to) {
		return fmt.Errorf("%w: %q is not a valid %s address", ErrInvalidRequest, to, c.Name)
	}
	return nil
}
