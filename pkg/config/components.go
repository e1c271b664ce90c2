package config

import (
	"strconv"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/finality"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/notifier"
)

// MVX returns the gateway client configuration.
func (c *Config) MVX() *mvx.Config {
	return &mvx.Config{
		ProxyURL: c.Ledger.ProxyURL,
		ChainID:  c.Ledger.ChainID,
		Timeout:  c.Ledger.Timeout,
	}
}

// BridgeBuilder returns the transaction builder configuration.
// Chain keys are validated by Load.
func (c *Config) BridgeBuilder() *bridge.Config {
	chains := make(map[uint64]bridge.Chain, len(c.Bridge.Chains))
	for key, ch := range c.Bridge.Chains {
		nonce, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		chains[nonce] = bridge.Chain{Name: ch.Name, Kind: bridge.ChainKind(ch.Kind), Token: ch.Token}
	}

	return &bridge.Config{
		ChainID:           c.Ledger.ChainID,
		MinterAddress:     c.Bridge.MinterAddress,
		ESDTSystemAddress: c.Bridge.ESDTSystemAddress,
		WrappedToken:      c.Bridge.WrappedToken,
		TxFee:             c.Bridge.TxFee,
		IssueCost:         c.Bridge.IssueCost,
		GasPrice:          c.Bridge.Gas.Price,
		GasLimits: bridge.GasLimits{
			LockNative:    c.Bridge.Gas.LockNative,
			UnlockWrapped: c.Bridge.Gas.UnlockWrapped,
			NftTransfer:   c.Bridge.Gas.NftTransfer,
			MintNft:       c.Bridge.Gas.MintNft,
			IssueNft:      c.Bridge.Gas.IssueNft,
			SetRoles:      c.Bridge.Gas.SetRoles,
		},
		Chains: chains,
	}
}

// FinalityWatcher returns the watcher configuration.
func (c *Config) FinalityWatcher() *finality.Config {
	return &finality.Config{
		SettleDelay:        c.Finality.SettleDelay,
		PollInterval:       c.Finality.PollInterval,
		Timeout:            c.Finality.Timeout,
		MaxTransportErrors: c.Finality.MaxTransportErrors,
	}
}

// Notifier returns the relay notifier configuration.
func (c *Config) Notifier() *notifier.Config {
	return &notifier.Config{
		URL:     c.Relay.URL,
		Timeout: c.Relay.Timeout,
	}
}
