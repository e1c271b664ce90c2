package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config represents the bridge adapter configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	Signer     SignerConfig     `mapstructure:"signer"`
	Bridge     BridgeConfig     `mapstructure:"bridge"`
	Finality   FinalityConfig   `mapstructure:"finality"`
	Relay      RelayConfig      `mapstructure:"relay"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	EnableUnsignedAPI bool          `mapstructure:"enable_unsigned_api"`
}

// DatabaseConfig contains database connection settings. The operation audit
// store is only used when Enabled is set.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// LedgerConfig contains the ledger gateway (proxy) settings
type LedgerConfig struct {
	ProxyURL string        `mapstructure:"proxy_url"`
	ChainID  string        `mapstructure:"chain_id"`
	Timeout  time.Duration `mapstructure:"timeout"`
	// Decimals of the native currency, used to convert API amounts to base units.
	Decimals int32 `mapstructure:"decimals"`
}

// SignerConfig holds the key of the account that sends bridge transactions
type SignerConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

// ChainConfig describes one foreign chain reachable through the bridge
type ChainConfig struct {
	Name  string `mapstructure:"name"`
	Kind  string `mapstructure:"kind"`
	Token string `mapstructure:"token"`
}

// GasConfig holds per-operation gas limits
type GasConfig struct {
	Price         uint64 `mapstructure:"price"`
	LockNative    uint64 `mapstructure:"lock_native"`
	UnlockWrapped uint64 `mapstructure:"unlock_wrapped"`
	NftTransfer   uint64 `mapstructure:"nft_transfer"`
	MintNft       uint64 `mapstructure:"mint_nft"`
	IssueNft      uint64 `mapstructure:"issue_nft"`
	SetRoles      uint64 `mapstructure:"set_roles"`
}

// BridgeConfig contains the bridge contract conventions
type BridgeConfig struct {
	MinterAddress     string                 `mapstructure:"minter_address"`
	ESDTSystemAddress string                 `mapstructure:"esdt_system_address"`
	WrappedToken      string                 `mapstructure:"wrapped_token"`
	TxFee             string                 `mapstructure:"tx_fee"`
	IssueCost         string                 `mapstructure:"issue_cost"`
	Gas               GasConfig              `mapstructure:"gas"`
	Chains            map[string]ChainConfig `mapstructure:"chains"`
}

// FinalityConfig controls transaction status polling
type FinalityConfig struct {
	SettleDelay        time.Duration `mapstructure:"settle_delay"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxTransportErrors int           `mapstructure:"max_transport_errors"`
}

// RelayConfig contains the relay service endpoint
type RelayConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15m")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.request_timeout", "15m")
	v.SetDefault("server.enable_unsigned_api", true)

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.database", "bridge_adapter")

	// Ledger defaults
	v.SetDefault("ledger.chain_id", "D")
	v.SetDefault("ledger.timeout", "30s")
	v.SetDefault("ledger.decimals", 18)

	// Bridge defaults
	v.SetDefault("bridge.tx_fee", "0")
	v.SetDefault("bridge.issue_cost", "50000000000000000")
	v.SetDefault("bridge.gas.price", 1000000000)
	v.SetDefault("bridge.gas.lock_native", 50000000)
	v.SetDefault("bridge.gas.unlock_wrapped", 50000000)
	v.SetDefault("bridge.gas.nft_transfer", 70000000)
	v.SetDefault("bridge.gas.mint_nft", 60000000)
	v.SetDefault("bridge.gas.issue_nft", 60000000)
	v.SetDefault("bridge.gas.set_roles", 60000000)

	// Finality defaults
	v.SetDefault("finality.settle_delay", "3s")
	v.SetDefault("finality.poll_interval", "5s")
	v.SetDefault("finality.timeout", "10m")
	v.SetDefault("finality.max_transport_errors", 3)

	// Relay defaults
	v.SetDefault("relay.timeout", "10s")

	// Monitoring defaults
	v.SetDefault("monitoring.enabled", true)
	v.SetDefault("monitoring.metrics_port", 9090)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

func validate(config *Config) error {
	if config.Ledger.ProxyURL == "" {
		return fmt.Errorf("ledger.proxy_url is required")
	}
	if config.Signer.PrivateKey == "" {
		return fmt.Errorf("signer.private_key is required")
	}
	if config.Bridge.MinterAddress == "" {
		return fmt.Errorf("bridge.minter_address is required")
	}
	if config.Bridge.WrappedToken == "" {
		return fmt.Errorf("bridge.wrapped_token is required")
	}
	if config.Relay.URL == "" {
		return fmt.Errorf("relay.url is required")
	}
	if config.Database.Enabled && config.Database.Host == "" {
		return fmt.Errorf("database.host is required when the database is enabled")
	}
	for key := range config.Bridge.Chains {
		if _, err := strconv.ParseUint(key, 10, 64); err != nil {
			return fmt.Errorf("bridge.chains: key %q is not a chain nonce", key)
		}
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
