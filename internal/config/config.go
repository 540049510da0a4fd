// Package config loads cdico settings from ~/.cdico/config.json with
// CDICO_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. CDICO_NETWORK.
	EnvPrefix = "CDICO"
	// EnvConfigDir overrides the config directory.
	EnvConfigDir = "CDICO_CONFIG_DIR"

	defaultDirName   = ".cdico"
	defaultNetwork   = "goerli"
	defaultAlgorithm = "fastest"
	defaultLogLevel  = "info"
	defaultPriceWei  = "1000000000000000" // 0.001 ether
	defaultMaxSupply = 10000
	defaultPerNFT    = 10

	configFile  = "config.json"
	walletsFile = "wallets.json"
	sessionFile = "session.json"
	logFile     = "cdico.log"
)

// Errors.
var (
	ErrContractsNotSet = errors.New("token_address and nft_address must be configured")
	ErrInvalidAddress  = errors.New("invalid contract address")
	ErrUnknownKey      = errors.New("unknown config key")
)

// Config holds all cdico configuration.
type Config struct {
	Network       string  `json:"network"                  mapstructure:"network"`
	RPCURL        string  `json:"rpc_url,omitempty"        mapstructure:"rpc_url"`
	RPCAlgorithm  string  `json:"rpc_algorithm"            mapstructure:"rpc_algorithm"` // "fastest" | "failover"
	TokenAddress  string  `json:"token_address"            mapstructure:"token_address"`
	NFTAddress    string  `json:"nft_address"              mapstructure:"nft_address"`
	TokenPriceWei string  `json:"token_price_wei"          mapstructure:"token_price_wei"`
	MaxSupply     int64   `json:"max_supply"               mapstructure:"max_supply"`
	TokensPerNFT  int64   `json:"tokens_per_nft"           mapstructure:"tokens_per_nft"`
	DefaultWallet string  `json:"default_wallet,omitempty" mapstructure:"default_wallet"`
	LogLevel      string  `json:"log_level"                mapstructure:"log_level"`
	RPCRateLimit  float64 `json:"rpc_rate_limit"           mapstructure:"rpc_rate_limit"` // requests/s, 0 = unlimited
	TraceFile     string  `json:"trace_file,omitempty"     mapstructure:"trace_file"`

	// internal: config dir path used for Save()
	configDir string
	// stored holds the keys read from config.json plus those changed with
	// Set. Environment overrides never land here.
	stored map[string]interface{}
}

// DefaultDir returns the config directory: $CDICO_CONFIG_DIR or ~/.cdico.
func DefaultDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// Load reads config from dir (or uses defaults). An empty dir means
// DefaultDir. Environment variables override file values.
func Load(dir string) (*Config, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, configFile))
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir
	stored, err := fileSettings(filepath.Join(dir, configFile))
	if err != nil {
		return nil, err
	}
	cfg.stored = stored

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// fileSettings reads only what config.json itself contains, without
// defaults or environment overrides.
func fileSettings(path string) (map[string]interface{}, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v.AllSettings(), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", defaultNetwork)
	v.SetDefault("rpc_url", "")
	v.SetDefault("rpc_algorithm", defaultAlgorithm)
	v.SetDefault("token_address", "")
	v.SetDefault("nft_address", "")
	v.SetDefault("token_price_wei", defaultPriceWei)
	v.SetDefault("max_supply", defaultMaxSupply)
	v.SetDefault("tokens_per_nft", defaultPerNFT)
	v.SetDefault("default_wallet", "")
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("rpc_rate_limit", 0)
	v.SetDefault("trace_file", "")
}

// Validate checks values that would otherwise fail deep inside a command.
// Contract addresses are only checked for syntax here; Contracts enforces
// their presence.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Network) == "" {
		return errors.New("network must not be empty")
	}
	switch c.RPCAlgorithm {
	case "fastest", "failover":
	default:
		return fmt.Errorf("rpc_algorithm %q must be fastest or failover", c.RPCAlgorithm)
	}
	for key, addr := range map[string]string{"token_address": c.TokenAddress, "nft_address": c.NFTAddress} {
		if addr != "" && !common.IsHexAddress(addr) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidAddress, key, addr)
		}
	}
	if _, err := c.TokenPrice(); err != nil {
		return err
	}
	if c.MaxSupply <= 0 || c.TokensPerNFT <= 0 {
		return errors.New("max_supply and tokens_per_nft must be positive")
	}
	if c.RPCRateLimit < 0 {
		return errors.New("rpc_rate_limit must not be negative")
	}
	return nil
}

// Contracts returns the token and NFT contract addresses.
func (c *Config) Contracts() (token, nft common.Address, err error) {
	if c.TokenAddress == "" || c.NFTAddress == "" {
		return common.Address{}, common.Address{}, ErrContractsNotSet
	}
	if !common.IsHexAddress(c.TokenAddress) || !common.IsHexAddress(c.NFTAddress) {
		return common.Address{}, common.Address{}, ErrInvalidAddress
	}
	return common.HexToAddress(c.TokenAddress), common.HexToAddress(c.NFTAddress), nil
}

// TokenPrice returns the unit mint price in wei.
func (c *Config) TokenPrice() (*big.Int, error) {
	p, ok := new(big.Int).SetString(c.TokenPriceWei, 10)
	if !ok || p.Sign() <= 0 {
		return nil, fmt.Errorf("token_price_wei %q must be a positive integer", c.TokenPriceWei)
	}
	return p, nil
}

// Set assigns a config key from its string form, as used by `cdico config set`.
// A rejected value leaves the config unchanged. Keys assigned here are the
// ones Save persists.
func (c *Config) Set(key, value string) error {
	next := *c
	var stored interface{} = value
	switch key {
	case "network":
		next.Network = value
	case "rpc_url":
		next.RPCURL = value
	case "rpc_algorithm":
		next.RPCAlgorithm = value
	case "token_address":
		next.TokenAddress = value
	case "nft_address":
		next.NFTAddress = value
	case "token_price_wei":
		next.TokenPriceWei = value
	case "default_wallet":
		next.DefaultWallet = value
	case "log_level":
		next.LogLevel = value
	case "trace_file":
		next.TraceFile = value
	case "max_supply", "tokens_per_nft":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "max_supply" {
			next.MaxSupply = n
		} else {
			next.TokensPerNFT = n
		}
		stored = n
	case "rpc_rate_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		next.RPCRateLimit = f
		stored = f
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	next.stored = make(map[string]interface{}, len(c.stored)+1)
	for k, v := range c.stored {
		next.stored[k] = v
	}
	next.stored[key] = stored
	*c = next
	return nil
}

// Keys returns every settable key, sorted.
func Keys() []string {
	keys := []string{
		"network", "rpc_url", "rpc_algorithm", "token_address", "nft_address",
		"token_price_wei", "max_supply", "tokens_per_nft", "default_wallet",
		"log_level", "rpc_rate_limit", "trace_file",
	}
	sort.Strings(keys)
	return keys
}

// Save writes the keys read from config.json and those changed with Set.
// Values that only came from CDICO_ environment variables, defaults or
// direct field assignment are not written.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	v := viper.New()
	for k, val := range c.stored {
		v.Set(k, val)
	}
	path := filepath.Join(c.configDir, configFile)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return os.Chmod(path, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is where wallet metadata is stored.
func (c *Config) WalletsPath() string { return filepath.Join(c.configDir, walletsFile) }

// SessionPath is where the last connected wallet per network is remembered.
func (c *Config) SessionPath() string { return filepath.Join(c.configDir, sessionFile) }

// LogPath is where the interactive page writes its log.
func (c *Config) LogPath() string { return filepath.Join(c.configDir, logFile) }
