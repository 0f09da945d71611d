// Package config loads the hydroplant configuration from a YAML or JSON file
// and command-line overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/hydroplant/pkg/contract"
)

// Wallet kinds.
const (
	WalletRPC    = "rpc"
	WalletKey    = "key"
	WalletMemory = "memory"
)

// DefaultPath is read when no --config is given. A missing default file is not an error.
const DefaultPath = "hydroplant.yaml"

// Config is the resolved configuration.
type Config struct {
	Wallet       string        `mapstructure:"wallet"`
	RPCURL       string        `mapstructure:"rpc_url"`
	WalletURL    string        `mapstructure:"wallet_url"`
	PrivateKey   string        `mapstructure:"private_key"`
	ChainID      int64         `mapstructure:"chain_id"`
	Contract     string        `mapstructure:"contract"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`
	Listen       string        `mapstructure:"listen"`
	Metrics      bool          `mapstructure:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Wallet:       WalletRPC,
		RPCURL:       "http://127.0.0.1:8545",
		Contract:     contract.DefaultAddress.Hex(),
		PollInterval: contract.DefaultPollInterval,
		LogLevel:     "info",
		LogFormat:    "text",
		Listen:       ":8080",
		Metrics:      true,
	}
}

// Load reads path (if any) and applies overrides on top, in that order.
// Override keys use the file's key names; empty string values are ignored.
func Load(path string, overrides map[string]any) (Config, error) {
	raw, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	for k, v := range overrides {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		raw[k] = v
	}
	return Decode(raw)
}

// Decode layers raw over Default and validates the result.
func Decode(raw map[string]any) (Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Wallet = strings.ToLower(strings.TrimSpace(cfg.Wallet))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (map[string]any, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	raw := map[string]any{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return raw, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.Wallet {
	case WalletRPC:
		if c.WalletURL == "" && c.RPCURL == "" {
			result = multierror.Append(result, errors.New("wallet rpc needs wallet_url or rpc_url"))
		}
	case WalletKey:
		if c.PrivateKey == "" {
			result = multierror.Append(result, errors.New("wallet key needs private_key"))
		}
		if c.RPCURL == "" {
			result = multierror.Append(result, errors.New("wallet key needs rpc_url"))
		}
	case WalletMemory:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown wallet %q (want rpc, key or memory)", c.Wallet))
	}

	if !common.IsHexAddress(c.Contract) {
		result = multierror.Append(result, fmt.Errorf("contract %q is not a hex address", c.Contract))
	}
	if c.PollInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval))
	}
	if c.ChainID < 0 {
		result = multierror.Append(result, fmt.Errorf("chain_id must not be negative, got %d", c.ChainID))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("log_format %q (want text or json)", c.LogFormat))
	}

	return result.ErrorOrNil()
}

// ContractAddress returns the parsed contract address.
func (c Config) ContractAddress() common.Address {
	return common.HexToAddress(c.Contract)
}

// Chain returns the configured chain ID, or nil to ask the node.
func (c Config) Chain() *big.Int {
	if c.ChainID == 0 {
		return nil
	}
	return big.NewInt(c.ChainID)
}

// SigningURL is the endpoint of the JSON-RPC wallet.
func (c Config) SigningURL() string {
	if c.WalletURL != "" {
		return c.WalletURL
	}
	return c.RPCURL
}
