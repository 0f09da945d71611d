package cli

import "github.com/aretw0/hydroplant/internal/config"

// Options carries the global command-line flags.
type Options struct {
	ConfigPath string
	Debug      bool
	Simulate   bool
	RPCURL     string
	Wallet     string
	Contract   string
}

// overrides maps set flags onto config keys. Unset flags are empty and ignored.
func (o Options) overrides() map[string]any {
	m := map[string]any{
		"rpc_url":  o.RPCURL,
		"wallet":   o.Wallet,
		"contract": o.Contract,
	}
	if o.Simulate {
		m["wallet"] = config.WalletMemory
	}
	if o.Debug {
		m["log_level"] = "debug"
	}
	return m
}
