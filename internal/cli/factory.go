package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aretw0/hydroplant"
	"github.com/aretw0/hydroplant/internal/config"
	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/internal/metrics"
	"github.com/aretw0/hydroplant/internal/presentation/tui"
	"github.com/aretw0/hydroplant/pkg/adapters/keywallet"
	"github.com/aretw0/hydroplant/pkg/adapters/memory"
	"github.com/aretw0/hydroplant/pkg/adapters/rpcwallet"
	"github.com/aretw0/hydroplant/pkg/contract"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
	"github.com/aretw0/hydroplant/pkg/provider"
	"github.com/aretw0/hydroplant/pkg/view"
)

// SimulatedAccount is the account held by the --simulate wallet.
var SimulatedAccount = common.HexToAddress("0x0000000000000000000000000000000000000042")

// Runtime is a fully wired App plus the pieces the commands need.
type Runtime struct {
	App      *hydroplant.App
	Config   config.Config
	Logger   *slog.Logger
	View     *view.Recorder
	Console  *tui.Console
	Registry *prometheus.Registry

	closers []func()
}

// Close releases network clients.
func (r *Runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// Build loads the configuration and wires the App. View updates go to out.
func Build(ctx context.Context, opts Options, out io.Writer) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath, opts.overrides())
	if err != nil {
		return nil, err
	}

	logger, err := createLogger(cfg)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		View:    view.NewRecorder(16),
		Console: tui.NewConsole(out),
	}

	detect, bind, err := rt.wallet(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	hooks := domain.LifecycleHooks{}
	if opts.Debug {
		hooks = createDebugHooks(logger)
	}
	if cfg.Metrics {
		rt.Registry = prometheus.NewRegistry()
		rt.Registry.MustRegister(collectors.NewGoCollector())
		m, err := metrics.New(rt.Registry)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		hooks = hooks.Merge(m.Hooks())
	}

	app, err := hydroplant.New(detect, bind,
		hydroplant.WithLogger(logger),
		hydroplant.WithLifecycleHooks(hooks),
		hydroplant.WithPresenter(view.Fanout{rt.View, rt.Console}),
		hydroplant.WithNotifier(view.Notifiers{rt.View, rt.Console}),
	)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("error initializing app: %w", err)
	}
	rt.App = app
	return rt, nil
}

// wallet picks the wallet adapter and the contract backend for cfg.Wallet.
func (rt *Runtime) wallet(ctx context.Context) (provider.Detector, ports.ContractBinder, error) {
	cfg := rt.Config
	address := cfg.ContractAddress()
	bindOpts := []contract.Option{contract.WithPollInterval(cfg.PollInterval)}

	switch cfg.Wallet {
	case config.WalletMemory:
		chain := memory.NewChain(address)
		w := memory.NewWallet(chain, SimulatedAccount)
		rt.Logger.Info("Using simulated chain", "account", SimulatedAccount.Hex())
		detect := func(ctx context.Context) (ports.Wallet, error) { return w, nil }
		return detect, contract.Binder(address, chain, bindOpts...), nil

	case config.WalletKey:
		client, err := ethclient.DialContext(ctx, cfg.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dial node %s: %w", cfg.RPCURL, err)
		}
		rt.closers = append(rt.closers, client.Close)
		w, err := keywallet.FromHex(cfg.PrivateKey, client,
			keywallet.WithChainID(cfg.Chain()),
			keywallet.WithPreauthorized(),
		)
		if err != nil {
			return nil, nil, err
		}
		rt.Logger.Info("Using local key", "account", w.Address().Hex())
		detect := func(ctx context.Context) (ports.Wallet, error) { return w, nil }
		return detect, contract.Binder(address, client, bindOpts...), nil

	case config.WalletRPC:
		client, err := ethclient.DialContext(ctx, cfg.RPCURL)
		if err != nil {
			return nil, nil, fmt.Errorf("dial node %s: %w", cfg.RPCURL, err)
		}
		rt.closers = append(rt.closers, client.Close)
		url := cfg.SigningURL()
		detect := func(ctx context.Context) (ports.Wallet, error) {
			w, err := rpcwallet.Dial(ctx, url)
			if err != nil {
				return nil, err
			}
			rt.closers = append(rt.closers, w.Close)
			return w, nil
		}
		return detect, contract.Binder(address, client, bindOpts...), nil
	}
	return nil, nil, fmt.Errorf("unknown wallet %q", cfg.Wallet)
}

// createLogger configures the application logger. Logs always go to Stderr
// so Stdout stays free for the plant view and MCP stdio.
func createLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.LogFormat == "json" {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}
