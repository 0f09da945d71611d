package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/hydroplant/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "hydroplant",
	Short: "Grow an on-chain plant by watering it from your wallet",
	Long: `hydroplant connects a wallet to the HydrationPlant contract, shows your
water count and growth stage, and sends water() transactions.

Use --simulate to try it against an in-process chain.`,
	SilenceUsage: true,
}

var globalOpts cli.Options

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&globalOpts.ConfigPath, "config", "", "Config file (default ./hydroplant.yaml if present)")
	f.BoolVar(&globalOpts.Debug, "debug", false, "Enable debug logs and lifecycle tracing")
	f.BoolVar(&globalOpts.Simulate, "simulate", false, "Use the in-process simulated chain and wallet")
	f.StringVar(&globalOpts.RPCURL, "rpc", "", "Node JSON-RPC URL")
	f.StringVar(&globalOpts.Wallet, "wallet", "", "Wallet kind: rpc, key or memory")
	f.StringVar(&globalOpts.Contract, "contract", "", "HydrationPlant contract address")
}

// withRuntime builds the runtime, runs fn under a signal-aware context and closes it.
func withRuntime(cmd *cobra.Command, out io.Writer, fn func(ctx context.Context, rt *cli.Runtime) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := cli.Build(ctx, globalOpts, out)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(ctx, rt)
}
