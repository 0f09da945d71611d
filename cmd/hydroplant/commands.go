package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/hydroplant"
	"github.com/aretw0/hydroplant/internal/cli"
	"github.com/aretw0/hydroplant/internal/presentation/tui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the account, water count and growth stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, cmd.OutOrStdout(), cli.Status)
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Ask the wallet for account access",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, cmd.OutOrStdout(), cli.Connect)
	},
}

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Send water() and wait for confirmation",
	Long:  `Sends water() for the connected account, connecting first if needed, and waits for each receipt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		times, _ := cmd.Flags().GetInt("times")
		banner, _ := cmd.Flags().GetBool("banner")
		out := cmd.OutOrStdout()
		if banner && tui.IsTerminal(out) {
			tui.PrintBanner(out, tui.NewConsole(out).Profile())
		}
		return withRuntime(cmd, out, func(ctx context.Context, rt *cli.Runtime) error {
			return cli.Water(ctx, rt, times)
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Serves GET /state, POST /connect, POST /water and GET /metrics until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, cmd.OutOrStdout(), cli.Serve)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server on stdio",
	Long: `Exposes connect_wallet, water_plant and plant_state as MCP tools.
Stdout carries JSON-RPC, so the plant view is written to Stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, os.Stderr, cli.ServeMCP)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hydroplant",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hydroplant version %s\n", strings.TrimSpace(hydroplant.Version))
	},
}

func init() {
	waterCmd.Flags().IntP("times", "n", 1, "How many times to water")
	waterCmd.Flags().Bool("banner", false, "Print the banner first")

	rootCmd.AddCommand(statusCmd, connectCmd, waterCmd, serveCmd, mcpCmd, versionCmd)
}
