// Package mcp exposes the hydroplant App as MCP tools, so an agent can
// connect the wallet and water the plant.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/hydroplant"
	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/pkg/view"
)

// MaxWaterTimes bounds the times argument of water_plant.
const MaxWaterTimes = 10

// App is the subset of *hydroplant.App exposed as tools.
type App interface {
	Connect(ctx context.Context) error
	Water(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// StateSource renders the current view.
type StateSource interface {
	State() view.State
}

// Server wraps the App as an MCP server.
type Server struct {
	app       App
	view      StateSource
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. It must not write to stdout when serving stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(app App, state StateSource, opts ...Option) *Server {
	s := &Server{
		app:       app,
		view:      state,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("hydroplant-mcp", strings.TrimSpace(hydroplant.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("connect_wallet",
		mcp.WithDescription("Ask the wallet for account access and load the plant state."),
	), s.handleConnect)

	s.mcpServer.AddTool(mcp.NewTool("water_plant",
		mcp.WithDescription("Send water() for the connected account and wait for confirmation. Connects first if needed."),
		mcp.WithNumber("times", mcp.Description(fmt.Sprintf("How many times to water, 1 to %d (default 1)", MaxWaterTimes))),
	), s.handleWater)

	s.mcpServer.AddTool(mcp.NewTool("plant_state",
		mcp.WithDescription("Return the current view: account, water count, growth stage and recent alerts."),
		mcp.WithBoolean("refresh", mcp.Description("Re-read the chain before answering")),
	), s.handleState)
}

func (s *Server) handleConnect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.Connect(ctx); err != nil {
		s.logger.Warn("MCP connect failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("connect failed: %v", err)), nil
	}
	return s.stateResult()
}

func (s *Server) handleWater(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	times := request.GetInt("times", 1)
	if times < 1 || times > MaxWaterTimes {
		return mcp.NewToolResultError(fmt.Sprintf("times must be between 1 and %d", MaxWaterTimes)), nil
	}

	for i := 0; i < times; i++ {
		if err := s.app.Water(ctx); err != nil {
			s.logger.Warn("MCP water failed", "err", err, "round", i+1)
			return mcp.NewToolResultError(fmt.Sprintf("water failed after %d of %d: %v", i, times, err)), nil
		}
	}
	return s.stateResult()
}

func (s *Server) handleState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetBool("refresh", false) {
		if err := s.app.Refresh(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("refresh failed: %v", err)), nil
		}
	}
	return s.stateResult()
}

func (s *Server) stateResult() (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.view.State())
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
