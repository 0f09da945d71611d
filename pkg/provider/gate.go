// Package provider memoizes the wallet capability for the lifetime of an App.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// NoWalletMessage is the alert shown when no wallet can be found.
const NoWalletMessage = "Please install or configure a wallet!"

// Detector discovers the host wallet. It returns an error wrapping
// domain.ErrNoWalletCapability when none is injected.
type Detector func(ctx context.Context) (ports.Wallet, error)

// Gate hands out a single wallet handle and alerts when there is none.
type Gate struct {
	detect   Detector
	notifier ports.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	wallet ports.Wallet
}

// Option configures the Gate.
type Option func(*Gate)

// WithLogger configures a logger for the Gate.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a Gate around the given detector.
func NewGate(detect Detector, notifier ports.Notifier, opts ...Option) *Gate {
	g := &Gate{
		detect:   detect,
		notifier: notifier,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Ensure returns the memoized wallet, alerting the user on failure.
func (g *Gate) Ensure(ctx context.Context) (ports.Wallet, error) {
	w, err := g.Probe(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoWalletCapability) {
			g.notifier.Alert(NoWalletMessage)
		} else {
			g.notifier.Alert("Wallet unavailable: " + err.Error())
		}
		return nil, err
	}
	return w, nil
}

// Probe is Ensure without the alert. Failures are not memoized.
func (g *Gate) Probe(ctx context.Context) (ports.Wallet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.wallet != nil {
		return g.wallet, nil
	}
	if g.detect == nil {
		return nil, domain.ErrNoWalletCapability
	}

	w, err := g.detect(ctx)
	if err != nil {
		g.logger.Debug("Wallet detection failed", "err", err)
		return nil, fmt.Errorf("detect wallet: %w", err)
	}
	if w == nil {
		return nil, domain.ErrNoWalletCapability
	}

	g.logger.Debug("Wallet provider initialized")
	g.wallet = w
	return w, nil
}
