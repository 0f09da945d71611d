// Package action runs the mutating water action end to end.
package action

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
	"github.com/aretw0/hydroplant/pkg/session"
)

// WalletSource hands out the wallet handle. *provider.Gate satisfies it.
type WalletSource interface {
	Ensure(ctx context.Context) (ports.Wallet, error)
}

// Sessions is the part of the session manager the orchestrator needs.
type Sessions interface {
	Current() *session.Session
	ConnectExplicit(ctx context.Context) (*session.Session, error)
}

// Synchronizer refreshes and exposes the snapshot.
type Synchronizer interface {
	Synchronize(ctx context.Context) error
	Snapshot() (domain.Snapshot, bool)
}

// Orchestrator performs the water action.
type Orchestrator struct {
	wallets   WalletSource
	sessions  Sessions
	sync      Synchronizer
	presenter ports.Presenter
	notifier  ports.Notifier

	running atomic.Bool

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger configures a logger for the Orchestrator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = hooks
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(wallets WalletSource, sessions Sessions, sync Synchronizer, presenter ports.Presenter, notifier ports.Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		wallets:   wallets,
		sessions:  sessions,
		sync:      sync,
		presenter: presenter,
		notifier:  notifier,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Busy reports whether a water action is in flight.
func (o *Orchestrator) Busy() bool {
	return o.running.Load()
}

// PerformWater waters the plant for the session account, connecting first if
// there is no session. It blocks until the transaction is mined; only ctx
// bounds the wait. The busy indicator is raised on entry and cleared exactly
// once on return. A call made while another is in flight returns
// domain.ErrActionInProgress without touching the indicator.
func (o *Orchestrator) PerformWater(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		return domain.ErrActionInProgress
	}
	defer o.running.Store(false)

	o.presenter.SetBusy(true)
	defer o.presenter.SetBusy(false)

	if _, err := o.wallets.Ensure(ctx); err != nil {
		return err
	}

	err := o.attempt(ctx)
	if errors.Is(err, domain.ErrNeedsAuthentication) {
		o.logger.Debug("No session, connecting before watering")
		if _, cerr := o.sessions.ConnectExplicit(ctx); cerr != nil {
			// Connect failures are alerted by the session manager.
			return cerr
		}
		err = o.attempt(ctx)
	}
	if err != nil {
		o.logger.Error("Water transaction failed", "err", err)
		o.notifier.Alert("Transaction error: " + err.Error())
		return err
	}

	if err := o.sync.Synchronize(ctx); err != nil {
		// Logged by the synchronizer; the transaction itself went through.
		return nil
	}
	if snap, ok := o.sync.Snapshot(); ok && snap.Bloomed() {
		o.presenter.Milestone(snap)
		o.hooks.EmitMilestone(ctx, snap)
	}
	return nil
}

// attempt submits water() and waits for its receipt. It returns
// domain.ErrNeedsAuthentication when there is no session yet.
func (o *Orchestrator) attempt(ctx context.Context) error {
	sess := o.sessions.Current()
	if sess == nil {
		return domain.ErrNeedsAuthentication
	}

	event := &domain.TxEvent{Timestamp: time.Now(), Account: sess.Account}
	err := o.submit(ctx, sess, event)
	event.Duration = time.Since(event.Timestamp)
	event.Err = err
	o.hooks.EmitTransaction(ctx, event)
	return err
}

func (o *Orchestrator) submit(ctx context.Context, sess *session.Session, event *domain.TxEvent) error {
	o.presenter.Watering()

	pending, err := sess.Contract.Water(ctx)
	if err != nil {
		return fmt.Errorf("%w: submit: %w", domain.ErrTransactionFailure, err)
	}
	event.Hash = pending.Hash()
	o.logger.Info("Water transaction submitted", "hash", pending.Hash().Hex())

	receipt, err := pending.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%w: confirm %s: %w", domain.ErrTransactionFailure, pending.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s reverted", domain.ErrTransactionFailure, pending.Hash().Hex())
	}

	o.logger.Info("Water transaction confirmed", "hash", pending.Hash().Hex(), "block", receipt.BlockNumber)
	return nil
}
