// Package state keeps the last successful on-chain snapshot of the live session.
package state

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
	"github.com/aretw0/hydroplant/pkg/session"
)

// SessionSource exposes the live session. *session.Manager satisfies it.
type SessionSource interface {
	Current() *session.Session
}

// Synchronizer reads the water count and stage of the session account.
type Synchronizer struct {
	sessions  SessionSource
	presenter ports.Presenter

	mu       sync.RWMutex
	snapshot *domain.Snapshot
	issued   uint64 // rounds started
	applied  uint64 // round that produced snapshot

	// emitMu orders presenter calls; shown is the last stage rendered.
	emitMu sync.Mutex
	shown  *int

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Synchronizer.
type Option func(*Synchronizer)

// WithLogger configures a logger for the Synchronizer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Synchronizer) {
		s.hooks = hooks
	}
}

// NewSynchronizer creates a Synchronizer with no snapshot.
func NewSynchronizer(sessions SessionSource, presenter ports.Presenter, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		sessions:  sessions,
		presenter: presenter,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the last successful snapshot.
func (s *Synchronizer) Snapshot() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return domain.Snapshot{}, false
	}
	return *s.snapshot, true
}

// Synchronize refreshes the snapshot from the contract.
// Without a live session it returns nil and touches nothing.
// On failure the previous snapshot is kept and an error wrapping
// domain.ErrReadFailure is returned; nothing is shown to the user.
func (s *Synchronizer) Synchronize(ctx context.Context) error {
	sess := s.sessions.Current()
	if sess == nil {
		return nil
	}

	s.mu.Lock()
	s.issued++
	round := s.issued
	s.mu.Unlock()

	start := time.Now()
	snap, err := s.read(ctx, sess)
	event := &domain.SyncEvent{
		Timestamp: start,
		Account:   sess.Account,
		Duration:  time.Since(start),
	}
	if err != nil {
		event.Err = err
		s.hooks.EmitSync(ctx, event)
		s.logger.Error("Synchronize failed", "account", sess.Account.Hex(), "err", err)
		return err
	}

	s.mu.Lock()
	if s.sessions.Current() != sess {
		// Re-connected while reading; the result describes the old account.
		s.mu.Unlock()
		s.logger.Debug("Discarding snapshot of replaced session", "account", sess.Account.Hex())
		return nil
	}
	if round < s.applied {
		// A later round already landed.
		s.mu.Unlock()
		return nil
	}
	s.snapshot = &snap
	s.applied = round
	s.mu.Unlock()

	event.Snapshot = snap
	s.hooks.EmitSync(ctx, event)
	s.logger.Debug("Synchronized",
		"account", sess.Account.Hex(),
		"water_count", snap.WaterCount,
		"stage", snap.Stage,
	)

	s.present(round, snap)
	return nil
}

// present renders snap unless a later round has been applied since.
// The later round renders itself, so the presenter never goes backwards.
func (s *Synchronizer) present(round uint64, snap domain.Snapshot) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.RLock()
	latest := s.applied
	s.mu.RUnlock()
	if round != latest {
		return
	}

	s.presenter.ShowSnapshot(snap)
	if s.shown == nil || *s.shown != snap.Stage {
		stage := snap.Stage
		s.shown = &stage
		s.presenter.StageChanged(stage)
	}
}

// read issues both queries concurrently and combines them once both return.
func (s *Synchronizer) read(ctx context.Context, sess *session.Session) (domain.Snapshot, error) {
	var (
		count *big.Int
		stage uint64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		count, err = sess.Contract.WaterCount(gctx, sess.Account)
		if err != nil {
			return fmt.Errorf("water count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stage, err = sess.Contract.StageOf(gctx, sess.Account)
		if err != nil {
			return fmt.Errorf("stage: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrReadFailure, err)
	}

	return domain.NewSnapshot(count, stage), nil
}
