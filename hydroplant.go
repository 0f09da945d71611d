package hydroplant

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/pkg/action"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
	"github.com/aretw0/hydroplant/pkg/provider"
	"github.com/aretw0/hydroplant/pkg/session"
	"github.com/aretw0/hydroplant/pkg/state"
	"github.com/aretw0/hydroplant/pkg/view"
)

// Version is the hydroplant release.
var Version = "0.3.0"

// App is the high-level entry point. One App is one wallet session:
// it owns the provider gate, the session manager, the synchronizer and the
// action orchestrator, with no package-level state.
type App struct {
	gate         *provider.Gate
	sessions     *session.Manager
	synchronizer *state.Synchronizer
	orchestrator *action.Orchestrator

	presenter ports.Presenter
	notifier  ports.Notifier
	recorder  *view.Recorder
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithPresenter sets the presentation adapter receiving view updates.
func WithPresenter(p ports.Presenter) Option {
	return func(a *App) {
		a.presenter = p
	}
}

// WithNotifier sets where user-visible alerts go.
func WithNotifier(n ports.Notifier) Option {
	return func(a *App) {
		a.notifier = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New wires an App. detect discovers the wallet; bind binds the contract to
// the signer of each new session. Without WithPresenter or WithNotifier, a
// view.Recorder collects the updates and alerts (see View).
func New(detect provider.Detector, bind ports.ContractBinder, opts ...Option) (*App, error) {
	if bind == nil {
		return nil, errors.New("contract binder is required")
	}

	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.presenter == nil || a.notifier == nil {
		a.recorder = view.NewRecorder(16)
		if a.presenter == nil {
			a.presenter = a.recorder
		}
		if a.notifier == nil {
			a.notifier = a.recorder
		}
	}

	a.gate = provider.NewGate(detect, a.notifier,
		provider.WithLogger(a.logger.With("component", "provider")),
	)
	a.sessions = session.NewManager(a.gate, bind, a.presenter, a.notifier,
		session.WithLogger(a.logger.With("component", "session")),
		session.WithLifecycleHooks(a.hooks),
	)
	a.synchronizer = state.NewSynchronizer(a.sessions, a.presenter,
		state.WithLogger(a.logger.With("component", "state")),
		state.WithLifecycleHooks(a.hooks),
	)
	a.sessions.SetSynchronizer(a.synchronizer)
	a.orchestrator = action.NewOrchestrator(a.gate, a.sessions, a.synchronizer, a.presenter, a.notifier,
		action.WithLogger(a.logger.With("component", "action")),
		action.WithLifecycleHooks(a.hooks),
	)

	return a, nil
}

// Start attempts a silent connect with an already-authorized account.
// It reports whether a session was established; failures are logged, never alerted.
func (a *App) Start(ctx context.Context) bool {
	sess, err := a.sessions.ConnectSilent(ctx)
	return err == nil && sess != nil
}

// Connect handles the "connect requested" intent.
func (a *App) Connect(ctx context.Context) error {
	_, err := a.sessions.ConnectExplicit(ctx)
	return err
}

// Water handles the "perform action requested" intent.
func (a *App) Water(ctx context.Context) error {
	return a.orchestrator.PerformWater(ctx)
}

// Refresh re-reads the on-chain state. It is a no-op without a session.
func (a *App) Refresh(ctx context.Context) error {
	return a.synchronizer.Synchronize(ctx)
}

// Snapshot returns the last successful snapshot.
func (a *App) Snapshot() (domain.Snapshot, bool) {
	return a.synchronizer.Snapshot()
}

// Session returns the live session, or nil.
func (a *App) Session() *session.Session {
	return a.sessions.Current()
}

// Busy reports whether a water action is in flight.
func (a *App) Busy() bool {
	return a.orchestrator.Busy()
}

// View returns the built-in recorder, or nil when both a presenter and a
// notifier were supplied.
func (a *App) View() *view.Recorder {
	return a.recorder
}
