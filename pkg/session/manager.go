package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// WalletSource hands out the wallet handle. *provider.Gate satisfies it.
type WalletSource interface {
	// Ensure alerts the user when no wallet is available.
	Ensure(ctx context.Context) (ports.Wallet, error)
	// Probe never alerts.
	Probe(ctx context.Context) (ports.Wallet, error)
}

// Synchronizer refreshes the snapshot after a session is committed.
type Synchronizer interface {
	Synchronize(ctx context.Context) error
}

// Manager owns the live Session.
type Manager struct {
	wallets   WalletSource
	bind      ports.ContractBinder
	presenter ports.Presenter
	notifier  ports.Notifier

	mu      sync.RWMutex
	current *Session
	syncer  Synchronizer

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates a Session Manager with no live session.
func NewManager(wallets WalletSource, bind ports.ContractBinder, presenter ports.Presenter, notifier ports.Notifier, opts ...Option) *Manager {
	m := &Manager{
		wallets:   wallets,
		bind:      bind,
		presenter: presenter,
		notifier:  notifier,
		logger:    logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetSynchronizer registers the synchronizer run after every commit.
// The synchronizer reads Current, so it is attached after construction.
func (m *Manager) SetSynchronizer(s Synchronizer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncer = s
}

// Current returns the live session, or nil before the first connect.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// ConnectExplicit asks the wallet for account access (possibly prompting the
// user) and commits a new Session. Every failure is shown to the user and
// leaves the previous Session, if any, untouched.
func (m *Manager) ConnectExplicit(ctx context.Context) (*Session, error) {
	wallet, err := m.wallets.Ensure(ctx)
	if err != nil {
		// The wallet source has already alerted.
		m.hooks.EmitConnect(ctx, newEvent(domain.ConnectExplicit, nil, err))
		return nil, err
	}

	sess, err := m.connectExplicit(ctx, wallet)
	m.hooks.EmitConnect(ctx, newEvent(domain.ConnectExplicit, sess, err))
	if err != nil {
		m.logger.Error("Wallet connect failed", "err", err)
		m.notifier.Alert("Wallet connect failed: " + err.Error())
		return nil, err
	}
	return sess, nil
}

func (m *Manager) connectExplicit(ctx context.Context, wallet ports.Wallet) (*Session, error) {
	accounts, err := wallet.RequestAccounts(ctx)
	if err != nil {
		// Adapters tag user refusals with domain.ErrAuthorizationDenied.
		return nil, fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no accounts granted", domain.ErrAuthorizationDenied)
	}

	return m.commit(ctx, wallet, accounts[0])
}

// ConnectSilent reuses an account the wallet already authorized, without
// prompting. It returns (nil, nil) when there is none. It never alerts: it
// runs unattended at startup, so failures are only logged.
func (m *Manager) ConnectSilent(ctx context.Context) (*Session, error) {
	sess, err := m.connectSilent(ctx)
	if sess != nil || err != nil {
		m.hooks.EmitConnect(ctx, newEvent(domain.ConnectSilent, sess, err))
	}
	if err != nil {
		m.logger.Warn("Silent wallet connect failed", "err", err)
		return nil, err
	}
	if sess == nil {
		m.logger.Debug("No previously authorized account")
	}
	return sess, nil
}

func (m *Manager) connectSilent(ctx context.Context) (*Session, error) {
	wallet, err := m.wallets.Probe(ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := wallet.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authorized accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	return m.commit(ctx, wallet, accounts[0])
}

// commit derives the signer and contract binding, then publishes the Session.
// Nothing is published unless every step succeeds.
func (m *Manager) commit(ctx context.Context, wallet ports.Wallet, account common.Address) (*Session, error) {
	signer, err := wallet.Signer(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("derive signer: %w", err)
	}
	contract, err := m.bind(signer)
	if err != nil {
		return nil, fmt.Errorf("bind contract: %w", err)
	}

	sess := &Session{
		Account:  signer.Address(),
		Signer:   signer,
		Contract: contract,
	}

	m.mu.Lock()
	m.current = sess
	syncer := m.syncer
	m.mu.Unlock()

	m.logger.Info("Wallet connected", "account", sess.Account.Hex())
	m.presenter.ShowAccount(sess.DisplayAccount())
	m.presenter.SetConnectAvailable(false)

	if syncer != nil {
		// Read failures are reported by the synchronizer itself and do not
		// undo the connect.
		_ = syncer.Synchronize(ctx)
	}
	return sess, nil
}

func newEvent(path domain.ConnectPath, sess *Session, err error) *domain.SessionEvent {
	e := &domain.SessionEvent{
		Timestamp: time.Now(),
		Path:      path,
		Err:       err,
	}
	if sess != nil {
		e.Account = sess.Account
	}
	return e
}
