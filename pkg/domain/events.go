package domain

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ConnectPath tells how a session was established.
type ConnectPath string

const (
	ConnectExplicit ConnectPath = "explicit"
	ConnectSilent   ConnectPath = "silent"
)

// SessionEvent describes a connect attempt.
type SessionEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Path      ConnectPath    `json:"path"`
	Account   common.Address `json:"account,omitempty"`
	Err       error          `json:"-"`
}

// SyncEvent describes one synchronization round.
type SyncEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Account   common.Address `json:"account"`
	Snapshot  Snapshot       `json:"snapshot"`
	Duration  time.Duration  `json:"duration"`
	Err       error          `json:"-"`
}

// TxEvent describes a water transaction from submission to receipt.
type TxEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Account   common.Address `json:"account"`
	Hash      common.Hash    `json:"hash,omitempty"`
	Duration  time.Duration  `json:"duration"`
	Err       error          `json:"-"`
}

// LifecycleHooks defines callbacks for observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnConnect     func(context.Context, *SessionEvent)
	OnSync        func(context.Context, *SyncEvent)
	OnTransaction func(context.Context, *TxEvent)
	OnMilestone   func(context.Context, Snapshot)
}

// EmitConnect calls OnConnect if set.
func (h LifecycleHooks) EmitConnect(ctx context.Context, e *SessionEvent) {
	if h.OnConnect != nil {
		h.OnConnect(ctx, e)
	}
}

// EmitSync calls OnSync if set.
func (h LifecycleHooks) EmitSync(ctx context.Context, e *SyncEvent) {
	if h.OnSync != nil {
		h.OnSync(ctx, e)
	}
}

// EmitTransaction calls OnTransaction if set.
func (h LifecycleHooks) EmitTransaction(ctx context.Context, e *TxEvent) {
	if h.OnTransaction != nil {
		h.OnTransaction(ctx, e)
	}
}

// EmitMilestone calls OnMilestone if set.
func (h LifecycleHooks) EmitMilestone(ctx context.Context, s Snapshot) {
	if h.OnMilestone != nil {
		h.OnMilestone(ctx, s)
	}
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnConnect: func(ctx context.Context, e *SessionEvent) {
			h.EmitConnect(ctx, e)
			other.EmitConnect(ctx, e)
		},
		OnSync: func(ctx context.Context, e *SyncEvent) {
			h.EmitSync(ctx, e)
			other.EmitSync(ctx, e)
		},
		OnTransaction: func(ctx context.Context, e *TxEvent) {
			h.EmitTransaction(ctx, e)
			other.EmitTransaction(ctx, e)
		},
		OnMilestone: func(ctx context.Context, s Snapshot) {
			h.EmitMilestone(ctx, s)
			other.EmitMilestone(ctx, s)
		},
	}
}
