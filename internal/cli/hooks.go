package cli

import (
	"context"
	"log/slog"

	"github.com/aretw0/hydroplant/pkg/domain"
)

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConnect: func(ctx context.Context, e *domain.SessionEvent) {
			if e.Err != nil {
				logger.Debug("Connect (Error)", "path", e.Path, "err", e.Err)
				return
			}
			logger.Debug("Connect", "path", e.Path, "account", e.Account.Hex())
		},
		OnSync: func(ctx context.Context, e *domain.SyncEvent) {
			if e.Err != nil {
				logger.Debug("Sync (Error)", "account", e.Account.Hex(), "err", e.Err)
				return
			}
			logger.Debug("Sync", "water_count", e.Snapshot.WaterCount, "stage", e.Snapshot.Stage, "duration", e.Duration)
		},
		OnTransaction: func(ctx context.Context, e *domain.TxEvent) {
			if e.Err != nil {
				logger.Debug("Transaction (Error)", "hash", e.Hash.Hex(), "err", e.Err)
				return
			}
			logger.Debug("Transaction", "hash", e.Hash.Hex(), "duration", e.Duration)
		},
		OnMilestone: func(ctx context.Context, s domain.Snapshot) {
			logger.Debug("Milestone", "water_count", s.WaterCount, "stage", s.Stage)
		},
	}
}
