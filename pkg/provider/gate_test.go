package provider_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hydroplant/pkg/adapters/memory"
	"github.com/aretw0/hydroplant/pkg/contract"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
	"github.com/aretw0/hydroplant/pkg/provider"
	"github.com/aretw0/hydroplant/pkg/view"
)

func TestGate_MemoizesWallet(t *testing.T) {
	wallet := memory.NewWallet(memory.NewChain(contract.DefaultAddress))
	detections := 0
	rec := view.NewRecorder(0)
	gate := provider.NewGate(func(ctx context.Context) (ports.Wallet, error) {
		detections++
		return wallet, nil
	}, rec)

	for i := 0; i < 3; i++ {
		w, err := gate.Ensure(context.Background())
		require.NoError(t, err)
		assert.Same(t, wallet, w)
	}
	assert.Equal(t, 1, detections)
	assert.Empty(t, rec.State().Alerts)
}

func TestGate_NoWalletAlerts(t *testing.T) {
	detections := 0
	rec := view.NewRecorder(0)
	gate := provider.NewGate(func(ctx context.Context) (ports.Wallet, error) {
		detections++
		return nil, fmt.Errorf("%w: nothing configured", domain.ErrNoWalletCapability)
	}, rec)

	_, err := gate.Ensure(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoWalletCapability)
	assert.Equal(t, []string{provider.NoWalletMessage}, rec.State().Alerts)

	// Failures are not memoized.
	_, err = gate.Ensure(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoWalletCapability)
	assert.Equal(t, 2, detections)
}

func TestGate_DetectorErrorAlerts(t *testing.T) {
	rec := view.NewRecorder(0)
	gate := provider.NewGate(func(ctx context.Context) (ports.Wallet, error) {
		return nil, errors.New("connection refused")
	}, rec)

	_, err := gate.Ensure(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	require.Len(t, rec.State().Alerts, 1)
	assert.Contains(t, rec.State().Alerts[0], "connection refused")
}

func TestGate_ProbeNeverAlerts(t *testing.T) {
	rec := view.NewRecorder(0)
	gate := provider.NewGate(nil, rec)

	_, err := gate.Probe(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoWalletCapability)

	nilWallet := provider.NewGate(func(ctx context.Context) (ports.Wallet, error) { return nil, nil }, rec)
	_, err = nilWallet.Probe(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoWalletCapability)

	assert.Empty(t, rec.State().Alerts)
}
