package cli

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hydroplant/internal/config"
	"github.com/aretw0/hydroplant/pkg/domain"
)

func simulate(t *testing.T) (*Runtime, *bytes.Buffer) {
	t.Helper()
	t.Chdir(t.TempDir())
	var out bytes.Buffer
	rt, err := Build(context.Background(), Options{Simulate: true}, &out)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt, &out
}

func TestBuild_Simulate(t *testing.T) {
	rt, out := simulate(t)
	assert.Equal(t, config.WalletMemory, rt.Config.Wallet)
	require.NotNil(t, rt.Registry)

	require.NoError(t, Water(context.Background(), rt, 12))
	st := rt.View.State()
	require.NotNil(t, st.Snapshot)
	assert.Equal(t, "12", st.Snapshot.WaterCount)
	assert.Equal(t, 4, st.Snapshot.Stage)
	assert.True(t, st.Bloomed)
	assert.Contains(t, out.String(), "full bloom")
	assert.Contains(t, out.String(), domain.ShortAddress(SimulatedAccount))

	families, err := rt.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["hydroplant_transactions_total"])
	assert.True(t, names["hydroplant_stage"])
}

func TestStatusAndConnect_Simulate(t *testing.T) {
	rt, out := simulate(t)
	require.NoError(t, Status(context.Background(), rt))
	assert.Contains(t, out.String(), "not connected", "the simulated wallet starts unauthorized")

	require.NoError(t, Connect(context.Background(), rt))
	assert.Contains(t, out.String(), domain.ShortAddress(SimulatedAccount))
	assert.Equal(t, "0", rt.View.State().Snapshot.WaterCount)
}

func TestWater_RejectsZero(t *testing.T) {
	rt, _ := simulate(t)
	assert.Error(t, Water(context.Background(), rt, 0))
}

func TestBuild_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	ctx := context.Background()

	_, err := Build(ctx, Options{Wallet: "ledger"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "ledger")

	_, err = Build(ctx, Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = Build(ctx, Options{Simulate: true, Contract: "0x123"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "0x123")
}

func TestBuild_KeyWallet(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "hydroplant.yaml")
	require.NoError(t, writeFile(path, `
wallet: key
rpc_url: http://127.0.0.1:1
private_key: ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80
chain_id: 31337
metrics: false
`))

	rt, err := Build(context.Background(), Options{}, &bytes.Buffer{})
	require.NoError(t, err)
	defer rt.Close()
	assert.Nil(t, rt.Registry)
	assert.Equal(t, int64(31337), rt.Config.ChainID)

	require.NoError(t, writeFile(path, "wallet: key\nprivate_key: nothex\n"))
	_, err = Build(context.Background(), Options{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "private key")
}

func TestServe_Shutdown(t *testing.T) {
	rt, _ := simulate(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	rt.Config.Listen = addr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, rt) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * ShutdownTimeout):
		t.Fatal("server did not stop")
	}
}
