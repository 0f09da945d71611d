package contract_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hydroplant/pkg/contract"
	"github.com/aretw0/hydroplant/pkg/ports"
)

var user = common.HexToAddress("0x00000000000000000000000000000000000000aa")

// fakeBackend answers eth_call with canned values and serves receipts after a number of polls.
type fakeBackend struct {
	mu          sync.Mutex
	count       *big.Int
	stage       uint8
	callErr     error
	empty       bool
	lastMsg     ethereum.CallMsg
	pendingFor  int
	receiptErr  error
	receiptHits int
}

func (b *fakeBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastMsg = msg
	if b.callErr != nil {
		return nil, b.callErr
	}
	if b.empty {
		return nil, nil
	}
	parsed := contract.ABI()
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	switch method.Name {
	case contract.MethodWaterCount:
		return method.Outputs.Pack(b.count)
	case contract.MethodStageOf:
		return method.Outputs.Pack(b.stage)
	}
	return nil, errors.New("unexpected method " + method.Name)
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receiptHits++
	if b.receiptErr != nil {
		return nil, b.receiptErr
	}
	if b.receiptHits <= b.pendingFor {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{TxHash: hash, Status: types.ReceiptStatusSuccessful}, nil
}

type fakeSigner struct {
	sent []ports.Call
	err  error
}

func (s *fakeSigner) Address() common.Address { return user }

func (s *fakeSigner) SendTransaction(ctx context.Context, call ports.Call) (common.Hash, error) {
	if s.err != nil {
		return common.Hash{}, s.err
	}
	s.sent = append(s.sent, call)
	return common.HexToHash("0xbeef"), nil
}

func TestHydrationPlant_Reads(t *testing.T) {
	count, _ := new(big.Int).SetString("1000000000000000000", 10)
	backend := &fakeBackend{count: count, stage: 9}
	plant, err := contract.Bind(contract.DefaultAddress, backend, &fakeSigner{})
	require.NoError(t, err)
	ctx := context.Background()

	got, err := plant.WaterCount(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", got.String())
	assert.Equal(t, contract.DefaultAddress, *backend.lastMsg.To)
	assert.Equal(t, user, backend.lastMsg.From)

	stage, err := plant.StageOf(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), stage, "stage is returned raw, clamping is not the binding's job")
}

func TestHydrationPlant_ReadErrors(t *testing.T) {
	ctx := context.Background()

	plant, err := contract.Bind(contract.DefaultAddress, &fakeBackend{callErr: errors.New("rpc down")}, &fakeSigner{})
	require.NoError(t, err)
	_, err = plant.WaterCount(ctx, user)
	assert.ErrorContains(t, err, "rpc down")

	plant, err = contract.Bind(contract.DefaultAddress, &fakeBackend{empty: true}, &fakeSigner{})
	require.NoError(t, err)
	_, err = plant.StageOf(ctx, user)
	assert.ErrorContains(t, err, "empty result")
}

func TestHydrationPlant_WaterAndWait(t *testing.T) {
	backend := &fakeBackend{pendingFor: 2}
	signer := &fakeSigner{}
	plant, err := contract.Bind(contract.DefaultAddress, backend, signer, contract.WithPollInterval(time.Millisecond))
	require.NoError(t, err)

	pending, err := plant.Water(context.Background())
	require.NoError(t, err)
	require.Len(t, signer.sent, 1)
	assert.Equal(t, contract.DefaultAddress, signer.sent[0].To)
	assert.Equal(t, contract.ABI().Methods[contract.MethodWater].ID, signer.sent[0].Data)

	receipt, err := pending.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pending.Hash(), receipt.TxHash)
	assert.Equal(t, 3, backend.receiptHits)
}

func TestHydrationPlant_WaitErrors(t *testing.T) {
	signer := &fakeSigner{}

	backend := &fakeBackend{receiptErr: errors.New("node exploded")}
	plant, _ := contract.Bind(contract.DefaultAddress, backend, signer, contract.WithPollInterval(time.Millisecond))
	pending, err := plant.Water(context.Background())
	require.NoError(t, err)
	_, err = pending.Wait(context.Background())
	assert.ErrorContains(t, err, "node exploded")

	backend = &fakeBackend{pendingFor: 1 << 30}
	plant, _ = contract.Bind(contract.DefaultAddress, backend, signer, contract.WithPollInterval(time.Millisecond))
	pending, err = plant.Water(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = pending.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHydrationPlant_SignerError(t *testing.T) {
	plant, _ := contract.Bind(contract.DefaultAddress, &fakeBackend{}, &fakeSigner{err: errors.New("user rejected")})
	_, err := plant.Water(context.Background())
	assert.ErrorContains(t, err, "user rejected")
}

func TestBind_RequiresCollaborators(t *testing.T) {
	_, err := contract.Bind(contract.DefaultAddress, nil, &fakeSigner{})
	assert.Error(t, err)
	_, err = contract.Bind(contract.DefaultAddress, &fakeBackend{}, nil)
	assert.Error(t, err)
}

func TestABI_MethodLookup(t *testing.T) {
	parsed := contract.ABI()
	for _, name := range []string{contract.MethodWater, contract.MethodWaterCount, contract.MethodStageOf} {
		method, err := parsed.MethodById(parsed.Methods[name].ID)
		require.NoError(t, err)
		assert.Equal(t, name, method.Name)
	}
}
