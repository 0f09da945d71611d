package memory_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hydroplant/pkg/adapters/memory"
	"github.com/aretw0/hydroplant/pkg/contract"
	"github.com/aretw0/hydroplant/pkg/domain"
)

var alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")

func newPlant(t *testing.T, chain *memory.Chain, wallet *memory.Wallet) *contract.HydrationPlant {
	t.Helper()
	signer, err := wallet.Signer(context.Background(), alice)
	require.NoError(t, err)
	plant, err := contract.Bind(chain.Address(), chain, signer)
	require.NoError(t, err)
	return plant
}

func TestChain_WaterGrowsPlant(t *testing.T) {
	ctx := context.Background()
	chain := memory.NewChain(contract.DefaultAddress)
	wallet := memory.NewWallet(chain, alice).Authorize()
	plant := newPlant(t, chain, wallet)

	for i := 0; i < 16; i++ {
		pending, err := plant.Water(ctx)
		require.NoError(t, err)
		receipt, err := pending.Wait(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	}

	count, err := plant.WaterCount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "16", count.String())

	stage, err := plant.StageOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(16/memory.DefaultWatersPerStage), stage, "stage is not clamped on-chain")
}

func TestChain_HoldAndRevert(t *testing.T) {
	ctx := context.Background()
	chain := memory.NewChain(contract.DefaultAddress)
	wallet := memory.NewWallet(chain, alice).Authorize()
	plant := newPlant(t, chain, wallet)

	chain.HoldReceipts(true)
	pending, err := plant.Water(ctx)
	require.NoError(t, err)
	_, err = chain.TransactionReceipt(ctx, pending.Hash())
	assert.ErrorIs(t, err, ethereum.NotFound)
	assert.Equal(t, 1, chain.Mine())
	_, err = chain.TransactionReceipt(ctx, pending.Hash())
	assert.NoError(t, err)

	chain.HoldReceipts(false)
	chain.Revert(true)
	pending, err = plant.Water(ctx)
	require.NoError(t, err)
	receipt, err := pending.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusFailed, receipt.Status)

	count, err := plant.WaterCount(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "1", count.String(), "reverted transactions leave the counter alone")
}

func TestChain_FailureInjection(t *testing.T) {
	ctx := context.Background()
	chain := memory.NewChain(contract.DefaultAddress)
	wallet := memory.NewWallet(chain, alice).Authorize()
	plant := newPlant(t, chain, wallet)

	chain.FailReads(errors.New("rpc timeout"))
	_, err := plant.WaterCount(ctx, alice)
	assert.ErrorContains(t, err, "rpc timeout")
	chain.FailReads(nil)

	chain.FailWrites(errors.New("nonce too low"))
	_, err = plant.Water(ctx)
	assert.ErrorContains(t, err, "nonce too low")
}

func TestChain_WrongAddressHasNoCode(t *testing.T) {
	chain := memory.NewChain(contract.DefaultAddress)
	wallet := memory.NewWallet(chain, alice).Authorize()
	signer, err := wallet.Signer(context.Background(), alice)
	require.NoError(t, err)

	plant, err := contract.Bind(common.HexToAddress("0xdead"), chain, signer)
	require.NoError(t, err)
	_, err = plant.StageOf(context.Background(), alice)
	assert.ErrorContains(t, err, "empty result")
}

func TestChain_PinnedValues(t *testing.T) {
	chain := memory.NewChain(contract.DefaultAddress)
	wallet := memory.NewWallet(chain, alice).Authorize()
	plant := newPlant(t, chain, wallet)

	big18, _ := new(big.Int).SetString("1000000000000000000", 10)
	chain.SetWaterCount(alice, big18)
	chain.SetStage(alice, 200)

	count, err := plant.WaterCount(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", count.String())
	stage, err := plant.StageOf(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), stage)
}

func TestWallet_Authorization(t *testing.T) {
	ctx := context.Background()
	chain := memory.NewChain(contract.DefaultAddress)
	wallet := memory.NewWallet(chain, alice)

	accounts, err := wallet.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts, "nothing is authorized before a request")

	_, err = wallet.Signer(ctx, alice)
	assert.ErrorIs(t, err, domain.ErrAuthorizationDenied)

	wallet.Reject(errors.New("user closed the prompt"))
	_, err = wallet.RequestAccounts(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthorizationDenied)

	wallet.Reject(nil)
	accounts, err = wallet.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{alice}, accounts)

	accounts, err = wallet.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{alice}, accounts)
	assert.Equal(t, 2, wallet.Requests())
	assert.Equal(t, 2, wallet.Listings())
}
