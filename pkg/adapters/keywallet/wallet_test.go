package keywallet_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hydroplant/pkg/adapters/keywallet"
	"github.com/aretw0/hydroplant/pkg/contract"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

type fakeNode struct {
	chainID  *big.Int
	nonce    uint64
	sent     []*types.Transaction
	estimate ethereum.CallMsg
	sendErr  error
	chainIDs int
}

func (n *fakeNode) ChainID(ctx context.Context) (*big.Int, error) {
	n.chainIDs++
	return n.chainID, nil
}

func (n *fakeNode) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return n.nonce, nil
}

func (n *fakeNode) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (n *fakeNode) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	n.estimate = call
	return 45_000, nil
}

func (n *fakeNode) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, tx)
	n.nonce++
	return nil
}

func TestWallet_SignsForChain(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	node := &fakeNode{chainID: big.NewInt(31337), nonce: 7}
	w := keywallet.New(key, node)
	ctx := context.Background()

	signer, err := w.Signer(ctx, w.Address())
	require.NoError(t, err)

	data := contract.ABI().Methods[contract.MethodWater].ID
	for i := 0; i < 2; i++ {
		_, err := signer.SendTransaction(ctx, ports.Call{To: contract.DefaultAddress, Data: data})
		require.NoError(t, err)
	}
	require.Len(t, node.sent, 2)
	assert.Equal(t, 1, node.chainIDs, "chain id is fetched once")

	tx := node.sent[0]
	from, err := types.Sender(types.LatestSignerForChainID(node.chainID), tx)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), from)
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(45_000), tx.Gas())
	assert.Equal(t, contract.DefaultAddress, *tx.To())
	assert.Equal(t, data, tx.Data())
	assert.Equal(t, uint64(8), node.sent[1].Nonce())
	assert.Equal(t, w.Address(), node.estimate.From)
}

func TestWallet_Authorization(t *testing.T) {
	key, _ := crypto.GenerateKey()
	ctx := context.Background()

	denied := keywallet.New(key, &fakeNode{}, keywallet.WithApproval(func(ctx context.Context, a common.Address) error {
		return errors.New("declined at the prompt")
	}))
	_, err := denied.RequestAccounts(ctx)
	assert.ErrorIs(t, err, domain.ErrAuthorizationDenied)
	accounts, err := denied.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	w := keywallet.New(key, &fakeNode{})
	accounts, err = w.RequestAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{w.Address()}, accounts)
	accounts, err = w.Accounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []common.Address{w.Address()}, accounts)

	pre := keywallet.New(key, &fakeNode{}, keywallet.WithPreauthorized())
	accounts, err = pre.Accounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestWallet_Errors(t *testing.T) {
	_, err := keywallet.FromHex("not-a-key", &fakeNode{})
	assert.Error(t, err)

	key, _ := crypto.GenerateKey()
	node := &fakeNode{sendErr: errors.New("nonce too low")}
	w := keywallet.New(key, node, keywallet.WithChainID(big.NewInt(1)))

	_, err = w.Signer(context.Background(), common.HexToAddress("0x01"))
	assert.Error(t, err)

	signer, err := w.Signer(context.Background(), w.Address())
	require.NoError(t, err)
	_, err = signer.SendTransaction(context.Background(), ports.Call{To: contract.DefaultAddress})
	assert.ErrorContains(t, err, "nonce too low")
	assert.Equal(t, 0, node.chainIDs)
}

func TestFromHex(t *testing.T) {
	// Well-known dev key (anvil/hardhat account #0).
	w, err := keywallet.FromHex("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80", &fakeNode{})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), w.Address())
}
