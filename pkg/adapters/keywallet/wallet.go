// Package keywallet is a local private-key wallet for development chains.
// It signs transactions itself and broadcasts them through a node.
package keywallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// Backend is the node surface needed to build and broadcast transactions.
// *ethclient.Client satisfies it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Approval is consulted by RequestAccounts; returning an error denies access.
type Approval func(ctx context.Context, account common.Address) error

// Wallet holds one key.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
	backend Backend
	chainID *big.Int
	approve Approval

	mu         sync.Mutex
	authorized bool
}

// Option configures the Wallet.
type Option func(*Wallet)

// WithApproval installs the prompt run on explicit connect.
func WithApproval(fn Approval) Option {
	return func(w *Wallet) {
		w.approve = fn
	}
}

// WithPreauthorized makes the account visible to Accounts without a request.
func WithPreauthorized() Option {
	return func(w *Wallet) {
		w.authorized = true
	}
}

// WithChainID pins the chain ID instead of asking the node.
func WithChainID(id *big.Int) Option {
	return func(w *Wallet) {
		w.chainID = id
	}
}

// New creates a wallet for key.
func New(key *ecdsa.PrivateKey, backend Backend, opts ...Option) *Wallet {
	w := &Wallet{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		backend: backend,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FromHex parses a hex private key (with or without 0x).
func FromHex(hexkey string, backend Backend, opts ...Option) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexkey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return New(key, backend, opts...), nil
}

// Address returns the wallet account.
func (w *Wallet) Address() common.Address {
	return w.address
}

// RequestAccounts runs the approval prompt, if any, and grants the account.
func (w *Wallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if w.approve != nil {
		if err := w.approve(ctx, w.address); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthorizationDenied, err)
		}
	}
	w.mu.Lock()
	w.authorized = true
	w.mu.Unlock()
	return []common.Address{w.address}, nil
}

// Accounts returns the account once authorized.
func (w *Wallet) Accounts(ctx context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authorized {
		return nil, nil
	}
	return []common.Address{w.address}, nil
}

// Signer returns the key's signer.
func (w *Wallet) Signer(ctx context.Context, account common.Address) (ports.Signer, error) {
	if account != w.address {
		return nil, fmt.Errorf("keywallet: account %s not held", account.Hex())
	}
	return &signer{wallet: w}, nil
}

func (w *Wallet) chain(ctx context.Context) (*big.Int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.chainID != nil {
		return w.chainID, nil
	}
	id, err := w.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	w.chainID = id
	return id, nil
}

type signer struct {
	wallet *Wallet
}

func (s *signer) Address() common.Address {
	return s.wallet.address
}

// SendTransaction builds, signs and broadcasts a legacy transaction.
func (s *signer) SendTransaction(ctx context.Context, call ports.Call) (common.Hash, error) {
	w := s.wallet
	if w.backend == nil {
		return common.Hash{}, errors.New("keywallet: no backend")
	}

	chainID, err := w.chain(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	nonce, err := w.backend.PendingNonceAt(ctx, w.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("nonce: %w", err)
	}
	gasPrice, err := w.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("gas price: %w", err)
	}
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}
	to := call.To
	gas, err := w.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  w.address,
		To:    &to,
		Value: value,
		Data:  call.Data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     call.Data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign: %w", err)
	}
	if err := w.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("broadcast: %w", err)
	}
	return signed.Hash(), nil
}
