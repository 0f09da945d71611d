package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// Wallet implements ports.Wallet over a simulated Chain.
// Safe for concurrent use.
type Wallet struct {
	chain *Chain

	mu         sync.Mutex
	accounts   []common.Address
	authorized bool
	rejectErr  error
	requests   int
	listings   int
}

// NewWallet creates a wallet holding accounts. Nothing is authorized until
// RequestAccounts succeeds or Authorize is called.
func NewWallet(chain *Chain, accounts ...common.Address) *Wallet {
	return &Wallet{
		chain:    chain,
		accounts: append([]common.Address(nil), accounts...),
	}
}

// Authorize marks the accounts as already granted, as if approved in an earlier session.
func (w *Wallet) Authorize() *Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.authorized = true
	return w
}

// Reject makes RequestAccounts fail with err (nil accepts again).
func (w *Wallet) Reject(err error) *Wallet {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rejectErr = err
	return w
}

// Requests returns how many times RequestAccounts was called.
func (w *Wallet) Requests() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.requests
}

// Listings returns how many times Accounts was called.
func (w *Wallet) Listings() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.listings
}

// RequestAccounts grants access to every held account.
func (w *Wallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.requests++

	if w.rejectErr != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthorizationDenied, w.rejectErr)
	}
	w.authorized = true
	return append([]common.Address(nil), w.accounts...), nil
}

// Accounts lists granted accounts without prompting.
func (w *Wallet) Accounts(ctx context.Context) ([]common.Address, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listings++

	if !w.authorized {
		return nil, nil
	}
	return append([]common.Address(nil), w.accounts...), nil
}

// Signer returns a signer submitting straight to the chain.
func (w *Wallet) Signer(ctx context.Context, account common.Address) (ports.Signer, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.authorized {
		return nil, fmt.Errorf("%w: %s not authorized", domain.ErrAuthorizationDenied, account.Hex())
	}
	for _, a := range w.accounts {
		if a == account {
			return &signer{chain: w.chain, account: account}, nil
		}
	}
	return nil, fmt.Errorf("memory: unknown account %s", account.Hex())
}

type signer struct {
	chain   *Chain
	account common.Address
}

func (s *signer) Address() common.Address {
	return s.account
}

func (s *signer) SendTransaction(ctx context.Context, call ports.Call) (common.Hash, error) {
	return s.chain.Submit(s.account, call)
}
