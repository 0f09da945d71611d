package ports

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet is the capability surface exposed by the host wallet.
type Wallet interface {
	// RequestAccounts asks the wallet for account access. It may prompt the user.
	// Returns domain.ErrAuthorizationDenied (wrapped) if the request is rejected.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// Accounts lists the accounts already authorized. It never prompts and
	// may return an empty list.
	Accounts(ctx context.Context) ([]common.Address, error)

	// Signer returns the signer for an authorized account.
	Signer(ctx context.Context, account common.Address) (Signer, error)
}

// Call is a contract invocation to be submitted as a transaction.
type Call struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// Signer submits transactions for a single account.
type Signer interface {
	// Address returns the account the signer acts for.
	Address() common.Address

	// SendTransaction signs (or has the wallet sign) and broadcasts the call.
	// It returns as soon as the transaction is accepted, not when it is mined.
	SendTransaction(ctx context.Context, call Call) (common.Hash, error)
}
