// Package rpcwallet talks to an EIP-1193 style wallet over JSON-RPC
// (a browser bridge, Frame, a dev node with unlocked accounts).
package rpcwallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// UserRejectedCode is the EIP-1193 error code for a request the user refused.
const UserRejectedCode = 4001

// Wallet implements ports.Wallet on top of an rpc.Client.
type Wallet struct {
	client *rpc.Client
}

// New wraps an existing client.
func New(client *rpc.Client) *Wallet {
	return &Wallet{client: client}
}

// Dial connects to the wallet endpoint (http, ws or ipc).
func Dial(ctx context.Context, url string) (*Wallet, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet %s: %w", url, err)
	}
	return New(client), nil
}

// Close releases the underlying client.
func (w *Wallet) Close() {
	w.client.Close()
}

// RequestAccounts calls eth_requestAccounts.
func (w *Wallet) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := w.client.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		if isUserRejection(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthorizationDenied, err)
		}
		return nil, fmt.Errorf("eth_requestAccounts: %w", err)
	}
	return accounts, nil
}

// Accounts calls eth_accounts.
func (w *Wallet) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := w.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}
	return accounts, nil
}

// Signer returns a signer that delegates signing to the wallet via eth_sendTransaction.
func (w *Wallet) Signer(ctx context.Context, account common.Address) (ports.Signer, error) {
	return &Signer{client: w.client, account: account}, nil
}

// TxArgs is the eth_sendTransaction parameter object.
type TxArgs struct {
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Data  hexutil.Bytes   `json:"data"`
	Value *hexutil.Big    `json:"value,omitempty"`
}

// Signer submits transactions through the wallet, which signs them.
type Signer struct {
	client  *rpc.Client
	account common.Address
}

// Address returns the account the signer acts for.
func (s *Signer) Address() common.Address {
	return s.account
}

// SendTransaction calls eth_sendTransaction. The wallet may prompt for approval.
func (s *Signer) SendTransaction(ctx context.Context, call ports.Call) (common.Hash, error) {
	to := call.To
	args := TxArgs{
		From: s.account,
		To:   &to,
		Data: call.Data,
	}
	if call.Value != nil && call.Value.Sign() > 0 {
		args.Value = (*hexutil.Big)(new(big.Int).Set(call.Value))
	}

	var hash common.Hash
	if err := s.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		if isUserRejection(err) {
			return common.Hash{}, fmt.Errorf("user rejected transaction: %w", err)
		}
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}
	return hash, nil
}

func isUserRejection(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == UserRejectedCode
}
