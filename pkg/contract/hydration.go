// Package contract binds the HydrationPlant contract to a chain backend and a signer.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/aretw0/hydroplant/pkg/ports"
)

// DefaultPollInterval is how often receipts are polled while waiting for a transaction.
const DefaultPollInterval = time.Second

// Backend is the read side of the chain: eth_call and receipts.
// *ethclient.Client satisfies it.
type Backend interface {
	ethereum.ContractCaller
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// HydrationPlant implements ports.PlantContract.
type HydrationPlant struct {
	address      common.Address
	abi          abi.ABI
	backend      Backend
	signer       ports.Signer
	pollInterval time.Duration
}

// Option configures the binding.
type Option func(*HydrationPlant)

// WithPollInterval sets the receipt polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(h *HydrationPlant) {
		if d > 0 {
			h.pollInterval = d
		}
	}
}

// Bind creates a HydrationPlant binding at address.
func Bind(address common.Address, backend Backend, signer ports.Signer, opts ...Option) (*HydrationPlant, error) {
	if backend == nil {
		return nil, errors.New("contract: nil backend")
	}
	if signer == nil {
		return nil, errors.New("contract: nil signer")
	}
	h := &HydrationPlant{
		address:      address,
		abi:          ABI(),
		backend:      backend,
		signer:       signer,
		pollInterval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Binder returns a ports.ContractBinder for address on backend.
func Binder(address common.Address, backend Backend, opts ...Option) ports.ContractBinder {
	return func(signer ports.Signer) (ports.PlantContract, error) {
		return Bind(address, backend, signer, opts...)
	}
}

// Address returns the contract address.
func (h *HydrationPlant) Address() common.Address {
	return h.address
}

// Water submits water().
func (h *HydrationPlant) Water(ctx context.Context) (ports.PendingTx, error) {
	data, err := h.abi.Pack(MethodWater)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", MethodWater, err)
	}
	hash, err := h.signer.SendTransaction(ctx, ports.Call{To: h.address, Data: data})
	if err != nil {
		return nil, err
	}
	return &pendingTx{hash: hash, backend: h.backend, interval: h.pollInterval}, nil
}

// WaterCount calls getWaterCount(account).
func (h *HydrationPlant) WaterCount(ctx context.Context, account common.Address) (*big.Int, error) {
	out, err := h.call(ctx, MethodWaterCount, account)
	if err != nil {
		return nil, err
	}
	count, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected result type %T", MethodWaterCount, out[0])
	}
	return count, nil
}

// StageOf calls stageOf(account).
func (h *HydrationPlant) StageOf(ctx context.Context, account common.Address) (uint64, error) {
	out, err := h.call(ctx, MethodStageOf, account)
	if err != nil {
		return 0, err
	}
	stage, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("%s: unexpected result type %T", MethodStageOf, out[0])
	}
	return uint64(stage), nil
}

func (h *HydrationPlant) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := h.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{From: h.signer.Address(), To: &h.address, Data: data}
	raw, err := h.backend.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("call %s: empty result (no contract at %s?)", method, h.address.Hex())
	}
	out, err := h.abi.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("unpack %s: expected 1 value, got %d", method, len(out))
	}
	return out, nil
}

type pendingTx struct {
	hash     common.Hash
	backend  Backend
	interval time.Duration
}

func (p *pendingTx) Hash() common.Hash {
	return p.hash
}

// Wait polls for the receipt until it is mined. There is no deadline besides ctx.
func (p *pendingTx) Wait(ctx context.Context) (*types.Receipt, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		receipt, err := p.backend.TransactionReceipt(ctx, p.hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("receipt %s: %w", p.hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
