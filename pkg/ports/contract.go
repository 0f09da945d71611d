package ports

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PlantContract is the HydrationPlant surface the core depends on.
type PlantContract interface {
	// Water submits the mutating call. The returned PendingTx resolves once mined.
	Water(ctx context.Context) (PendingTx, error)

	// WaterCount returns the per-account counter (uint256).
	WaterCount(ctx context.Context, account common.Address) (*big.Int, error)

	// StageOf returns the raw growth stage code. It may exceed domain.MaxStage.
	StageOf(ctx context.Context, account common.Address) (uint64, error)
}

// PendingTx is a submitted transaction awaiting confirmation.
type PendingTx interface {
	Hash() common.Hash
	// Wait blocks until the receipt is available or ctx is done.
	Wait(ctx context.Context) (*types.Receipt, error)
}

// ContractBinder binds the contract to the signer of a new session.
type ContractBinder func(signer Signer) (PlantContract, error)
