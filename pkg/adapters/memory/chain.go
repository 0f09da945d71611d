package memory

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aretw0/hydroplant/pkg/contract"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// DefaultWatersPerStage is how many waterings the simulated plant needs per stage.
const DefaultWatersPerStage = 3

// Chain simulates a HydrationPlant deployment.
// It implements contract.Backend and decodes real ABI calldata, so the
// production binding runs against it unchanged.
// Safe for concurrent use.
type Chain struct {
	address        common.Address
	abi            abi.ABI
	watersPerStage uint64

	mu       sync.Mutex
	counts   map[common.Address]*big.Int
	stages   map[common.Address]uint64
	receipts map[common.Hash]*types.Receipt
	pending  []*types.Receipt
	nonce    uint64
	calls    int

	readErr  error
	writeErr error
	revert   bool
	hold     bool
}

// NewChain creates a simulated chain with the plant deployed at address.
func NewChain(address common.Address) *Chain {
	return &Chain{
		address:        address,
		abi:            contract.ABI(),
		watersPerStage: DefaultWatersPerStage,
		counts:         make(map[common.Address]*big.Int),
		stages:         make(map[common.Address]uint64),
		receipts:       make(map[common.Hash]*types.Receipt),
	}
}

// Address returns where the plant is deployed.
func (c *Chain) Address() common.Address {
	return c.address
}

// SetWaterCount overrides the counter of account.
func (c *Chain) SetWaterCount(account common.Address, count *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[account] = new(big.Int).Set(count)
}

// SetStage pins the raw stage of account, overriding the derived one.
func (c *Chain) SetStage(account common.Address, stage uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stages[account] = stage
}

// FailReads makes every eth_call fail with err (nil restores reads).
func (c *Chain) FailReads(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

// FailWrites makes every submission fail with err (nil restores writes).
func (c *Chain) FailWrites(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

// Revert makes mined transactions revert.
func (c *Chain) Revert(revert bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revert = revert
}

// HoldReceipts keeps new transactions unmined until Mine is called.
func (c *Chain) HoldReceipts(hold bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hold = hold
}

// Mine publishes the receipts of held transactions.
func (c *Chain) Mine() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.pending)
	for _, r := range c.pending {
		c.receipts[r.TxHash] = r
	}
	c.pending = nil
	return n
}

// Calls returns how many eth_call requests were served.
func (c *Chain) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// CallContract serves getWaterCount and stageOf.
func (c *Chain) CallContract(ctx context.Context, msg ethereum.CallMsg, block *big.Int) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	if c.readErr != nil {
		return nil, c.readErr
	}
	if msg.To == nil || *msg.To != c.address {
		// No code at that address: eth_call returns empty data.
		return nil, nil
	}
	method, args, err := c.decode(msg.Data)
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case contract.MethodWaterCount:
		return method.Outputs.Pack(c.countOf(args[0].(common.Address)))
	case contract.MethodStageOf:
		stage := c.stageOf(args[0].(common.Address))
		if stage > 255 {
			stage = 255
		}
		return method.Outputs.Pack(uint8(stage))
	default:
		return nil, fmt.Errorf("memory: %s is not a view method", method.Name)
	}
}

// TransactionReceipt returns ethereum.NotFound until the transaction is mined.
func (c *Chain) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	cp := *r
	return &cp, nil
}

// Submit executes a call from the given account and records its receipt.
func (c *Chain) Submit(from common.Address, call ports.Call) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeErr != nil {
		return common.Hash{}, c.writeErr
	}
	if call.To != c.address {
		return common.Hash{}, fmt.Errorf("memory: no contract at %s", call.To.Hex())
	}
	method, _, err := c.decode(call.Data)
	if err != nil {
		return common.Hash{}, err
	}
	if method.Name != contract.MethodWater {
		return common.Hash{}, fmt.Errorf("memory: %s is not a mutating method", method.Name)
	}

	c.nonce++
	hash := crypto.Keccak256Hash(from.Bytes(), new(big.Int).SetUint64(c.nonce).Bytes())
	receipt := &types.Receipt{
		TxHash:      hash,
		BlockNumber: new(big.Int).SetUint64(c.nonce),
		Status:      types.ReceiptStatusSuccessful,
	}
	if c.revert {
		receipt.Status = types.ReceiptStatusFailed
	} else {
		c.counts[from] = new(big.Int).Add(c.countOf(from), big.NewInt(1))
	}

	if c.hold {
		c.pending = append(c.pending, receipt)
	} else {
		c.receipts[hash] = receipt
	}
	return hash, nil
}

func (c *Chain) decode(data []byte) (*abi.Method, []interface{}, error) {
	if len(data) < 4 {
		return nil, nil, errors.New("memory: calldata too short")
	}
	method, err := c.abi.MethodById(data[:4])
	if err != nil {
		return nil, nil, fmt.Errorf("memory: %w", err)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return nil, nil, fmt.Errorf("memory: decode %s: %w", method.Name, err)
	}
	return method, args, nil
}

func (c *Chain) countOf(account common.Address) *big.Int {
	if n, ok := c.counts[account]; ok {
		return n
	}
	return new(big.Int)
}

// stageOf derives the stage from the counter unless pinned. It is not
// clamped: the simulated contract grows past the display ceiling.
func (c *Chain) stageOf(account common.Address) uint64 {
	if s, ok := c.stages[account]; ok {
		return s
	}
	n := c.countOf(account)
	return new(big.Int).Div(n, new(big.Int).SetUint64(c.watersPerStage)).Uint64()
}
