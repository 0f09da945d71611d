package domain

import "math/big"

// MaxStage is the display ceiling for the growth stage.
// It is a local clamp, not a bound reported by the contract.
const MaxStage = 4

// Snapshot is the normalized view of the account's on-chain state.
type Snapshot struct {
	// WaterCount is the exact decimal rendering of the uint256 counter.
	WaterCount string `json:"water_count"`
	// Stage is the growth stage clamped to [0, MaxStage].
	Stage int `json:"stage"`
}

// ClampStage returns min(raw, MaxStage).
func ClampStage(raw uint64) int {
	if raw > MaxStage {
		return MaxStage
	}
	return int(raw)
}

// NewSnapshot normalizes raw contract values into a Snapshot.
// A nil count is treated as zero.
func NewSnapshot(count *big.Int, stage uint64) Snapshot {
	text := "0"
	if count != nil {
		text = count.String()
	}
	return Snapshot{
		WaterCount: text,
		Stage:      ClampStage(stage),
	}
}

// Bloomed reports whether the plant reached the display ceiling.
func (s Snapshot) Bloomed() bool {
	return s.Stage >= MaxStage
}
