package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultAddress is the deployed HydrationPlant contract.
var DefaultAddress = common.HexToAddress("0x1C7faa92C11b6187eca199F57380A402a1e65814")

// HydrationPlantABI is the minimal ABI of the HydrationPlant contract.
const HydrationPlantABI = `[
	{
		"inputs": [],
		"name": "water",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "address", "name": "user", "type": "address"}],
		"name": "getWaterCount",
		"outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "address", "name": "user", "type": "address"}],
		"name": "stageOf",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	}
]`

// Method names.
const (
	MethodWater      = "water"
	MethodWaterCount = "getWaterCount"
	MethodStageOf    = "stageOf"
)

var parsedABI = mustParse(HydrationPlantABI)

// ABI returns the parsed HydrationPlant ABI.
func ABI() abi.ABI {
	return parsedABI
}

func mustParse(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("contract: invalid HydrationPlant ABI: " + err.Error())
	}
	return parsed
}
