package domain

import "github.com/ethereum/go-ethereum/common"

// ShortAddress renders an address as 0x1234...abcd, the form shown next to
// the connect button.
func ShortAddress(addr common.Address) string {
	hex := addr.Hex()
	return hex[:6] + "..." + hex[len(hex)-4:]
}
