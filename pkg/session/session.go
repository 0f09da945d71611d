package session

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/ports"
)

// Session binds the connected account to its signer and contract handle.
// It is immutable; re-connecting replaces it wholesale.
type Session struct {
	Account  common.Address
	Signer   ports.Signer
	Contract ports.PlantContract
}

// DisplayAccount returns the short form of the account.
func (s *Session) DisplayAccount() string {
	return domain.ShortAddress(s.Account)
}
