package domain

import "errors"

// ErrNoWalletCapability is returned when the host exposes no wallet to talk to.
var ErrNoWalletCapability = errors.New("no wallet capability")

// ErrAuthorizationDenied is returned when the user or the wallet refuses account access.
var ErrAuthorizationDenied = errors.New("authorization denied")

// ErrReadFailure is returned when a contract read fails. The previous snapshot is kept.
var ErrReadFailure = errors.New("contract read failed")

// ErrTransactionFailure is returned when a transaction is rejected, reverted or never confirmed.
var ErrTransactionFailure = errors.New("transaction failed")

// ErrNeedsAuthentication tags an action attempted without a live session.
// The orchestrator answers it by connecting and retrying; callers rarely see it.
var ErrNeedsAuthentication = errors.New("needs authentication")

// ErrActionInProgress is returned when a mutating action is requested while another is in flight.
var ErrActionInProgress = errors.New("action already in progress")
