package domain

import (
	"errors"
	"fmt"
)

// LedgerError wraps any failure talking to the chain RPC. It is transient
// from the caller's point of view.
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Burn verification outcomes that are not RPC failures.
var (
	// ErrBurnTxNotFound means the chain does not (yet) know the signature.
	ErrBurnTxNotFound = errors.New("burn transaction not found")
	// ErrBurnMismatch means the transaction exists but is not the expected burn.
	ErrBurnMismatch = errors.New("transaction does not burn the expected amount")
)
