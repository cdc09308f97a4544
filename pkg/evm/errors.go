package evm

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmissionRejected means the signer (or the sponsorship service)
	// declined to sign/submit the transaction. Terminal for the attempt;
	// the ledger record stays pending so the caller can retry.
	ErrSubmissionRejected = errors.New("transaction submission rejected by signer")

	// ErrUndecodedReceipt means the transaction confirmed on-chain but none
	// of the known coin-creation event shapes matched its logs. This must
	// never be treated as success: state changed on-chain.
	ErrUndecodedReceipt = errors.New("no recognized coin creation event in receipt logs")
)

// RevertError wraps a simulation or on-chain revert with the reason string
// reported by the node, when available.
type RevertError struct {
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("execution reverted: %s", e.Reason)
	}
	return fmt.Sprintf("execution reverted: %v", e.Err)
}

func (e *RevertError) Unwrap() error {
	return e.Err
}
