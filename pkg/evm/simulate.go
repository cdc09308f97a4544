package evm

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Simulate dry-runs the call against current chain state. A node-reported
// revert is a precondition failure (bad pool config, already-used salt,
// missing balance) and comes back as a *RevertError; anything else is a
// transport failure where the chain never evaluated the call, returned
// plain so the caller does not treat it as terminal.
func Simulate(ctx context.Context, backend Backend, call *CallDescription) error {
	_, err := backend.CallContract(ctx, call.Msg(), nil)
	if err == nil {
		return nil
	}
	if data, ok := errorData(err); ok {
		return &RevertError{Reason: unpackRevertReason(data), Err: err}
	}
	return fmt.Errorf("simulate call: %w", err)
}

// errorData pulls the revert payload off an RPC error. Only node-reported
// reverts carry the ErrorData method.
func errorData(err error) (interface{}, bool) {
	de, ok := err.(interface{ ErrorData() interface{} })
	if !ok {
		return nil, false
	}
	return de.ErrorData(), true
}

// unpackRevertReason extracts the ABI-encoded Error(string) reason, when the
// payload carries one. Custom errors yield an empty reason.
func unpackRevertReason(data interface{}) string {
	var raw []byte
	switch d := data.(type) {
	case string:
		b, err := hexutil.Decode(d)
		if err != nil {
			return ""
		}
		raw = b
	case []byte:
		raw = d
	default:
		return ""
	}

	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return ""
	}
	return reason
}
