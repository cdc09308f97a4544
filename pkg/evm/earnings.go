package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
)

var funcAccruedEarnings = w3.MustNewFunc("accruedEarnings(address account)", "uint256")

// AccruedEarnings reads the creator's claimable earnings from the coin
// contract. Withdrawal amounts come from this read, never from user input.
func AccruedEarnings(ctx context.Context, backend Backend, coin, account common.Address) (*big.Int, error) {
	data, err := funcAccruedEarnings.EncodeArgs(account)
	if err != nil {
		return nil, fmt.Errorf("encode accruedEarnings: %w", err)
	}

	out, err := backend.CallContract(ctx, ethereum.CallMsg{To: &coin, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("read accrued earnings: %w", err)
	}

	amount := new(big.Int)
	if err := funcAccruedEarnings.DecodeReturns(out, &amount); err != nil {
		return nil, fmt.Errorf("decode accruedEarnings return: %w", err)
	}
	return amount, nil
}
