package evm

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Backend is the read surface of the chain the pipeline needs: dry-run calls,
// receipt lookup and header lookup for block timestamps. *ethclient.Client
// satisfies it.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

const receiptPollInterval = 2 * time.Second

// WaitMined polls for the receipt of txHash until it is available or ctx
// expires. An in-flight transaction cannot be cancelled, only waited on.
func WaitMined(ctx context.Context, backend Backend, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// BlockTimestamp returns the timestamp of the block that included the
// receipt. Ledger timestamps are chain-sourced, never wall-clock.
func BlockTimestamp(ctx context.Context, backend Backend, receipt *types.Receipt) (time.Time, error) {
	header, err := backend.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}
