package evm

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
)

// Activity-tracker call codecs. All writes through these are best-effort
// telemetry; the tracker address may be left unconfigured entirely.
var (
	funcRecordCreation  = w3.MustNewFunc("recordCoinCreation(address coin, string uri)", "")
	funcRecordFees      = w3.MustNewFunc("recordFees(address coin, uint256 tradeFees, uint256 creatorFees)", "")
	funcUpdateMarketCap = w3.MustNewFunc("updateMarketCap(address coin, uint256 marketCap)", "")
	funcRecordTrade     = w3.MustNewFunc("recordTrade(address coin, address trader, uint256 amount, string side)", "")
)

func BuildRecordCreationCall(tracker, caller, coin common.Address, uri string) (*CallDescription, error) {
	data, err := funcRecordCreation.EncodeArgs(coin, uri)
	if err != nil {
		return nil, fmt.Errorf("encode recordCoinCreation: %w", err)
	}
	return &CallDescription{From: caller, To: tracker, Data: data}, nil
}

func BuildRecordFeesCall(tracker, caller, coin common.Address, tradeFees, creatorFees *big.Int) (*CallDescription, error) {
	data, err := funcRecordFees.EncodeArgs(coin, tradeFees, creatorFees)
	if err != nil {
		return nil, fmt.Errorf("encode recordFees: %w", err)
	}
	return &CallDescription{From: caller, To: tracker, Data: data}, nil
}

func BuildUpdateMarketCapCall(tracker, caller, coin common.Address, marketCap *big.Int) (*CallDescription, error) {
	data, err := funcUpdateMarketCap.EncodeArgs(coin, marketCap)
	if err != nil {
		return nil, fmt.Errorf("encode updateMarketCap: %w", err)
	}
	return &CallDescription{From: caller, To: tracker, Data: data}, nil
}

func BuildRecordTradeCall(tracker, caller, coin, trader common.Address, amount *big.Int, side string) (*CallDescription, error) {
	data, err := funcRecordTrade.EncodeArgs(coin, trader, amount, side)
	if err != nil {
		return nil, fmt.Errorf("encode recordTrade: %w", err)
	}
	return &CallDescription{From: caller, To: tracker, Data: data}, nil
}
