package business

import (
	"context"
	"math/big"
	"time"

	"coinlaunch/internal/models"
	"coinlaunch/pkg/evm"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// ActivityTracker pushes fee/market-cap telemetry to the on-chain activity
// contract. Every write is best-effort: an unconfigured tracker address
// makes each call a deliberate no-op that logs a warning and returns nil,
// because telemetry must never block creation or trading.
type ActivityTracker struct {
	DB       *gorm.DB
	Executor evm.Executor
	Tracker  common.Address
	Operator common.Address
}

func (t *ActivityTracker) enabled() bool {
	if t.Tracker == (common.Address{}) {
		logrus.Warn("activity tracker address not configured, skipping telemetry write")
		return false
	}
	return true
}

// submit sends the telemetry call and records the off-chain audit row.
// Errors are logged, never propagated.
func (t *ActivityTracker) submit(ctx context.Context, call *evm.CallDescription, buildErr error, stat models.CoinStatRecord) *common.Hash {
	if buildErr != nil {
		logrus.Warnf("build activity call: %v", buildErr)
		return nil
	}

	hash, err := t.Executor.Submit(ctx, call)
	if err != nil {
		logrus.Warnf("activity tracker write failed: %v", err)
		return nil
	}

	stat.TxHash = hash.Hex()
	if t.DB != nil {
		if err := t.DB.Create(&stat).Error; err != nil {
			logrus.Warnf("failed to record coin stat: %v", err)
		}
	}
	return &hash
}

// RecordCreation registers a freshly deployed coin with the tracker.
func (t *ActivityTracker) RecordCreation(ctx context.Context, coin common.Address, uri string) *common.Hash {
	if !t.enabled() {
		return nil
	}
	call, err := evm.BuildRecordCreationCall(t.Tracker, t.Operator, coin, uri)
	return t.submit(ctx, call, err, models.CoinStatRecord{
		CoinAddress: coin.Hex(),
		Kind:        "creation",
	})
}

// RecordFees persists accrued trade/creator fees on-chain.
func (t *ActivityTracker) RecordFees(ctx context.Context, coin common.Address, tradeFees, creatorFees *big.Int) *common.Hash {
	if !t.enabled() {
		return nil
	}
	call, err := evm.BuildRecordFeesCall(t.Tracker, t.Operator, coin, tradeFees, creatorFees)
	return t.submit(ctx, call, err, models.CoinStatRecord{
		CoinAddress: coin.Hex(),
		Kind:        "fees",
		TradeFees:   tradeFees.String(),
		CreatorFees: creatorFees.String(),
	})
}

// UpdateMarketCap pushes the latest market cap reading.
func (t *ActivityTracker) UpdateMarketCap(ctx context.Context, coin common.Address, marketCap *big.Int) *common.Hash {
	if !t.enabled() {
		return nil
	}
	call, err := evm.BuildUpdateMarketCapCall(t.Tracker, t.Operator, coin, marketCap)
	return t.submit(ctx, call, err, models.CoinStatRecord{
		CoinAddress: coin.Hex(),
		Kind:        "market_cap",
		MarketCap:   marketCap.String(),
	})
}

// RecordTrade persists a generic trading activity entry.
func (t *ActivityTracker) RecordTrade(ctx context.Context, coin, trader common.Address, amount *big.Int, side string) *common.Hash {
	if !t.enabled() {
		return nil
	}
	call, err := evm.BuildRecordTradeCall(t.Tracker, t.Operator, coin, trader, amount, side)
	return t.submit(ctx, call, err, models.CoinStatRecord{
		CoinAddress: coin.Hex(),
		Kind:        "trade",
	})
}
