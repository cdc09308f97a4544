package business

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"coinlaunch/internal/models"
	"coinlaunch/pkg/evm"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTrackerAddr = common.HexToAddress("0x7700000000000000000000000000000000000077")

func TestActivityTracker(t *testing.T) {
	t.Run("Disabled Tracker Is A Silent No Op", func(t *testing.T) {
		db := testDB(t)
		executor := &fakeExecutor{mode: evm.ModeDirect, hash: testTxHash}
		tracker := &ActivityTracker{DB: db, Executor: executor} // zero tracker address

		hash := tracker.RecordCreation(context.Background(), testCoinAddr, "ipfs://QmDemo")
		assert.Nil(t, hash)
		assert.Equal(t, 0, executor.calls)

		var count int64
		require.NoError(t, db.Model(&models.CoinStatRecord{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Successful Write Records An Audit Row", func(t *testing.T) {
		db := testDB(t)
		executor := &fakeExecutor{mode: evm.ModeDirect, hash: testTxHash}
		tracker := &ActivityTracker{
			DB:       db,
			Executor: executor,
			Tracker:  testTrackerAddr,
			Operator: testCreator,
		}

		hash := tracker.RecordFees(context.Background(), testCoinAddr, big.NewInt(100), big.NewInt(40))
		require.NotNil(t, hash)
		assert.Equal(t, testTxHash, *hash)

		var stat models.CoinStatRecord
		require.NoError(t, db.Where("coin_address = ?", testCoinAddr.Hex()).First(&stat).Error)
		assert.Equal(t, "fees", stat.Kind)
		assert.Equal(t, "100", stat.TradeFees)
		assert.Equal(t, "40", stat.CreatorFees)
		assert.Equal(t, testTxHash.Hex(), stat.TxHash)
	})

	t.Run("Submit Failure Never Propagates", func(t *testing.T) {
		db := testDB(t)
		executor := &fakeExecutor{mode: evm.ModeDirect, err: errors.New("rpc down")}
		tracker := &ActivityTracker{
			DB:       db,
			Executor: executor,
			Tracker:  testTrackerAddr,
			Operator: testCreator,
		}

		hash := tracker.UpdateMarketCap(context.Background(), testCoinAddr, big.NewInt(1_000_000))
		assert.Nil(t, hash)
		assert.Equal(t, 1, executor.calls)

		var count int64
		require.NoError(t, db.Model(&models.CoinStatRecord{}).Count(&count).Error)
		assert.Zero(t, count, "no audit row without a transaction hash")
	})
}
