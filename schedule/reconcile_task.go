package schedule

import (
	"context"
	"time"

	"coinlaunch/internal/handlers/business"
	"coinlaunch/internal/models"
	dbconfig "coinlaunch/pkg/config"

	logger "github.com/sirupsen/logrus"
)

const reconcileTimeout = 2 * time.Minute

// ReconcilePendingCoins sweeps pending coin records that already have a
// transaction hash and re-runs the receipt decode for each. The ledger is
// eventually consistent with the chain; this task is the backstop that closes
// the gap after crashes and decode failures.
func ReconcilePendingCoins() error {
	logger.Info("> starting pending coin reconciliation sweep")

	var records []models.CoinRecord
	if err := dbconfig.DB.
		Where("status = ? AND tx_hash <> ''", models.CoinStatusPending).
		Find(&records).Error; err != nil {
		logger.Errorf("> failed to query pending coins: %v", err)
		return err
	}

	if len(records) == 0 {
		logger.Info("> no pending coins to reconcile")
		return nil
	}
	logger.Infof("> found %d pending coins with known tx hashes", len(records))

	cfg, err := dbconfig.LoadChainConfig()
	if err != nil {
		logger.Errorf("> failed to load chain config: %v", err)
		return err
	}
	pipeline, err := business.NewDeployPipeline(cfg, dbconfig.DB)
	if err != nil {
		logger.Errorf("> failed to build pipeline: %v", err)
		return err
	}

	for i := range records {
		record := &records[i]
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		if err := pipeline.ReconcileFromHash(ctx, record); err != nil {
			logger.Warnf("> reconciliation of coin %d (%s) still unresolved: %v", record.ID, record.TxHash, err)
		} else if record.Status == models.CoinStatusActive {
			logger.Infof("> coin %d reconciled to active at %s", record.ID, record.Address)
		}
		cancel()
	}

	return nil
}

// ReconcileOne handles a single queued reconcile request from the worker.
func ReconcileOne(coinID uint) error {
	var record models.CoinRecord
	if err := dbconfig.DB.First(&record, coinID).Error; err != nil {
		return err
	}

	cfg, err := dbconfig.LoadChainConfig()
	if err != nil {
		return err
	}
	pipeline, err := business.NewDeployPipeline(cfg, dbconfig.DB)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()
	return pipeline.ReconcileFromHash(ctx, &record)
}
