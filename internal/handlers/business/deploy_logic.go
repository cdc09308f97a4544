package business

import (
	"context"
	"errors"
	"fmt"

	"coinlaunch/internal/models"
	dbconfig "coinlaunch/pkg/config"
	"coinlaunch/pkg/evm"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DeployPipeline orchestrates one coin deployment end to end: ledger row
// before submission, simulation gate, dual-path execution, receipt decode,
// ledger reconciliation. One run per caller action, awaited end to end.
type DeployPipeline struct {
	DB        *gorm.DB
	Backend   evm.Backend
	Executors map[evm.ExecutionMode]evm.Executor
	Cfg       dbconfig.ChainConfig
	Tracker   *ActivityTracker
}

// DeployInput is the validated request for one deployment attempt.
type DeployInput struct {
	Creator          common.Address
	Name             string
	Symbol           string
	MetadataURI      string
	Metadata         models.JSONB
	PlatformReferrer common.Address
	PoolCurrency     common.Address
	Mode             evm.ExecutionMode
}

// DeployOutcome reports what happened, including whether gas was spent
// (TxHash set) independent of whether the ledger update succeeded.
type DeployOutcome struct {
	Record  *models.CoinRecord
	Receipt *evm.ExecutionReceipt
}

// Deploy runs the full creation pipeline. The CoinRecord row exists in
// pending state before the transaction is submitted, and only a successful
// receipt decode moves it to active.
func (p *DeployPipeline) Deploy(ctx context.Context, in DeployInput) (*DeployOutcome, error) {
	executor, ok := p.Executors[in.Mode]
	if !ok {
		return nil, preconditionf("unsupported execution mode %q", in.Mode)
	}

	referrer := in.PlatformReferrer
	if referrer == (common.Address{}) {
		referrer = p.Cfg.PlatformReferrer
	}

	req := evm.DeploymentRequest{
		Creator:          in.Creator,
		Name:             in.Name,
		Symbol:           in.Symbol,
		MetadataURI:      in.MetadataURI,
		PlatformReferrer: referrer,
		PoolCurrency:     in.PoolCurrency,
		Mode:             in.Mode,
	}

	call, salt, err := evm.BuildDeployCall(p.Cfg.FactoryAddress, p.Cfg.ChainID, req)
	if err != nil {
		return nil, fmt.Errorf("build deploy call: %w", err)
	}

	// A custom paired currency is a token the creator must hold; fail fast
	// before any gas is risked.
	if in.PoolCurrency != (common.Address{}) {
		balance, err := evm.PairedCurrencyBalance(ctx, p.Backend, in.PoolCurrency, in.Creator)
		if err != nil {
			return nil, fmt.Errorf("check paired currency balance: %w", err)
		}
		if balance.Sign() == 0 {
			return nil, preconditionf(
				"creator holds no balance of paired currency %s; acquire the token before deploying with it",
				in.PoolCurrency.Hex(),
			)
		}
	}

	record, err := p.findOrCreateRecord(in, salt)
	if err != nil {
		return nil, err
	}
	// The salt is deterministic: a retried request maps onto the existing
	// row, and an already-active row is simply returned.
	if record.Status == models.CoinStatusActive {
		logrus.Infof("coin %s already active at %s, skipping redeploy", record.Symbol, record.Address)
		return &DeployOutcome{Record: record}, nil
	}

	// A pending row that already carries a hash means an earlier attempt was
	// submitted and the salt may be consumed on-chain. Settle that attempt
	// from its receipt; resimulating against a consumed salt would revert
	// and wrongly strand a live coin as failed.
	if record.Status == models.CoinStatusPending && record.TxHash != "" {
		outcome, err := p.reconcileFromHash(ctx, record)
		if err != nil {
			return outcome, err
		}
		if record.Status == models.CoinStatusActive {
			p.afterActivation(ctx, record, in.MetadataURI)
			return outcome, nil
		}
		return outcome, fmt.Errorf("%w: %s", ErrAttemptInFlight, record.TxHash)
	}

	// A failed attempt never consumed the salt (simulation revert, or an
	// on-chain revert settled above on a previous retry). Return the row to
	// pending before a fresh submission.
	if record.Status == models.CoinStatusFailed {
		record.Status = models.CoinStatusPending
		record.FailureReason = ""
		record.TxHash = ""
		if err := p.DB.Save(record).Error; err != nil {
			return nil, fmt.Errorf("reset failed coin record %d: %w", record.ID, err)
		}
	}

	if err := evm.Simulate(ctx, p.Backend, call); err != nil {
		var revert *evm.RevertError
		if errors.As(err, &revert) {
			// Precondition revert: terminal for this attempt. A transport
			// failure instead leaves the row pending for retry.
			p.markFailed(record, revert.Error())
		}
		return &DeployOutcome{Record: record}, fmt.Errorf("deployment simulation: %w", err)
	}

	txHash, err := executor.Submit(ctx, call)
	if err != nil {
		// Signer rejection and transport errors leave the row pending: the
		// creator may retry, and the deterministic salt makes that safe.
		return &DeployOutcome{Record: record}, fmt.Errorf("submit deployment: %w", err)
	}

	// Retain the hash before anything else can fail, so reconciliation can
	// always be re-run from it.
	record.TxHash = txHash.Hex()
	if err := p.DB.Save(record).Error; err != nil {
		logrus.Errorf("failed to persist tx hash %s for coin record %d: %v", txHash.Hex(), record.ID, err)
	}

	receipt, err := evm.WaitMined(ctx, p.Backend, txHash)
	if err != nil {
		return &DeployOutcome{Record: record}, fmt.Errorf("wait for confirmation: %w", err)
	}

	outcome, err := p.settleReceipt(ctx, record, receipt)
	if err != nil {
		return outcome, err
	}

	p.afterActivation(ctx, record, in.MetadataURI)
	return outcome, nil
}

// settleReceipt applies a confirmed receipt to the ledger row. Shared with
// reconciliation so a crash after submission can be recovered from the hash.
func (p *DeployPipeline) settleReceipt(ctx context.Context, record *models.CoinRecord, receipt *types.Receipt) (*DeployOutcome, error) {
	outcome := &DeployOutcome{Record: record}

	if receipt.Status == types.ReceiptStatusFailed {
		p.markFailed(record, "transaction reverted on-chain")
		return outcome, &evm.RevertError{Reason: "transaction reverted on-chain"}
	}

	coin, schema, err := evm.DecodeCoinCreation(receipt)
	if err != nil {
		// On-chain state changed but we cannot identify the coin. This is
		// never mapped to failed (or active): the row stays pending and is
		// flagged for reconciliation.
		record.NeedsReconciliation = true
		if saveErr := p.DB.Save(record).Error; saveErr != nil {
			logrus.Errorf("failed to flag coin record %d for reconciliation: %v", record.ID, saveErr)
		}
		PublishReconcileRequest(record.ID, record.TxHash)
		return outcome, fmt.Errorf("decode receipt %s: %w", receipt.TxHash.Hex(), err)
	}

	minedAt, err := evm.BlockTimestamp(ctx, p.Backend, receipt)
	if err != nil {
		record.NeedsReconciliation = true
		if saveErr := p.DB.Save(record).Error; saveErr != nil {
			logrus.Errorf("failed to flag coin record %d for reconciliation: %v", record.ID, saveErr)
		}
		return outcome, fmt.Errorf("read block timestamp: %w", err)
	}

	record.Address = coin.Hex()
	record.ChainID = p.Cfg.ChainID
	record.Status = models.CoinStatusActive
	record.NeedsReconciliation = false
	record.DeployedAt = &minedAt
	if err := p.DB.Save(record).Error; err != nil {
		// The chain outcome is known; surface the ledger failure distinctly.
		return outcome, fmt.Errorf("coin %s deployed at %s but ledger update failed: %w", record.Symbol, coin.Hex(), err)
	}

	outcome.Receipt = &evm.ExecutionReceipt{
		TxHash:          receipt.TxHash,
		BlockNumber:     receipt.BlockNumber.Uint64(),
		BlockTimestamp:  minedAt,
		DeployedAddress: coin,
		SchemaMatched:   schema,
	}

	logrus.Infof("coin %s (%s) active at %s via %s schema", record.Name, record.Symbol, coin.Hex(), schema)
	PublishLifecycle("coin.activated", record)
	return outcome, nil
}

// afterActivation runs the best-effort post-activation writes.
func (p *DeployPipeline) afterActivation(ctx context.Context, record *models.CoinRecord, uri string) {
	if record.Status != models.CoinStatusActive || p.Tracker == nil {
		return
	}
	if hash := p.Tracker.RecordCreation(ctx, common.HexToAddress(record.Address), uri); hash != nil {
		now := nowUTC()
		record.RegisteredAt = &now
		if err := p.DB.Save(record).Error; err != nil {
			logrus.Warnf("failed to persist registry timestamp for coin %d: %v", record.ID, err)
		}
	}
}

func (p *DeployPipeline) findOrCreateRecord(in DeployInput, salt common.Hash) (*models.CoinRecord, error) {
	var record models.CoinRecord
	err := p.DB.Where("salt = ?", salt.Hex()).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("query coin record: %w", err)
	}

	record = models.CoinRecord{
		Name:          in.Name,
		Symbol:        in.Symbol,
		MetadataURI:   in.MetadataURI,
		CreatorWallet: in.Creator.Hex(),
		Status:        models.CoinStatusPending,
		Salt:          salt.Hex(),
		Metadata:      in.Metadata,
	}
	if err := p.DB.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create coin record: %w", err)
	}
	return &record, nil
}

func (p *DeployPipeline) markFailed(record *models.CoinRecord, reason string) {
	record.Status = models.CoinStatusFailed
	record.FailureReason = reason
	if err := p.DB.Save(record).Error; err != nil {
		logrus.Errorf("failed to mark coin record %d failed: %v", record.ID, err)
		return
	}
	PublishLifecycle("coin.failed", record)
}

// ReconcileFromHash re-runs the receipt decode for a pending record whose
// transaction hash is known: query receipt, redecode, re-patch the ledger.
// Idempotent; safe to run repeatedly from the worker.
func (p *DeployPipeline) ReconcileFromHash(ctx context.Context, record *models.CoinRecord) error {
	_, err := p.reconcileFromHash(ctx, record)
	return err
}

func (p *DeployPipeline) reconcileFromHash(ctx context.Context, record *models.CoinRecord) (*DeployOutcome, error) {
	if record.TxHash == "" {
		return nil, fmt.Errorf("coin record %d has no transaction hash to reconcile from", record.ID)
	}
	if record.Status == models.CoinStatusActive {
		return &DeployOutcome{Record: record}, nil
	}

	receipt, err := p.Backend.TransactionReceipt(ctx, common.HexToHash(record.TxHash))
	if err != nil || receipt == nil {
		// Not yet mined (or node unavailable): still pending, try again later.
		logrus.Debugf("receipt for %s not available yet: %v", record.TxHash, err)
		return &DeployOutcome{Record: record}, nil
	}

	return p.settleReceipt(ctx, record, receipt)
}
