package business

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"coinlaunch/internal/models"
	dbconfig "coinlaunch/pkg/config"
	"coinlaunch/pkg/evm"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var hexAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// WithdrawPipeline moves accrued creator earnings out of a coin contract.
// Same orchestration shape as deployment: precondition gate, simulation,
// dual-path execution, confirmation before completion is reported.
type WithdrawPipeline struct {
	DB        *gorm.DB
	Backend   evm.Backend
	Executors map[evm.ExecutionMode]evm.Executor
	Cfg       dbconfig.ChainConfig
}

// WithdrawInput describes one withdrawal intent. The amount is never part of
// the input: it is read from the coin contract to prevent client tampering.
type WithdrawInput struct {
	CoinAddress string
	Recipient   string
	Creator     common.Address
	Mode        evm.ExecutionMode
}

// Withdraw validates, reads the claimable amount, and runs the settlement.
// Completion is only reported after on-chain confirmation.
func (p *WithdrawPipeline) Withdraw(ctx context.Context, in WithdrawInput) (*models.SettlementRecord, error) {
	if !hexAddressPattern.MatchString(in.Recipient) {
		return nil, preconditionf("recipient %q is not a valid hex address", in.Recipient)
	}
	if !hexAddressPattern.MatchString(in.CoinAddress) {
		return nil, preconditionf("coin address %q is not a valid hex address", in.CoinAddress)
	}
	executor, ok := p.Executors[in.Mode]
	if !ok {
		return nil, preconditionf("unsupported execution mode %q", in.Mode)
	}

	coin := common.HexToAddress(in.CoinAddress)
	amount, err := evm.AccruedEarnings(ctx, p.Backend, coin, in.Creator)
	if err != nil {
		return nil, fmt.Errorf("read accrued earnings: %w", err)
	}
	if amount.Sign() <= 0 {
		return nil, preconditionf("no accrued earnings to withdraw for %s", in.CoinAddress)
	}

	call, err := evm.BuildWithdrawCall(coin, in.Creator, common.HexToAddress(in.Recipient), amount)
	if err != nil {
		return nil, fmt.Errorf("build withdraw call: %w", err)
	}

	record := models.SettlementRecord{
		CoinAddress: in.CoinAddress,
		Recipient:   in.Recipient,
		AmountWei:   amount.String(),
		Mode:        string(in.Mode),
		Status:      models.SettlementStatusPending,
	}
	if err := p.DB.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create settlement record: %w", err)
	}

	if err := evm.Simulate(ctx, p.Backend, call); err != nil {
		var revert *evm.RevertError
		if errors.As(err, &revert) {
			record.Status = models.SettlementStatusFailed
			if saveErr := p.DB.Save(&record).Error; saveErr != nil {
				logrus.Errorf("failed to mark settlement %d failed: %v", record.ID, saveErr)
			}
		}
		return &record, fmt.Errorf("withdrawal simulation: %w", err)
	}

	txHash, err := executor.Submit(ctx, call)
	if err != nil {
		return &record, fmt.Errorf("submit withdrawal: %w", err)
	}

	record.TxHash = txHash.Hex()
	if err := p.DB.Save(&record).Error; err != nil {
		logrus.Errorf("failed to persist tx hash for settlement %d: %v", record.ID, err)
	}

	// No fire and forget: wait for inclusion before reporting completion.
	receipt, err := evm.WaitMined(ctx, p.Backend, txHash)
	if err != nil {
		return &record, fmt.Errorf("wait for withdrawal confirmation: %w", err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		record.Status = models.SettlementStatusFailed
	} else {
		record.Status = models.SettlementStatusConfirmed
	}
	if err := p.DB.Save(&record).Error; err != nil {
		return &record, fmt.Errorf("withdrawal confirmed on-chain but ledger update failed: %w", err)
	}

	logrus.Infof("withdrawal of %s wei from %s to %s %s", record.AmountWei, in.CoinAddress, in.Recipient, record.Status)
	return &record, nil
}
