package models

import "time"

// Settlement states mirror the on-chain outcome of a withdrawal.
const (
	SettlementStatusPending   = "pending"
	SettlementStatusConfirmed = "confirmed"
	SettlementStatusFailed    = "failed"
)

// SettlementRecord is the audit row for one earnings withdrawal. Amounts are
// wei stored as decimal strings.
type SettlementRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CoinAddress string    `gorm:"size:64;index;not null" json:"coin_address"`
	Recipient   string    `gorm:"size:64;not null" json:"recipient"`
	AmountWei   string    `gorm:"size:80;not null" json:"amount_wei"`
	Mode        string    `gorm:"size:16;not null" json:"mode"`
	TxHash      string    `gorm:"size:66;default:''" json:"tx_hash"`
	Status      string    `gorm:"size:16;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SettlementRecord) TableName() string {
	return "settlement_record"
}
