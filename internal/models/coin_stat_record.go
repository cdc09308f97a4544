package models

import "time"

// CoinStatRecord keeps an off-chain copy of the telemetry pushed to the
// on-chain activity tracker. Best-effort: rows exist only for writes that
// were actually attempted.
type CoinStatRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CoinAddress string    `gorm:"size:64;index;not null" json:"coin_address"`
	Kind        string    `gorm:"size:32;not null" json:"kind"` // creation / fees / market_cap / trade
	TradeFees   string    `gorm:"size:80;default:''" json:"trade_fees"`
	CreatorFees string    `gorm:"size:80;default:''" json:"creator_fees"`
	MarketCap   string    `gorm:"size:80;default:''" json:"market_cap"`
	TxHash      string    `gorm:"size:66;default:''" json:"tx_hash"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CoinStatRecord) TableName() string {
	return "coin_stat_record"
}
