package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Coin lifecycle states. A record is never deleted on deployment failure; it
// transitions to failed or stays pending for retry.
const (
	CoinStatusPending = "pending"
	CoinStatusActive  = "active"
	CoinStatusFailed  = "failed"
)

// CoinRecord is the off-chain ledger row for a deployed (or deploying) coin.
// Invariants: status=active implies Address != "", status=pending implies
// Address == "". The row exists before the transaction is submitted and the
// transaction hash is retained as soon as it is known, so reconciliation can
// always be re-run from the hash alone.
type CoinRecord struct {
	ID                  uint       `gorm:"primarykey" json:"id"`
	Name                string     `gorm:"size:128;not null" json:"name"`
	Symbol              string     `gorm:"size:32;not null" json:"symbol"`
	MetadataURI         string     `gorm:"type:text;not null" json:"metadata_uri"`
	CreatorWallet       string     `gorm:"size:64;index;not null" json:"creator_wallet"`
	Status              string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	Address             string     `gorm:"size:64;default:''" json:"address"`
	ChainID             int64      `gorm:"default:0" json:"chain_id"`
	Salt                string     `gorm:"size:66;index;default:''" json:"salt"`
	TxHash              string     `gorm:"size:66;default:''" json:"tx_hash"`
	FailureReason       string     `gorm:"type:text;default:''" json:"failure_reason"`
	NeedsReconciliation bool       `gorm:"default:false;index" json:"needs_reconciliation"`
	Metadata            JSONB      `gorm:"type:jsonb" json:"metadata"`
	DeployedAt          *time.Time `json:"deployed_at"`
	RegisteredAt        *time.Time `json:"registered_at"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CoinRecord) TableName() string {
	return "coin_record"
}

// JSONB is a custom type to handle JSONB data
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}
