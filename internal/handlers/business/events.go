package business

import (
	"coinlaunch/internal/models"
	dbconfig "coinlaunch/pkg/config"

	"github.com/sirupsen/logrus"
)

// LifecycleEvent is what the notification subsystem consumes.
type LifecycleEvent struct {
	Event   string `json:"event"`
	CoinID  uint   `json:"coin_id"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
	TxHash  string `json:"tx_hash"`
	ChainID int64  `json:"chain_id"`
}

// ReconcileRequest asks the worker to re-run receipt decoding for a record.
type ReconcileRequest struct {
	CoinID uint   `json:"coin_id"`
	TxHash string `json:"tx_hash"`
}

// PublishLifecycle emits a coin lifecycle event. Messaging is optional;
// without a RabbitMQ connection this is a silent no-op.
func PublishLifecycle(event string, record *models.CoinRecord) {
	publish(dbconfig.QueueCoinLifecycle, LifecycleEvent{
		Event:   event,
		CoinID:  record.ID,
		Name:    record.Name,
		Symbol:  record.Symbol,
		Address: record.Address,
		TxHash:  record.TxHash,
		ChainID: record.ChainID,
	})
}

// PublishReconcileRequest queues an immediate reconciliation attempt; the
// cron sweep remains the backstop when messaging is not configured.
func PublishReconcileRequest(coinID uint, txHash string) {
	publish(dbconfig.QueueCoinReconcile, ReconcileRequest{CoinID: coinID, TxHash: txHash})
}

func publish(queue string, message interface{}) {
	if dbconfig.RabbitMQ == nil {
		return
	}
	publisher, err := dbconfig.NewPublisher()
	if err != nil {
		logrus.Warnf("failed to create publisher: %v", err)
		return
	}
	defer publisher.Close()

	if err := publisher.Publish(queue, message); err != nil {
		logrus.Warnf("failed to publish to %s: %v", queue, err)
	}
}
