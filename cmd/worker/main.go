package main

import (
	"encoding/json"
	"os"

	"coinlaunch/internal/handlers/business"
	"coinlaunch/pkg/config"
	"coinlaunch/schedule"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Reconcile requests arrive over RabbitMQ when it is configured; the
	// cron sweep below is the backstop either way.
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer config.RabbitMQ.Close()

		msgConsumer, err := config.NewConsumer(config.QueueCoinReconcile)
		if err != nil {
			logrus.Fatal("Failed to create consumer: ", err)
		}
		defer msgConsumer.Close()

		go func() {
			err := msgConsumer.Consume(func(msg []byte) error {
				var req business.ReconcileRequest
				if err := json.Unmarshal(msg, &req); err != nil {
					logrus.Errorf("invalid reconcile request: %v", err)
					return nil // drop malformed messages
				}
				logrus.Infof("reconcile request for coin %d (%s)", req.CoinID, req.TxHash)
				return schedule.ReconcileOne(req.CoinID)
			})
			if err != nil {
				logrus.Errorf("consumer stopped: %v", err)
			}
		}()
	} else {
		logrus.Info("RabbitMQ not configured, relying on cron sweep only")
	}

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", func() {
		if err := schedule.ReconcilePendingCoins(); err != nil {
			logrus.Errorf("reconciliation sweep failed: %v", err)
		}
	}); err != nil {
		logrus.Fatal("Failed to schedule reconciliation task: ", err)
	}

	logrus.Info("Coin reconciliation worker started")
	c.Run()
}
