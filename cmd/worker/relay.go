package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/app"
	"github.com/jmehdipour/econnect-gateway/internal/kafka"
	"github.com/jmehdipour/econnect-gateway/internal/logger"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"github.com/jmehdipour/econnect-gateway/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	relayBatch    int
	relayInterval time.Duration
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Publish pending outbox rows to Kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
		cfg, err := app.Load(cfgPath)
		if err != nil {
			return err
		}

		stores, err := app.OpenStores(cfg, app.Need{MySQL: true})
		if err != nil {
			return err
		}
		defer stores.Close()
		if stores.MySQL == nil {
			return fmt.Errorf("relay: mysql.dsn is empty")
		}

		producer := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:    cfg.Kafka.Brokers,
			BatchBytes: cfg.Kafka.BatchBytes,
		})
		defer producer.Close()

		log := logger.Log.Named("relay")
		r := worker.NewOutboxRelay(
			repository.NewOutboxRepository(stores.MySQL),
			repository.NewSubmissionsRepository(stores.MySQL),
			producer,
			log,
		)
		r.BatchSize = relayBatch
		r.Interval = relayInterval

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("relay started", zap.Strings("brokers", cfg.Kafka.Brokers), zap.Int("batch", r.BatchSize))
		return r.Run(ctx)
	},
}

func init() {
	relayCmd.Flags().IntVar(&relayBatch, "batch", 100, "outbox rows per publish")
	relayCmd.Flags().DurationVar(&relayInterval, "interval", 500*time.Millisecond, "poll interval when idle")
}
