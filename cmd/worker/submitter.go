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
	"github.com/jmehdipour/econnect-gateway/internal/metrics"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"github.com/jmehdipour/econnect-gateway/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var submitterCmd = &cobra.Command{
	Use:   "submitter",
	Short: "Consume queued submissions and run them against eConnect",
	RunE:  runSubmitter,
}

func runSubmitter(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := app.Load(cfgPath)
	if err != nil {
		return err
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) stores: MySQL for submission rows, ClickHouse for the journal
	stores, err := app.OpenStores(cfg, app.Need{MySQL: true, ClickHouse: true})
	if err != nil {
		return err
	}
	defer stores.Close()
	if stores.MySQL == nil {
		return fmt.Errorf("submitter: mysql.dsn is empty")
	}

	jw := app.NewJournal(cfg, stores)
	stopJournal := app.RunJournal(jw)
	defer stopJournal()

	// 3) gateway → submission service
	gw, err := app.NewGateway(cmd.Context(), cfg, jw)
	if err != nil {
		return err
	}
	svc := app.NewSubmitService(gw, cfg)

	// 4) kafka consumer
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "econnect-submitter"
	}
	consumer := kafka.NewConsumerFromConfig(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topic,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	log := logger.Log.Named("submitter")
	w := worker.NewSubmitterKafka(consumer, svc, repository.NewSubmissionsRepository(stores.MySQL), log)
	if cfg.Submit.Workers > 0 {
		w.Workers = cfg.Submit.Workers
	}

	// 5) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("submitter started",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", groupID),
		zap.Int("workers", w.Workers),
		zap.String("mode", gw.Mode()),
	)

	return w.Run(ctx)
}
