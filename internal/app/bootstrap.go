// Package app wires configuration into the long-lived collaborators shared
// by the commands: stores, the call journal and the eConnect gateway.
package app

import (
	"context"
	"fmt"

	"github.com/jmehdipour/econnect-gateway/internal/config"
	"github.com/jmehdipour/econnect-gateway/internal/db"
	"github.com/jmehdipour/econnect-gateway/internal/econnect"
	"github.com/jmehdipour/econnect-gateway/internal/journal"
	"github.com/jmehdipour/econnect-gateway/internal/logger"
	"github.com/jmehdipour/econnect-gateway/internal/metrics"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"github.com/jmehdipour/econnect-gateway/internal/service/submit"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Load reads the configuration and initializes the global logger.
func Load(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		return config.Config{}, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

// Need selects the stores a command connects to.
type Need struct {
	MySQL      bool
	ClickHouse bool
	Redis      bool
}

// Stores holds the opened connections. A store whose DSN (or address) is
// empty stays nil.
type Stores struct {
	MySQL      *sqlx.DB
	ClickHouse *sqlx.DB
	Redis      *redis.Client
}

func OpenStores(cfg config.Config, need Need) (*Stores, error) {
	s := &Stores{}
	var err error

	if need.MySQL && cfg.MySQL.DSN != "" {
		if s.MySQL, err = db.NewMySQLConnection(cfg.MySQL); err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
	}
	if need.ClickHouse && cfg.ClickHouse.DSN != "" {
		if s.ClickHouse, err = db.NewClickHouseConnection(cfg.ClickHouse); err != nil {
			s.Close()
			return nil, fmt.Errorf("clickhouse connect: %w", err)
		}
	}
	if need.Redis {
		if s.Redis, err = db.NewRedisClient(cfg.Redis); err != nil {
			s.Close()
			return nil, fmt.Errorf("redis connect: %w", err)
		}
	}
	return s, nil
}

func (s *Stores) Close() {
	if s.MySQL != nil {
		_ = s.MySQL.Close()
	}
	if s.ClickHouse != nil {
		_ = s.ClickHouse.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
}

// NewJournal returns nil when journaling is disabled or no store is open.
func NewJournal(cfg config.Config, s *Stores) *journal.Writer {
	if !cfg.Journal.Enabled || s == nil {
		return nil
	}
	var sinks []journal.Sink
	if s.MySQL != nil {
		sinks = append(sinks, repository.NewCallsRepository(s.MySQL))
	}
	if s.ClickHouse != nil {
		sinks = append(sinks, repository.NewCHCallsRepository(s.ClickHouse))
	}
	if len(sinks) == 0 {
		return nil
	}
	return journal.NewWriter(logger.Log.Named("journal"), journal.Options{
		Buffer:    cfg.Journal.Buffer,
		BatchSize: cfg.Journal.BatchSize,
		BatchWait: cfg.Journal.BatchWait,
		OnDrop:    metrics.JournalDropped.Inc,
	}, sinks...)
}

// NewGateway builds the gateway with metrics and, when given, the journal
// attached.
func NewGateway(ctx context.Context, cfg config.Config, jw *journal.Writer, opts ...econnect.Option) (*econnect.Gateway, error) {
	all := []econnect.Option{
		econnect.WithLogger(logger.Log.Named("econnect")),
		econnect.WithObserver(metrics.Observer()),
	}
	if jw != nil {
		all = append(all, econnect.WithObserver(jw))
	}
	all = append(all, opts...)

	gw, err := econnect.New(ctx, cfg.GatewayConfig(), all...)
	if err != nil {
		return nil, err
	}
	return gw, nil
}

func NewSubmitService(gw submit.Gateway, cfg config.Config) *submit.Service {
	return submit.New(gw, submit.Options{ReleaseOnCommit: cfg.Submit.ReleaseOnCommit}, logger.Log.Named("submit"))
}

// RunJournal starts the journal loop and returns a func that stops it and
// waits for the final flush. It is a no-op for a nil writer.
func RunJournal(jw *journal.Writer) (stop func()) {
	if jw == nil {
		return func() {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	go jw.Run(ctx)
	return func() {
		cancel()
		<-jw.Done()
		logger.Log.Debug("journal flushed", zap.String("component", "journal"))
	}
}
