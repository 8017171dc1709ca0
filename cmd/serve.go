package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/app"
	httpSrv "github.com/jmehdipour/econnect-gateway/internal/http"
	"github.com/jmehdipour/econnect-gateway/internal/http/middleware"
	"github.com/jmehdipour/econnect-gateway/internal/logger"
	"github.com/jmehdipour/econnect-gateway/internal/repository"
	"github.com/jmehdipour/econnect-gateway/internal/service/queue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.Load(cfgPath)
		if err != nil {
			return err
		}

		stores, err := app.OpenStores(cfg, app.Need{MySQL: true, ClickHouse: true, Redis: true})
		if err != nil {
			return err
		}
		defer stores.Close()

		jw := app.NewJournal(cfg, stores)
		stopJournal := app.RunJournal(jw)
		defer stopJournal()

		gw, err := app.NewGateway(cmd.Context(), cfg, jw)
		if err != nil {
			return err
		}

		deps := httpSrv.Deps{
			Gateway:    gw,
			Submit:     app.NewSubmitService(gw, cfg),
			DefaultRPS: cfg.RateLimit.RPS,
			Log:        logger.Log.Named("http"),
			LogLevel:   cfg.Log.Level,
		}
		lookups := middleware.Lookups{middleware.NewStaticKeys(cfg.HTTP.APIKeys)}
		if stores.MySQL != nil {
			submissions := repository.NewSubmissionsRepository(stores.MySQL)
			outbox := repository.NewOutboxRepository(stores.MySQL)
			deps.Queue = queue.New(stores.MySQL, submissions, outbox, cfg.Kafka.Topic)
			deps.Submissions = submissions
			lookups = append(lookups, repository.NewClientsRepository(stores.MySQL))
		}
		if stores.ClickHouse != nil {
			deps.Reports = repository.NewCHCallsRepository(stores.ClickHouse)
		}
		if stores.Redis != nil {
			deps.Redis = stores.Redis
		}
		deps.Clients = lookups

		server := httpSrv.NewServer(deps)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case <-ctx.Done():
			logger.Log.Info("signal received, shutting down")
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error("http server exited", zap.Error(err))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)

		return nil
	},
}
