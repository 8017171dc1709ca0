package cmd

import (
	"fmt"

	"github.com/jmehdipour/econnect-gateway/internal/app"
	"github.com/jmehdipour/econnect-gateway/internal/logger"
	"github.com/jmehdipour/econnect-gateway/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (dev: DROP & CREATE tables)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := app.Load(cfgPath)
		if err != nil {
			return err
		}

		stores, err := app.OpenStores(cfg, app.Need{MySQL: true, ClickHouse: true})
		if err != nil {
			return err
		}
		defer stores.Close()

		ctx := cmd.Context()

		if stores.MySQL != nil {
			scripts, err := migrations.MySQL()
			if err != nil {
				return err
			}
			if _, err := stores.MySQL.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
				return fmt.Errorf("disable fk checks: %w", err)
			}
			for _, s := range scripts {
				// needs multiStatements=true in the DSN
				if _, err := stores.MySQL.ExecContext(ctx, s.SQL); err != nil {
					_, _ = stores.MySQL.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1")
					return fmt.Errorf("exec %s: %w", s.Name, err)
				}
				logger.Log.Info("migration applied", zap.String("script", s.Name))
			}
			if _, err := stores.MySQL.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); err != nil {
				return fmt.Errorf("enable fk checks: %w", err)
			}
		}

		if stores.ClickHouse != nil {
			scripts, err := migrations.ClickHouse()
			if err != nil {
				return err
			}
			for _, s := range scripts {
				for i, stmt := range migrations.Statements(s.SQL) {
					if _, err := stores.ClickHouse.ExecContext(ctx, stmt); err != nil {
						return fmt.Errorf("exec %s #%d: %w", s.Name, i+1, err)
					}
				}
				logger.Log.Info("migration applied", zap.String("script", s.Name))
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), ">> Migration complete")
		return nil
	},
}
