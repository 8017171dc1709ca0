package cmd

import (
	"fmt"
	"os"

	"github.com/jmehdipour/econnect-gateway/cmd/worker"
	"github.com/jmehdipour/econnect-gateway/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "econnect-gateway",
		Short:         "PIN eConnect gateway CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(operationsCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(worker.NewWorkerCmd())
}
