package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arizon-ai/adlens/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "adlens",
	Short: "Meta Ads cohort analysis",
	Long:  "Reads Meta Ads exports, splits rows into before/after cohorts, derives KPIs, checks benchmarks, and ranks audiences, ads, and keywords.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
