package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentic-research/loom/internal/config"
	"github.com/agentic-research/loom/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom: a curated pattern library with a submission review workflow",
	Long: `Loom stores reusable patterns in a three-level hierarchy
(domain / category / pattern) backed by a single SQLite file, and exposes
the library plus its propose-and-review workflow over MCP stdio.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "loom.hcl", "Path to HCL config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the library database (overrides config)")
}

// loadConfig resolves the effective configuration: file values first, then
// flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// openStore opens the configured library database, creating it and its
// schema on first use.
func openStore(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
