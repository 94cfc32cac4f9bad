package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/gbarbosa/visionplan/internal/config"
	"github.com/gbarbosa/visionplan/internal/db"
)

const defaultConfigPath = "visionplan.yaml"

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBMigrateCmd())
	cmd.AddCommand(newDBStatusCmd())
	cmd.AddCommand(newDBReplayCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the primary database and migrate all tables",
		Long:  "Connects to the MySQL server, creates the configured database if missing and migrates every table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	admin, err := db.ConnectAdmin(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.CreateDatabase(admin, cfg.Database.Database); err != nil {
		return err
	}
	fmt.Fprintf(out, "Database %s ready\n", cfg.Database.Database)

	primary, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(primary); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	return nil
}

func newDBMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate all VisionPlan tables",
		Long:  "Connects to the configured store (falling back to the local file when the primary is unreachable) and migrates every table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBMigrate(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func runDBMigrate(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, res, err := openFromConfig(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded config for owner %q from %s\n", cfg.Owner, configPath)
	if res.Mode == db.ModeDegraded {
		fmt.Fprintf(out, "Primary unavailable, using fallback %s (%s)\n", cfg.Fallback.Path, res.Reason)
	}

	if err := db.AutoMigrate(res.DB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))
	return nil
}

func newDBStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show store connectivity and mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func runDBStatus(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, res, err := openFromConfig(configPath)
	if err != nil {
		return err
	}

	switch res.Mode {
	case db.ModePrimary:
		fmt.Fprintf(out, "Primary store %s:%d/%s is reachable\n",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	case db.ModeDegraded:
		fmt.Fprintf(out, "DEGRADED: primary unreachable (%s)\n", res.Reason)
		fmt.Fprintf(out, "Writes are landing in %s and will replay on reconnect\n", cfg.Fallback.Path)
	}
	return nil
}

func newDBReplayCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay buffered fallback writes into the primary store",
		Long:  "Opens both stores and applies every unreplayed oplog entry from the fallback file to the primary, in write order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReplay(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	return cmd
}

func runDBReplay(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	primary, err := db.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("primary must be reachable to replay: %w", err)
	}
	if err := db.AutoMigrate(primary); err != nil {
		return err
	}

	fallback, err := db.ConnectFallback(cfg.Fallback.Path)
	if err != nil {
		return fmt.Errorf("open fallback %s: %w", cfg.Fallback.Path, err)
	}

	n, err := db.ReplayOplog(fallback, primary)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Replayed %d buffered operation(s)\n", n)
	return nil
}

// openFromConfig loads config and opens the store, primary first with
// fallback degradation.
func openFromConfig(configPath string) (*config.Config, *db.OpenResult, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	res, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, res, nil
}

// storeFromConfig is openFromConfig for commands that only need the handle.
func storeFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, res, err := openFromConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, res.DB, nil
}
