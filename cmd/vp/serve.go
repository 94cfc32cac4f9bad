package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gbarbosa/visionplan/internal/alerta"
	"github.com/gbarbosa/visionplan/internal/alerta/discord"
	"github.com/gbarbosa/visionplan/internal/alerta/slack"
	"github.com/gbarbosa/visionplan/internal/config"
	"github.com/gbarbosa/visionplan/internal/dashboard"
	"github.com/gbarbosa/visionplan/internal/db"
	"github.com/gbarbosa/visionplan/internal/sweep"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the VisionPlan server",
		Long: `Starts the JSON API server and the scheduled overdue sweep.

When the primary store is reachable and the fallback file holds buffered
writes, they are replayed before the server starts accepting requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to VisionPlan config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	out := cmd.OutOrStdout()

	cfg, res, err := openFromConfig(configPath)
	if err != nil {
		return err
	}

	switch res.Mode {
	case db.ModePrimary:
		fmt.Fprintf(out, "Connected to primary store %s:%d/%s\n",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
		replayBufferedWrites(cmd, cfg, res)
	case db.ModeDegraded:
		fmt.Fprintf(out, "DEGRADED: primary unreachable (%s), using %s\n",
			res.Reason, cfg.Fallback.Path)
	}

	dispatcher, err := buildDispatcher(cfg)
	if err != nil {
		return err
	}
	defer dispatcher.Close()
	if dispatcher.Enabled() {
		fmt.Fprintln(out, "Alert channels configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	// Scheduled overdue sweep.
	sw, err := sweep.New(res.DB, cfg.EmpresaID, cfg.Sweep.Cron, dispatcher)
	if err != nil {
		return err
	}
	go sw.Run(ctx)
	fmt.Fprintf(out, "Overdue sweep scheduled (%s)\n", cfg.Sweep.Cron)

	if port <= 0 {
		port = cfg.Dashboard.Port
	}
	return dashboard.Start(ctx, dashboard.StartOpts{
		DB:   res.DB,
		Port: port,
		Out:  out,
	})
}

// replayBufferedWrites applies any unreplayed fallback oplog entries to the
// primary. Replay problems are reported but never block startup.
func replayBufferedWrites(cmd *cobra.Command, cfg *config.Config, res *db.OpenResult) {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(cfg.Fallback.Path); err != nil {
		return
	}
	fallback, err := db.ConnectFallback(cfg.Fallback.Path)
	if err != nil {
		fmt.Fprintf(out, "Warning: cannot open fallback %s: %v\n", cfg.Fallback.Path, err)
		return
	}

	n, err := db.ReplayOplog(fallback, res.DB)
	if err != nil {
		fmt.Fprintf(out, "Warning: oplog replay failed: %v\n", err)
		return
	}
	if n > 0 {
		fmt.Fprintf(out, "Replayed %d buffered operation(s) from %s\n", n, cfg.Fallback.Path)
	}
}

// buildDispatcher wires the alert adapters enabled in config.
func buildDispatcher(cfg *config.Config) (*alerta.Dispatcher, error) {
	var adapters []alerta.Adapter

	if cfg.Alertas.Slack.BotToken != "" {
		a, err := slack.New(slack.AdapterOpts{
			BotToken:  cfg.Alertas.Slack.BotToken,
			ChannelID: cfg.Alertas.Slack.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}

	if cfg.Alertas.Discord.BotToken != "" {
		a, err := discord.New(discord.AdapterOpts{
			BotToken:  cfg.Alertas.Discord.BotToken,
			ChannelID: cfg.Alertas.Discord.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		adapters = append(adapters, a)
	}

	return alerta.NewDispatcher(adapters...), nil
}
