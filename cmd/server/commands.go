package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourorg/trading-dashboard/internal/config"
	"github.com/yourorg/trading-dashboard/internal/seed"
)

const defaultConfigPath = "config/config.yaml"

// NewRootCmd builds the command tree. Without a subcommand the server runs.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Trading dashboard server",
		Long: `Serves the trading dashboard: performance, market signals, linked
content, bot settings and user administration.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to the config file")

	load := func() (*config.Config, error) {
		return config.LoadConfig(configPath)
	}

	rootCmd.AddCommand(newServeCmd(load))
	rootCmd.AddCommand(newSeedCmd(load))
	rootCmd.AddCommand(newSignalCmd(load))
	rootCmd.AddCommand(newVideoCmd(load))

	return rootCmd
}

type configLoader func() (*config.Config, error)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func newSeedCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, sessions, signals and videos from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")

			return withApp(load, func(ctx context.Context, a *app) error {
				data, err := seed.LoadFile(file)
				if err != nil {
					return err
				}
				counts, err := seed.Apply(ctx, a.store, data, a.logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d sessions, %d signals, %d videos\n",
					counts.Users, counts.Sessions, counts.Signals, counts.Videos)
				return nil
			})
		},
	}

	cmd.Flags().String("file", "seed.yaml", "seed file")
	return cmd
}

func newSignalCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "signal [symbol]",
		Short: "Generate a market signal for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(ctx context.Context, a *app) error {
				result, err := a.signals.Generate(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result.Signal)
			})
		},
	}
}

func newVideoCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "video [url]",
		Short: "Link a video and fill in its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(load, func(ctx context.Context, a *app) error {
				result, err := a.videos.Link(ctx, args[0])
				if err != nil {
					return err
				}
				if result.Fallback {
					a.logger.Warn("Metadata lookup failed, stored fallback record", zap.String("url", args[0]))
				}
				return printJSON(cmd.OutOrStdout(), result.Video)
			})
		},
	}
}

// withApp wires the application for a one-shot command and tears it down afterwards
func withApp(load configLoader, fn func(ctx context.Context, a *app) error) error {
	cfg, err := load()
	if err != nil {
		return err
	}

	logger, err := createLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
