package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dejo1307/rockymcp/internal/config"
	"github.com/dejo1307/rockymcp/internal/depot"
	"github.com/dejo1307/rockymcp/internal/engine"
	"github.com/dejo1307/rockymcp/internal/explainers/sarah"
	"github.com/dejo1307/rockymcp/internal/facts"
	"github.com/dejo1307/rockymcp/internal/logging"
	"github.com/dejo1307/rockymcp/internal/renderers"
	"github.com/dejo1307/rockymcp/internal/renderers/markdown"
	"github.com/dejo1307/rockymcp/internal/server"
)

var (
	// Global flags
	cfgPath string
	logMode string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rockymcp",
	Short: "Deterministic heating survey fact extraction over MCP",
	Long: `rockymcp turns heating survey transcripts into structured Facts (Rocky),
explains them for different audiences (Sarah) and canonicalizes model-proposed
survey sections (Depot).

Run without arguments to start the MCP server on stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logMode != "" {
			cfg.Log.Mode = logMode
		}
		logger, err = logging.New(cfg.Log.Mode)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "log mode: dev, prod or quiet (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := facts.NewStore()
	if cfg.Ledger.Enabled {
		// Load the existing ledger so history and explain work immediately.
		if err := store.ReadJSONLFile(cfg.Ledger.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to load ledger", zap.String("path", cfg.Ledger.Path), zap.Error(err))
		} else if store.Count() > 0 {
			logger.Info("loaded ledger", zap.String("path", cfg.Ledger.Path), zap.Int("records", store.Count()))
		}
	}

	srv := server.New(server.Options{
		Engine:    newEngine(),
		Sarah:     sarah.New(sarah.WithLogger(logger)),
		Depot:     loadDepot(),
		Store:     store,
		Renderers: newRenderers(),
		Config:    cfg,
		Logger:    logger,
	})
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newEngine() *engine.Engine {
	return engine.New(engine.WithConfig(cfg), engine.WithLogger(logger))
}

func loadDepot() *depot.Config {
	return depot.LoadConfig(depot.LoadOptions{
		OverrideDir: cfg.Depot.ConfigDir,
		InstallDir:  cfg.Depot.InstallDir,
		Logger:      logger,
	})
}

func newRenderers() *renderers.Registry {
	reg := renderers.NewRegistry()
	reg.Register(renderers.NewJSON())
	reg.Register(markdown.New(cfg.Output.MaxContextTokens))
	return reg
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

// render writes doc to the command output with the named renderer.
func render(cmd *cobra.Command, format string, doc *renderers.Document) error {
	rnd := newRenderers().Get(format)
	if rnd == nil {
		return fmt.Errorf("unknown format %q (want json or markdown)", format)
	}
	artifacts, err := rnd.Render(cmd.Context(), doc)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		if _, err := cmd.OutOrStdout().Write(a.Content); err != nil {
			return err
		}
	}
	return nil
}
