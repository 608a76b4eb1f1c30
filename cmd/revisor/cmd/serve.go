package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metadatalab/revisor/internal/api"
	"github.com/metadatalab/revisor/internal/config"
	"github.com/metadatalab/revisor/internal/editor"
	"github.com/metadatalab/revisor/internal/schema"
	"github.com/metadatalab/revisor/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the revisor HTTP service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Server.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Server.Port = port
	}
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}

	db, err := store.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pending, err := store.Pending(db)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migrations pending - run 'revisor migrate' first", pending)
	}

	st, err := store.New(db)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	registry := schema.NewRegistry()
	st.Validate = func(collection string, tree map[string]any) error {
		node, err := registry.Resolve(collection)
		if err != nil {
			return err
		}
		return schema.Shape(tree, node)
	}

	svc, err := editor.NewService(st, registry, editor.Options{
		PageSize:     cfg.Editor.PageSize,
		ChunkSize:    cfg.Editor.ChunkSize,
		Workers:      cfg.Editor.Workers,
		ChunkRetries: cfg.Editor.ChunkRetries,
		SessionTTL:   cfg.Editor.SessionTTL,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create editor service: %w", err)
	}

	server, err := api.NewServer(cfg.Server, svc, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting revisor",
		zap.String("version", Version),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
