package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
	"github.com/goliatone/go-formkit/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the render and validation API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var (
	serveAddr      string
	serveSchemaDir string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides FORMKIT_ADDR)")
	serveCmd.Flags().StringVar(&serveSchemaDir, "schemas", "", "directory served under /forms/{name} (overrides FORMKIT_SCHEMA_DIR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveSchemaDir != "" {
		cfg.Schemas.Dir = serveSchemaDir
	}

	registry, err := newRenderers()
	if err != nil {
		return err
	}
	options := []server.Option{
		server.WithRenderers(registry),
		server.WithAssets(vanilla.AssetsFS()),
		server.WithLogger(logger),
		server.WithLocale(localeContext()),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
		server.WithColumns(cfg.Render.Columns),
	}
	if cfg.Schemas.Dir != "" {
		options = append(options, server.WithLoader(newLoader()))
		logger.Info("serving named forms", "dir", cfg.Schemas.Dir)
	}
	srv, err := server.New(options...)
	if err != nil {
		return err
	}

	return server.Run(cmd.Context(), server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, srv.Handler(), logger)
}
