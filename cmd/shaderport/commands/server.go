package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/spectralabs/shaderport/config"
	"github.com/spectralabs/shaderport/errors"
	"github.com/spectralabs/shaderport/logger"
	"github.com/spectralabs/shaderport/pipeline"
	"github.com/spectralabs/shaderport/server"
)

// ServerCmd starts the shaderport compilation server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the shaderport HTTP compilation server",
	Long:    `Launch the shaderport server. Editors connect over HTTP or websocket, submit shader fragments, and receive translated output or line-mapped diagnostics.`,
	RunE:    runServer,
}

var serverPort int

func init() {
	ServerCmd.Flags().IntVar(&serverPort, "port", 0, "Listen port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	port := serverPort
	if port == 0 {
		port = config.GetServerPort()
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	printStartupBanner(verbosity, port, cfg)

	tools := cfg.Toolchain()
	pipe := pipeline.New(tools, pipeline.WithLogger(logger.Logger.Named("pipeline")))

	srv := server.New(pipe, tools, server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RatePerSecond:  cfg.Server.RatePerSecond,
		RateBurst:      cfg.Server.RateBurst,
		Logger:         logger.Logger.Named("server"),
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		pterm.Info.Printf("Received %s, shutting down\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		return errors.Wrap(err, "server shutdown failed")
	}

	logger.Infow("Server stopped")
	return nil
}
