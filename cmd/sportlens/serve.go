package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/config"
	"github.com/NeuralTrust/SportLens/pkg/dependency_container"
	infraLogger "github.com/NeuralTrust/SportLens/pkg/infra/logger"
	"github.com/NeuralTrust/SportLens/pkg/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Configuration is read from config.yaml in --config, ./config or the working
directory, then overridden by environment variables (server.port becomes
SERVER_PORT). A .env file, or the file named by ENV_FILE, is loaded first.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().StringP("config", "c", "config", "Directory holding config.yaml")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger, closeLogs := infraLogger.NewLogger("sportlens")
	defer closeLogs()

	configPath, _ := cmd.Flags().GetString("config")
	if err := config.Load(configPath); err != nil {
		if !errors.Is(err, config.ErrConfigFileNotFound) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Warn(err.Error())
	}
	cfg := config.GetConfig()

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer container.Close()

	srv := server.NewAPIServer(server.APIServerDI{
		Config:              cfg,
		Logger:              logger,
		MiddlewareTransport: container.MiddlewareTransport,
		HandlerTransport:    container.HandlerTransport,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}
