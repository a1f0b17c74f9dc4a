package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macsweep/macsweep/internal/lookup"
	"github.com/macsweep/macsweep/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the scanner and cleaner over a local HTTP API",
	RunE:  runServeCmd,
}

var (
	serveAddr    string
	serveVerbose bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8377", "Listen address")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Log at debug level")
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(serveVerbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	c, err := openCore(0)
	if err != nil {
		return err
	}
	defer c.Close()

	srv := server.New(c.scanner, c.cleaner, c.classifier, c.history, lookup.New(), logger)

	httpServer := &http.Server{
		Addr:         serveAddr,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // full scans and elevated deletes take a while
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", serveAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}
