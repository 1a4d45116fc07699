package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/y4m4usr/hl001-quiz-must1/internal/api"
	"github.com/y4m4usr/hl001-quiz-must1/internal/app"
	"github.com/y4m4usr/hl001-quiz-must1/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		cacheTTL, _ := cmd.Flags().GetDuration("cache-ttl")
		offline, _ := cmd.Flags().GetBool("offline")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.Addr = addr
		}

		logger, err := logging.New(cfg.LogLevel, false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := app.New(app.Options{
			Config:    cfg,
			Logger:    logger,
			EventRepo: s.EventRepo(),
			Offline:   offline,
			CacheTTL:  cacheTTL,
		})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.NewRouter(a.Generator, a.Resolver, logger.Named("http"), api.Options{CORSOrigins: cfg.CORSOrigins}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", cfg.Addr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LENSQUIZ_ADDR)")
	serveCmd.Flags().Duration("cache-ttl", 10*time.Minute, "How long image probe results are reused (0 disables)")
	serveCmd.Flags().Bool("offline", false, "Skip image probes and use fallback URLs")
}
