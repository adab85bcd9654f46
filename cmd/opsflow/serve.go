package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"opsflow/internal/common/config"
	"opsflow/internal/common/logger"
	"opsflow/internal/dashboard"
	"opsflow/internal/proxy"
	"opsflow/pkg/registry"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			d, cleanup := newDispatcher(cfg, log)
			defer cleanup()

			modules := registry.Default()
			if cfg.Server.ModulesFile != "" {
				if modules, err = registry.LoadRegistry(cfg.Server.ModulesFile); err != nil {
					return err
				}
			}

			gin.SetMode(gin.ReleaseMode)
			srv := dashboard.NewServer(dashboard.Options{
				Gateway:        d,
				Logger:         log,
				ActionLogSize:  cfg.Server.ActionLogSize,
				MetricsEnabled: cfg.Metrics.Enabled,
				Modules:        modules,
			})

			log.Info("Dashboard API starting", map[string]interface{}{
				"address":   cfg.Server.Address,
				"remoteUrl": cfg.Gateway.RemoteURL,
				"model":     cfg.Gateway.ModelID,
				"version":   Version,
			})
			return runHTTP(cmd.Context(), cfg.Server.Address, srv.Router(), log)
		},
	}
}

func newProxyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proxy",
		Short: "Run the AI proxy that holds the model credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			var gen proxy.Generator
			if cfg.Proxy.APIKey == "" {
				log.Warn("API_KEY not set; every request will report NOT_CONFIGURED", nil)
			} else {
				if !cfg.Proxy.CredentialLooksValid() {
					log.Warn("API_KEY looks malformed", map[string]interface{}{"length": len(cfg.Proxy.APIKey)})
				}
				gemini, err := proxy.NewGeminiGenerator(cmd.Context(), cfg.Proxy.APIKey)
				if err != nil {
					return err
				}
				defer gemini.Close()
				gen = gemini
			}

			gin.SetMode(gin.ReleaseMode)
			r := gin.New()
			r.Use(gin.Recovery())
			proxy.NewHandler(gen, config.GetDuration(cfg.Proxy.ModelTimeout), log).Register(r, cfg.Proxy.Path)

			log.Info("AI proxy starting", map[string]interface{}{
				"address": cfg.Proxy.Address,
				"path":    cfg.Proxy.Path,
			})
			return runHTTP(cmd.Context(), cfg.Proxy.Address, r, log)
		},
	}
}

// runHTTP serves until SIGINT/SIGTERM and then shuts down gracefully.
func runHTTP(ctx context.Context, addr string, handler http.Handler, log logger.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutdown signal received, stopping server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped gracefully", nil)
	return nil
}
