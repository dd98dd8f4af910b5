package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/broker"
	"github.com/MrEthical07/goSSO/cache"
	"github.com/MrEthical07/goSSO/httpapi"
	"github.com/MrEthical07/goSSO/session"
)

var (
	configPath string
	listenAddr string
	tlsCert    string
	tlsKey     string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the single sign-on server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServerConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.Listen = listenAddr
		}
		if (tlsCert == "") != (tlsKey == "") {
			return fmt.Errorf("tls-cert and tls-key must be set together")
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		var store cache.Cache
		switch cfg.Cache.Backend {
		case "memory":
			store = cache.NewMemory()
		case "redis":
			client := redis.NewUniversalClient(&redis.UniversalOptions{
				Addrs: []string{cfg.Cache.Redis.Addr},
			})
			defer client.Close()
			store = cache.NewRedis(client, cfg.Cache.Redis.Prefix, cfg.Cache.Redis.TTL.Duration)
		case "bolt":
			bolt, err := cache.NewBoltFromFile(cfg.Cache.Bolt.Path, nil)
			if err != nil {
				return fmt.Errorf("failed to open link store: %w", err)
			}
			defer bolt.Close()
			store = bolt
		}

		brokers, err := broker.NewRegistry(cfg.Brokers.Registry)
		if err != nil {
			return fmt.Errorf("failed to open broker registry: %w", err)
		}

		var sink goSSO.AuditSink
		if cfg.Audit.Enabled {
			f, err := os.OpenFile(cfg.Audit.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return fmt.Errorf("failed to open audit log: %w", err)
			}
			defer f.Close()
			sink = goSSO.NewJSONWriterSink(f)
		}

		srv, err := goSSO.New().
			WithConfig(goSSO.Config{
				Audit: goSSO.AuditConfig{
					Enabled:    cfg.Audit.Enabled,
					BufferSize: cfg.Audit.BufferSize,
					DropIfFull: cfg.Audit.DropIfFull,
				},
				Metrics: goSSO.MetricsConfig{
					Enabled:                 cfg.Metrics.Enabled,
					EnableLatencyHistograms: cfg.Metrics.LatencyHistograms,
				},
			}).
			WithCache(store).
			WithBrokers(brokers).
			WithLogger(logger).
			WithAuditSink(sink).
			Build()
		if err != nil {
			return fmt.Errorf("failed to build server: %w", err)
		}
		defer srv.Close()

		a, err := httpapi.New(srv, session.CookieConfig{
			Name:   cfg.Cookie.Name,
			Secret: []byte(cfg.Cookie.Secret),
			TTL:    cfg.Cookie.TTL.Duration,
			Secure: cfg.Cookie.Secure,
		}, httpapi.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("failed to build http api: %w", err)
		}

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Mount("/", a.Router())

		server := &http.Server{
			Addr:              cfg.Listen,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		// Graceful shutdown on SIGINT/SIGTERM.
		done := make(chan error, 1)
		go func() {
			var err error
			if tlsCert != "" {
				err = server.ListenAndServeTLS(tlsCert, tlsKey)
			} else {
				err = server.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				done <- fmt.Errorf("server failed: %w", err)
				return
			}
			done <- nil
		}()

		logger.Info("server starting",
			"addr", cfg.Listen,
			"cache_backend", cfg.Cache.Backend,
			"registry", cfg.Brokers.Registry,
			"tls", tlsCert != "",
		)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			return nil
		case err := <-done:
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringVarP(&configPath, "config", "c", "gosso.toml", "Path to the server config file")
	serverCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Listen address, overrides the config file")
	serverCmd.Flags().StringVar(&tlsCert, "tls-cert", "", "Path to TLS certificate file")
	serverCmd.Flags().StringVar(&tlsKey, "tls-key", "", "Path to TLS key file")
}
