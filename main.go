package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jrondan/sufragio/audit"
	"github.com/jrondan/sufragio/cliparse"
	"github.com/jrondan/sufragio/gateway"
	"github.com/jrondan/sufragio/identity"
	"github.com/jrondan/sufragio/metrics"
	"github.com/jrondan/sufragio/middleware"
	"github.com/jrondan/sufragio/router"
	"github.com/jrondan/sufragio/session"
	"github.com/jrondan/sufragio/voting"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Persistence gateway
	store := gateway.NewClient(cfg.GatewayURL, cfg.GatewayKey, cfg.GatewayServiceKey, cfg.GatewayTimeout, m)
	if err := store.Ping(context.Background()); err != nil {
		slog.Error("gateway ping failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Record store reachable", "url", cfg.GatewayURL)

	// Active-token registries, one per tier so tokens issued by one
	// tier never validate on the other: Redis when configured,
	// in-process otherwise
	var adminRegistry, superRegistry session.Registry
	if cfg.RedisAddr != "" {
		r, err := session.NewRedisRegistry(context.Background(), cfg.RedisAddr, "sufragio:admin")
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer r.Close()
		adminRegistry = r
		superRegistry = r.WithPrefix("sufragio:superadmin")
		slog.Info("Token registry: redis")
	} else {
		adminRegistry = session.NewMemoryRegistry()
		superRegistry = session.NewMemoryRegistry()
		slog.Info("Token registry: in-process")
	}

	adminAuth := session.New("admin",
		session.Credentials{Email: cfg.AdminEmail, Password: cfg.AdminPassword},
		cfg.SigningSecret, adminRegistry)
	superAuth := session.New("superadmin",
		session.Credentials{Email: cfg.SuperAdminEmail, Password: cfg.SuperAdminPassword},
		cfg.SigningSecret, superRegistry)

	// Create router
	mux := router.NewRouter(router.Deps{
		Store:     store,
		Votes:     voting.NewService(store, m),
		Auditor:   audit.New(store, audit.KeepPolicy(cfg.DuplicatePolicy), m),
		AdminAuth: adminAuth,
		SuperAuth: superAuth,
		Events:    session.NewEventLog(0),
		Identity:  identity.NewClient(cfg.IdentityURL, cfg.IdentityKey, cfg.GatewayTimeout),
		Metrics:   m,
	})

	// Create server; the frontend is a browser app, so CORS wraps the mux
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
