// Package adapter implements app.Runner for the bridge adapter process.
package adapter

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/api"
	apphttp "github.com/chainsafe/mvx-bridge-adapter/pkg/app/http"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/app/httpserver"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/audit"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/bridge"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/config"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/finality"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/inventory"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/mvx"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/notifier"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/pgutil"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/txsubmit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRequestTimeout  = 15 * time.Minute
	metricsReadTimeout     = 5 * time.Second
	metricsShutdownTimeout = 5 * time.Second
)

// Server holds configuration for the bridge adapter process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new bridge adapter Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run wires the bridge components and serves the HTTP API (and metrics, when
// enabled) until an OS shutdown signal is received or a server fails.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting MultiversX bridge adapter",
		zap.String("proxy_url", cfg.Ledger.ProxyURL),
		zap.String("chain_id", cfg.Ledger.ChainID))

	ledger, err := mvx.New(cfg.MVX(), mvx.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create ledger client: %w", err)
	}

	signer, err := mvx.NewEd25519SignerFromHex(cfg.Signer.PrivateKey)
	if err != nil {
		return fmt.Errorf("load signer: %w", err)
	}
	logger.Info("Signer loaded", zap.String("address", signer.Address().Bech32()))

	builder, err := bridge.NewBuilder(cfg.BridgeBuilder())
	if err != nil {
		return fmt.Errorf("create transaction builder: %w", err)
	}

	watcher, err := finality.New(ledger, cfg.FinalityWatcher(), finality.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create finality watcher: %w", err)
	}

	relay, err := notifier.New(cfg.Notifier(), logger)
	if err != nil {
		return fmt.Errorf("create relay notifier: %w", err)
	}

	bridgeOpts := []bridge.Option{bridge.WithLogger(logger)}

	var operations api.Operations
	if cfg.Database.Enabled {
		db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("connect audit db: %w", err)
		}
		defer func() { _ = db.Close() }()

		store := audit.NewStore(db)
		bridgeOpts = append(bridgeOpts, bridge.WithRecorder(store))
		operations = store
	} else {
		logger.Info("Operation audit disabled")
	}

	// Same-signer submissions race on the account nonce.
	sender := txsubmit.NewSerialized(txsubmit.New(ledger, cfg.Ledger.ChainID, logger))

	b := bridge.New(builder, signer, sender, watcher, relay, bridgeOpts...)
	lister := inventory.New(ledger, builder.Minter(), cfg.BridgeBuilder().ChainTokens(), logger)

	router := s.newRouter(b, lister, operations, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apphttp.ServeAndWait(gctx, router, logger, &cfg.Server)
	})
	if cfg.Monitoring.Enabled {
		g.Go(func() error {
			return httpserver.ServeAndWait(gctx, logger, newMetricsServer(cfg), metricsShutdownTimeout)
		})
	}

	err = g.Wait()
	logger.Info("Bridge adapter stopped")
	return err
}

func (s *Server) newRouter(b *bridge.Bridge, lister *inventory.Lister, ops api.Operations, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		api.RegisterRoutes(r, b, lister, ops, api.Config{
			Decimals:         cfg.Ledger.Decimals,
			EnableUnsigned:   cfg.Server.EnableUnsignedAPI,
			OperationTimeout: timeout,
		}, logger)
	})

	return r
}

func newMetricsServer(cfg *config.Config) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Monitoring.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: metricsReadTimeout,
	}
}
