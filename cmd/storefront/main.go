package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/storefront/internal/pkg/cache"
	"github.com/jcmexdev/storefront/internal/pkg/config"
	"github.com/jcmexdev/storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/storefront/internal/pkg/telemetry"
	"github.com/jcmexdev/storefront/internal/storefront/adapters/httpx"
	"github.com/jcmexdev/storefront/internal/storefront/adapters/mongodb"
	"github.com/jcmexdev/storefront/internal/storefront/adapters/sqlite"
	"github.com/jcmexdev/storefront/internal/storefront/app"
	"github.com/jcmexdev/storefront/internal/storefront/auth"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel, serviceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.OTelEnabled {
		shutdown, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
			ServiceName: serviceName,
			Environment: cfg.Env,
			Endpoint:    cfg.OTelEndpoint,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("store close error", "error", err)
		}
	}()

	var idempotency cache.Cache
	if cfg.RedisAddr != "" {
		idempotency = cache.NewRedisCache(cfg.RedisAddr, serviceName)
		defer idempotency.Close()
	}

	locks := app.NewUserLocks()
	handler := httpx.NewHandler(httpx.Deps{
		Identity: app.NewIdentityService(store,
			auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
			auth.Passwords{Cost: cfg.BcryptCost},
		),
		Catalog:        app.NewCatalogService(store),
		Carts:          app.NewCartService(store, locks),
		Orders:         app.NewOrderService(store, store, locks, 8),
		Store:          store,
		Cache:          idempotency,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(httpx.NewRouter(handler, cfg.CORSOrigins), "storefront.http"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	healthSrv := health.NewServer()
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.UnaryServerInterceptor(),
			interceptors.LoggingServerInterceptor(),
		),
	)
	healthpb.RegisterHealthServer(grpcServer, healthSrv)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("storefront HTTP running", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		slog.Info("storefront gRPC admin running", "addr", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		healthSrv.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (app.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, err := mongodb.Open(ctx, cfg.MongoURL, cfg.DBName)
		if err != nil {
			return nil, err
		}
		reportPendingSagas(ctx, store)
		return store, nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return sqlite.Open(cfg.SQLitePath)
	}
}

// reportPendingSagas logs order placements that were interrupted by a
// previous crash. Their orders may exist next to an uncleared cart.
func reportPendingSagas(ctx context.Context, store *mongodb.Store) {
	pending, err := store.Pending(ctx, 100)
	if err != nil {
		slog.WarnContext(ctx, "could not read saga log", "error", err)
		return
	}
	for _, p := range pending {
		slog.WarnContext(ctx, "interrupted order placement",
			"order_id", p.SagaID, "status", p.Status, "step", p.CurrentStep, "trace_id", p.TraceID)
	}
}
