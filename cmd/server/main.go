package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"todo-gateway/internal/auth"
	"todo-gateway/internal/filter"
	"todo-gateway/internal/platform/config"
	"todo-gateway/internal/platform/httpserver"
	"todo-gateway/internal/platform/logger"
	"todo-gateway/internal/platform/metrics"
	"todo-gateway/internal/platform/middleware/cors"
	platformredis "todo-gateway/internal/platform/redis"
	"todo-gateway/internal/provision"
	"todo-gateway/internal/ratelimit/service/checker"
	"todo-gateway/internal/ratelimit/store/bucket"
	"todo-gateway/internal/ratelimit/store/quota"
	todohandler "todo-gateway/internal/todo/handler"
	todoservice "todo-gateway/internal/todo/service"
	todostore "todo-gateway/internal/todo/store"
	httptransport "todo-gateway/internal/transport/http"
)

const (
	patternRulePriority     = 10
	sourceLimitRulePriority = 20
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()

	prov, err := provision.Load(cfg.ProvisionFile)
	if err != nil {
		return err
	}

	met := metrics.New()

	st, cleanup, err := newStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	todos, err := todoservice.New(st,
		todoservice.WithLogger(log),
		todoservice.WithMetrics(met),
	)
	if err != nil {
		return err
	}

	authn, err := auth.New(prov.Credentials,
		auth.WithLogger(log),
		auth.WithMetrics(met),
	)
	if err != nil {
		return err
	}

	limiter, err := checker.New(
		bucket.NewMemoryBucketStore(),
		quota.NewMemoryQuotaStore(),
		checker.WithLogger(log),
		checker.WithMetrics(met),
	)
	if err != nil {
		return err
	}

	sourceLimiter := filter.NewSourceLimiter(prov.SourceLimitMax, prov.SourceLimitWindow)
	chain, err := filter.NewChain([]filter.Rule{
		filter.PatternRule(patternRulePriority, prov.Signatures),
		filter.SourceLimitRule(sourceLimitRulePriority, sourceLimiter),
	})
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:        log,
		CORS:          cors.Default(cfg.AllowedOrigin),
		Filter:        filter.NewMiddleware(chain, filter.WithLogger(log), filter.WithMetrics(met)),
		Authenticator: authn,
		Limiter:       limiter,
		Todos:         todohandler.New(todos, log),
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting todo-gateway", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newStore picks the item store backend from configuration. Postgres wins
// over Redis when both are configured; neither falls back to memory.
func newStore(ctx context.Context, cfg config.Server, log *slog.Logger) (todostore.Store, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		st := todostore.NewPostgresStore(db)
		if err := st.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using postgres item store")
		return st, func() { _ = db.Close() }, nil

	case cfg.RedisURL != "":
		rc, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis item store")
		return todostore.NewRedisStore(rc.Client), func() { _ = rc.Close() }, nil

	default:
		log.Info("using in-memory item store")
		return todostore.NewMemoryStore(), func() {}, nil
	}
}
