// cmd/bridge-service/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopbridge/internal/bridge"
	"shopbridge/internal/jobs"
	"shopbridge/internal/webhooks"
	"shopbridge/pkg/config"
	"shopbridge/pkg/credential"
	"shopbridge/pkg/db"
	"shopbridge/pkg/logger"
	"shopbridge/pkg/middleware"
	"shopbridge/pkg/tenants"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	// Two-phase startup: every required setting and client handle is resolved
	// here, before the first request is served.
	if err := cfg.Validate(); err != nil {
		log.Fatalw("configuration", "err", err)
	}

	pool := db.MustConnect(cfg, log)

	var store tenants.Store
	if pool != nil {
		store = tenants.NewPostgresStore(pool, log)
		if err := tenants.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("schema", "err", err)
		}
		if err := tenants.SeedFromEnv(context.Background(), pool, os.Getenv("SHOP_LINK_SEED_JSON")); err != nil {
			log.Warnw("seed", "err", err)
		}
	} else {
		store = tenants.NewMemoryStoreFromEnv(log)
	}
	if rdb := db.MustRedis(cfg, log); rdb != nil {
		store = tenants.NewCachedStore(store, rdb, cfg.BindingCacheTTL, log)
	}

	minter, err := credential.NewMinter(cfg.SigningSecret)
	if err != nil {
		log.Fatalw("credential minter", "err", err)
	}
	registry, err := jobs.LoadRegistry(cfg.JobsRegistryFile)
	if err != nil {
		log.Fatalw("jobs registry", "err", err)
	}
	invoker := jobs.NewClient(cfg, registry, log)
	svc := bridge.NewService(store, minter, invoker, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing())
	r.Use(middleware.ShopSession(cfg))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	bridge.RegisterRoutes(r, svc, log)
	webhooks.RegisterRoutes(r, cfg, store, log)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("bridge-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("bridge-service stopped")
}
