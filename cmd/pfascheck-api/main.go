// Command pfascheck-api serves the zip code checker API, the interactive page and the metrics endpoint
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pfascheck/internal/core/version"
	"pfascheck/internal/modkit/httpkit"
	"pfascheck/internal/platform/config"
	"pfascheck/internal/platform/logger"
	"pfascheck/internal/platform/metrics"
	phttp "pfascheck/internal/platform/net/http"
	"pfascheck/internal/platform/net/middleware"
	"pfascheck/internal/platform/store"

	"pfascheck/internal/services/api"

	"github.com/joho/godotenv"
)

func main() {
	// .env is a dev convenience; real deployments set the environment
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()
	l.Info().Str("build", version.Info().String()).Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// only the configured reference source gets a connection
	backend := root.Prefix("CORE_REFERENCE_").MayEnum("SOURCE", store.BackendMongo, store.BackendMongo, store.BackendPG)
	st, err := store.Open(ctx, store.FromEnv(root, "pfascheck-api", backend), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(cctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT and timeouts)
	srv := phttp.NewServer(apiCfg)

	app, err := api.Mount(srv.Router(), api.Options{
		Config:  root,
		Store:   st,
		Logger:  l,
		Metrics: metrics.NewMetrics(),
		Stack: httpkit.StackOptions{
			Timeout: apiCfg.MayDuration("REQUEST_TIMEOUT", 60*time.Second),
			CORS:    middleware.CORSOptions{AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil)},
		},
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableWeb:      apiCfg.MayBool("WEB", true),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	// a failed warm up is logged by the cache and retried after the failure ttl
	go app.Reference.Warm(ctx)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
