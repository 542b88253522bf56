package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	"github.com/aaravmahajanofficial/teagram/internal/auth"
	"github.com/aaravmahajanofficial/teagram/internal/cache"
	"github.com/aaravmahajanofficial/teagram/internal/cart"
	"github.com/aaravmahajanofficial/teagram/internal/catalog"
	"github.com/aaravmahajanofficial/teagram/internal/checkout"
	"github.com/aaravmahajanofficial/teagram/internal/config"
	"github.com/aaravmahajanofficial/teagram/internal/health"
	"github.com/aaravmahajanofficial/teagram/internal/metrics"
	"github.com/aaravmahajanofficial/teagram/internal/navigation"
	"github.com/aaravmahajanofficial/teagram/internal/storage"
	"github.com/aaravmahajanofficial/teagram/internal/storefront"
	"github.com/aaravmahajanofficial/teagram/internal/telemetry"
	"github.com/aaravmahajanofficial/teagram/internal/theme"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {

	// Logger setup; stdout belongs to the storefront
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("⚠️ Error flushing traces", slog.String("error", err.Error()))
		}
	}()

	// Redis setup, only when a backend needs it
	var redisClient *redis.Client
	if health.UsesRedis(cfg) {
		redisClient, err = storage.NewRedisClient(ctx, &cfg.RedisConnect)
		if err != nil {
			slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
			}
		}()
	}

	store, err := newStorage(cfg, redisClient)
	if err != nil {
		slog.Error("❌ Error opening client storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	var productCache cache.Cache
	if cfg.Cache.Backend == "redis" {
		productCache = cache.NewRedisCache(redisClient, &cfg.Cache)
	} else {
		productCache = cache.NewMemoryCache(&cfg.Cache)
	}
	defer productCache.Close()

	httpClient := apiclient.NewHTTPClient(cfg.API.Timeout)
	authManager := auth.NewManager(auth.NewTokenStore(store, logger), cfg.API.BaseURL, httpClient, logger)
	client := apiclient.New(cfg.API.BaseURL, authManager,
		apiclient.WithHTTPClient(httpClient),
		apiclient.WithRetryPolicy(apiclient.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxJitter:   cfg.Retry.MaxJitter,
		}),
		apiclient.WithLogger(logger),
	)

	catalogClient := catalog.NewClient(client, productCache, cfg.Cache.DefaultTTL, logger)
	cartStore := cart.NewStore(cart.NewAPI(client), catalogClient, logger)

	app := storefront.New(storefront.Deps{
		Router:   navigation.NewRouter(),
		Catalog:  catalogClient,
		Pager:    catalog.NewPager(catalogClient, cfg.Catalog.PageSize),
		Cart:     cartStore,
		Checkout: checkout.NewFlow(checkout.NewOrderAPI(client), cartStore, logger),
		Theme:    theme.Load(ctx, store, logger),
		Auth:     authManager,
		Logger:   logger,
	})
	defer app.Close()

	if cfg.Metrics.Addr != "" {
		server, err := newOpsServer(cfg)
		if err != nil {
			slog.Error("❌ Error setting up health checks", slog.String("error", err.Error()))
			os.Exit(1)
		}

		go func() {
			slog.Info("🚀 Metrics server is starting...", slog.String("address", cfg.Metrics.Addr))
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				slog.Error("❌ Failed to start metrics server", slog.String("error", err.Error()))
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("⚠️ Metrics server shutdown encountered an issue", slog.String("error", err.Error()))
			}
		}()
	}

	slog.Info("🍵 Storefront is starting...", slog.String("env", cfg.Env), slog.String("api", cfg.API.BaseURL), slog.String("version", version))

	app.Start(ctx)
	repl(ctx, app, os.Stdin, os.Stdout)

	slog.Warn("🛑 Storefront is stopping...")
}

func newStorage(cfg *config.Config, redisClient *redis.Client) (storage.Storage, error) {
	if cfg.Storage.Backend == "redis" {
		return storage.NewRedisStorage(redisClient), nil
	}

	return storage.NewFileStorage(cfg.Storage.Path)
}

func newOpsServer(cfg *config.Config) (*http.Server, error) {

	h, err := health.NewHealthHandler(cfg, version)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /health", h.Handler())

	return &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}, nil
}

// repl reads commands until EOF, "exit" or ctx is done.
func repl(ctx context.Context, app *storefront.App, in io.Reader, out io.Writer) {

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprint(out, app.Render())

	for {
		fmt.Fprint(out, "\n> ")

		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok || line == "exit" || line == "quit" {
				return
			}

			rendered, err := app.Execute(ctx, line)
			fmt.Fprint(out, rendered)
			if err != nil {
				fmt.Fprintf(out, "\n⚠️ %s\n", describe(err))
			}
		}
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, storefront.ErrUnknownCommand),
		errors.Is(err, storefront.ErrUsage),
		errors.Is(err, storefront.ErrWrongPage):
		return err.Error()
	case apiclient.IsUnauthorized(err):
		return "Требуется вход: login <refresh-token>"
	case apiclient.IsCanceled(err):
		return "Запрос отменён"
	default:
		return "Что-то пошло не так, попробуйте ещё раз"
	}
}
