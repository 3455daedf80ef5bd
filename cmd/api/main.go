package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"geminipocket/internal/adapter/repo"
	"geminipocket/internal/http/handlers"
	httpapi "geminipocket/internal/http/httpapi"
	"geminipocket/internal/infra"
	"geminipocket/internal/infra/credentials"
	"geminipocket/internal/infra/geoip"
	"geminipocket/internal/metrics"
	"geminipocket/internal/providers/genai"
	"geminipocket/internal/providers/image"
	"geminipocket/internal/providers/video"
	"geminipocket/internal/sqlinline"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	if _, err := sqlRunner.Exec(ctx, sqlinline.QCreateSchema); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply schema")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	store := credentials.NewStore(sqlRunner)
	if cfg.GeminiAPIKey == "" {
		if key, err := store.GeminiAPIKey(ctx); err != nil || key == "" {
			logger.Warn().Msg("no gemini api key stored and GEMINI_API_KEY unset; provider calls will fail")
		}
	}

	providerLogger := logger.With().Str("component", "genai").Logger()
	client, err := genai.NewClient(genai.Options{
		Keys:       store.GeminiKeySource(cfg.GeminiAPIKey, logger),
		BaseURL:    cfg.GeminiBaseURL,
		ImageModel: cfg.GeminiImageModel,
		VideoModel: cfg.GeminiVideoModel,
		HTTPClient: &http.Client{Timeout: cfg.ProviderTimeout},
		Logger:     &providerLogger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build gemini client")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	users := repo.NewUserRepository(sqlRunner)

	app := handlers.NewApp(handlers.AppOptions{
		Logger:  logger,
		Users:   users,
		Images:  image.NewGeminiGenerator(client),
		Videos:  video.NewVEO(client),
		Metrics: metrics.New(reg),
		Version: version,
	})

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		Users:           users,
		Gatherer:        reg,
		CountryLookup:   resolver.Lookup(),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("image_model", client.ImageModel()).
			Str("video_model", client.VideoModel()).
			Msg("relay listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
