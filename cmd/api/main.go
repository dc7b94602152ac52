package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicalflow/clinicalflow/cmd/mainconfig"
	"github.com/clinicalflow/clinicalflow/internal/api/router"
	appconfig "github.com/clinicalflow/clinicalflow/internal/config"
	"github.com/clinicalflow/clinicalflow/internal/consultations"
	"github.com/clinicalflow/clinicalflow/internal/encounter"
	"github.com/clinicalflow/clinicalflow/internal/observability/metrics"
	"github.com/clinicalflow/clinicalflow/internal/patients"
	"github.com/clinicalflow/clinicalflow/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinicalflow API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	encounterMetrics := metrics.NewEncounterMetrics(nil)

	// Patient store: Postgres when configured, seeded in-memory otherwise.
	var patientsRepo patients.Repository = patients.NewInMemoryRepository(patients.SeedPatients()...)
	var consultationStore *consultations.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		patientsRepo = patients.NewPostgresRepository(db)
		consultationStore = consultations.NewStore(db)
		logger.Info("postgres persistence enabled")
	} else {
		logger.Info("no DATABASE_URL set, using seeded in-memory patients")
	}

	// Saved-encounter cache is optional.
	var encounterCache *encounter.EncounterCache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		encounterCache = encounter.NewEncounterCache(redisClient, cfg.EncounterCacheTTL, nil)
		logger.Info("saved-encounter cache enabled", "addr", cfg.RedisAddr)
	}

	llmClient := buildLLMClient(cfg, logger)
	modelID := cfg.GeminiModelID
	if cfg.SummaryProvider == "bedrock" {
		modelID = cfg.BedrockModelID
	}
	summarizer := encounter.NewSummarizer(llmClient, modelID, cfg.SummaryTimeout, logger, encounterMetrics)

	var saver encounter.ConsultationSaver
	if consultationStore != nil {
		saver = consultationStore
	}
	encounterHandler := encounter.NewHandler(patientsRepo, summarizer, encounterCache, saver, logger, encounterMetrics)

	r := router.New(&router.Config{
		PatientsHandler:      patients.NewHandler(patientsRepo, logger),
		EncounterHandler:     encounterHandler,
		ConsultationsHandler: consultations.NewHandler(consultationStore, logger),
		MetricsHandler:       promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// buildLLMClient selects the summary provider. Returning nil keeps End Visit
// on the deterministic template.
func buildLLMClient(cfg *appconfig.Config, logger *logging.Logger) encounter.LLMClient {
	if !cfg.EnableAISummary {
		return nil
	}

	switch cfg.SummaryProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("ENABLE_AI_SUMMARY set but GEMINI_API_KEY missing, using template summaries")
			return nil
		}
		client, err := encounter.NewGeminiLLMClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client, using template summaries", "error", err)
			return nil
		}
		return client
	case "bedrock":
		if cfg.BedrockModelID == "" {
			logger.Warn("ENABLE_AI_SUMMARY set but BEDROCK_MODEL_ID missing, using template summaries")
			return nil
		}
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config, using template summaries", "error", err)
			return nil
		}
		return encounter.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
	default:
		logger.Warn("unknown summary provider, using template summaries", "provider", cfg.SummaryProvider)
		return nil
	}
}
