// cmd/api-server/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"qbit-backend/internal/api"
	awsclient "qbit-backend/internal/common/aws"
	"qbit-backend/internal/common/clock"
	"qbit-backend/internal/common/config"
	"qbit-backend/internal/common/database"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/common/mail"
	"qbit-backend/internal/common/observability"
	"qbit-backend/internal/services/auth"
	"qbit-backend/internal/services/genai"
	"qbit-backend/internal/services/notification"
	"qbit-backend/internal/services/pricemonitor"
	"qbit-backend/internal/services/search"
	"qbit-backend/internal/store"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting api server...", zap.String("environment", cfg.App.Environment))

	obs := observability.New("api-server")
	defer obs.Shutdown()

	ctx := context.Background()
	checks := []api.ReadinessCheck{}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	checks = append(checks, pg)
	zapLog.Info("PostgreSQL connected successfully")

	if err := store.Migrate(ctx, pg.DB); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}
	st := store.New(pg.DB)

	// --- Init Redis (optional, backs token revocation) ---
	var revoker *auth.Revoker
	if cfg.Database.Redis.Enabled() {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		revoker = auth.NewRevoker(rdb.Client)
		checks = append(checks, rdb)
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Warn("Redis not configured, logout will not revoke tokens")
	}

	// --- Init Elasticsearch (optional, backs price history) ---
	var history pricemonitor.HistoryStore
	if cfg.Database.Elasticsearch.Enabled() {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		esHistory := pricemonitor.NewESHistory(es.Client, cfg.PriceMonitor.HistoryIndex)
		if err := esHistory.EnsureIndex(ctx); err != nil {
			zapLog.Fatal("price history index setup failed", zap.Error(err))
		}
		history = esHistory
		checks = append(checks, es)
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init Services ---
	authCfg := auth.DefaultConfig()
	authCfg.SecretKey = cfg.Auth.SecretKey
	authCfg.TokenTTL = config.GetDuration(cfg.Auth.TokenTTL)
	if cfg.Auth.Issuer != "" {
		authCfg.Issuer = cfg.Auth.Issuer
	}
	authService, err := auth.NewService(auth.ServiceDependencies{
		Logger:  log,
		Store:   st,
		Revoker: revoker,
	}, authCfg)
	if err != nil {
		zapLog.Fatal("auth service init failed", zap.Error(err))
	}

	deps := api.Dependencies{
		Logger:      log,
		CORSOrigins: cfg.Server.CORSOrigins,
		Store:       st,
		Auth:        authService,
		Checks:      checks,
	}

	searchCfg := search.DefaultConfig()
	searchCfg.BaseURL = cfg.APIs.Serp.BaseURL
	searchCfg.APIKey = cfg.APIs.Serp.APIKey
	searchCfg.Geo = cfg.APIs.Serp.Geo
	searchCfg.Language = cfg.APIs.Serp.Language
	searchCfg.Timeout = config.GetDuration(cfg.APIs.Serp.Timeout)
	searchService, err := search.NewService(search.ServiceDependencies{Logger: log, Observability: obs}, searchCfg)
	if err != nil {
		zapLog.Warn("search disabled", zap.Error(err))
	} else {
		deps.Search = searchService
	}

	genaiCfg := genai.DefaultConfig()
	genaiCfg.BaseURL = cfg.APIs.Gemini.BaseURL
	genaiCfg.Model = cfg.APIs.Gemini.Model
	genaiCfg.APIKey = cfg.APIs.Gemini.APIKey
	genaiCfg.Timeout = config.GetDuration(cfg.APIs.Gemini.Timeout)
	chatService, err := genai.NewService(genai.ServiceDependencies{Logger: log, Observability: obs}, genaiCfg)
	if err != nil {
		zapLog.Fatal("genai service init failed", zap.Error(err))
	}
	deps.Chat = chatService

	awsSettings := awsclient.Settings{
		Region:          cfg.Integrations.AWS.Region,
		AccessKeyID:     cfg.Integrations.AWS.AccessKeyID,
		SecretAccessKey: cfg.Integrations.AWS.SecretAccessKey,
	}

	mailer, err := mail.New(ctx, cfg.Mail, awsSettings)
	if err != nil {
		zapLog.Fatal("mail transport init failed", zap.Error(err))
	}
	zapLog.Info("Mail transport ready", zap.String("provider", mailer.Name()))

	notifyDeps := notification.ServiceDependencies{
		Logger: log,
		Clock:  clock.Real{},
		Mailer: mailer,
		Phones: st,
	}

	needsAWS := cfg.Mail.SMS.Enabled || cfg.Integrations.AWS.S3.Bucket != ""
	var uploader pricemonitor.Uploader
	if needsAWS {
		awsCfg, err := awsclient.LoadConfig(ctx, awsSettings)
		if err != nil {
			zapLog.Fatal("aws config load failed", zap.Error(err))
		}
		if cfg.Mail.SMS.Enabled {
			notifyDeps.SMS = awsclient.NewSNSClient(awsCfg, cfg.Mail.SMS.SenderID)
		}
		if bucket := cfg.Integrations.AWS.S3.Bucket; bucket != "" {
			uploader = awsclient.NewS3Client(awsCfg, bucket, cfg.Integrations.AWS.S3.Endpoint)
		}
	}

	notifyCfg := notification.DefaultConfig()
	notifyCfg.SMSEnabled = cfg.Mail.SMS.Enabled
	deps.Notifier = notification.NewService(notifyDeps, notifyCfg)

	var watcher *pricemonitor.Watcher
	if deps.Search != nil {
		pmCfg := pricemonitor.DefaultConfig()
		pmCfg.ExportDir = cfg.PriceMonitor.ExportDir
		pmCfg.HistoryIndex = cfg.PriceMonitor.HistoryIndex
		pmCfg.Schedule = cfg.PriceMonitor.Schedule
		pmCfg.WatchQueries = cfg.PriceMonitor.WatchQueries
		if prefix := cfg.Integrations.AWS.S3.Prefix; prefix != "" {
			pmCfg.S3Prefix = prefix
		}
		if err := pmCfg.Validate(); err != nil {
			zapLog.Fatal("price monitor config invalid", zap.Error(err))
		}

		deps.Prices = pricemonitor.NewService(pricemonitor.ServiceDependencies{
			Logger:   log,
			Clock:    clock.Real{},
			Searcher: searchService,
			History:  history,
			Uploader: uploader,
		}, pmCfg)

		if pmCfg.Schedule != "" {
			watcher, err = pricemonitor.NewWatcher(deps.Prices, pmCfg.Schedule, pmCfg.WatchQueries, log)
			if err != nil {
				zapLog.Fatal("price watcher init failed", zap.Error(err))
			}
			watcher.Start()
			zapLog.Info("Price watcher started", zap.String("schedule", pmCfg.Schedule))
		}
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if watcher != nil {
		watcher.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("API server stopped gracefully")
}
