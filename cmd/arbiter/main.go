package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/arbiterhq/arbiter/internal/config"
	"github.com/arbiterhq/arbiter/internal/db"
	dbRedis "github.com/arbiterhq/arbiter/internal/db/redis"
	"github.com/arbiterhq/arbiter/internal/domain"
	logpkg "github.com/arbiterhq/arbiter/internal/logger"
	"github.com/arbiterhq/arbiter/internal/metrics"
	budgetrepo "github.com/arbiterhq/arbiter/internal/repository/budget"
	corpusrepo "github.com/arbiterhq/arbiter/internal/repository/corpus"
	"github.com/arbiterhq/arbiter/internal/repository/oraclecache"
	chiTransport "github.com/arbiterhq/arbiter/internal/transport/chi"
	openaiOracle "github.com/arbiterhq/arbiter/internal/transport/openai"
	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
	corpusuc "github.com/arbiterhq/arbiter/internal/usecase/corpus"
	deepdiveuc "github.com/arbiterhq/arbiter/internal/usecase/deepdive"
	frameworkuc "github.com/arbiterhq/arbiter/internal/usecase/framework"
	healthuc "github.com/arbiterhq/arbiter/internal/usecase/health"
	oracleuc "github.com/arbiterhq/arbiter/internal/usecase/oracle"
	quickscanuc "github.com/arbiterhq/arbiter/internal/usecase/quickscan"
	similarityuc "github.com/arbiterhq/arbiter/internal/usecase/similarity"
	usageuc "github.com/arbiterhq/arbiter/internal/usecase/usage"
	"github.com/arbiterhq/arbiter/internal/version"
)

// corpusStore is what the composition root needs from a corpus driver.
type corpusStore interface {
	corpusuc.Repository
	Ping(ctx context.Context) error
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting arbiter API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_driver", cfg.Corpus.Driver),
		zap.String("oracle_provider", cfg.Oracle.Provider),
		zap.String("oracle_model", cfg.Oracle.Model),
	)

	ctx := context.Background()

	// Open the corpus store. Only the redis driver brings a shared KV store,
	// which then also serves budget persistence and the oracle reply cache.
	var (
		corpusRepo corpusStore
		kv         db.Store
	)
	switch cfg.Corpus.Driver {
	case "file":
		corpusRepo, err = corpusrepo.NewFile(cfg.Corpus.Path)
	case "sqlite":
		var sq *corpusrepo.SQLiteRepo
		sq, err = corpusrepo.NewSQLite(cfg.Corpus.Path)
		if err == nil {
			defer func() { _ = sq.Close() }()
			corpusRepo = sq
		}
	case "redis":
		kv, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Corpus.Addrs,
			Password: cfg.Corpus.Password,
		})
		if err == nil {
			defer kv.Close()
			corpusRepo = corpusrepo.NewRedis(kv)
		}
	default:
		logger.Fatal("Unknown corpus driver", zap.String("driver", cfg.Corpus.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to open corpus store", zap.Error(err))
	}

	// Wait for the corpus database to be ready
	if kv != nil {
		if err := kv.WaitForReady(ctx, time.Duration(cfg.Corpus.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Corpus database not ready", zap.Error(err))
		}
		logger.Info("Connected to corpus database")
	}

	// Register oracle and analysis metrics explicitly (no init())
	metrics.RegisterOracleMetrics()
	metrics.RegisterAnalysisMetrics()

	// Single BudgetTracker shared by the generator chain and the usage service.
	var budget *oracleuc.BudgetTracker
	budgetCfg := cfg.Oracle.Budget
	if budgetCfg.DailyTokenLimit > 0 || budgetCfg.MonthlyTokenLimit > 0 {
		action := oracleuc.BudgetActionWarn
		if budgetCfg.Action == "reject" {
			action = oracleuc.BudgetActionReject
		}
		budget = oracleuc.NewBudgetTracker(
			cfg.Oracle.Provider, budgetCfg.DailyTokenLimit, budgetCfg.MonthlyTokenLimit, action, logger,
		)
		// Connect the persistence store, which loads current counters from DB.
		if kv != nil {
			budgetStore := budgetrepo.New(kv, 48*time.Hour, 62*24*time.Hour)
			budget.WithStore(ctx, budgetStore)
		}
	}

	// Pass nil interface (not typed nil pointer!) if budget is not configured.
	// Go gotcha: (*BudgetTracker)(nil) wrapped in BudgetChecker != nil.
	var budgetChecker oracleuc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	generator, oracleHealth := buildGenerator(cfg.Oracle, kv, budgetChecker, logger)
	logger.Info("Oracle generator created",
		zap.String("provider", cfg.Oracle.Provider),
		zap.String("model", cfg.Oracle.Model),
		zap.Bool("cached", kv != nil && cfg.Oracle.CacheTTLSec > 0),
	)

	// Create use case services
	similarSvc := similarityuc.New(corpusRepo, logger)
	scanSvc := quickscanuc.New(generator, logger)
	frameworkSvc := frameworkuc.New(generator, logger)
	deepSvc := deepdiveuc.New(generator, logger)

	backend := cfg.Oracle.Provider + "/" + cfg.Oracle.Model
	analyzeSvc := analyzeuc.New(
		similarSvc, scanSvc, frameworkSvc, deepSvc,
		cfg.Analysis.SimilarLimit, backend, logger,
	)
	corpusSvc := corpusuc.New(corpusRepo)

	// Usage service reads from the shared BudgetTracker
	var budgetReader usageuc.BudgetReader
	if budget != nil {
		budgetReader = budget
	}
	usageSvc := usageuc.New(budgetReader, cfg.Oracle.Provider)

	// Health service
	healthSvc := healthuc.New(corpusRepo, oracleHealth)

	// Create chi server
	server := chiTransport.NewServer(analyzeSvc, corpusSvc, usageSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildGenerator assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// The base client doubles as the health checker, so callers get it back
// separately instead of probing the chain.
func buildGenerator(
	cfg config.OracleConfig,
	kv db.Store,
	budget oracleuc.BudgetChecker,
	logger *zap.Logger,
) (domain.TextGenerator, domain.HealthChecker) {
	// Base provider (with transport metrics built-in)
	base := openaiOracle.NewGenerator(&openaiOracle.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Provider:    cfg.Provider,
		Timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		MaxTokens:   cfg.MaxTokens,
		Temperature: float32(cfg.Temperature),
		Logger:      logger,
	})

	// Cached
	var gen domain.TextGenerator = base
	if kv != nil && cfg.CacheTTLSec > 0 {
		gen = oraclecache.New(
			base, kv, time.Duration(cfg.CacheTTLSec)*time.Second,
			metrics.OracleCacheTotal, logger,
		)
	}

	// Instrumented (budget enforcement + usage logging)
	gen = oracleuc.NewInstrumentedGenerator(gen, cfg.Provider, cfg.Model, budget, logger)

	return gen, base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
