// arbiter-mcp exposes the decision engine as an MCP server over stdio,
// for use from agent tooling:
//
//	{
//	  "mcpServers": {
//	    "arbiter": {
//	      "command": "arbiter-mcp"
//	    }
//	  }
//	}
//
// Logs go to stderr; stdout belongs to the MCP transport.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
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
	mcpTransport "github.com/arbiterhq/arbiter/internal/transport/mcp"
	openaiOracle "github.com/arbiterhq/arbiter/internal/transport/openai"
	analyzeuc "github.com/arbiterhq/arbiter/internal/usecase/analyze"
	corpusuc "github.com/arbiterhq/arbiter/internal/usecase/corpus"
	deepdiveuc "github.com/arbiterhq/arbiter/internal/usecase/deepdive"
	frameworkuc "github.com/arbiterhq/arbiter/internal/usecase/framework"
	oracleuc "github.com/arbiterhq/arbiter/internal/usecase/oracle"
	quickscanuc "github.com/arbiterhq/arbiter/internal/usecase/quickscan"
	similarityuc "github.com/arbiterhq/arbiter/internal/usecase/similarity"
	"github.com/arbiterhq/arbiter/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("arbiter-mcp v%s\n", version.Version)
			return
		default:
			fmt.Fprintf(os.Stderr, "Usage: arbiter-mcp [--version]\n")
			os.Exit(1)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting arbiter MCP server",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("corpus_driver", cfg.Corpus.Driver),
		zap.String("oracle_model", cfg.Oracle.Model),
	)

	ctx := context.Background()

	var (
		corpusRepo corpusuc.Repository
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
		return fmt.Errorf("unknown corpus driver %q", cfg.Corpus.Driver)
	}
	if err != nil {
		return fmt.Errorf("open corpus store: %w", err)
	}
	if kv != nil {
		if err := kv.WaitForReady(ctx, time.Duration(cfg.Corpus.ReadinessTimeout)*time.Second); err != nil {
			return fmt.Errorf("corpus database not ready: %w", err)
		}
	}

	metrics.RegisterOracleMetrics()
	metrics.RegisterAnalysisMetrics()

	// Same generator chain as the HTTP binary, minus the exposition surface:
	// metrics are still recorded, there is just no /metrics endpoint here.
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
		if kv != nil {
			budget.WithStore(ctx, budgetrepo.New(kv, 48*time.Hour, 62*24*time.Hour))
		}
	}
	var budgetChecker oracleuc.BudgetChecker
	if budget != nil {
		budgetChecker = budget
	}

	base := openaiOracle.NewGenerator(&openaiOracle.Config{
		APIKey:      cfg.Oracle.APIKey,
		BaseURL:     cfg.Oracle.BaseURL,
		Model:       cfg.Oracle.Model,
		Provider:    cfg.Oracle.Provider,
		Timeout:     time.Duration(cfg.Oracle.TimeoutSec) * time.Second,
		MaxTokens:   cfg.Oracle.MaxTokens,
		Temperature: float32(cfg.Oracle.Temperature),
		Logger:      logger,
	})
	var generator domain.TextGenerator = base
	if kv != nil && cfg.Oracle.CacheTTLSec > 0 {
		generator = oraclecache.New(
			base, kv, time.Duration(cfg.Oracle.CacheTTLSec)*time.Second,
			metrics.OracleCacheTotal, logger,
		)
	}
	generator = oracleuc.NewInstrumentedGenerator(
		generator, cfg.Oracle.Provider, cfg.Oracle.Model, budgetChecker, logger,
	)

	backend := cfg.Oracle.Provider + "/" + cfg.Oracle.Model
	analyzeSvc := analyzeuc.New(
		similarityuc.New(corpusRepo, logger),
		quickscanuc.New(generator, logger),
		frameworkuc.New(generator, logger),
		deepdiveuc.New(generator, logger),
		cfg.Analysis.SimilarLimit, backend, logger,
	)
	corpusSvc := corpusuc.New(corpusRepo)

	s := mcpTransport.NewServer(analyzeSvc, corpusSvc)

	logger.Info("Serving MCP over stdio")
	return server.ServeStdio(s)
}
