package arbiter

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	corpusDriver string // "memory", "file", "sqlite" or "redis"
	corpusPath   string
	redisAddrs   []string
	redisPass    string

	generator     Generator
	openaiKey     string
	openaiBaseURL string
	openaiModel   string

	dailyTokenLimit   int64
	monthlyTokenLimit int64
	budgetReject      bool

	similarLimit int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMemoryCorpus keeps decision records in process memory. This is the
// default; records are lost when the client closes.
func WithMemoryCorpus() Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusDriver = "memory"
	})
}

// WithFileCorpus stores decision records as JSON files under dir.
func WithFileCorpus(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusDriver = "file"
		c.corpusPath = dir
	})
}

// WithSQLiteCorpus stores decision records in a SQLite database file.
func WithSQLiteCorpus(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusDriver = "sqlite"
		c.corpusPath = path
	})
}

// WithRedisCorpus stores decision records in a Redis or Valkey instance.
// The same connection persists token budget counters across restarts.
func WithRedisCorpus(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusDriver = "redis"
		c.redisAddrs = []string{addr}
		c.redisPass = password
	})
}

// WithOracle sets a custom generation backend. Without one (and without
// WithOpenAI) analysis runs offline on deterministic fallbacks.
func WithOracle(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generator = g
	})
}

// WithOpenAI configures the built-in OpenAI-compatible generation backend.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiKey = apiKey
		c.openaiModel = model
	})
}

// WithOpenAIBaseURL points the built-in backend at an OpenAI-compatible
// endpoint other than api.openai.com.
func WithOpenAIBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiBaseURL = url
	})
}

// WithBudget caps oracle token spend per day and per month. A zero limit
// means unlimited. By default an exceeded budget only logs a warning; see
// WithBudgetReject.
func WithBudget(dailyTokens, monthlyTokens int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokenLimit = dailyTokens
		c.monthlyTokenLimit = monthlyTokens
	})
}

// WithBudgetReject makes an exceeded budget reject generation calls instead
// of warning. Analysis then degrades to fallbacks until the budget resets.
func WithBudgetReject() Option {
	return optionFunc(func(c *clientConfig) {
		c.budgetReject = true
	})
}

// WithSimilarLimit sets how many similar past decisions an analysis pulls
// from the corpus. Default: 5.
func WithSimilarLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.similarLimit = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
