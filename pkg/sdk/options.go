package entitysearch

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

// Backend drivers.
const (
	DriverBleve = "bleve"
	DriverRedis = "redis"
)

type clientConfig struct {
	driver    string
	addrs     []string
	password  string
	keyPrefix string
	path      string

	maxCandidates  int
	maxBatchSize   int
	signatureField string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis stores indices in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = DriverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBleve stores indices in local bleve indexes under path.
// An empty path keeps everything in memory. This is the default.
func WithBleve(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = DriverBleve
		c.path = path
	})
}

// WithKeyPrefix sets the Redis key prefix. Default: "es:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithMaxCandidates caps the number of candidates the backend verifies
// per search. Default: 10000.
func WithMaxCandidates(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxCandidates = n
	})
}

// WithMaxBatchSize sets the maximum number of items per batch operation.
// Default: 500.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithSignatureField sets the field hits are clustered on when a search
// does not name one. Default: "entityContent".
func WithSignatureField(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.signatureField = name
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
