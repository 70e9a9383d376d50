package convsearch

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryGenerator derives a standalone search query from a conversation,
// newest turn first.
type QueryGenerator interface {
	GetQuery(ctx context.Context, conversation []Message) (string, error)
}

// Retriever fetches documents for a query. Implement it to plug a custom
// back end into the client.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]Document, error)
}

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	engine Engine

	indriPath  string
	indexPath  string
	textFormat string

	webAPIKey   string
	webEndpoint string

	results int

	retriever Retriever

	gen      QueryGenerator
	maxTurns int

	dbDriver string // "redis" or "bolt"
	addrs    []string
	password string
	boltPath string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithIndri configures retrieval from a local Indri index. indriPath is the
// toolkit installation directory, indexPath the built index.
func WithIndri(indriPath, indexPath string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engine = EngineIndri
		c.indriPath = indriPath
		c.indexPath = indexPath
	})
}

// WithTextFormat sets the stored document format for the index back end.
// Defaults to "trectext", the only supported value.
func WithTextFormat(format string) Option {
	return optionFunc(func(c *clientConfig) {
		c.textFormat = format
	})
}

// WithWebSearch configures retrieval from a Bing-style web search API.
func WithWebSearch(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.engine = EngineWeb
		c.webAPIKey = apiKey
	})
}

// WithWebEndpoint overrides the web search API endpoint.
func WithWebEndpoint(endpoint string) Option {
	return optionFunc(func(c *clientConfig) {
		c.webEndpoint = endpoint
	})
}

// WithRetriever plugs a custom retrieval back end into the client.
// Overrides WithIndri and WithWebSearch.
func WithRetriever(r Retriever) Option {
	return optionFunc(func(c *clientConfig) {
		c.retriever = r
	})
}

// WithResults sets the number of documents per retrieval. Default: 1.
func WithResults(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.results = n
	})
}

// WithQueryGenerator replaces the default generator, which joins the most
// recent conversation turns into one query string.
func WithQueryGenerator(g QueryGenerator) Option {
	return optionFunc(func(c *clientConfig) {
		c.gen = g
	})
}

// WithMaxTurns caps the conversation turns fed to the default query
// generator. Default: 5.
func WithMaxTurns(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTurns = n
	})
}

// WithRedis stores the conversation log in a Redis instance. Without a store
// option, Record and History are unavailable.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dbDriver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithBolt stores the conversation log in a local bbolt file.
func WithBolt(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dbDriver = "bolt"
		c.boltPath = path
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
