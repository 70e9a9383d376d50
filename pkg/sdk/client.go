package convsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/db"
	dbBolt "github.com/kailas-cloud/convsearch/internal/db/bolt"
	dbRedis "github.com/kailas-cloud/convsearch/internal/db/redis"
	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
	"github.com/kailas-cloud/convsearch/internal/querygen"
	interactionrepo "github.com/kailas-cloud/convsearch/internal/repository/interaction"
	"github.com/kailas-cloud/convsearch/internal/retriever/indri"
	"github.com/kailas-cloud/convsearch/internal/retriever/websearch"
	healthuc "github.com/kailas-cloud/convsearch/internal/usecase/health"
	interactionuc "github.com/kailas-cloud/convsearch/internal/usecase/interaction"
	retrievaluc "github.com/kailas-cloud/convsearch/internal/usecase/retrieval"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultMaxTurns         = 5
)

// Client is the convsearch SDK entry point.
type Client struct {
	store        db.Store
	retrieval    *retrievaluc.Service
	interactions *interactionuc.Service
	healthSvc    *healthuc.Service
	obs          *observer
}

// New creates a convsearch Client. A retrieval back end is required; a
// conversation store is optional. The provided context covers back end
// initialization and the store readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		results:    1,
		maxTurns:   defaultMaxTurns,
		textFormat: indri.TextFormatTrecText,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	metrics.RegisterRetrievalMetrics()
	internalLogger := zap.NewNop()

	gen := buildGenerator(cfg)
	backend, retriever, checker, err := buildRetriever(ctx, cfg, internalLogger)
	if err != nil {
		return nil, err
	}

	c := &Client{
		retrieval: retrievaluc.New(backend, gen, retriever, internalLogger),
		obs:       obs,
	}

	if cfg.dbDriver != "" {
		store, err := createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("convsearch: database not ready: %w", err)
		}
		c.store = store
		c.interactions = interactionuc.New(interactionrepo.New(store), internalLogger)
		c.healthSvc = healthuc.New(store, checker)
	}

	return c, nil
}

func buildGenerator(cfg *clientConfig) retrievaluc.QueryGenerator {
	if cfg.gen != nil {
		return &genAdapter{inner: cfg.gen}
	}
	return querygen.NewSimple(cfg.maxTurns)
}

func buildRetriever(
	ctx context.Context, cfg *clientConfig, logger *zap.Logger,
) (string, retrievaluc.Retriever, healthuc.RetrieverChecker, error) {
	if cfg.retriever != nil {
		return "custom", &retrieverAdapter{inner: cfg.retriever}, nil, nil
	}

	switch cfg.engine {
	case EngineIndri:
		engine := indri.NewExecEngine(cfg.indriPath, cfg.indexPath)
		docs := indri.NewDumpIndexStore(cfg.indriPath, cfg.indexPath)
		r, err := indri.New(ctx, engine, docs, indri.Config{
			ResultsRequested: cfg.results,
			TextFormat:       cfg.textFormat,
		}, logger)
		if err != nil {
			return "", nil, nil, fmt.Errorf("convsearch: create index retriever: %w", err)
		}
		return string(EngineIndri), r, r, nil
	case EngineWeb:
		r := websearch.New(&websearch.Config{
			APIKey:           cfg.webAPIKey,
			Endpoint:         cfg.webEndpoint,
			ResultsRequested: cfg.results,
			Logger:           logger,
		})
		return string(EngineWeb), r, nil, nil
	default:
		return "", nil, nil, errors.New(
			"convsearch: retrieval back end required (use WithIndri, WithWebSearch or WithRetriever)",
		)
	}
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.dbDriver {
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("convsearch: create redis store: %w", err)
		}
		return s, nil
	case "bolt":
		s, err := dbBolt.NewStore(cfg.boltPath)
		if err != nil {
			return nil, fmt.Errorf("convsearch: create bolt store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("convsearch: unknown driver %q", cfg.dbDriver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Retrieve derives a query from the conversation (newest turn first) and
// returns documents from the configured back end.
func (c *Client) Retrieve(ctx context.Context, conversation []Message) (docs []Document, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, err) }()

	conv := make([]domain.Message, len(conversation))
	for i, m := range conversation {
		conv[i] = messageToDomain(m)
	}

	found, err := c.retrieval.GetResults(ctx, conv)
	if err != nil {
		return nil, err
	}
	docs = make([]Document, len(found))
	for i, d := range found {
		docs[i] = documentFromDomain(d)
	}
	return docs, nil
}

// Ask is a single-turn convenience wrapper around Retrieve.
func (c *Client) Ask(ctx context.Context, question string) ([]Document, error) {
	return c.Retrieve(ctx, []Message{{Text: question}})
}

// Record appends one message to the user's conversation log.
// Requires a store option.
func (c *Client) Record(ctx context.Context, msg Message) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("record", start, err) }()

	if c.interactions == nil {
		return errors.New("convsearch: conversation store not configured (use WithRedis or WithBolt)")
	}
	_, err = c.interactions.Record(ctx, messageToDomain(msg))
	return err
}

// History returns the user's most recent messages, oldest first. A
// non-positive limit returns everything. Requires a store option.
func (c *Client) History(ctx context.Context, userID string, limit int64) (msgs []Message, err error) {
	start := time.Now()
	defer func() { c.obs.observe("history", start, err) }()

	if c.interactions == nil {
		return nil, errors.New("convsearch: conversation store not configured (use WithRedis or WithBolt)")
	}
	found, err := c.interactions.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	msgs = make([]Message, len(found))
	for i, m := range found {
		msgs[i] = messageFromDomain(m)
	}
	return msgs, nil
}

// Ping checks store connectivity. Requires a store option.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.store == nil {
		return errors.New("convsearch: conversation store not configured")
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// genAdapter wraps the public QueryGenerator to satisfy the internal contract.
type genAdapter struct {
	inner QueryGenerator
}

func (a *genAdapter) GetQuery(ctx context.Context, conv []domain.Message) (string, error) {
	public := make([]Message, len(conv))
	for i, m := range conv {
		public[i] = messageFromDomain(m)
	}
	return a.inner.GetQuery(ctx, public)
}

// retrieverAdapter wraps the public Retriever to satisfy the internal contract.
type retrieverAdapter struct {
	inner Retriever
}

func (a *retrieverAdapter) Retrieve(ctx context.Context, query string) ([]domain.Document, error) {
	docs, err := a.inner.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Document, len(docs))
	for i, d := range docs {
		out[i] = domain.Document{ID: d.ID, Title: d.Title, Text: d.Text, Score: d.Score}
	}
	return out, nil
}
