package entitysearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/entitysearch/internal/db"
	"github.com/kailas-cloud/entitysearch/internal/db/embedded"
	dbRedis "github.com/kailas-cloud/entitysearch/internal/db/redis"
	dombatch "github.com/kailas-cloud/entitysearch/internal/domain/batch"
	"github.com/kailas-cloud/entitysearch/internal/domain/cluster"
	domindex "github.com/kailas-cloud/entitysearch/internal/domain/index"
	"github.com/kailas-cloud/entitysearch/internal/domain/search/request"
	documentrepo "github.com/kailas-cloud/entitysearch/internal/repository/document"
	indexrepo "github.com/kailas-cloud/entitysearch/internal/repository/index"
	searchrepo "github.com/kailas-cloud/entitysearch/internal/repository/search"
	clusteringuc "github.com/kailas-cloud/entitysearch/internal/usecase/clustering"
	documentuc "github.com/kailas-cloud/entitysearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/entitysearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/entitysearch/internal/usecase/index"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "es:"
	defaultMaxCandidates    = 10000
)

// Use case seams, swapped for mocks in tests.
type indexUseCase interface {
	Create(ctx context.Context, name string, textFields []string, signatureField string) (domindex.Index, error)
	Drop(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

type documentUseCase interface {
	Index(ctx context.Context, index string, items []documentuc.Item) []dombatch.Result
	Delete(ctx context.Context, index string, ids []string) []dombatch.Result
}

type clusteringUseCase interface {
	Search(ctx context.Context, req *request.Request) (clusteringuc.Response, error)
}

// Client is the entitysearch SDK entry point.
type Client struct {
	store          db.Store
	indexSvc       indexUseCase
	docSvc         documentUseCase
	clusteringSvc  clusteringUseCase
	healthSvc      healthUseCase
	signatureField string
	obs            *observer
}

// New creates a Client and opens the backend. Without WithRedis the client
// uses in-memory bleve indexes. ctx bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:         DriverBleve,
		keyPrefix:      defaultKeyPrefix,
		maxCandidates:  defaultMaxCandidates,
		maxBatchSize:   documentuc.MaxBatchSize,
		signatureField: cluster.DefaultSignatureField,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("entitysearch: backend not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(store, cfg, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case DriverRedis:
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, errors.New("entitysearch: redis address required (use WithRedis)")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:         cfg.addrs,
			Password:      cfg.password,
			KeyPrefix:     cfg.keyPrefix,
			MaxCandidates: cfg.maxCandidates,
		})
		if err != nil {
			return nil, fmt.Errorf("entitysearch: create redis store: %w", err)
		}
		return s, nil
	case DriverBleve:
		s, err := embedded.NewStore(embedded.Config{
			Path:          cfg.path,
			MaxCandidates: cfg.maxCandidates,
		})
		if err != nil {
			return nil, fmt.Errorf("entitysearch: create bleve store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("entitysearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	idxSvc := indexuc.New(indexrepo.New(store))
	clusteringSvc := clusteringuc.New(searchrepo.New(store)).
		WithSignatureResolver(idxSvc).
		WithDefaultSignatureField(cfg.signatureField)
	return &Client{
		store:          store,
		indexSvc:       idxSvc,
		docSvc:         documentuc.New(documentrepo.New(store), idxSvc).WithMaxBatchSize(cfg.maxBatchSize),
		clusteringSvc:  clusteringSvc,
		healthSvc:      healthuc.New(store, idxSvc),
		signatureField: cfg.signatureField,
		obs:            obs,
	}
}

// Close releases the backend.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("entitysearch: ping: %w", err)
	}
	return nil
}

// Indices returns the index management service.
func (c *Client) Indices() *IndexService {
	return &IndexService{svc: c.indexSvc, signatureField: c.signatureField, obs: c.obs}
}

// Documents returns the document service for one index.
func (c *Client) Documents(index string) *DocumentService {
	return &DocumentService{index: index, svc: c.docSvc, obs: c.obs}
}

// Search starts a search over indices. No indices searches all of them.
func (c *Client) Search(indices ...string) *SearchBuilder {
	return &SearchBuilder{
		indices: indices,
		svc:     c.clusteringSvc,
		obs:     c.obs,
	}
}
