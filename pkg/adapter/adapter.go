// Package adapter converts between a MongoDB collection model and an
// in-memory gonum edge-list model. Export walks vertex and edge
// collections and builds a graph handle; import walks a graph handle and
// writes node and edge documents back in batches. All branching policy
// lives in the Controller; everything else is identity bookkeeping and
// batching.
package adapter

import (
	"context"

	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/config"
	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/logger"
)

// DocumentStore is the database surface the adapter consumes. It is
// implemented by *mongodb.Store; tests substitute an in-memory fake.
type DocumentStore interface {
	// FetchCollection streams a projected collection through fn.
	FetchCollection(ctx context.Context, spec document.FetchSpec, fn func(document.Document) error) error
	// InsertBatch writes one batch under a duplicate-key policy.
	InsertBatch(ctx context.Context, collection string, docs []document.Document, opts document.InsertOptions) (int, error)
	// EnsureCollections creates missing collections.
	EnsureCollections(ctx context.Context, names []string) error
	// GraphDefinition loads a stored named-graph definition.
	GraphDefinition(ctx context.Context, name string) (*document.GraphDefinition, error)
	// SaveGraphDefinition stores or replaces a named-graph definition.
	SaveGraphDefinition(ctx context.Context, def *document.GraphDefinition) error
}

// Adapter converts between collections in a DocumentStore and graph
// handles. Safe to reuse across runs; each operation is sequential.
type Adapter struct {
	store      DocumentStore
	controller Controller
	cfg        *config.BaseConfig
	logger     *zap.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithController replaces the default identity-resolution policy.
func WithController(c Controller) Option {
	return func(a *Adapter) {
		if c != nil {
			a.controller = c
		}
	}
}

// New creates an adapter over a document store.
func New(store DocumentStore, cfg *config.BaseConfig, opts ...Option) (*Adapter, error) {
	if store == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "adapter needs a document store")
	}
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "adapter needs a configuration")
	}

	a := &Adapter{
		store:      store,
		controller: DefaultController{},
		cfg:        cfg,
		logger:     logger.Get().With(zap.String("component", "adapter")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Controller returns the active identity-resolution policy.
func (a *Adapter) Controller() Controller { return a.controller }
