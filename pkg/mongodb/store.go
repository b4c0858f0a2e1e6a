// Package mongodb implements the document store side of the adapter on
// top of the official MongoDB driver. It covers projected collection
// reads, batched writes with duplicate-key policies, collection
// provisioning, and persistence of named graph definitions.
//
// Connection settings live in the Security.Credentials map of the base
// configuration:
//
//	security:
//	  credentials:
//	    uri: mongodb://localhost:27017
//	    database: fraud
//	    graphs_collection: _graphs
package mongodb

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/config"
	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/logger"
	"github.com/edgefold/monograph/pkg/metrics"
)

// DefaultGraphsCollection is where named graph definitions are stored
// unless graphs_collection overrides it.
const DefaultGraphsCollection = "_graphs"

const namespaceExistsCode = 48

// Store is a connected MongoDB database handle.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	graphs   *mongo.Collection
	cfg      *config.BaseConfig
	logger   *zap.Logger
	settings storeSettings
}

type storeSettings struct {
	uri              string
	database         string
	graphsCollection string
}

func settingsFromConfig(cfg *config.BaseConfig) (storeSettings, error) {
	uri := cfg.Security.Credential("uri", "")
	if uri == "" {
		return storeSettings{}, errors.New(errors.ErrorTypeConfig, "missing required property: uri in security.credentials")
	}

	database := cfg.Security.Credential("database", "")
	if database == "" {
		return storeSettings{}, errors.New(errors.ErrorTypeConfig, "missing required property: database in security.credentials")
	}

	return storeSettings{
		uri:              uri,
		database:         database,
		graphsCollection: cfg.Security.Credential("graphs_collection", DefaultGraphsCollection),
	}, nil
}

// Connect establishes a client connection, verifies it with a ping, and
// returns a Store bound to the configured database.
func Connect(ctx context.Context, cfg *config.BaseConfig) (*Store, error) {
	settings, err := settingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	clientOpts := options.Client().
		ApplyURI(settings.uri).
		SetConnectTimeout(cfg.Timeouts.Connection).
		SetServerSelectionTimeout(cfg.Timeouts.Connection)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to ping MongoDB")
	}

	log := logger.WithContext(ctx).With(zap.String("database", settings.database))

	db := client.Database(settings.database)

	var buildInfo bson.M
	if err := db.RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&buildInfo); err != nil {
		log.Warn("failed to get server build info", zap.Error(err))
	} else if version, ok := buildInfo["version"].(string); ok {
		log.Info("connected to MongoDB", zap.String("version", version))
	}

	return &Store{
		client:   client,
		db:       db,
		graphs:   db.Collection(settings.graphsCollection),
		cfg:      cfg,
		logger:   log,
		settings: settings,
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to disconnect from MongoDB")
	}
	s.logger.Info("disconnected from MongoDB")
	return nil
}

// Ping verifies the connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to ping MongoDB")
	}
	return nil
}

// Name returns the connected database name.
func (s *Store) Name() string { return s.settings.database }

// Database exposes the underlying database handle.
func (s *Store) Database() *mongo.Database { return s.db }

// FetchCollection streams the documents of one collection through fn,
// projected down to the fields named in spec plus the reserved identity
// fields. An error from fn aborts the fetch and is returned unchanged.
func (s *Store) FetchCollection(ctx context.Context, spec document.FetchSpec, fn func(document.Document) error) error {
	batchSize := spec.BatchSize
	if batchSize <= 0 {
		batchSize = s.cfg.Performance.FetchBatchSize
	}

	findOpts := options.Find().SetBatchSize(batchSize)
	if proj := BuildProjection(spec.Fields); proj != nil {
		findOpts.SetProjection(proj)
	}

	cursor, err := s.db.Collection(spec.Collection).Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return errors.Wrapf(err, errors.ErrorTypeConnection, "failed to query collection %s", spec.Collection)
	}
	defer cursor.Close(ctx)

	var count int64
	for cursor.Next(ctx) {
		doc := make(document.Document)
		if err := cursor.Decode(&doc); err != nil {
			return errors.Wrapf(err, errors.ErrorTypeData, "failed to decode document from %s", spec.Collection)
		}
		if err := fn(doc); err != nil {
			return err
		}
		count++
	}
	if err := cursor.Err(); err != nil {
		return errors.Wrapf(err, errors.ErrorTypeConnection, "cursor failed on collection %s", spec.Collection)
	}

	metrics.DocumentsFetched.WithLabelValues(spec.Collection).Add(float64(count))
	s.logger.Debug("collection fetched",
		zap.String("collection", spec.Collection),
		zap.Int64("documents", count))
	return nil
}

// InsertBatch writes one batch of documents into a collection under the
// configured duplicate-key policy and returns the number of documents
// written. With OnDuplicateIgnore the count excludes dropped duplicates.
func (s *Store) InsertBatch(ctx context.Context, collection string, docs []document.Document, opts document.InsertOptions) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	coll := s.db.Collection(collection)
	var written int

	switch opts.OnDuplicate {
	case document.OnDuplicateReplace:
		models, err := BuildReplaceModels(docs)
		if err != nil {
			return 0, err
		}
		res, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(opts.Ordered))
		if err != nil {
			return 0, wrapWriteError(err, collection)
		}
		written = int(res.MatchedCount + res.UpsertedCount)

	case document.OnDuplicateUpdate:
		models, err := BuildUpdateModels(docs)
		if err != nil {
			return 0, err
		}
		res, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(opts.Ordered))
		if err != nil {
			return 0, wrapWriteError(err, collection)
		}
		written = int(res.MatchedCount + res.UpsertedCount)

	case document.OnDuplicateIgnore:
		// Unordered so one duplicate does not shadow the rest of the batch.
		_, err := coll.InsertMany(ctx, asInterfaces(docs), options.InsertMany().SetOrdered(false))
		if err != nil {
			dups, other := duplicateCount(err)
			if other {
				return 0, wrapWriteError(err, collection)
			}
			written = len(docs) - dups
		} else {
			written = len(docs)
		}

	default: // document.OnDuplicateError
		res, err := coll.InsertMany(ctx, asInterfaces(docs), options.InsertMany().SetOrdered(opts.Ordered))
		if err != nil {
			return 0, wrapWriteError(err, collection)
		}
		written = len(res.InsertedIDs)
	}

	metrics.DocumentsInserted.WithLabelValues(collection).Add(float64(written))
	return written, nil
}

// EnsureCollections creates any of the named collections that do not
// exist yet. Existing collections are left untouched.
func (s *Store) EnsureCollections(ctx context.Context, names []string) error {
	existing, err := s.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConnection, "failed to list collections")
	}

	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range names {
		if have[name] {
			continue
		}
		if err := s.db.CreateCollection(ctx, name); err != nil {
			var srvErr mongo.ServerError
			if stderrors.As(err, &srvErr) && srvErr.HasErrorCode(namespaceExistsCode) {
				continue
			}
			return errors.Wrapf(err, errors.ErrorTypeConnection, "failed to create collection %s", name)
		}
		s.logger.Info("created collection", zap.String("collection", name))
	}
	return nil
}

// DropCollections drops the named collections. Collections that do not
// exist are ignored; the driver treats dropping a missing namespace as
// a no-op.
func (s *Store) DropCollections(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := s.db.Collection(name).Drop(ctx); err != nil {
			return errors.Wrapf(err, errors.ErrorTypeConnection, "failed to drop collection %s", name)
		}
		s.logger.Info("dropped collection", zap.String("collection", name))
	}
	return nil
}

func asInterfaces(docs []document.Document) []interface{} {
	out := make([]interface{}, len(docs))
	for i, doc := range docs {
		out[i] = doc
	}
	return out
}

func wrapWriteError(err error, collection string) error {
	switch {
	case IsDuplicateKeyErr(err):
		return errors.Wrapf(err, errors.ErrorTypeDuplicate, "duplicate key in collection %s", collection)
	case mongo.IsTimeout(err):
		return errors.Wrapf(err, errors.ErrorTypeTimeout, "write to collection %s timed out", collection)
	case mongo.IsNetworkError(err):
		return errors.Wrapf(err, errors.ErrorTypeConnection, "write to collection %s failed", collection)
	default:
		return errors.Wrapf(err, errors.ErrorTypeData, "failed to write to collection %s", collection)
	}
}
