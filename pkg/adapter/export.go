package adapter

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/graph"
	"github.com/edgefold/monograph/pkg/logger"
	"github.com/edgefold/monograph/pkg/metrics"
	"github.com/edgefold/monograph/pkg/observability"
)

// ExportGraph builds an in-memory graph from the collections a metagraph
// names. Vertex collections load first and define the known node set;
// edge collections then add lines between known endpoints. An edge
// referencing an unknown endpoint fails the export unless
// WithSkipDanglingEdges is set.
func (a *Adapter) ExportGraph(ctx context.Context, name string, mg Metagraph, opts ...ExportOption) (*graph.Graph, error) {
	if err := mg.Validate(); err != nil {
		return nil, err
	}

	eo := a.exportDefaults()
	for _, opt := range opts {
		opt(&eo)
	}

	runID := uuid.NewString()
	log := logger.WithContext(ctx).With(
		zap.String("graph", name),
		zap.String("run_id", runID))
	timer := metrics.NewTimer("export")
	tracer := observability.NewRunTracer(name, runID)

	ctx, span := tracer.StartSpan(ctx, "export")
	defer span.End()

	log.Info("starting export",
		zap.Strings("vertex_collections", mg.vertexCollectionNames()),
		zap.Strings("edge_collections", mg.edgeCollectionNames()))

	g := graph.New(name)

	for _, col := range mg.vertexCollectionNames() {
		spec := document.FetchSpec{
			Collection: col,
			Fields:     mg.VertexCollections[col].List(),
			BatchSize:  eo.fetchBatchSize,
		}

		var count int64
		err := tracer.TraceCollection(ctx, col, "fetch_vertices", func(ctx context.Context) error {
			return a.store.FetchCollection(ctx, spec, func(doc document.Document) error {
				identity, err := a.controller.PrepareVertex(doc, col)
				if err != nil {
					return errors.Wrapf(err, errors.ErrorTypeData, "failed to prepare vertex from collection %s", col)
				}
				g.AddNode(identity)
				count++
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
		log.Info("vertex collection loaded",
			zap.String("collection", col),
			zap.Int64("documents", count))
	}
	metrics.NodesLoaded.WithLabelValues(name).Add(float64(g.Order()))

	var skipped int64
	for _, col := range mg.edgeCollectionNames() {
		spec := document.FetchSpec{
			Collection: col,
			Fields:     mg.EdgeCollections[col].List(),
			BatchSize:  eo.fetchBatchSize,
		}

		var count int64
		err := tracer.TraceCollection(ctx, col, "fetch_edges", func(ctx context.Context) error {
			return a.store.FetchCollection(ctx, spec, func(doc document.Document) error {
				if err := a.controller.PrepareEdge(doc, col); err != nil {
					return errors.Wrapf(err, errors.ErrorTypeData, "failed to prepare edge from collection %s", col)
				}

				from, err := document.From(doc)
				if err != nil {
					return err
				}
				to, err := document.To(doc)
				if err != nil {
					return err
				}

				if !g.Has(from) || !g.Has(to) {
					if eo.skipDangling {
						skipped++
						return nil
					}
					key, _ := document.Key(doc)
					return errors.Newf(errors.ErrorTypeData,
						"edge %s references an unknown endpoint (%s -> %s); export the endpoint collections or set skip_dangling_edges",
						document.QualifyID(col, key), from, to)
				}

				var weight float64
				if eo.weightField != "" {
					weight, _ = document.Float(doc, eo.weightField)
				}
				g.AddLine(from, to, weight)
				count++
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
		log.Info("edge collection loaded",
			zap.String("collection", col),
			zap.Int64("documents", count))
	}
	metrics.EdgesLoaded.WithLabelValues(name).Add(float64(g.Size()))
	if skipped > 0 {
		metrics.EdgesSkipped.WithLabelValues(name).Add(float64(skipped))
		log.Warn("dangling edges skipped", zap.Int64("edges", skipped))
	}

	duration := timer.Stop()
	metrics.ExportDuration.WithLabelValues(name).Observe(duration.Seconds())

	span.SetAttribute("graph.order", g.Order())
	span.SetAttribute("graph.size", g.Size())
	span.SetAttribute("graph.skipped_edges", skipped)

	log.Info("graph exported",
		zap.Int("nodes", g.Order()),
		zap.Int("edges", g.Size()),
		zap.Duration("duration", duration))
	return g, nil
}

// ExportCollections builds a graph from the named collections, keeping
// every document field.
func (a *Adapter) ExportCollections(ctx context.Context, name string, vertexCols, edgeCols []string, opts ...ExportOption) (*graph.Graph, error) {
	return a.ExportGraph(ctx, name, CollectionsMetagraph(vertexCols, edgeCols), opts...)
}

// ExportNamed builds a graph from a stored graph definition.
func (a *Adapter) ExportNamed(ctx context.Context, name string, opts ...ExportOption) (*graph.Graph, error) {
	def, err := a.store.GraphDefinition(ctx, name)
	if err != nil {
		return nil, err
	}
	return a.ExportGraph(ctx, name, CollectionsMetagraph(def.VertexCollections(), def.EdgeCollections()), opts...)
}
