package adapter

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/graph"
	"github.com/edgefold/monograph/pkg/logger"
	"github.com/edgefold/monograph/pkg/metrics"
	"github.com/edgefold/monograph/pkg/observability"
)

// ImportGraph writes a graph handle back into the database as node and
// edge documents under the named graph definition. A stored definition
// wins over provided edge definitions unless WithOverwriteGraph is set.
// Node and edge keys are positional insertion indices unless keyify
// options route them through the controller. The definition used is
// saved after all batches flush and returned.
func (a *Adapter) ImportGraph(ctx context.Context, g *graph.Graph, name string, opts ...ImportOption) (*document.GraphDefinition, error) {
	if g == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "import needs a graph")
	}
	if name == "" {
		return nil, errors.New(errors.ErrorTypeValidation, "import needs a graph name")
	}

	io := a.importDefaults()
	for _, opt := range opts {
		opt(&io)
	}
	if _, err := document.ParseOnDuplicate(string(io.onDuplicate)); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.WithContext(ctx).With(
		zap.String("graph", name),
		zap.String("run_id", runID))
	timer := metrics.NewTimer("import")
	tracer := observability.NewRunTracer(name, runID)

	ctx, span := tracer.StartSpan(ctx, "import")
	defer span.End()

	def, usingStored, err := a.resolveDefinition(ctx, name, io)
	if err != nil {
		return nil, err
	}
	if usingStored && (len(io.edgeDefinitions) > 0 || len(io.orphans) > 0) {
		log.Info("graph already defined; provided definitions ignored")
	}

	vertexCols := def.VertexCollections()
	edgeCols := def.EdgeCollections()

	log.Info("starting import",
		zap.Strings("vertex_collections", vertexCols),
		zap.Strings("edge_collections", edgeCols),
		zap.Int("nodes", g.Order()),
		zap.Int("edges", g.Size()),
		zap.String("on_duplicate", string(io.onDuplicate)))

	all := make([]string, 0, len(vertexCols)+len(edgeCols))
	all = append(all, vertexCols...)
	all = append(all, edgeCols...)
	if err := a.store.EnsureCollections(ctx, all); err != nil {
		return nil, err
	}

	writers := a.newWriterSet(io, log, tracer)
	if err := a.writeGraph(ctx, g, io, vertexCols, edgeCols, writers); err != nil {
		writers.discard()
		return nil, err
	}

	if err := a.store.SaveGraphDefinition(ctx, def); err != nil {
		return nil, err
	}

	duration := timer.Stop()
	metrics.ImportDuration.WithLabelValues(name).Observe(duration.Seconds())

	span.SetAttribute("documents.written", writers.totalWritten())
	span.SetAttribute("batches.flushed", writers.totalFlushes())

	log.Info("graph imported",
		zap.Int("documents", writers.totalWritten()),
		zap.Int("batches", writers.totalFlushes()),
		zap.Duration("duration", duration))
	return def, nil
}

// writeGraph buffers every node and line of g into the writer set and
// flushes it. Node documents are written before edge documents so edge
// references always point at persisted keys.
func (a *Adapter) writeGraph(ctx context.Context, g *graph.Graph, io importOptions, vertexCols, edgeCols []string, writers *writerSet) error {
	ids := make(map[string]string, g.Order())

	for i, n := range g.Nodes() {
		identity := n.Identity()
		col, err := a.resolveNodeCollection(identity, vertexCols)
		if err != nil {
			return err
		}

		key := strconv.Itoa(i + 1)
		if io.keyifyNodes {
			key, err = a.controller.KeyifyNode(identity, col)
			if err != nil {
				return errors.Wrapf(err, errors.ErrorTypeData, "failed to keyify node %q", identity)
			}
			if !document.ValidKey(key) {
				return errors.Newf(errors.ErrorTypeValidation,
					"controller produced invalid key %q for node %q", key, identity)
			}
		}

		ids[identity] = document.QualifyID(col, key)
		if err := writers.add(ctx, col, document.Document{document.FieldKey: key}); err != nil {
			return err
		}
	}

	for i, l := range g.Lines() {
		from, to := l.From.Identity(), l.To.Identity()
		col, err := a.resolveEdgeCollection(from, to, edgeCols)
		if err != nil {
			return err
		}

		key := strconv.Itoa(i + 1)
		if io.keyifyEdges {
			key, err = a.controller.KeyifyEdge(from, to, col)
			if err != nil {
				return errors.Wrapf(err, errors.ErrorTypeData, "failed to keyify edge %q -> %q", from, to)
			}
			if !document.ValidKey(key) {
				return errors.Newf(errors.ErrorTypeValidation,
					"controller produced invalid key %q for edge %q -> %q", key, from, to)
			}
		}

		doc := document.Document{
			document.FieldKey:  key,
			document.FieldFrom: ids[from],
			document.FieldTo:   ids[to],
		}
		if io.weightField != "" {
			doc[io.weightField] = l.Weight
		}
		if err := writers.add(ctx, col, doc); err != nil {
			return err
		}
	}

	return writers.closeAll(ctx)
}

// resolveDefinition picks the graph definition an import runs under.
func (a *Adapter) resolveDefinition(ctx context.Context, name string, io importOptions) (*document.GraphDefinition, bool, error) {
	stored, err := a.store.GraphDefinition(ctx, name)
	switch {
	case err == nil:
		if !io.overwriteGraph || len(io.edgeDefinitions)+len(io.orphans) == 0 {
			return stored, true, nil
		}
	case !errors.IsType(err, errors.ErrorTypeNotFound):
		return nil, false, err
	}

	if len(io.edgeDefinitions)+len(io.orphans) == 0 {
		return nil, false, errors.Newf(errors.ErrorTypeValidation,
			"graph %q is not defined and no edge definitions were provided", name)
	}

	def := &document.GraphDefinition{
		Name:              name,
		EdgeDefinitions:   io.edgeDefinitions,
		OrphanCollections: io.orphans,
	}
	if err := def.Validate(); err != nil {
		return nil, false, err
	}
	return def, false, nil
}

func (a *Adapter) resolveNodeCollection(identity string, vertexCols []string) (string, error) {
	switch len(vertexCols) {
	case 0:
		return "", errors.New(errors.ErrorTypeValidation, "graph definition has no vertex collections")
	case 1:
		return vertexCols[0], nil
	}

	col, err := a.controller.IdentifyNode(identity, vertexCols)
	if err != nil {
		return "", err
	}
	if !containsString(vertexCols, col) {
		return "", errors.Newf(errors.ErrorTypeValidation,
			"controller chose %q which is not a vertex collection of the graph", col)
	}
	return col, nil
}

func (a *Adapter) resolveEdgeCollection(from, to string, edgeCols []string) (string, error) {
	switch len(edgeCols) {
	case 0:
		return "", errors.New(errors.ErrorTypeValidation, "graph definition has no edge collections")
	case 1:
		return edgeCols[0], nil
	}

	col, err := a.controller.IdentifyEdge(from, to, edgeCols)
	if err != nil {
		return "", err
	}
	if !containsString(edgeCols, col) {
		return "", errors.Newf(errors.ErrorTypeValidation,
			"controller chose %q which is not an edge collection of the graph", col)
	}
	return col, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
