package adapter

import "github.com/edgefold/monograph/pkg/document"

// DefaultWeightField is the edge document field carrying line weights.
const DefaultWeightField = "weight"

type exportOptions struct {
	weightField    string
	skipDangling   bool
	fetchBatchSize int32
}

func (a *Adapter) exportDefaults() exportOptions {
	return exportOptions{
		weightField:    DefaultWeightField,
		fetchBatchSize: a.cfg.Performance.FetchBatchSize,
	}
}

// ExportOption configures one export run.
type ExportOption func(*exportOptions)

// WithWeightField sets the edge document field read as line weight.
// An empty field disables weight reads; lines weigh 0.
func WithWeightField(field string) ExportOption {
	return func(o *exportOptions) { o.weightField = field }
}

// WithSkipDanglingEdges drops edges whose endpoints are not loaded
// instead of failing the export.
func WithSkipDanglingEdges() ExportOption {
	return func(o *exportOptions) { o.skipDangling = true }
}

// WithFetchBatchSize overrides the cursor batch size for this run.
func WithFetchBatchSize(n int32) ExportOption {
	return func(o *exportOptions) {
		if n > 0 {
			o.fetchBatchSize = n
		}
	}
}

type importOptions struct {
	edgeDefinitions []document.EdgeDefinition
	orphans         []string
	keyifyNodes     bool
	keyifyEdges     bool
	overwriteGraph  bool
	batchSize       int
	onDuplicate     document.OnDuplicate
	weightField     string
}

func (a *Adapter) importDefaults() importOptions {
	return importOptions{
		batchSize:   a.cfg.Performance.BatchSize,
		onDuplicate: document.OnDuplicateError,
		weightField: DefaultWeightField,
	}
}

// ImportOption configures one import run.
type ImportOption func(*importOptions)

// WithEdgeDefinitions provides the edge definitions for a graph that is
// not yet defined (or is being overwritten).
func WithEdgeDefinitions(defs ...document.EdgeDefinition) ImportOption {
	return func(o *importOptions) { o.edgeDefinitions = append(o.edgeDefinitions, defs...) }
}

// WithOrphanCollections adds vertex collections that no edge definition
// references.
func WithOrphanCollections(cols ...string) ImportOption {
	return func(o *importOptions) { o.orphans = append(o.orphans, cols...) }
}

// WithKeyifyNodes derives node document keys through the controller
// instead of positional indices.
func WithKeyifyNodes() ImportOption {
	return func(o *importOptions) { o.keyifyNodes = true }
}

// WithKeyifyEdges derives edge document keys through the controller
// instead of positional indices.
func WithKeyifyEdges() ImportOption {
	return func(o *importOptions) { o.keyifyEdges = true }
}

// WithOverwriteGraph replaces a stored graph definition with the
// provided edge definitions.
func WithOverwriteGraph() ImportOption {
	return func(o *importOptions) { o.overwriteGraph = true }
}

// WithBatchSize overrides the write batch size for this run.
func WithBatchSize(n int) ImportOption {
	return func(o *importOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithOnDuplicate sets the duplicate-key policy for batch writes.
func WithOnDuplicate(policy document.OnDuplicate) ImportOption {
	return func(o *importOptions) { o.onDuplicate = policy }
}

// WithImportWeightField sets the edge document field that receives line
// weights. An empty field omits weights from edge documents.
func WithImportWeightField(field string) ImportOption {
	return func(o *importOptions) { o.weightField = field }
}
