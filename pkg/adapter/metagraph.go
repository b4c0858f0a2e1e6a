package adapter

import (
	"sort"

	"github.com/edgefold/monograph/pkg/errors"
)

// FieldSet names the document fields to keep when fetching a collection.
// An empty or nil set keeps the whole document.
type FieldSet map[string]struct{}

// Fields builds a FieldSet from field names.
func Fields(names ...string) FieldSet {
	fs := make(FieldSet, len(names))
	for _, name := range names {
		if name != "" {
			fs[name] = struct{}{}
		}
	}
	return fs
}

// List returns the fields in sorted order, nil for a keep-all set.
func (fs FieldSet) List() []string {
	if len(fs) == 0 {
		return nil
	}
	out := make([]string, 0, len(fs))
	for name := range fs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Metagraph describes which collections feed an export and which fields
// of their documents are kept.
type Metagraph struct {
	VertexCollections map[string]FieldSet `json:"vertex_collections"`
	EdgeCollections   map[string]FieldSet `json:"edge_collections"`
}

// CollectionsMetagraph builds a keep-all metagraph over the named
// collections.
func CollectionsMetagraph(vertexCols, edgeCols []string) Metagraph {
	mg := Metagraph{
		VertexCollections: make(map[string]FieldSet, len(vertexCols)),
		EdgeCollections:   make(map[string]FieldSet, len(edgeCols)),
	}
	for _, col := range vertexCols {
		mg.VertexCollections[col] = nil
	}
	for _, col := range edgeCols {
		mg.EdgeCollections[col] = nil
	}
	return mg
}

// Validate checks the metagraph shape. Edge collections need at least
// one vertex collection to resolve their endpoints against.
func (mg Metagraph) Validate() error {
	if len(mg.VertexCollections) == 0 && len(mg.EdgeCollections) == 0 {
		return errors.New(errors.ErrorTypeValidation, "metagraph names no collections")
	}
	if len(mg.EdgeCollections) > 0 && len(mg.VertexCollections) == 0 {
		return errors.New(errors.ErrorTypeValidation, "metagraph has edge collections but no vertex collections to resolve endpoints")
	}
	for col := range mg.VertexCollections {
		if col == "" {
			return errors.New(errors.ErrorTypeValidation, "metagraph contains an empty vertex collection name")
		}
	}
	for col := range mg.EdgeCollections {
		if col == "" {
			return errors.New(errors.ErrorTypeValidation, "metagraph contains an empty edge collection name")
		}
	}
	return nil
}

// vertexCollectionNames returns the vertex collections in sorted order.
func (mg Metagraph) vertexCollectionNames() []string {
	return sortedCollectionNames(mg.VertexCollections)
}

// edgeCollectionNames returns the edge collections in sorted order.
func (mg Metagraph) edgeCollectionNames() []string {
	return sortedCollectionNames(mg.EdgeCollections)
}

func sortedCollectionNames(m map[string]FieldSet) []string {
	out := make([]string, 0, len(m))
	for col := range m {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}
