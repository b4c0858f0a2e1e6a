// Package document defines the document-database side of the adapter's data
// model: raw documents, qualified identities, key validation, and the graph
// definition documents stored alongside the data.
//
// A vertex document lives in a collection and is identified inside it by its
// "_id" key. Its graph-side identity is the qualified ID "collection/key".
// Edge documents reference their endpoints through "_from" and "_to" fields
// holding qualified IDs.
package document

import (
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edgefold/monograph/pkg/errors"
)

// Reserved document fields.
const (
	// FieldKey is the document key field
	FieldKey = "_id"
	// FieldFrom is the edge source reference field
	FieldFrom = "_from"
	// FieldTo is the edge target reference field
	FieldTo = "_to"
)

// MaxKeyLength is the maximum byte length of a document key.
const MaxKeyLength = 254

// Document is a raw database document. It decodes directly from BSON and
// marshals directly for inserts.
type Document = map[string]interface{}

// QualifyID builds the qualified ID "collection/key" for a vertex document.
func QualifyID(collection, key string) string {
	return collection + "/" + key
}

// SplitID splits a qualified ID into its collection and key parts.
// It splits at the first slash; ok is false when either part is empty
// or no slash is present.
func SplitID(id string) (collection, key string, ok bool) {
	i := strings.Index(id, "/")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}

// Key returns the stringified "_id" of a document. Scalar keys (strings,
// integers, floats, ObjectIDs) are stringified; anything else is a data
// error.
func Key(doc Document) (string, error) {
	v, ok := doc[FieldKey]
	if !ok {
		return "", errors.New(errors.ErrorTypeData, "document missing _id")
	}
	switch k := v.(type) {
	case string:
		return k, nil
	case int:
		return strconv.Itoa(k), nil
	case int32:
		return strconv.FormatInt(int64(k), 10), nil
	case int64:
		return strconv.FormatInt(k, 10), nil
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(k), 'f', -1, 32), nil
	case primitive.ObjectID:
		return k.Hex(), nil
	default:
		return "", errors.Newf(errors.ErrorTypeData, "unsupported _id type %T", v)
	}
}

// From returns the qualified "_from" reference of an edge document.
func From(doc Document) (string, error) {
	return endpoint(doc, FieldFrom)
}

// To returns the qualified "_to" reference of an edge document.
func To(doc Document) (string, error) {
	return endpoint(doc, FieldTo)
}

func endpoint(doc Document, field string) (string, error) {
	v, ok := doc[field]
	if !ok {
		return "", errors.Newf(errors.ErrorTypeData, "edge document missing %s", field)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.Newf(errors.ErrorTypeData, "edge document %s must be a non-empty string", field)
	}
	return s, nil
}

// Float reads a document field as float64, coercing across the numeric
// types BSON and JSON decoding produce. ok is false when the field is
// absent or not numeric.
func Float(doc Document, field string) (value float64, ok bool) {
	v, present := doc[field]
	if !present {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// validKeyRune reports whether r may appear in a document key.
// Keys allow ASCII alphanumerics plus a fixed set of special characters.
func validKeyRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', '-', ':', '.', '@', '(', ')', '+', ',', '=', ';', '$', '!', '*', '\'', '%':
		return true
	}
	return false
}

// ValidKey reports whether key is usable as a document key: non-empty,
// at most MaxKeyLength bytes, and built only from allowed characters.
func ValidKey(key string) bool {
	if key == "" || len(key) > MaxKeyLength {
		return false
	}
	for _, r := range key {
		if !validKeyRune(r) {
			return false
		}
	}
	return true
}

// SanitizeKey maps an arbitrary string onto a valid document key by
// replacing every disallowed rune with an underscore and truncating to
// MaxKeyLength bytes. An empty input sanitizes to a single underscore.
func SanitizeKey(s string) string {
	if s == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if validKeyRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		if b.Len() >= MaxKeyLength {
			break
		}
	}
	out := b.String()
	if len(out) > MaxKeyLength {
		out = out[:MaxKeyLength]
	}
	return out
}

// EdgeDefinition declares an edge collection together with the vertex
// collections its endpoints may come from.
type EdgeDefinition struct {
	Collection string   `bson:"collection" json:"collection" yaml:"collection"`
	From       []string `bson:"from" json:"from" yaml:"from"`
	To         []string `bson:"to" json:"to" yaml:"to"`
}

// GraphDefinition names a graph and declares its shape. Definitions are
// stored as documents in the graphs collection, keyed by graph name.
type GraphDefinition struct {
	Name              string           `bson:"_id" json:"name" yaml:"name"`
	EdgeDefinitions   []EdgeDefinition `bson:"edge_definitions" json:"edge_definitions" yaml:"edge_definitions"`
	OrphanCollections []string         `bson:"orphan_collections,omitempty" json:"orphan_collections,omitempty" yaml:"orphan_collections,omitempty"`
}

// Validate checks the definition for structural correctness.
func (d *GraphDefinition) Validate() error {
	if d.Name == "" {
		return errors.New(errors.ErrorTypeValidation, "graph definition missing name")
	}
	seen := make(map[string]struct{}, len(d.EdgeDefinitions))
	for _, ed := range d.EdgeDefinitions {
		if ed.Collection == "" {
			return errors.Newf(errors.ErrorTypeValidation, "graph %q has an edge definition without a collection", d.Name)
		}
		if _, dup := seen[ed.Collection]; dup {
			return errors.Newf(errors.ErrorTypeValidation, "graph %q defines edge collection %q twice", d.Name, ed.Collection)
		}
		seen[ed.Collection] = struct{}{}
		if len(ed.From) == 0 || len(ed.To) == 0 {
			return errors.Newf(errors.ErrorTypeValidation, "edge definition %q needs at least one from and one to collection", ed.Collection)
		}
		for _, c := range append(append([]string{}, ed.From...), ed.To...) {
			if c == "" {
				return errors.Newf(errors.ErrorTypeValidation, "edge definition %q references an unnamed vertex collection", ed.Collection)
			}
		}
	}
	for _, c := range d.OrphanCollections {
		if c == "" {
			return errors.Newf(errors.ErrorTypeValidation, "graph %q lists an unnamed orphan collection", d.Name)
		}
	}
	return nil
}

// VertexCollections returns every vertex collection the definition touches:
// the union of all edge endpoints plus the orphan collections, sorted and
// deduplicated.
func (d *GraphDefinition) VertexCollections() []string {
	set := make(map[string]struct{})
	for _, ed := range d.EdgeDefinitions {
		for _, c := range ed.From {
			set[c] = struct{}{}
		}
		for _, c := range ed.To {
			set[c] = struct{}{}
		}
	}
	for _, c := range d.OrphanCollections {
		set[c] = struct{}{}
	}
	return sortedKeys(set)
}

// EdgeCollections returns the definition's edge collections, sorted and
// deduplicated.
func (d *GraphDefinition) EdgeCollections() []string {
	set := make(map[string]struct{}, len(d.EdgeDefinitions))
	for _, ed := range d.EdgeDefinitions {
		set[ed.Collection] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FetchSpec describes a projected read of one collection.
type FetchSpec struct {
	// Collection to read
	Collection string
	// Fields to keep beyond the reserved ones; empty keeps the whole document
	Fields []string
	// BatchSize is the cursor batch size hint
	BatchSize int32
}

// OnDuplicate selects how batch inserts treat duplicate keys.
type OnDuplicate string

const (
	// OnDuplicateError surfaces duplicate keys as errors
	OnDuplicateError OnDuplicate = "error"
	// OnDuplicateIgnore drops documents whose key already exists
	OnDuplicateIgnore OnDuplicate = "ignore"
	// OnDuplicateReplace replaces existing documents wholesale
	OnDuplicateReplace OnDuplicate = "replace"
	// OnDuplicateUpdate merges fields into existing documents
	OnDuplicateUpdate OnDuplicate = "update"
)

// ParseOnDuplicate validates a duplicate-key policy name.
func ParseOnDuplicate(s string) (OnDuplicate, error) {
	switch OnDuplicate(s) {
	case OnDuplicateError, OnDuplicateIgnore, OnDuplicateReplace, OnDuplicateUpdate:
		return OnDuplicate(s), nil
	case "":
		return OnDuplicateError, nil
	default:
		return "", errors.Newf(errors.ErrorTypeValidation, "unknown on_duplicate policy %q", s)
	}
}

// InsertOptions controls a batch insert.
type InsertOptions struct {
	// OnDuplicate selects duplicate-key handling
	OnDuplicate OnDuplicate
	// Ordered stops the batch at the first failing document
	Ordered bool
}
