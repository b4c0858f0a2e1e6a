package adapter

import (
	"strings"

	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
)

// Controller is the identity-resolution policy of the adapter. It decides
// how database documents become graph identities on export and how graph
// identities fold back into collections and keys on import.
//
// Custom controllers embed DefaultController and override the hooks they
// care about:
//
//	type prefixController struct {
//	    adapter.DefaultController
//	}
//
//	func (prefixController) PrepareVertex(doc document.Document, col string) (string, error) {
//	    key, err := document.Key(doc)
//	    if err != nil {
//	        return "", err
//	    }
//	    return "acct:" + key, nil
//	}
type Controller interface {
	// PrepareVertex may mutate a fetched vertex document and returns the
	// identity of its graph node.
	PrepareVertex(doc document.Document, col string) (string, error)

	// PrepareEdge may mutate a fetched edge document before its
	// endpoints and weight are read.
	PrepareEdge(doc document.Document, col string) error

	// IdentifyNode chooses the target vertex collection for a node
	// identity. Called only when more than one candidate exists.
	IdentifyNode(id string, cols []string) (string, error)

	// IdentifyEdge chooses the target edge collection for a line given
	// its endpoint identities. Called only when more than one candidate
	// exists.
	IdentifyEdge(from, to string, cols []string) (string, error)

	// KeyifyNode derives the document key for a node identity when key
	// derivation is enabled.
	KeyifyNode(id, col string) (string, error)

	// KeyifyEdge derives the document key for a line when key derivation
	// is enabled.
	KeyifyEdge(from, to, col string) (string, error)
}

// DefaultController resolves identities by their qualified-ID structure.
type DefaultController struct{}

var _ Controller = DefaultController{}

// PrepareVertex returns the qualified ID of the document.
func (DefaultController) PrepareVertex(doc document.Document, col string) (string, error) {
	key, err := document.Key(doc)
	if err != nil {
		return "", err
	}
	return document.QualifyID(col, key), nil
}

// PrepareEdge leaves the document unchanged.
func (DefaultController) PrepareEdge(doc document.Document, col string) error {
	return nil
}

// IdentifyNode returns the collection prefix of a qualified identity
// when it is among the candidates.
func (DefaultController) IdentifyNode(id string, cols []string) (string, error) {
	if col, _, ok := document.SplitID(id); ok {
		for _, candidate := range cols {
			if candidate == col {
				return col, nil
			}
		}
	}
	return "", errors.Newf(errors.ErrorTypeValidation,
		"cannot resolve a vertex collection for node %q among [%s]; use a custom controller",
		id, strings.Join(cols, ", "))
}

// IdentifyEdge refuses to guess between multiple edge collections.
func (DefaultController) IdentifyEdge(from, to string, cols []string) (string, error) {
	return "", errors.Newf(errors.ErrorTypeValidation,
		"cannot resolve an edge collection for %q -> %q among [%s]; use a custom controller",
		from, to, strings.Join(cols, ", "))
}

// KeyifyNode returns the key part of a qualified identity matching col,
// or the sanitized identity otherwise.
func (DefaultController) KeyifyNode(id, col string) (string, error) {
	if c, key, ok := document.SplitID(id); ok && c == col {
		return key, nil
	}
	return document.SanitizeKey(id), nil
}

// KeyifyEdge joins the endpoint keys into a sanitized composite key.
func (DefaultController) KeyifyEdge(from, to, col string) (string, error) {
	return document.SanitizeKey(keyPart(from) + "-" + keyPart(to)), nil
}

func keyPart(id string) string {
	if _, key, ok := document.SplitID(id); ok {
		return key
	}
	return id
}
