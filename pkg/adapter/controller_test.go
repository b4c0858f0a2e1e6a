package adapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/errors"
)

// upperController uppercases node identities on export.
type upperController struct {
	DefaultController
}

func (upperController) PrepareVertex(doc document.Document, col string) (string, error) {
	key, err := document.Key(doc)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(document.QualifyID(col, key)), nil
}

func TestDefaultPrepareVertex(t *testing.T) {
	c := DefaultController{}

	id, err := c.PrepareVertex(document.Document{"_id": "a1", "balance": 10}, "accounts")
	require.NoError(t, err)
	assert.Equal(t, "accounts/a1", id)

	_, err = c.PrepareVertex(document.Document{"balance": 10}, "accounts")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestDefaultPrepareEdge(t *testing.T) {
	c := DefaultController{}
	doc := document.Document{"_id": "t1", "_from": "accounts/a1", "_to": "accounts/a2"}

	require.NoError(t, c.PrepareEdge(doc, "transactions"))
	assert.Equal(t, "accounts/a1", doc["_from"])
}

func TestDefaultIdentifyNode(t *testing.T) {
	c := DefaultController{}
	cols := []string{"accounts", "customers"}

	col, err := c.IdentifyNode("customers/c1", cols)
	require.NoError(t, err)
	assert.Equal(t, "customers", col)

	_, err = c.IdentifyNode("branches/b1", cols)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "accounts, customers")

	_, err = c.IdentifyNode("unqualified", cols)
	require.Error(t, err)
}

func TestDefaultIdentifyEdge(t *testing.T) {
	c := DefaultController{}

	_, err := c.IdentifyEdge("accounts/a1", "accounts/a2", []string{"transactions", "ownership"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "transactions, ownership")
}

func TestDefaultKeyifyNode(t *testing.T) {
	c := DefaultController{}

	key, err := c.KeyifyNode("accounts/a1", "accounts")
	require.NoError(t, err)
	assert.Equal(t, "a1", key)

	// Identity from another collection keeps its full, sanitized form.
	key, err = c.KeyifyNode("customers/c1", "accounts")
	require.NoError(t, err)
	assert.Equal(t, "customers_c1", key)

	key, err = c.KeyifyNode("plain node", "accounts")
	require.NoError(t, err)
	assert.Equal(t, "plain_node", key)
	assert.True(t, document.ValidKey(key))
}

func TestDefaultKeyifyEdge(t *testing.T) {
	c := DefaultController{}

	key, err := c.KeyifyEdge("accounts/a1", "accounts/a2", "transactions")
	require.NoError(t, err)
	assert.Equal(t, "a1-a2", key)

	key, err = c.KeyifyEdge("raw from", "raw to", "transactions")
	require.NoError(t, err)
	assert.Equal(t, "raw_from-raw_to", key)
}

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Has("default"))
	c, err := r.Create("default")
	require.NoError(t, err)
	assert.IsType(t, DefaultController{}, c)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("upper", func() Controller { return upperController{} }))
	assert.ElementsMatch(t, []string{"default", "upper"}, r.List())

	c, err := r.Create("upper")
	require.NoError(t, err)
	assert.IsType(t, upperController{}, c)

	err = r.Register("upper", func() Controller { return upperController{} })
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestRegistryUnknown(t *testing.T) {
	r := NewRegistry()

	_, err := r.Create("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")
}

func TestGlobalRegistry(t *testing.T) {
	assert.True(t, HasController("default"))
	assert.Contains(t, ListControllers(), "default")

	c, err := GetController("default")
	require.NoError(t, err)
	assert.NotNil(t, c)
}
