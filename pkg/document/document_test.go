package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/edgefold/monograph/pkg/errors"
)

func TestQualifyAndSplitID(t *testing.T) {
	id := QualifyID("accounts", "alice")
	assert.Equal(t, "accounts/alice", id)

	col, key, ok := SplitID(id)
	require.True(t, ok)
	assert.Equal(t, "accounts", col)
	assert.Equal(t, "alice", key)

	// Keys containing slashes split at the first one
	col, key, ok = SplitID("files/2024/01/report")
	require.True(t, ok)
	assert.Equal(t, "files", col)
	assert.Equal(t, "2024/01/report", key)

	for _, bad := range []string{"", "accounts", "/alice", "accounts/"} {
		_, _, ok := SplitID(bad)
		assert.False(t, ok, "SplitID(%q) should fail", bad)
	}
}

func TestKeyStringification(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"string", Document{"_id": "alice"}, "alice"},
		{"int", Document{"_id": 42}, "42"},
		{"int32", Document{"_id": int32(7)}, "7"},
		{"int64", Document{"_id": int64(1 << 40)}, "1099511627776"},
		{"float64", Document{"_id": float64(12)}, "12"},
		{"object id", Document{"_id": oid}, oid.Hex()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Key(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Key(Document{"name": "no key"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = Key(Document{"_id": []string{"composite"}})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestEdgeEndpoints(t *testing.T) {
	doc := Document{"_from": "accounts/alice", "_to": "accounts/bob"}

	from, err := From(doc)
	require.NoError(t, err)
	assert.Equal(t, "accounts/alice", from)

	to, err := To(doc)
	require.NoError(t, err)
	assert.Equal(t, "accounts/bob", to)

	_, err = From(Document{"_to": "accounts/bob"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))

	_, err = To(Document{"_from": "accounts/alice", "_to": 17})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestFloatCoercion(t *testing.T) {
	doc := Document{
		"f64": 1.5,
		"f32": float32(2.5),
		"i":   3,
		"i32": int32(4),
		"i64": int64(5),
		"str": "6",
	}

	for field, want := range map[string]float64{"f64": 1.5, "f32": 2.5, "i": 3, "i32": 4, "i64": 5} {
		got, ok := Float(doc, field)
		require.True(t, ok, field)
		assert.Equal(t, want, got, field)
	}

	_, ok := Float(doc, "str")
	assert.False(t, ok)
	_, ok = Float(doc, "absent")
	assert.False(t, ok)
}

func TestValidKey(t *testing.T) {
	valid := []string{
		"alice",
		"user_001",
		"a-b:c.d@e(f)g+h,i=j;k$l!m*n'o%p",
		strings.Repeat("x", MaxKeyLength),
	}
	for _, k := range valid {
		assert.True(t, ValidKey(k), k)
	}

	invalid := []string{
		"",
		"has space",
		"has/slash",
		"hash#key",
		"quoted\"key",
		"uniçode",
		strings.Repeat("x", MaxKeyLength+1),
	}
	for _, k := range invalid {
		assert.False(t, ValidKey(k), k)
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"alice", "alice"},
		{"has space", "has_space"},
		{"a/b/c", "a_b_c"},
		{"déjà vu", "d_j__vu"},
		{"", "_"},
	}
	for _, tt := range tests {
		got := SanitizeKey(tt.in)
		assert.Equal(t, tt.want, got)
		assert.True(t, ValidKey(got), "sanitized key %q must be valid", got)
	}

	long := SanitizeKey(strings.Repeat("y", MaxKeyLength*2))
	assert.LessOrEqual(t, len(long), MaxKeyLength)
	assert.True(t, ValidKey(long))
}

func fraudDefinition() *GraphDefinition {
	return &GraphDefinition{
		Name: "fraud-detection",
		EdgeDefinitions: []EdgeDefinition{
			{
				Collection: "transactions",
				From:       []string{"accounts"},
				To:         []string{"accounts"},
			},
			{
				Collection: "ownership",
				From:       []string{"customers"},
				To:         []string{"accounts", "cards"},
			},
		},
		OrphanCollections: []string{"branches"},
	}
}

func TestGraphDefinitionValidate(t *testing.T) {
	def := fraudDefinition()
	require.NoError(t, def.Validate())

	noName := fraudDefinition()
	noName.Name = ""
	require.Error(t, noName.Validate())

	dup := fraudDefinition()
	dup.EdgeDefinitions = append(dup.EdgeDefinitions, EdgeDefinition{
		Collection: "transactions",
		From:       []string{"accounts"},
		To:         []string{"accounts"},
	})
	err := dup.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "twice")

	empty := fraudDefinition()
	empty.EdgeDefinitions[0].To = nil
	require.Error(t, empty.Validate())
}

func TestGraphDefinitionCollections(t *testing.T) {
	def := fraudDefinition()

	assert.Equal(t,
		[]string{"accounts", "branches", "cards", "customers"},
		def.VertexCollections(),
	)
	assert.Equal(t,
		[]string{"ownership", "transactions"},
		def.EdgeCollections(),
	)
}

func TestParseOnDuplicate(t *testing.T) {
	for _, s := range []string{"error", "ignore", "replace", "update"} {
		got, err := ParseOnDuplicate(s)
		require.NoError(t, err)
		assert.Equal(t, OnDuplicate(s), got)
	}

	got, err := ParseOnDuplicate("")
	require.NoError(t, err)
	assert.Equal(t, OnDuplicateError, got)

	_, err = ParseOnDuplicate("upsert")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}
