package edgelist

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgefold/monograph/pkg/compression"
	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/graph"
)

func TestWriterFormat(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, nil)
	require.NoError(t, err)

	require.NoError(t, w.Write("accounts/a1", "accounts/a2", 250.5))
	require.NoError(t, w.Close())

	assert.Equal(t, `{"src":"accounts/a1","dst":"accounts/a2","weight":250.5}`+"\n", buf.String())
}

func TestWriterValidatesEndpoints(t *testing.T) {
	w, err := NewWriter(io.Discard, nil)
	require.NoError(t, err)

	err = w.Write("", "accounts/a2", 1)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestReaderSkipsBlankLines(t *testing.T) {
	input := strings.Join([]string{
		`{"src":"a","dst":"b","weight":1.5}`,
		"",
		"   ",
		`{"src":"b","dst":"c"}`,
		"",
	}, "\n")

	r, err := NewReader(strings.NewReader(input), nil)
	require.NoError(t, err)

	e, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, Edge{Src: "a", Dst: "b", Weight: 1.5}, e)

	e, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, Edge{Src: "b", Dst: "c"}, e)

	_, err = r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestReaderMalformedLine(t *testing.T) {
	input := `{"src":"a","dst":"b","weight":1}` + "\n" + `{not json`

	r, err := NewReader(strings.NewReader(input), nil)
	require.NoError(t, err)

	_, err = r.Read()
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
	assert.Contains(t, err.Error(), "line 2")
}

func TestReaderMissingEndpoints(t *testing.T) {
	r, err := NewReader(strings.NewReader(`{"src":"a","weight":1}`), nil)
	require.NoError(t, err)

	_, err = r.Read()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
	assert.Contains(t, err.Error(), "line 1")
}

func TestGraphRoundTrip(t *testing.T) {
	g := graph.New("fraud")
	g.AddLine("accounts/a1", "accounts/a2", 250.5)
	g.AddLine("accounts/a1", "accounts/a2", 99.9)
	g.AddLine("accounts/a2", "accounts/a2", 1)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, nil)
	require.NoError(t, err)
	require.NoError(t, w.WriteGraph(g))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf, nil)
	require.NoError(t, err)
	back, err := r.ReadGraph("fraud")
	require.NoError(t, err)

	assert.Equal(t, g.Order(), back.Order())
	assert.Equal(t, g.Size(), back.Size())

	want := g.Lines()
	got := back.Lines()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].From.Identity(), got[i].From.Identity())
		assert.Equal(t, want[i].To.Identity(), got[i].To.Identity())
		assert.Equal(t, want[i].Weight, got[i].Weight)
	}
}

func TestFileRoundTripGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.jsonl.gz")

	w, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, w.Write("accounts/a1", "accounts/a2", 250.5))
	require.NoError(t, w.Write("accounts/a2", "accounts/a3", 99.9))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(raw) > 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "file must carry the gzip magic")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	g, err := r.ReadGraph("fraud")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Order())
	assert.Equal(t, 2, g.Size())
}

func TestCodecForPath(t *testing.T) {
	assert.Equal(t, compression.None, CodecForPath("edges.jsonl").Algorithm)
	assert.Equal(t, compression.Gzip, CodecForPath("edges.jsonl.gz").Algorithm)
	assert.Equal(t, compression.LZ4, CodecForPath("edges.jsonl.lz4").Algorithm)
	assert.Equal(t, compression.Zstd, CodecForPath("edges.jsonl.zst").Algorithm)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFile))
}
