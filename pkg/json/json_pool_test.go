package json

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data structures
type testEdge struct {
	Src    string  `json:"src"`
	Dst    string  `json:"dst"`
	Weight float64 `json:"weight"`
}

func generateTestEdges(n int) []*testEdge {
	edges := make([]*testEdge, n)
	for i := 0; i < n; i++ {
		edges[i] = &testEdge{
			Src:    "accounts/" + strconv.Itoa(i),
			Dst:    "accounts/" + strconv.Itoa(i+1),
			Weight: float64(i) * 1.5,
		}
	}
	return edges
}

func TestMarshalRoundTrip(t *testing.T) {
	in := &testEdge{Src: "accounts/alice", Dst: "accounts/bob", Weight: 2.5}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out testEdge
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, *in, out)
}

func TestMarshalToWriterAppendsNewline(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, MarshalToWriter(&buf, &testEdge{Src: "a/1", Dst: "a/2"}))
	require.NoError(t, MarshalToWriter(&buf, &testEdge{Src: "a/2", Dst: "a/3"}))

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var e testEdge
	require.NoError(t, Unmarshal(lines[1], &e))
	assert.Equal(t, "a/2", e.Src)
}

func TestBufferPooling(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("scratch")
	PutBuffer(buf)

	// A reacquired buffer always comes back empty
	buf2 := GetBuffer()
	assert.Zero(t, buf2.Len())
	PutBuffer(buf2)
}

func TestDecoderReadsStream(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(`{"src":"a/1","dst":"a/2","weight":1}` + "\n" + `{"src":"a/2","dst":"a/3","weight":2}` + "\n")

	dec := GetDecoder(&buf)
	defer PutDecoder(dec)

	var first, second testEdge
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "a/1", first.Src)
	assert.Equal(t, float64(2), second.Weight)
}

// Benchmark standard library json.Marshal
func BenchmarkStdMarshal(b *testing.B) {
	edges := generateTestEdges(100)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, edge := range edges {
			_, err := json.Marshal(edge)
			if err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ReportMetric(float64(len(edges)*b.N), "edges/op")
}

// Benchmark goccy/go-json Marshal
func BenchmarkGoccyMarshal(b *testing.B) {
	edges := generateTestEdges(100)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for _, edge := range edges {
			_, err := gojson.Marshal(edge)
			if err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ReportMetric(float64(len(edges)*b.N), "edges/op")
}

// Benchmark pooled writer encoding
func BenchmarkMarshalToWriter(b *testing.B) {
	edges := generateTestEdges(100)
	var buf bytes.Buffer
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf.Reset()
		for _, edge := range edges {
			if err := MarshalToWriter(&buf, edge); err != nil {
				b.Fatal(err)
			}
		}
	}

	b.ReportMetric(float64(len(edges)*b.N), "edges/op")
}
