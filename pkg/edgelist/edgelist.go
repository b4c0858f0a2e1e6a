// Package edgelist reads and writes graphs as JSON Lines edge lists:
// one {"src","dst","weight"} object per line. Files are optionally
// compressed, selected by extension through pkg/compression.
//
//	w, err := edgelist.Create("edges.jsonl.gz")
//	if err != nil { ... }
//	defer w.Close()
//	if err := w.WriteGraph(g); err != nil { ... }
package edgelist

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/edgefold/monograph/pkg/compression"
	"github.com/edgefold/monograph/pkg/errors"
	"github.com/edgefold/monograph/pkg/graph"
	"github.com/edgefold/monograph/pkg/json"
	"github.com/edgefold/monograph/pkg/strings"
)

// scanBufferSize is the initial and maximum line buffer for readers.
const scanBufferSize = 1024 * 1024

// Edge is one line of an edge-list file. Src and Dst carry node
// identities, usually qualified "collection/key" IDs.
type Edge struct {
	Src    string  `json:"src"`
	Dst    string  `json:"dst"`
	Weight float64 `json:"weight"`
}

// Codec selects the compression wrapped around an edge-list stream.
type Codec = *compression.Config

// CodecForPath selects a codec from a file path's extension.
func CodecForPath(path string) Codec {
	return &compression.Config{
		Algorithm: compression.ForPath(path),
		Level:     compression.Default,
	}
}

// Writer streams edges to a JSON Lines destination.
type Writer struct {
	comp io.WriteCloser
	buf  *bufio.Writer
	file io.Closer
}

// NewWriter wraps dst in an edge-list writer. Close flushes buffered
// lines and compressor frames but leaves dst open.
func NewWriter(dst io.Writer, codec Codec) (*Writer, error) {
	comp, err := compression.NewWriter(dst, codec)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to initialize edge list compression")
	}
	return &Writer{
		comp: comp,
		buf:  bufio.NewWriter(comp),
	}, nil
}

// Create opens path for writing with a codec chosen from its extension.
// Close also closes the file.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to create edge list %s", path)
	}
	w, err := NewWriter(f, CodecForPath(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// Write appends one edge line.
func (w *Writer) Write(src, dst string, weight float64) error {
	if src == "" || dst == "" {
		return errors.New(errors.ErrorTypeData, "edge needs src and dst identities")
	}
	if err := json.MarshalToWriter(w.buf, Edge{Src: src, Dst: dst, Weight: weight}); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to encode edge")
	}
	return nil
}

// WriteGraph appends every line of g in its deterministic line order.
func (w *Writer) WriteGraph(g *graph.Graph) error {
	for _, l := range g.Lines() {
		if err := w.Write(l.From.Identity(), l.To.Identity(), l.Weight); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered lines, closes the compressor, and closes the
// underlying file when the writer owns one.
func (w *Writer) Close() error {
	err := w.buf.Flush()
	if cerr := w.comp.Close(); err == nil {
		err = cerr
	}
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close edge list")
	}
	return nil
}

// Reader streams edges from a JSON Lines source. Node identities repeat
// across lines, so the reader interns them to share allocations.
type Reader struct {
	comp    io.ReadCloser
	scanner *bufio.Scanner
	file    io.Closer
	intern  *strings.Intern
	line    int
}

// NewReader wraps src in an edge-list reader. Close leaves src open.
func NewReader(src io.Reader, codec Codec) (*Reader, error) {
	comp, err := compression.NewReader(src, codec)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to initialize edge list decompression")
	}
	scanner := bufio.NewScanner(comp)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), scanBufferSize)
	return &Reader{
		comp:    comp,
		scanner: scanner,
		intern:  strings.NewIntern(),
	}, nil
}

// Open opens path for reading with a codec chosen from its extension.
// Close also closes the file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to open edge list %s", path)
	}
	r, err := NewReader(f, CodecForPath(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// Read returns the next edge. Blank lines are skipped; the end of the
// stream is io.EOF.
func (r *Reader) Read() (Edge, error) {
	for r.scanner.Scan() {
		r.line++
		data := bytes.TrimSpace(r.scanner.Bytes())
		if len(data) == 0 {
			continue
		}

		var e Edge
		if err := json.Unmarshal(data, &e); err != nil {
			return Edge{}, errors.Wrapf(err, errors.ErrorTypeData, "malformed edge at line %d", r.line)
		}
		if e.Src == "" || e.Dst == "" {
			return Edge{}, errors.Newf(errors.ErrorTypeData, "edge at line %d needs src and dst identities", r.line)
		}
		e.Src = r.intern.Get(e.Src)
		e.Dst = r.intern.Get(e.Dst)
		return e, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Edge{}, errors.Wrap(err, errors.ErrorTypeFile, "failed to read edge list")
	}
	return Edge{}, io.EOF
}

// ReadGraph builds a named graph from the remaining edges.
func (r *Reader) ReadGraph(name string) (*graph.Graph, error) {
	g := graph.New(name)
	for {
		e, err := r.Read()
		if err == io.EOF {
			return g, nil
		}
		if err != nil {
			return nil, err
		}
		g.AddLine(e.Src, e.Dst, e.Weight)
	}
}

// Close closes the decompressor and the underlying file when the reader
// owns one.
func (r *Reader) Close() error {
	err := r.comp.Close()
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to close edge list")
	}
	return nil
}
