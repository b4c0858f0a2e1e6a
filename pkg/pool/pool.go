package pool

import (
	"sync"
	"sync/atomic"

	"github.com/edgefold/monograph/pkg/document"
)

// Pool represents a generic object pool with type safety.
// It wraps sync.Pool with additional features like statistics tracking
// and automatic reset functionality. The pool is safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	new   func() T
	reset func(T)
	stats struct {
		allocated int64
		inUse     int64
		hits      int64
	}
}

// New creates a new typed pool with custom allocation and reset functions.
// The new function is called when the pool is empty and a new object is needed.
// The reset function is called before returning an object to the pool, allowing
// for efficient cleanup and reuse.
//
// Example:
//
//	pool := New(
//	    func() *Buffer { return &Buffer{data: make([]byte, 0, 1024)} },
//	    func(b *Buffer) { b.data = b.data[:0] },
//	)
func New[T any](new func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{
		new:   new,
		reset: reset,
	}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		return new()
	}
	return p
}

// Get retrieves an object from the pool. If the pool is empty, it creates
// a new object using the factory function provided in New. The method is
// safe for concurrent use and updates pool statistics.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.inUse, 1)
	obj := p.pool.Get().(T)
	atomic.AddInt64(&p.stats.hits, 1)
	return obj
}

// Put returns an object to the pool for reuse. If a reset function was
// provided during pool creation, it is called to clean up the object
// before returning it to the pool. The method is safe for concurrent use.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	atomic.AddInt64(&p.stats.inUse, -1)
	p.pool.Put(obj)
}

// Stats returns current pool statistics: total objects created, objects
// currently checked out, and successful Get operations. Useful for
// monitoring pool efficiency.
func (p *Pool[T]) Stats() (allocated, inUse, hits int64) {
	return atomic.LoadInt64(&p.stats.allocated),
		atomic.LoadInt64(&p.stats.inUse),
		atomic.LoadInt64(&p.stats.hits)
}

// Global unified pools for the adapter's batch loops.
var (
	// DocumentPool provides pooling for transient document maps.
	// Documents are pre-allocated with a 16-capacity map and cleared on return.
	DocumentPool = New(
		func() document.Document {
			return make(document.Document, 16)
		},
		func(d document.Document) {
			for k := range d {
				delete(d, k)
			}
		},
	)

	// BatchSlicePool provides pooling for document batches used in insert loops.
	// Batches are pre-allocated with 1000 document capacity and cleared on return.
	BatchSlicePool = New(
		func() []document.Document {
			return make([]document.Document, 0, 1000)
		},
		func(s []document.Document) {
			// Clear references to allow GC
			for i := range s {
				s[i] = nil
			}
		},
	)

	// IDBufferPool provides pooling for ID generation buffers.
	IDBufferPool = New(
		func() []byte {
			return make([]byte, 0, 64)
		},
		func(b []byte) {
			// Length reset happens on Get
		},
	)
)

// idCounter provides atomic unique ID generation
var idCounter uint64

// GetDocument retrieves a document map from the global pool.
// The returned document is empty and ready for use. It must be returned
// with PutDocument once the batch holding it has been flushed.
func GetDocument() document.Document {
	return DocumentPool.Get()
}

// PutDocument returns a document to the global pool for reuse.
// The document is automatically cleared before being pooled.
// This function is safe to call with nil documents.
func PutDocument(d document.Document) {
	if d != nil {
		DocumentPool.Put(d)
	}
}

// GetBatchSlice retrieves a document batch slice from the global pool.
// If the requested capacity exceeds the pooled slice capacity, a new slice
// is allocated. The returned slice always has zero length.
//
// Example:
//
//	batch := pool.GetBatchSlice(1000)
//	defer pool.PutBatchSlice(batch)
//
//	for _, doc := range docs {
//	    batch = append(batch, doc)
//	}
func GetBatchSlice(capacity int) []document.Document {
	batch := BatchSlicePool.Get()
	// If we need more capacity than the pooled slice, grow it
	if cap(batch) < capacity {
		batch = make([]document.Document, 0, capacity)
	}
	return batch[:0] // Always return with length 0
}

// PutBatchSlice returns a batch slice to the global pool for reuse.
// All document references are cleared to allow garbage collection.
// This function is safe to call with nil slices.
func PutBatchSlice(batch []document.Document) {
	if batch != nil {
		BatchSlicePool.Put(batch)
	}
}

// GenerateID generates a unique ID with the specified prefix using pooled
// buffers. The ID format is "prefix-number" where number is an atomic
// counter. This function is safe for concurrent use.
//
// Example:
//
//	id := pool.GenerateID("flush")  // Returns "flush-1", "flush-2", etc.
func GenerateID(prefix string) string {
	buf := IDBufferPool.Get()
	defer IDBufferPool.Put(buf)

	// Use atomic counter for uniqueness
	id := atomic.AddUint64(&idCounter, 1)

	// Build ID efficiently
	buf = buf[:0]
	buf = append(buf, prefix...)
	buf = append(buf, '-')
	buf = appendUint64(buf, id)

	return string(buf)
}

// appendUint64 efficiently appends uint64 to byte slice
func appendUint64(buf []byte, n uint64) []byte {
	if n == 0 {
		return append(buf, '0')
	}

	// Calculate digits
	temp := n
	digits := 0
	for temp > 0 {
		temp /= 10
		digits++
	}

	// Extend buffer
	start := len(buf)
	buf = buf[:start+digits]

	// Fill digits from right to left
	for i := digits - 1; i >= 0; i-- {
		buf[start+i] = byte('0' + n%10)
		n /= 10
	}

	return buf
}
