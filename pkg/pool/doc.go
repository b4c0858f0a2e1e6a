// Package pool implements a type-safe object pooling system for the
// adapter's batch loops. It provides unified memory management for reusable
// objects, reducing garbage collection pressure during collection fetches
// and batch inserts.
//
// Architecture
//
// The pool package uses Go generics to provide type-safe pooling for any
// object type. It builds on sync.Pool and adds statistics tracking and
// automatic reset functionality.
//
// Core Types:
//
//   - Pool[T]: Generic pool implementation for any type T
//   - Global pools: Pre-configured pools for documents and document batches
//
// Global Pools
//
// Pre-configured pools are available for the adapter's common types:
//
//	var (
//		DocumentPool   // transient document maps
//		BatchSlicePool // document batch buffers
//		IDBufferPool   // ID generation scratch buffers
//	)
//
// Usage Patterns
//
// Basic document pooling:
//
//	doc := pool.GetDocument()
//	defer pool.PutDocument(doc)
//
//	doc["_id"] = "alice"
//	doc["balance"] = 104.5
//
// Batch building:
//
//	batch := pool.GetBatchSlice(1000)
//	defer pool.PutBatchSlice(batch)
//
//	batch = append(batch, doc)
//
// Creating a custom pool:
//
//	bufPool := pool.New(
//	    func() *bytes.Buffer { return &bytes.Buffer{} },
//	    func(b *bytes.Buffer) { b.Reset() },
//	)
package pool
