// Package pool provides example usage of the unified memory pool system.
package pool_test

import (
	"fmt"
	"sync"

	"github.com/edgefold/monograph/pkg/pool"
)

// Example demonstrates basic usage of the document pool.
func Example() {
	// Get a document from the pool
	doc := pool.GetDocument()
	defer pool.PutDocument(doc) // Always release documents when done

	// Set fields on the document
	doc["_id"] = "alice"
	doc["balance"] = 104.5

	// Access fields
	if key, ok := doc["_id"]; ok {
		fmt.Printf("Key: %v\n", key)
	}

	// Output:
	// Key: alice
}

// ExampleGetBatchSlice shows how insert loops build batches from the pool.
func ExampleGetBatchSlice() {
	batch := pool.GetBatchSlice(3)
	defer pool.PutBatchSlice(batch)

	for _, key := range []string{"alice", "bob", "carol"} {
		doc := pool.GetDocument()
		doc["_id"] = key
		batch = append(batch, doc)
	}

	fmt.Printf("Batched documents: %d\n", len(batch))

	for _, doc := range batch {
		pool.PutDocument(doc)
	}

	// Output:
	// Batched documents: 3
}

// ExampleNew demonstrates creating a custom typed pool.
func ExampleNew() {
	type scratch struct {
		lines []string
	}

	scratchPool := pool.New(
		func() *scratch { return &scratch{lines: make([]string, 0, 8)} },
		func(s *scratch) { s.lines = s.lines[:0] },
	)

	s := scratchPool.Get()
	s.lines = append(s.lines, "accounts/alice")
	fmt.Printf("Lines: %d\n", len(s.lines))
	scratchPool.Put(s)

	// Output:
	// Lines: 1
}

// ExampleGenerateID shows atomic ID generation for flush bookkeeping.
func ExampleGenerateID() {
	var wg sync.WaitGroup
	ids := make([]string, 4)

	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = pool.GenerateID("flush")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		seen[id] = true
	}
	fmt.Printf("Unique IDs: %d\n", len(seen))

	// Output:
	// Unique IDs: 4
}
