// Package monograph moves data between MongoDB collections and in-memory
// weighted directed graphs.
//
// MongoDB has no graph model; gonum has no storage. Monograph bridges the
// two: it reads vertex and edge collections into a gonum-backed graph
// handle for analysis, and writes graph handles back as node and edge
// documents under a named graph definition. Graphs also travel as JSON
// Lines edge-list files, optionally compressed.
//
// # Quick Start
//
// Export two collections into a graph and rank its nodes:
//
//	import (
//	    "context"
//	    "github.com/edgefold/monograph/pkg/adapter"
//	    "github.com/edgefold/monograph/pkg/config"
//	    "github.com/edgefold/monograph/pkg/graph"
//	    "github.com/edgefold/monograph/pkg/mongodb"
//	)
//
//	cfg := config.NewBaseConfig("fraud", "adapter")
//	cfg.Security.Credentials["uri"] = "mongodb://localhost:27017"
//	cfg.Security.Credentials["database"] = "fraud"
//
//	store, err := mongodb.Connect(ctx, cfg)
//	a, err := adapter.New(store, cfg)
//
//	g, err := a.ExportCollections(ctx, "fraud",
//	    []string{"accounts"}, []string{"transactions"})
//	stats := graph.Summarize(g, 10)
//
// Identity decisions (which collection a node belongs to, what key an
// imported document gets) go through a Controller; the default policy
// handles single-collection graphs and qualified "collection/key" IDs,
// and custom controllers plug in through a registry.
//
// # Key Packages
//
//	pkg/adapter   - Export/import between collections and graph handles
//	pkg/document  - Document model, qualified IDs, graph definitions
//	pkg/graph     - gonum-backed graph handle and statistics
//	pkg/mongodb   - Document store over the official MongoDB driver
//	pkg/edgelist  - JSON Lines edge-list files with compression
//	pkg/config    - Unified configuration management
//	pkg/errors    - Structured error handling
//	pkg/logger    - High-performance structured logging
//	pkg/metrics   - Prometheus metrics collection
//
// # Configuration
//
// Monograph uses a unified configuration system:
//
//	type BaseConfig struct {
//	    Performance   PerformanceConfig   // Batch and cursor sizing
//	    Timeouts      TimeoutConfig       // Connection, request timeouts
//	    Reliability   ReliabilityConfig   // Retry attempts and backoff
//	    Security      SecurityConfig      // Database credentials
//	    Observability ObservabilityConfig // Metrics, logging, tracing
//	}
//
// Environment variables are supported with ${VAR_NAME} syntax.
//
// # CLI
//
// The monograph command drives runs from YAML configuration files:
//
//	monograph export --config export.yaml --stats
//	monograph import --config import.yaml
//	monograph graphs --config base.yaml
//
// See examples/ for complete run configurations.
package monograph
