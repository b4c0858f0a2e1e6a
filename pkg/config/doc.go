// Package config provides unified configuration management for the Monograph adapter.
//
// A single BaseConfig structure carries the settings shared by the store, the
// adapter and the CLI, with run-specific shapes (ExportConfig, ImportConfig)
// embedding it.
//
// # Key Features
//
// - BaseConfig: single configuration structure used everywhere
// - Structured sections: Performance, Timeouts, Reliability, Security, Observability
// - Environment variable substitution with ${VAR_NAME} syntax
// - Automatic defaults and validation
//
// # Usage
//
// ## Basic Configuration Loading
//
//	cfg, err := config.LoadBase("config.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// ## Run Configurations
//
//	run := config.NewExportConfig("fraud-graph")
//	run.Graph = "fraud-detection"
//	run.VertexCollections = []string{"accounts", "customers"}
//	run.EdgeCollections = []string{"transactions"}
//
//	if err := config.Load("export.yaml", run); err != nil {
//		log.Fatal(err)
//	}
//
// ## Environment Variable Substitution
//
//	# config.yaml
//	name: fraud-graph
//	type: adapter
//	security:
//	  credentials:
//	    uri: ${MONGO_URI}
//	    database: fraud
//
// # Configuration Structure
//
// All configurations build on the BaseConfig pattern:
//
//	type BaseConfig struct {
//		Name    string `yaml:"name" json:"name"`
//		Type    string `yaml:"type" json:"type"`
//		Version string `yaml:"version" json:"version"`
//
//		Performance   PerformanceConfig   `yaml:"performance" json:"performance"`
//		Timeouts      TimeoutConfig       `yaml:"timeouts" json:"timeouts"`
//		Reliability   ReliabilityConfig   `yaml:"reliability" json:"reliability"`
//		Security      SecurityConfig      `yaml:"security" json:"security"`
//		Observability ObservabilityConfig `yaml:"observability" json:"observability"`
//	}
//
// Each section provides structured, validated configuration:
//
// - Performance: insert batch size, cursor fetch batch size
// - Timeouts: request and connection timeouts
// - Reliability: retry policy for batch flushes
// - Security: database credentials (uri, database, graphs_collection)
// - Observability: metrics, tracing, log level
package config
