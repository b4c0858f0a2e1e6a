package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseConfigDefaults(t *testing.T) {
	cfg := NewBaseConfig("test", "adapter")

	assert.Equal(t, "test", cfg.Name)
	assert.Equal(t, "adapter", cfg.Type)
	assert.Equal(t, 1000, cfg.Performance.BatchSize)
	assert.Equal(t, int32(1000), cfg.Performance.FetchBatchSize)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Connection)
	assert.Equal(t, 3, cfg.Reliability.RetryAttempts)
	assert.Equal(t, "info", cfg.Observability.LogLevel)
	assert.True(t, cfg.Observability.EnableMetrics)
	assert.False(t, cfg.Observability.EnableTracing)
	assert.NotNil(t, cfg.Security.Credentials)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BaseConfig)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(c *BaseConfig) { c.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "missing type",
			mutate:  func(c *BaseConfig) { c.Type = "" },
			wantErr: "type is required",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *BaseConfig) { c.Performance.BatchSize = 0 },
			wantErr: "batch_size must be positive",
		},
		{
			name:    "negative fetch batch size",
			mutate:  func(c *BaseConfig) { c.Performance.FetchBatchSize = -1 },
			wantErr: "fetch_batch_size must be positive",
		},
		{
			name:    "negative retries",
			mutate:  func(c *BaseConfig) { c.Reliability.RetryAttempts = -1 },
			wantErr: "retry_attempts cannot be negative",
		},
		{
			name:    "multiplier below one",
			mutate:  func(c *BaseConfig) { c.Reliability.RetryMultiplier = 0.5 },
			wantErr: "retry_multiplier must be at least 1",
		},
		{
			name: "max delay below initial delay",
			mutate: func(c *BaseConfig) {
				c.Reliability.RetryDelay = time.Minute
				c.Reliability.MaxRetryDelay = time.Second
			},
			wantErr: "max_retry_delay cannot be below retry_delay",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *BaseConfig) { c.Observability.LogLevel = "verbose" },
			wantErr: "log_level must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewBaseConfig("test", "adapter")
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCredentialFallback(t *testing.T) {
	cfg := NewBaseConfig("test", "adapter")
	cfg.Security.Credentials["uri"] = "mongodb://localhost:27017"

	assert.Equal(t, "mongodb://localhost:27017", cfg.Security.Credential("uri", ""))
	assert.Equal(t, "_graphs", cfg.Security.Credential("graphs_collection", "_graphs"))
	assert.True(t, cfg.Security.HasCredentials())
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_MONGO_URI", "mongodb://env-host:27017")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
name: fraud-graph
type: adapter
performance:
  batch_size: 250
security:
  credentials:
    uri: ${TEST_MONGO_URI}
    database: fraud
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadBase(path)
	require.NoError(t, err)

	assert.Equal(t, "fraud-graph", cfg.Name)
	assert.Equal(t, 250, cfg.Performance.BatchSize)
	// Unset fields keep their defaults
	assert.Equal(t, int32(1000), cfg.Performance.FetchBatchSize)
	assert.Equal(t, "mongodb://env-host:27017", cfg.Security.Credentials["uri"])
	assert.Equal(t, "fraud", cfg.Security.Credentials["database"])
}

func TestLoadBaseRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
name: fraud-graph
type: adapter
performance:
  batch_size: -5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadBase(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch_size")
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &BaseConfig{})
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := NewBaseConfig("fraud-graph", "adapter")
	cfg.Performance.BatchSize = 250
	cfg.Security.Credentials["uri"] = "mongodb://localhost:27017"
	cfg.Security.Credentials["database"] = "fraud"
	require.NoError(t, Save(path, cfg))

	loaded, err := LoadBase(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestRunConfigDefaults(t *testing.T) {
	exp := NewExportConfig("fraud-graph")
	assert.Equal(t, "export", exp.Type)
	assert.Equal(t, "weight", exp.WeightField)
	assert.Equal(t, "default", exp.Controller)

	imp := NewImportConfig("fraud-graph")
	assert.Equal(t, "import", imp.Type)
	assert.Equal(t, "error", imp.OnDuplicate)
	assert.Equal(t, "weight", imp.WeightField)
}

func TestLoadExportConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.yaml")
	content := `
name: fraud-graph
graph: fraud-detection
vertex_collections: [accounts, customers]
edge_collections: [transactions]
skip_dangling_edges: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	run, err := LoadExport(path)
	require.NoError(t, err)

	assert.Equal(t, "fraud-detection", run.Graph)
	assert.Equal(t, []string{"accounts", "customers"}, run.VertexCollections)
	assert.Equal(t, []string{"transactions"}, run.EdgeCollections)
	assert.True(t, run.SkipDanglingEdges)
	// Defaults survive a partial file
	assert.Equal(t, "weight", run.WeightField)
}

func TestLoadImportConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "import.yaml")
	content := `
name: fraud-graph
graph: fraud-detection
in: edges.jsonl.gz
edge_definitions:
  - collection: transactions
    from: [accounts]
    to: [accounts]
keyify_nodes: true
on_duplicate: replace
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	run, err := LoadImport(path)
	require.NoError(t, err)

	assert.Equal(t, "fraud-detection", run.Graph)
	assert.Equal(t, "edges.jsonl.gz", run.In)
	require.Len(t, run.EdgeDefinitions, 1)
	assert.Equal(t, "transactions", run.EdgeDefinitions[0].Collection)
	assert.Equal(t, []string{"accounts"}, run.EdgeDefinitions[0].From)
	assert.True(t, run.KeyifyNodes)
	assert.Equal(t, "replace", run.OnDuplicate)
	assert.Equal(t, "default", run.Controller)
}

func TestSubstituteEnvVarsMissing(t *testing.T) {
	// Unset variables substitute as empty strings
	out := substituteEnvVars("uri: ${MONOGRAPH_TEST_UNSET_VAR}/db")
	assert.Equal(t, "uri: /db", out)
}
