package config

// ExportConfig describes a database-to-graph run. It embeds BaseConfig so a
// single YAML file can carry both the connection settings and the run shape.
type ExportConfig struct {
	BaseConfig `yaml:",inline" json:",inline"`

	// Graph names the graph being built
	Graph string `yaml:"graph" json:"graph"`
	// VertexCollections lists the vertex collections to fetch
	VertexCollections []string `yaml:"vertex_collections" json:"vertex_collections"`
	// EdgeCollections lists the edge collections to fetch
	EdgeCollections []string `yaml:"edge_collections" json:"edge_collections"`
	// Named resolves collections from the stored graph definition instead
	Named bool `yaml:"named" json:"named"`
	// WeightField is the edge document field read as the line weight ("" disables)
	WeightField string `yaml:"weight_field" json:"weight_field"`
	// SkipDanglingEdges skips edges whose endpoints are not in the graph
	SkipDanglingEdges bool `yaml:"skip_dangling_edges" json:"skip_dangling_edges"`
	// Controller selects a registered identity-resolution controller
	Controller string `yaml:"controller" json:"controller"`
	// Out is the edge-list file to write ("" skips the file)
	Out string `yaml:"out" json:"out"`
}

// NewExportConfig creates an ExportConfig with defaults.
func NewExportConfig(name string) *ExportConfig {
	return &ExportConfig{
		BaseConfig:  *NewBaseConfig(name, "export"),
		WeightField: "weight",
		Controller:  "default",
	}
}

// EdgeDefinitionConfig mirrors a stored edge definition in run configuration.
type EdgeDefinitionConfig struct {
	Collection string   `yaml:"collection" json:"collection"`
	From       []string `yaml:"from" json:"from"`
	To         []string `yaml:"to" json:"to"`
}

// ImportConfig describes a graph-to-database run.
type ImportConfig struct {
	BaseConfig `yaml:",inline" json:",inline"`

	// Graph names the target graph definition
	Graph string `yaml:"graph" json:"graph"`
	// In is the edge-list file to read
	In string `yaml:"in" json:"in"`
	// EdgeDefinitions declares the target edge collections and their endpoints
	EdgeDefinitions []EdgeDefinitionConfig `yaml:"edge_definitions" json:"edge_definitions"`
	// OrphanCollections lists vertex collections outside any edge definition
	OrphanCollections []string `yaml:"orphan_collections" json:"orphan_collections"`
	// KeyifyNodes derives node keys through the controller instead of positions
	KeyifyNodes bool `yaml:"keyify_nodes" json:"keyify_nodes"`
	// KeyifyEdges derives edge keys through the controller instead of positions
	KeyifyEdges bool `yaml:"keyify_edges" json:"keyify_edges"`
	// OnDuplicate selects duplicate-key handling (error, ignore, replace, update)
	OnDuplicate string `yaml:"on_duplicate" json:"on_duplicate"`
	// OverwriteGraph replaces an existing graph definition
	OverwriteGraph bool `yaml:"overwrite_graph" json:"overwrite_graph"`
	// WeightField is the edge document field written from the line weight ("" omits)
	WeightField string `yaml:"weight_field" json:"weight_field"`
	// Controller selects a registered identity-resolution controller
	Controller string `yaml:"controller" json:"controller"`
}

// NewImportConfig creates an ImportConfig with defaults.
func NewImportConfig(name string) *ImportConfig {
	return &ImportConfig{
		BaseConfig:  *NewBaseConfig(name, "import"),
		OnDuplicate: "error",
		WeightField: "weight",
		Controller:  "default",
	}
}
