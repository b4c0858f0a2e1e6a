package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edgefold/monograph/pkg/adapter"
	"github.com/edgefold/monograph/pkg/config"
	"github.com/edgefold/monograph/pkg/document"
	"github.com/edgefold/monograph/pkg/edgelist"
	"github.com/edgefold/monograph/pkg/graph"
	jsonpool "github.com/edgefold/monograph/pkg/json"
	"github.com/edgefold/monograph/pkg/logger"
	"github.com/edgefold/monograph/pkg/mongodb"
	"github.com/edgefold/monograph/pkg/observability"
)

// Populated through -ldflags at release builds.
var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	var timeout time.Duration

	root := &cobra.Command{
		Use:   "monograph",
		Short: "Monograph - MongoDB to in-memory graph adapter",
		Long: `Monograph moves data between MongoDB collections and in-memory weighted
directed graphs. It exports collections into a graph for analysis, writes
graphs back as node and edge documents, and exchanges graphs as JSON Lines
edge-list files.`,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Minute, "Run timeout")

	root.AddCommand(versionCmd())
	root.AddCommand(pingCmd(&timeout))
	root.AddCommand(exportCmd(&timeout))
	root.AddCommand(importCmd(&timeout))
	root.AddCommand(graphsCmd(&timeout))

	err := root.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Monograph v%s (commit %s, built %s)\n", version, commit, date)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func pingCmd(timeout *time.Duration) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Verify database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadBase(configFile)
			if err != nil {
				return err
			}
			log, err := initRun(cfg, "ping")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), *timeout)
			defer cancel()

			store, err := mongodb.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(ctx, store, log)

			start := time.Now()
			if err := store.Ping(ctx); err != nil {
				return err
			}
			fmt.Printf("OK: database %q reachable in %v\n", store.Name(), time.Since(start).Round(time.Microsecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func exportCmd(timeout *time.Duration) *cobra.Command {
	var configFile string
	var graphName, out, weightField, controller, format string
	var vertexCols, edgeCols []string
	var named, skipDangling, stats bool
	var topN int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export collections into an in-memory graph",
		Long: `Export fetches vertex and edge collections and builds a weighted directed
graph. The collections come from the configuration file, from flags, or with
--named from the stored graph definition.

Example:
  monograph export --config export.yaml --graph fraud --out edges.jsonl.gz --stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := config.LoadExport(configFile)
			if err != nil {
				return err
			}

			// Flags override file settings when set
			if cmd.Flags().Changed("graph") {
				run.Graph = graphName
			}
			if cmd.Flags().Changed("vertex-collections") {
				run.VertexCollections = vertexCols
			}
			if cmd.Flags().Changed("edge-collections") {
				run.EdgeCollections = edgeCols
			}
			if cmd.Flags().Changed("named") {
				run.Named = named
			}
			if cmd.Flags().Changed("out") {
				run.Out = out
			}
			if cmd.Flags().Changed("weight-field") {
				run.WeightField = weightField
			}
			if cmd.Flags().Changed("skip-dangling") {
				run.SkipDanglingEdges = skipDangling
			}
			if cmd.Flags().Changed("controller") {
				run.Controller = controller
			}

			return runExport(run, *timeout, stats, topN, format)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&graphName, "graph", "g", "", "Graph name")
	cmd.Flags().StringSliceVar(&vertexCols, "vertex-collections", nil, "Vertex collections to fetch")
	cmd.Flags().StringSliceVar(&edgeCols, "edge-collections", nil, "Edge collections to fetch")
	cmd.Flags().BoolVar(&named, "named", false, "Resolve collections from the stored graph definition")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Edge-list file to write (.jsonl, .jsonl.gz, .jsonl.lz4, .jsonl.zst)")
	cmd.Flags().StringVar(&weightField, "weight-field", adapter.DefaultWeightField, "Edge document field read as line weight")
	cmd.Flags().BoolVar(&skipDangling, "skip-dangling", false, "Skip edges whose endpoints are not loaded instead of failing")
	cmd.Flags().StringVar(&controller, "controller", "default", "Registered controller name")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print graph statistics after the export")
	cmd.Flags().IntVar(&topN, "top", 10, "Number of PageRank nodes in the statistics")
	cmd.Flags().StringVar(&format, "format", "text", "Statistics output format (text, json)")
	return cmd
}

func runExport(run *config.ExportConfig, timeout time.Duration, stats bool, topN int, format string) error {
	if run.Graph == "" {
		return fmt.Errorf("a graph name is required (--graph or graph: in the config)")
	}

	log, err := initRun(&run.BaseConfig, "export")
	if err != nil {
		return err
	}
	defer shutdownTracing(&run.BaseConfig, log)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := mongodb.Connect(ctx, &run.BaseConfig)
	if err != nil {
		return err
	}
	defer closeStore(ctx, store, log)

	ctrl, err := adapter.GetController(run.Controller)
	if err != nil {
		return err
	}
	a, err := adapter.New(store, &run.BaseConfig, adapter.WithController(ctrl))
	if err != nil {
		return err
	}

	opts := []adapter.ExportOption{adapter.WithWeightField(run.WeightField)}
	if run.SkipDanglingEdges {
		opts = append(opts, adapter.WithSkipDanglingEdges())
	}

	start := time.Now()

	var g *graph.Graph
	switch {
	case run.Named:
		g, err = a.ExportNamed(ctx, run.Graph, opts...)
	case len(run.VertexCollections)+len(run.EdgeCollections) > 0:
		g, err = a.ExportCollections(ctx, run.Graph, run.VertexCollections, run.EdgeCollections, opts...)
	default:
		return fmt.Errorf("nothing to export: set --named or --vertex-collections/--edge-collections")
	}
	if err != nil {
		return err
	}

	fmt.Printf("exported %q: %d nodes, %d edges in %v\n",
		g.Name(), g.Order(), g.Size(), time.Since(start).Round(time.Millisecond))

	if run.Out != "" {
		if err := writeEdgeList(g, run.Out); err != nil {
			return err
		}
		fmt.Printf("edge list written to %s\n", run.Out)
	}

	if stats {
		return printStats(graph.Summarize(g, topN), format)
	}
	return nil
}

func importCmd(timeout *time.Duration) *cobra.Command {
	var configFile string
	var graphName, in, edgeCollection, onDuplicate, weightField, controller string
	var fromCols, toCols, orphanCols []string
	var keyifyNodes, keyifyEdges, overwrite bool
	var batchSize int

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an edge-list file into database collections",
		Long: `Import reads a JSON Lines edge-list file into a graph and writes it back
as node and edge documents under a named graph definition. A graph that is
already defined keeps its stored definition unless --overwrite is set.

Example:
  monograph import --config import.yaml --graph fraud --in edges.jsonl.gz \
    --edge-collection transactions --from-collections accounts --to-collections accounts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := config.LoadImport(configFile)
			if err != nil {
				return err
			}

			// Flags override file settings when set
			if cmd.Flags().Changed("graph") {
				run.Graph = graphName
			}
			if cmd.Flags().Changed("in") {
				run.In = in
			}
			if cmd.Flags().Changed("edge-collection") {
				if len(fromCols) == 0 || len(toCols) == 0 {
					return fmt.Errorf("--edge-collection needs --from-collections and --to-collections")
				}
				run.EdgeDefinitions = append(run.EdgeDefinitions, config.EdgeDefinitionConfig{
					Collection: edgeCollection,
					From:       fromCols,
					To:         toCols,
				})
			}
			if cmd.Flags().Changed("orphan-collections") {
				run.OrphanCollections = orphanCols
			}
			if cmd.Flags().Changed("keyify-nodes") {
				run.KeyifyNodes = keyifyNodes
			}
			if cmd.Flags().Changed("keyify-edges") {
				run.KeyifyEdges = keyifyEdges
			}
			if cmd.Flags().Changed("on-duplicate") {
				run.OnDuplicate = onDuplicate
			}
			if cmd.Flags().Changed("overwrite") {
				run.OverwriteGraph = overwrite
			}
			if cmd.Flags().Changed("batch-size") {
				run.Performance.BatchSize = batchSize
			}
			if cmd.Flags().Changed("weight-field") {
				run.WeightField = weightField
			}
			if cmd.Flags().Changed("controller") {
				run.Controller = controller
			}

			return runImport(run, *timeout)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (required)")
	_ = cmd.MarkFlagRequired("config")
	cmd.Flags().StringVarP(&graphName, "graph", "g", "", "Graph name")
	cmd.Flags().StringVarP(&in, "in", "i", "", "Edge-list file to read")
	cmd.Flags().StringVar(&edgeCollection, "edge-collection", "", "Target edge collection for a graph that is not yet defined")
	cmd.Flags().StringSliceVar(&fromCols, "from-collections", nil, "Vertex collections edge sources may come from")
	cmd.Flags().StringSliceVar(&toCols, "to-collections", nil, "Vertex collections edge targets may come from")
	cmd.Flags().StringSliceVar(&orphanCols, "orphan-collections", nil, "Vertex collections outside any edge definition")
	cmd.Flags().BoolVar(&keyifyNodes, "keyify-nodes", false, "Derive node keys through the controller instead of positions")
	cmd.Flags().BoolVar(&keyifyEdges, "keyify-edges", false, "Derive edge keys through the controller instead of positions")
	cmd.Flags().StringVar(&onDuplicate, "on-duplicate", "error", "Duplicate-key policy (error, ignore, replace, update)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace a stored graph definition with the provided one")
	cmd.Flags().IntVar(&batchSize, "batch-size", 1000, "Documents per write batch")
	cmd.Flags().StringVar(&weightField, "weight-field", adapter.DefaultWeightField, "Edge document field written from the line weight")
	cmd.Flags().StringVar(&controller, "controller", "default", "Registered controller name")
	return cmd
}

func runImport(run *config.ImportConfig, timeout time.Duration) error {
	if run.Graph == "" {
		return fmt.Errorf("a graph name is required (--graph or graph: in the config)")
	}
	if run.In == "" {
		return fmt.Errorf("an edge-list file is required (--in or in: in the config)")
	}

	log, err := initRun(&run.BaseConfig, "import")
	if err != nil {
		return err
	}
	defer shutdownTracing(&run.BaseConfig, log)

	r, err := edgelist.Open(run.In)
	if err != nil {
		return err
	}
	g, err := r.ReadGraph(run.Graph)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	log.Info("edge list loaded",
		zap.String("file", run.In),
		zap.Int("nodes", g.Order()),
		zap.Int("edges", g.Size()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := mongodb.Connect(ctx, &run.BaseConfig)
	if err != nil {
		return err
	}
	defer closeStore(ctx, store, log)

	ctrl, err := adapter.GetController(run.Controller)
	if err != nil {
		return err
	}
	a, err := adapter.New(store, &run.BaseConfig, adapter.WithController(ctrl))
	if err != nil {
		return err
	}

	opts := []adapter.ImportOption{adapter.WithImportWeightField(run.WeightField)}
	for _, ed := range run.EdgeDefinitions {
		opts = append(opts, adapter.WithEdgeDefinitions(document.EdgeDefinition{
			Collection: ed.Collection,
			From:       ed.From,
			To:         ed.To,
		}))
	}
	if len(run.OrphanCollections) > 0 {
		opts = append(opts, adapter.WithOrphanCollections(run.OrphanCollections...))
	}
	if run.KeyifyNodes {
		opts = append(opts, adapter.WithKeyifyNodes())
	}
	if run.KeyifyEdges {
		opts = append(opts, adapter.WithKeyifyEdges())
	}
	if run.OverwriteGraph {
		opts = append(opts, adapter.WithOverwriteGraph())
	}
	if run.OnDuplicate != "" {
		opts = append(opts, adapter.WithOnDuplicate(document.OnDuplicate(run.OnDuplicate)))
	}

	start := time.Now()
	def, err := a.ImportGraph(ctx, g, run.Graph, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("imported %q: %d nodes, %d edges into %d vertex and %d edge collections in %v\n",
		run.Graph, g.Order(), g.Size(),
		len(def.VertexCollections()), len(def.EdgeCollections()),
		time.Since(start).Round(time.Millisecond))
	return nil
}

func graphsCmd(timeout *time.Duration) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "graphs",
		Short: "List stored graph definitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadBase(configFile)
			if err != nil {
				return err
			}
			log, err := initRun(cfg, "graphs")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), *timeout)
			defer cancel()

			store, err := mongodb.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore(ctx, store, log)

			names, err := store.ListGraphs(ctx)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("no graphs defined")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML configuration file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// initRun initializes logging and tracing from the shared config sections
// and returns a run-scoped logger.
func initRun(cfg *config.BaseConfig, command string) (*zap.Logger, error) {
	if err := logger.Init(logger.Config{Level: cfg.Observability.LogLevel}); err != nil {
		return nil, err
	}

	if cfg.Observability.EnableTracing {
		tc := observability.DefaultConfig()
		tc.ServiceVersion = version
		if err := observability.Initialize(tc); err != nil {
			logger.Warn("tracing initialization failed", zap.Error(err))
		}
	}

	return logger.With(
		zap.String("component", "monograph-cli"),
		zap.String("command", command),
		zap.String("run_id", uuid.NewString())), nil
}

func shutdownTracing(cfg *config.BaseConfig, log *zap.Logger) {
	if !cfg.Observability.EnableTracing {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := observability.Shutdown(ctx); err != nil {
		log.Warn("tracing shutdown failed", zap.Error(err))
	}
}

func closeStore(ctx context.Context, store *mongodb.Store, log *zap.Logger) {
	if err := store.Close(ctx); err != nil {
		log.Warn("failed to close store", zap.Error(err))
	}
}

func writeEdgeList(g *graph.Graph, path string) error {
	w, err := edgelist.Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteGraph(g); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func printStats(s graph.Stats, format string) error {
	switch format {
	case "json":
		data, err := jsonpool.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "text", "":
		fmt.Printf("graph:      %s\n", s.Name)
		fmt.Printf("nodes:      %d\n", s.Order)
		fmt.Printf("edges:      %d\n", s.Size)
		fmt.Printf("self loops: %d\n", s.SelfLoops)
		fmt.Printf("components: %d\n", s.Components)
		if len(s.TopNodes) > 0 {
			fmt.Println("top nodes by pagerank:")
			for _, n := range s.TopNodes {
				fmt.Printf("  %-48s %.6f\n", n.Identity, n.Rank)
			}
		}
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
	return nil
}
