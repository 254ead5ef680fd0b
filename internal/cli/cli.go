// ============================================================================
// Beaver-DAG CLI - Command Line Interface
// ============================================================================
//
// Package: internal/cli
// File: cli.go
// Purpose: User-facing command line interface, based on the Cobra
//          framework.
//
// Command Structure:
//   dagrun                        # Root command
//   ├── run                       # Run the scheduler against a graph
//   │   └── --config, -c          # Specify config file
//   ├── graph                     # Print the reference graph's topology
//   ├── --version                 # Display version information
//   └── --help                    # Display help information
//
// Configuration Management:
//   Uses a YAML config file (default: configs/default.yaml) with:
//   - scheduler: pool_size, loops
//   - logging: the four LogConfig flags
//   - metrics: Prometheus exporter enabled/port
//
// run Command:
//   1. Load config file
//   2. Build the reference graph
//   3. Start the metrics HTTP server (if enabled)
//   4. Construct and run a scheduler.Pool
//   5. Wait for the pool to finish, logging any SIGINT/SIGTERM
//
// Signal Handling:
//   run captures SIGINT and SIGTERM. On either, it logs the signal and
//   keeps waiting in Join until the scheduler has completed every
//   configured loop; a signal does not stop the scheduler early (the
//   pool has no mid-run cancellation).
//
// ============================================================================

package cli

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ChuLiYu/beaver-dag/internal/graph"
	"github.com/ChuLiYu/beaver-dag/internal/metrics"
	"github.com/ChuLiYu/beaver-dag/internal/refgraph"
	"github.com/ChuLiYu/beaver-dag/internal/scheduler"
)

// Config represents the complete system configuration structure, mapped
// through YAML tags.
type Config struct {
	Scheduler struct {
		PoolSize int  `yaml:"pool_size"`
		Loops    int  `yaml:"loops"`
		Jitter   bool `yaml:"jitter"`
	} `yaml:"scheduler"`

	Logging struct {
		Loops           bool `yaml:"loops"`
		RunnerLifecycle bool `yaml:"runner_lifecycle"`
		RunnerTask      bool `yaml:"runner_task"`
		ExecTrace       bool `yaml:"exec_trace"`
		PrintGraph      bool `yaml:"print_graph"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
}

var configFile string

// BuildCLI assembles the dagrun root command and its subcommands.
func BuildCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dagrun",
		Short: "dagrun: a fixed-topology DAG scheduler",
		Long: `dagrun repeatedly executes a fixed dependency graph with a
bounded pool of worker goroutines, loop after loop, until a configured
number of loops has completed.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/default.yaml", "config file path")

	rootCmd.AddCommand(buildRunCommand())
	rootCmd.AddCommand(buildGraphCommand())

	return rootCmd
}

func buildRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler against the reference graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSystem()
		},
	}
	return cmd
}

func runSystem() error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	g := refgraph.Build(cfg.Scheduler.Jitter)

	if cfg.Logging.PrintGraph {
		if err := graph.Print(os.Stdout, g, graph.PrintConfig{Enabled: true}); err != nil {
			return fmt.Errorf("failed to print graph: %w", err)
		}
	}

	var sink scheduler.MetricsSink
	if cfg.Metrics.Enabled {
		collector := metrics.NewCollector()
		sink = collector
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			log.Printf("starting metrics server on %s\n", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Printf("metrics server error: %v\n", err)
			}
		}()
	}

	schedCfg := scheduler.Config{
		PoolSize:    cfg.Scheduler.PoolSize,
		LoopsTarget: cfg.Scheduler.Loops,
		Log: scheduler.LogConfig{
			LogLoops:           cfg.Logging.Loops,
			LogRunnerLifecycle: cfg.Logging.RunnerLifecycle,
			LogRunnerTask:      cfg.Logging.RunnerTask,
			LogExecTrace:       cfg.Logging.ExecTrace,
		},
	}

	pool := scheduler.NewPool(g, sink, schedCfg)
	if err := pool.Run(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	joined := make(chan struct{})
	go func() {
		pool.Join()
		close(joined)
	}()

	select {
	case <-joined:
		log.Println("scheduler finished all loops")
	case <-sigChan:
		log.Println("received shutdown signal, waiting for the remaining loops to finish...")
		<-joined
		log.Println("scheduler stopped")
	}

	return nil
}

func buildGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the reference graph's topology",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := refgraph.Build(false)
			return graph.Print(os.Stdout, g, graph.PrintConfig{Enabled: true})
		},
	}
	return cmd
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Scheduler.PoolSize <= 0 {
		cfg.Scheduler.PoolSize = 5
	}
	if cfg.Scheduler.Loops <= 0 {
		cfg.Scheduler.Loops = 10
	}

	return &cfg, nil
}
