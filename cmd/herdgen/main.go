package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/zebu/internal/herdgen"
	"github.com/okian/zebu/pkg/logger"
)

// Default configuration constants.
const (
	defaultAnimals     = 5000
	defaultBatchSize   = 100
	defaultTopN        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		animals   = flag.Int("animals", defaultAnimals, "Number of animals to generate and submit")
		batchSize = flag.Int("batch", defaultBatchSize, "Animals per batch submission")
		topN      = flag.Int("top", defaultTopN, "Number of top entries to fetch from the ranking")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &herdgen.Config{
		BaseURL:   *baseURL,
		Animals:   *animals,
		BatchSize: *batchSize,
		TopN:      *topN,
		Workers:   *workers,
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if err := herdgen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Herd test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
