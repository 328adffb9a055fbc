// Package main provides the spyglass-sim CLI tool for generating synthetic
// GenAI traces against a Spyglass (or any OTLP) backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	spyglass "github.com/spyglass-ai/spyglass-go"
)

func main() {
	fs := flag.NewFlagSet("spyglass-sim", flag.ExitOnError)
	scenarioName := fs.String("scenario", "chat", "Scenario to run: chat, tools, failure, async, all")
	count := fs.Int("count", 10, "Number of traces to send")
	interval := fs.Duration("interval", 500*time.Millisecond, "Delay between traces")
	console := fs.Bool("console", false, "Print spans to stdout instead of exporting over OTLP")
	envFile := fs.String("env-file", "", "Optional .env file with SPYGLASS_* variables")
	fs.Usage = printUsage(fs)

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fatalf("load env file: %v", err)
		}
	}

	cfg, err := spyglass.ConfigFromEnv()
	if err != nil {
		fatalf("load config: %v", err)
	}
	if *console {
		cfg.Exporter.Type = "console"
	}
	if cfg.DeploymentID == "" {
		cfg.DeploymentID = "spyglass-sim"
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdown, err := spyglass.Init(ctx, cfg)
	if err != nil {
		fatalf("init tracing: %v", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer flushCancel()
		if err := shutdown(flushCtx); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	scenarios, err := selectScenarios(*scenarioName)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("sending %d traces (scenario: %s)\n", *count, *scenarioName)
	for i := 0; i < *count; i++ {
		if ctx.Err() != nil {
			break
		}
		for _, sc := range scenarios {
			if err := sc.run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "scenario %s: %v\n", sc.name, err)
			}
		}
		select {
		case <-ctx.Done():
		case <-time.After(*interval):
		}
	}
	fmt.Println("done, flushing spans")
}

func selectScenarios(name string) ([]scenario, error) {
	if name == "all" {
		return allScenarios(), nil
	}
	for _, sc := range allScenarios() {
		if sc.name == name {
			return []scenario{sc}, nil
		}
	}

	return nil, fmt.Errorf("unknown scenario: %s", name)
}

func printUsage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Println(`spyglass-sim - synthetic GenAI trace generator

Usage:
  spyglass-sim [flags]

Scenarios:
  chat     Plain chat completion
  tools    Chat with a tool round-trip
  failure  Generation that fails
  async    Concurrent async generations
  all      Every scenario per iteration

Environment Variables:
  SPYGLASS_API_KEY                       Spyglass API key (required for OTLP export)
  SPYGLASS_DEPLOYMENT_ID                 Deployment identifier
  SPYGLASS_OTEL_EXPORTER_OTLP_ENDPOINT   Override the OTLP endpoint

Examples:
  spyglass-sim -scenario chat -count 5
  spyglass-sim -scenario all -console
  spyglass-sim -env-file .env -scenario tools`)
		fmt.Println("\nFlags:")
		fs.PrintDefaults()
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
