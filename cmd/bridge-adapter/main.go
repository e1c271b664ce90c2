package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/mvx-bridge-adapter/pkg/app"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/app/adapter"
	"github.com/chainsafe/mvx-bridge-adapter/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = adapter.NewServer(cfg)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Bridge adapter failed: %v\n", err)
		os.Exit(1)
	}
}
