package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmarkov/garage-rent-tracker/internal/api"
	"github.com/dmarkov/garage-rent-tracker/internal/config"
	"github.com/dmarkov/garage-rent-tracker/internal/observability"
)

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file path")
		port       = flag.Int("port", 0, "Override the configured port")
		verbose    = flag.Bool("verbose", false, "Verbose logging")
	)
	flag.Parse()

	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config %s: %v\n", *configFile, err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrEnv()
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *verbose {
		cfg.Observability.Logging.Level = "debug"
	}

	logger := observability.NewLogger(cfg.Observability.Logging)

	server := api.NewServer(cfg, logger)
	if err := server.Run(); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
