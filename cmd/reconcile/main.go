package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dmarkov/garage-rent-tracker/internal/adapters/report"
	"github.com/dmarkov/garage-rent-tracker/internal/adapters/roster"
	"github.com/dmarkov/garage-rent-tracker/internal/adapters/statement"
	"github.com/dmarkov/garage-rent-tracker/internal/application/reconcile"
	"github.com/dmarkov/garage-rent-tracker/internal/cli"
	"github.com/dmarkov/garage-rent-tracker/internal/config"
	"github.com/dmarkov/garage-rent-tracker/internal/i18n"
	"github.com/dmarkov/garage-rent-tracker/internal/observability"
)

func main() {
	flags := cli.ParseReconcileFlags()
	if flags.RosterPath == "" || flags.StatementPath == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -roster <roster.xlsx> -statement <statement.xlsx> [-output report.xlsx] [-date YYYY-MM-DD] [-month YYYY-MM]")
		os.Exit(2)
	}

	cfg := loadConfig(flags.ConfigPath)
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := observability.NewLogger(cfg.Observability.Logging)

	language := cfg.Localization.Language
	if flags.Language != "" {
		language = flags.Language
	}
	msgs, err := i18n.New(language)
	if err != nil {
		fail(logger, "load messages", err)
	}

	opts, err := flags.RunOptions()
	if err != nil {
		fail(logger, "parse flags", err)
	}

	cli.PrintHeader(flags.RosterPath, flags.StatementPath)

	units, err := roster.NewReader(logger).Read(flags.RosterPath)
	if err != nil {
		fail(logger, "read roster", err)
	}

	registry := statement.NewRegistry(logger)
	parser, err := resolveParser(registry, flags)
	if err != nil {
		fail(logger, "select statement parser", err)
	}
	parsed, err := parser.Parse(flags.StatementPath)
	if err != nil {
		fail(logger, "read statement", err)
	}

	engine := reconcile.New(cfg.Reconcile.MatcherConfig(), msgs, logger)
	rep, err := engine.Run(reconcile.Input{
		Units:         units,
		Transactions:  parsed.Transactions,
		RawText:       parsed.RawText,
		RosterName:    flags.RosterPath,
		StatementName: flags.StatementPath,
	}, opts)
	if err != nil {
		fail(logger, "reconcile", err)
	}

	outputPath := flags.OutputPath
	if outputPath == "" {
		outputPath = fmt.Sprintf("report-%s.xlsx", rep.AnalysisDate.Format("2006-01-02"))
	}
	if err := report.NewExcelWriter(msgs, logger).Write(rep, outputPath); err != nil {
		fail(logger, "write report", err)
	}

	cli.PrintSummary(rep, msgs)
	fmt.Printf("Report written to %s\n", outputPath)
}

func loadConfig(path string) *config.Config {
	if path == "" {
		return config.LoadOrEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config %s: %v\n", path, err)
		os.Exit(1)
	}
	return cfg
}

func resolveParser(registry *statement.Registry, flags cli.ReconcileFlags) (statement.Parser, error) {
	if flags.Format != "" {
		return registry.Get(flags.Format)
	}
	return registry.Detect(flags.StatementPath)
}

func fail(logger *slog.Logger, stage string, err error) {
	logger.Error(stage+" failed", slog.String("error", err.Error()))
	fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
	os.Exit(1)
}
