// Package cli holds flag parsing and console output for the binaries.
package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmarkov/garage-rent-tracker/internal/application/reconcile"
)

// ReconcileFlags are the command-line options for a reconciliation run.
type ReconcileFlags struct {
	RosterPath    string
	StatementPath string
	OutputPath    string
	ConfigPath    string
	Format        string
	Language      string
	AnalysisDate  string
	TargetMonth   string
	Verbose       bool
}

// ParseReconcileFlags parses the reconcile command's flags.
func ParseReconcileFlags() ReconcileFlags {
	var flags ReconcileFlags
	flag.StringVar(&flags.RosterPath, "roster", "", "Path to the rental-unit roster xlsx (required)")
	flag.StringVar(&flags.StatementPath, "statement", "", "Path to the bank statement xlsx (required)")
	flag.StringVar(&flags.OutputPath, "output", "", "Report output path (default: report-<analysis date>.xlsx)")
	flag.StringVar(&flags.ConfigPath, "config", "", "Configuration file path")
	flag.StringVar(&flags.Format, "format", "", "Statement format (empty = auto-detect)")
	flag.StringVar(&flags.Language, "lang", "", "Report language, en or ru (default from config)")
	flag.StringVar(&flags.AnalysisDate, "date", "", "Analysis date YYYY-MM-DD (default: end of the statement period)")
	flag.StringVar(&flags.TargetMonth, "month", "", "Target month YYYY-MM (default: start month of the statement period)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose logging")
	flag.Parse()
	return flags
}

// RunOptions converts the date flags into engine options.
func (f ReconcileFlags) RunOptions() (reconcile.Options, error) {
	var opts reconcile.Options
	if f.AnalysisDate != "" {
		d, err := time.Parse("2006-01-02", f.AnalysisDate)
		if err != nil {
			return opts, fmt.Errorf("invalid -date %q, want YYYY-MM-DD", f.AnalysisDate)
		}
		opts.AnalysisDate = d
	}
	if f.TargetMonth != "" {
		m, err := time.Parse("2006-01", f.TargetMonth)
		if err != nil {
			return opts, fmt.Errorf("invalid -month %q, want YYYY-MM", f.TargetMonth)
		}
		opts.TargetMonth = m
	}
	return opts, nil
}
