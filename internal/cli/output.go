package cli

import (
	"fmt"
	"strings"

	"github.com/dmarkov/garage-rent-tracker/internal/application/reconcile"
	"github.com/dmarkov/garage-rent-tracker/internal/i18n"
)

// PrintHeader prints the application header.
func PrintHeader(rosterPath, statementPath string) {
	fmt.Printf("garage-rent-tracker: %s vs %s\n\n", rosterPath, statementPath)
}

// PrintSummary prints the run summary table.
func PrintSummary(rep *reconcile.Report, msgs *i18n.Catalog) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%s: %s", msgs.Get("report.meta.analysis_date"), rep.AnalysisDate.Format("2006-01-02"))
	fmt.Printf(" | %s: %s\n", msgs.Get("report.meta.target_month"), rep.TargetMonth.Format("2006-01"))
	if rep.Period != nil {
		fmt.Printf("%s: %s\n", msgs.Get("report.meta.period"), rep.Period.SourceText)
	}

	s := rep.Summary
	rows := []struct {
		key   string
		value string
	}{
		{"summary.total_units", fmt.Sprintf("%d", s.TotalUnits)},
		{"summary.received", fmt.Sprintf("%d", s.ReceivedCount)},
		{"summary.overdue", fmt.Sprintf("%d", s.OverdueCount)},
		{"summary.pending", fmt.Sprintf("%d", s.PendingCount)},
		{"summary.not_due", fmt.Sprintf("%d", s.NotDueCount)},
		{"summary.unclear", fmt.Sprintf("%d", s.UnclearCount)},
		{"summary.total_expected", s.TotalExpected.StringFixed(2)},
		{"summary.total_received", s.TotalReceived.StringFixed(2)},
		{"summary.collection_rate", fmt.Sprintf("%.1f%%", s.CollectionRate())},
	}
	for _, row := range rows {
		fmt.Printf("  %-22s %s\n", msgs.Get(row.key)+":", row.value)
	}

	if len(rep.Warnings) > 0 {
		fmt.Println()
		for _, warning := range rep.Warnings {
			fmt.Printf("  ! %s\n", warning)
		}
	}
	fmt.Println(strings.Repeat("-", 60))
}
