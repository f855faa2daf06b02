package api

import (
	"github.com/dmarkov/garage-rent-tracker/internal/application/reconcile"
)

const (
	dtoDateFormat  = "2006-01-02"
	dtoMonthFormat = "2006-01"
)

// PaymentResponse is one reconciled payment in API form.
type PaymentResponse struct {
	UnitID         int64   `json:"unit_id"`
	ExpectedAmount string  `json:"expected_amount"`
	ExpectedDate   string  `json:"expected_date"`
	ActualAmount   *string `json:"actual_amount,omitempty"`
	ActualDate     *string `json:"actual_date,omitempty"`
	Status         string  `json:"status"`
	DaysOverdue    int     `json:"days_overdue"`
	Notes          string  `json:"notes,omitempty"`
}

// SummaryResponse aggregates a run's outcomes.
type SummaryResponse struct {
	TotalUnits     int     `json:"total_units"`
	Received       int     `json:"received"`
	Overdue        int     `json:"overdue"`
	Pending        int     `json:"pending"`
	NotDue         int     `json:"not_due"`
	Unclear        int     `json:"unclear"`
	TotalExpected  string  `json:"total_expected"`
	TotalReceived  string  `json:"total_received"`
	CollectionRate float64 `json:"collection_rate"`
}

// PeriodResponse is the statement-declared reporting interval.
type PeriodResponse struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	SourceText string `json:"source_text"`
}

// ReportResponse is a complete reconciliation report.
type ReportResponse struct {
	ID            string            `json:"id"`
	GeneratedAt   string            `json:"generated_at"`
	AnalysisDate  string            `json:"analysis_date"`
	TargetMonth   string            `json:"target_month"`
	Period        *PeriodResponse   `json:"period,omitempty"`
	RosterName    string            `json:"roster_name,omitempty"`
	StatementName string            `json:"statement_name,omitempty"`
	Payments      []PaymentResponse `json:"payments"`
	Summary       SummaryResponse   `json:"summary"`
	Warnings      []string          `json:"warnings,omitempty"`
}

// ReportListItem is a report index entry.
type ReportListItem struct {
	ID           string          `json:"id"`
	GeneratedAt  string          `json:"generated_at"`
	AnalysisDate string          `json:"analysis_date"`
	Summary      SummaryResponse `json:"summary"`
}

func toReportResponse(id string, rep *reconcile.Report) ReportResponse {
	out := ReportResponse{
		ID:            id,
		GeneratedAt:   rep.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"),
		AnalysisDate:  rep.AnalysisDate.Format(dtoDateFormat),
		TargetMonth:   rep.TargetMonth.Format(dtoMonthFormat),
		RosterName:    rep.RosterName,
		StatementName: rep.StatementName,
		Summary:       toSummaryResponse(rep.Summary),
		Warnings:      rep.Warnings,
	}
	if rep.Period != nil {
		out.Period = &PeriodResponse{
			StartDate:  rep.Period.StartDate.Format(dtoDateFormat),
			EndDate:    rep.Period.EndDate.Format(dtoDateFormat),
			SourceText: rep.Period.SourceText,
		}
	}
	out.Payments = make([]PaymentResponse, 0, len(rep.Payments))
	for _, p := range rep.Payments {
		item := PaymentResponse{
			UnitID:         p.UnitID,
			ExpectedAmount: p.ExpectedAmount.StringFixed(2),
			ExpectedDate:   p.ExpectedDate.Format(dtoDateFormat),
			Status:         string(p.Status),
			DaysOverdue:    p.DaysOverdue,
			Notes:          p.Notes,
		}
		if p.ActualAmount != nil {
			v := p.ActualAmount.StringFixed(2)
			item.ActualAmount = &v
		}
		if p.ActualDate != nil {
			v := p.ActualDate.Format(dtoDateFormat)
			item.ActualDate = &v
		}
		out.Payments = append(out.Payments, item)
	}
	return out
}

func toSummaryResponse(s reconcile.Summary) SummaryResponse {
	return SummaryResponse{
		TotalUnits:     s.TotalUnits,
		Received:       s.ReceivedCount,
		Overdue:        s.OverdueCount,
		Pending:        s.PendingCount,
		NotDue:         s.NotDueCount,
		Unclear:        s.UnclearCount,
		TotalExpected:  s.TotalExpected.StringFixed(2),
		TotalReceived:  s.TotalReceived.StringFixed(2),
		CollectionRate: s.CollectionRate(),
	}
}
