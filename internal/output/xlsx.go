package output

import (
	"fmt"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary     = "Summary"
	sheetMonthly     = "Monthly Projection"
	sheetCustomers   = "Customers"
	sheetCollections = "Collections"
	sheetPlans       = "Plan Metrics"
)

// XLSXFormatter renders the report as a workbook with one sheet per section
type XLSXFormatter struct{}

func (XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{sheetMonthly, sheetCustomers, sheetCollections, sheetPlans} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, fmt.Errorf("creating title style: %w", err)
	}

	w := &sheetWriter{f: f, header: headerStyle}
	w.summary(report, titleStyle)
	w.monthly(report)
	w.customers(report)
	w.collections(report)
	w.plans(report)
	if w.err != nil {
		return nil, w.err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter keeps the first error so the section writers stay linear
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, row int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
}

func (w *sheetWriter) headerRow(sheet string, row int, titles ...interface{}) {
	w.row(sheet, row, titles...)
	if w.err != nil {
		return
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(len(titles), row)
	if err := w.f.SetCellStyle(sheet, start, end, w.header); err != nil {
		w.err = err
	}
}

func (w *sheetWriter) summary(report *domain.AnalysisReport, titleStyle int) {
	pm := report.PortfolioMetrics
	s := report.Summary.Summary
	w.row(sheetSummary, 1, "Payment Plan Analysis")
	if w.err == nil {
		w.err = w.f.SetCellStyle(sheetSummary, "A1", "A1", titleStyle)
	}
	rows := [][]interface{}{
		{"As of", report.AsOf.String()},
		{"Scenario", string(report.Options.Scenario)},
		{"Months ahead", report.Options.MonthsAhead},
		{"Class filter", report.Options.ClassFilter},
		{"Customers", pm.TotalCustomers},
		{"Plans", pm.TotalPlans},
		{"Excluded plans", pm.ExcludedPlans},
		{"Total outstanding", pm.TotalOutstanding.InexactFloat64()},
		{"Untracked balance", pm.UntrackedBalance.InexactFloat64()},
		{"Expected monthly", pm.ExpectedMonthly.InexactFloat64()},
		{"Behind amount", pm.TotalBehindAmount.InexactFloat64()},
		{"Percentage behind", pm.PercentageBehind.InexactFloat64()},
		{"Renegotiation needed", s.RenegotiationNeeded},
		{"Potential recovery", s.PotentialRecovery.InexactFloat64()},
		{"Total expected collection", s.TotalExpectedCollection.InexactFloat64()},
		{"Average monthly", s.AverageMonthly.InexactFloat64()},
	}
	for i, r := range rows {
		w.row(sheetSummary, i+3, r...)
	}
}

func (w *sheetWriter) monthly(report *domain.AnalysisReport) {
	w.headerRow(sheetMonthly, 1, "Month", "Date", "Expected", "Cumulative", "Active", "Completing", "Behind")
	for i, m := range report.Summary.Months {
		w.row(sheetMonthly, i+2, m.Month, m.Date.String(), m.TotalPayment.InexactFloat64(),
			m.CumulativePayment.InexactFloat64(), m.ActiveCustomers, m.CompletingCustomers, m.BehindCustomers)
	}
}

func (w *sheetWriter) customers(report *domain.AnalysisReport) {
	titles := []interface{}{"Customer", "Status", "Plans", "Monthly", "Owed", "Completion Month", "Months Behind", "Suggested Monthly"}
	for m := 1; m <= report.Options.MonthsAhead; m++ {
		titles = append(titles, fmt.Sprintf("Month %d", m))
	}
	w.headerRow(sheetCustomers, 1, titles...)
	for i, p := range report.Projections {
		values := []interface{}{p.CustomerName, string(p.Status), p.PlanCount, p.TotalMonthlyPayment.InexactFloat64(),
			p.TotalOwed.InexactFloat64(), p.CompletionMonth, p.MonthsBehind, p.SuggestedMonthly.InexactFloat64()}
		for m := 1; m <= report.Options.MonthsAhead; m++ {
			values = append(values, p.PaymentInMonth(m).InexactFloat64())
		}
		w.row(sheetCustomers, i+2, values...)
	}
}

func (w *sheetWriter) collections(report *domain.AnalysisReport) {
	w.headerRow(sheetCollections, 1, "Rank", "Customer", "Plan", "Class", "Months Behind", "Owed", "Capped Deficit",
		"Priority", "Catch-up", "Restart Monthly", "Renegotiated Monthly")
	for i, e := range report.Collections {
		w.row(sheetCollections, i+2, e.Rank, e.CustomerName, e.PlanID, e.Class, e.MonthsBehind, e.TotalOwed.InexactFloat64(),
			e.CappedDeficit.InexactFloat64(), string(e.Priority), e.Recovery.CatchUpAmount.InexactFloat64(),
			e.Recovery.RestartMonthly.InexactFloat64(), e.Recovery.RenegotiatedMonthly.InexactFloat64())
	}
}

func (w *sheetWriter) plans(report *domain.AnalysisReport) {
	w.headerRow(sheetPlans, 1, "Customer", "Plan", "Class", "Frequency", "Installment", "Original", "Open", "Status",
		"Percent Paid", "Months Behind", "Payments Remaining", "Projected Completion")
	for i, m := range report.PlanMetrics {
		w.row(sheetPlans, i+2, m.CustomerName, m.PlanID, m.Class, string(m.Frequency), m.MonthlyAmount.InexactFloat64(),
			m.TotalOriginal.InexactFloat64(), m.TotalOpen.InexactFloat64(), m.Status.String(), m.PercentPaid.InexactFloat64(),
			m.MonthsBehind, m.PaymentsRemaining, formatOptionalDate(m.ProjectedCompletionDate))
	}
}
