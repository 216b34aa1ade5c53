package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rgehrsitz/payplan/internal/domain"
)

// CSVFormatter renders one row per customer projection with a column per month
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := []string{"Customer", "Status", "Plans", "TotalMonthly", "TotalOwed", "CompletionMonth", "MonthsBehind", "RenegotiationNeeded"}
	for m := 1; m <= report.Options.MonthsAhead; m++ {
		header = append(header, fmt.Sprintf("Month%d", m))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, p := range report.Projections {
		row := []string{
			p.CustomerName,
			string(p.Status),
			strconv.Itoa(p.PlanCount),
			p.TotalMonthlyPayment.StringFixed(2),
			p.TotalOwed.StringFixed(2),
			strconv.Itoa(p.CompletionMonth),
			strconv.Itoa(p.MonthsBehind),
			strconv.FormatBool(p.RenegotiationNeeded),
		}
		for m := 1; m <= report.Options.MonthsAhead; m++ {
			row = append(row, p.PaymentInMonth(m).StringFixed(2))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// FormatCollectionsCSV renders the collections list as CSV
func FormatCollectionsCSV(entries []domain.CollectionsEntry) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Rank", "Customer", "Plan", "Class", "MonthsBehind", "TotalOwed", "CappedDeficit", "Priority",
		"CatchUpAmount", "RestartMonthly", "RestartMonths", "RenegotiatedMonthly", "RenegotiatedTermMonths"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, e := range entries {
		row := []string{
			strconv.Itoa(e.Rank),
			e.CustomerName,
			e.PlanID,
			e.Class,
			strconv.Itoa(e.MonthsBehind),
			e.TotalOwed.StringFixed(2),
			e.CappedDeficit.StringFixed(2),
			string(e.Priority),
			e.Recovery.CatchUpAmount.StringFixed(2),
			e.Recovery.RestartMonthly.StringFixed(2),
			strconv.Itoa(e.Recovery.RestartMonths),
			e.Recovery.RenegotiatedMonthly.StringFixed(2),
			strconv.Itoa(e.Recovery.RenegotiatedTermMonths),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
