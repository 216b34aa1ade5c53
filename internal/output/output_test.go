package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/config"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport(t *testing.T) *domain.AnalysisReport {
	t.Helper()
	portfolio, err := config.NewInputParser().LoadFromFile("../config/testdata/portfolio.yaml")
	require.NoError(t, err)

	opts := calculation.DefaultOptions()
	opts.MonthsAhead = 6
	opts.AsOf = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	report, err := calculation.NewCalculationEngine().Run(context.Background(), portfolio, opts)
	require.NoError(t, err)
	return report
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "json", "csv", "xlsx", "JSON"} {
		f := GetFormatterByName(name)
		require.NotNil(t, f, name)
		assert.Equal(t, strings.ToLower(name), f.Name())
	}
	assert.Nil(t, GetFormatterByName("html"))
	assert.Equal(t, []string{"console", "json", "csv", "xlsx"}, FormatterNames())
	assert.True(t, IsBinary("xlsx"))
	assert.False(t, IsBinary("csv"))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "-$20.00", FormatCurrency(decimal.NewFromInt(-20)))
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "12.5%", FormatPercentage(decimal.NewFromFloat(12.5)))
}

func TestConsoleFormatter(t *testing.T) {
	report := sampleReport(t)

	out, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "PAYMENT PLAN ANALYSIS")
	assert.Contains(t, text, "As of:     2026-03-20")
	assert.Contains(t, text, "MONTHLY PROJECTION")
	assert.Contains(t, text, "COLLECTIONS PRIORITY")
	assert.Contains(t, text, "Acme Ltd")
	assert.Contains(t, text, "EXCLUDED PLANS")
	assert.Contains(t, text, "flagged with data-quality issues")
	assert.Contains(t, text, "missing earliest invoice date")
}

func TestFormatCollectionsTableEmpty(t *testing.T) {
	assert.Contains(t, FormatCollectionsTable(nil), "No plans are behind.")
}

func TestFormatCustomerDetail(t *testing.T) {
	report := sampleReport(t)
	projection, ok := report.Projection("Globex")
	require.True(t, ok)

	text := FormatCustomerDetail(projection, report.MetricsFor("Globex"))
	assert.Contains(t, text, "GLOBEX")
	assert.Contains(t, text, "GX-1")
	assert.Contains(t, text, "TIMELINE")
	assert.Contains(t, text, "final")
}

func TestJSONFormatter(t *testing.T) {
	report := sampleReport(t)

	out, err := JSONFormatter{}.Format(report)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\n  ")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, report.RunID, decoded["runId"])
	assert.Contains(t, decoded, "projections")
	assert.Contains(t, decoded, "collections")
	assert.Equal(t, "2026-03-20", decoded["asOf"])
	assert.Contains(t, string(out), `"date":"2026-04-15"`)
	assert.Contains(t, string(out), `"dueDate":"2026-03-15"`)
	assert.NotContains(t, string(out), "T00:00:00")

	pretty, err := JSONFormatter{Pretty: true}.Format(report)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")
}

func TestCSVFormatter(t *testing.T) {
	report := sampleReport(t)

	out, err := CSVFormatter{}.Format(report)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(report.Projections)+1)

	header := records[0]
	assert.Equal(t, "Customer", header[0])
	assert.Equal(t, "Month1", header[8])
	assert.Equal(t, "Month6", header[len(header)-1])

	for i, p := range report.Projections {
		row := records[i+1]
		assert.Equal(t, p.CustomerName, row[0])
		assert.Equal(t, p.PaymentInMonth(1).StringFixed(2), row[8])
	}
}

func TestFormatCollectionsCSV(t *testing.T) {
	report := sampleReport(t)
	require.NotEmpty(t, report.Collections)

	out, err := FormatCollectionsCSV(report.Collections)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(report.Collections)+1)
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "Acme Ltd", records[1][1])
}

func TestXLSXFormatter(t *testing.T) {
	report := sampleReport(t)

	out, err := XLSXFormatter{}.Format(report)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Monthly Projection", "Customers", "Collections", "Plan Metrics"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Payment Plan Analysis", title)

	asOf, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-20", asOf)

	rows, err := f.GetRows("Monthly Projection")
	require.NoError(t, err)
	assert.Len(t, rows, 7)
	assert.Equal(t, "Month", rows[0][0])

	customers, err := f.GetRows("Customers")
	require.NoError(t, err)
	assert.Len(t, customers, len(report.Projections)+1)
	assert.Equal(t, report.Projections[0].CustomerName, customers[1][0])
}
