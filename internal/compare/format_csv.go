package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Total Expected Collection",
		"Average Monthly",
		"Customers With Payments",
		"Renegotiation Needed",
		"Latest Completion Month",
		"Collection Diff from Base",
		"Collection % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		string(result.Scenario),
		scenarioType,
		result.TotalExpectedCollection.StringFixed(2),
		result.AverageMonthly.StringFixed(2),
		strconv.Itoa(result.CustomersWithPayments),
		strconv.Itoa(result.RenegotiationNeeded),
		strconv.Itoa(result.LatestCompletionMonth),
		result.CollectionDiffFromBase.StringFixed(2),
		result.CollectionPctFromBase.StringFixed(1),
	}
}
