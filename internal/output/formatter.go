package output

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Formatter renders an analysis report in one output format
type Formatter interface {
	Name() string
	Format(report *domain.AnalysisReport) ([]byte, error)
}

var registry = []Formatter{
	ConsoleFormatter{},
	JSONFormatter{Pretty: true},
	CSVFormatter{},
	XLSXFormatter{},
}

// GetFormatterByName returns the formatter registered under name, or nil
func GetFormatterByName(name string) Formatter {
	for _, f := range registry {
		if strings.EqualFold(f.Name(), name) {
			return f
		}
	}
	return nil
}

// FormatterNames lists the registered formatter names
func FormatterNames() []string {
	names := make([]string, 0, len(registry))
	for _, f := range registry {
		names = append(names, f.Name())
	}
	return names
}

// IsBinary reports whether a format produces non-text output that should go to a file
func IsBinary(name string) bool {
	return strings.EqualFold(name, "xlsx")
}

// FormatCurrency formats a decimal as currency
func FormatCurrency(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Abs().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(1) + "%"
}

func formatOptionalDate(d *dateutil.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func monthsLabel(n int) string {
	if n == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}
