package calculation

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

var testAsOf = time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func daysAgo(n int) *time.Time {
	t := testAsOf.AddDate(0, 0, -n)
	return &t
}

func newPlan(customer, id, amount string, freq domain.Frequency, original, open string, earliest *time.Time) domain.PaymentPlan {
	return domain.PaymentPlan{
		CustomerName:  customer,
		PlanID:        id,
		MonthlyAmount: dec(amount),
		Frequency:     freq,
		TotalOriginal: dec(original),
		TotalOpen:     dec(open),
		EarliestDate:  earliest,
	}
}

// behindCustomer owes 4500 on a 500/month plan and is 9 months behind.
func behindCustomer(name string) *domain.Customer {
	return &domain.Customer{Name: name, Plans: []domain.PaymentPlan{
		newPlan(name, name+"-1", "500", domain.FrequencyMonthly, "6000", "4500", daysAgo(400)),
	}}
}

// currentCustomer has a freshly originated plan that is not yet due.
func currentCustomer(name, amount, open string) *domain.Customer {
	return &domain.Customer{Name: name, Plans: []domain.PaymentPlan{
		newPlan(name, name+"-1", amount, domain.FrequencyMonthly, open, open, daysAgo(0)),
	}}
}

// TestLogger records messages for assertions
type TestLogger struct {
	Messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.Messages = append(tl.Messages, "DEBUG: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.Messages = append(tl.Messages, "INFO: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.Messages = append(tl.Messages, "WARN: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.Messages = append(tl.Messages, "ERROR: "+fmt.Sprintf(format, args...))
}
