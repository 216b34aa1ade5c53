package calculation

import (
	"time"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// MaxScheduleEvents bounds every roadmap and timeline (five years of monthly billing)
const MaxScheduleEvents = 60

var oneHundred = decimal.NewFromInt(100)

// MetricsBuilder turns a plan and its arrears into a PlanMetrics snapshot
type MetricsBuilder struct {
	Arrears          *ArrearsCalculator
	MaxRoadmapEvents int
}

// NewMetricsBuilder creates a metrics builder with the default roadmap bound
func NewMetricsBuilder(arrears *ArrearsCalculator) *MetricsBuilder {
	if arrears == nil {
		arrears = NewArrearsCalculator()
	}
	return &MetricsBuilder{Arrears: arrears, MaxRoadmapEvents: MaxScheduleEvents}
}

// Build computes metrics for one plan. It returns false for plans that are not
// schedulable; those never receive metrics.
func (mb *MetricsBuilder) Build(plan domain.PaymentPlan, asOf time.Time) (domain.PlanMetrics, bool) {
	if !plan.IsSchedulable() {
		return domain.PlanMetrics{}, false
	}
	arrears, ok := mb.Arrears.Calculate(plan, asOf)
	if !ok {
		return domain.PlanMetrics{}, false
	}

	paymentsRemaining := PaymentsNeeded(plan.TotalOpen, plan.MonthlyAmount)
	monthsRemaining := paymentsRemaining * plan.Cadence()

	metrics := domain.PlanMetrics{
		CustomerName:      plan.CustomerName,
		PlanID:            plan.PlanID,
		Class:             plan.Class,
		Frequency:         plan.Frequency,
		MonthlyAmount:     plan.MonthlyAmount,
		TotalOriginal:     plan.TotalOriginal,
		TotalOpen:         plan.TotalOpen,
		Arrears:           arrears,
		Status:            PlanStatus(plan, arrears),
		PercentPaid:       PercentPaid(plan),
		PaymentsRemaining: paymentsRemaining,
		MonthsRemaining:   monthsRemaining,
		Roadmap:           mb.Roadmap(plan, asOf),
	}
	if paymentsRemaining > 0 {
		completion := dateutil.DateOf(dateutil.BillingDate(asOf, monthsRemaining))
		metrics.ProjectedCompletionDate = &completion
	}
	return metrics, true
}

// PlanStatus classifies a plan: completed when nothing is open, behind on any
// whole month of arrears, current otherwise.
func PlanStatus(plan domain.PaymentPlan, arrears domain.Arrears) domain.Status {
	switch {
	case plan.TotalOpen.IsZero():
		return domain.StatusCompleted
	case arrears.MonthsBehind > 0:
		return domain.StatusBehind
	default:
		return domain.StatusCurrent
	}
}

// PercentPaid returns the share of the original amount already paid, to one decimal place
func PercentPaid(plan domain.PaymentPlan) decimal.Decimal {
	if !plan.TotalOriginal.IsPositive() {
		return decimal.Zero
	}
	return plan.PaidToDate().Div(plan.TotalOriginal).Mul(oneHundred).Round(1)
}

// Roadmap lists the plan's future installments starting at this month's billing
// date, truncated at MaxRoadmapEvents.
func (mb *MetricsBuilder) Roadmap(plan domain.PaymentPlan, asOf time.Time) []domain.InstallmentEvent {
	if !plan.MonthlyAmount.IsPositive() {
		return nil
	}
	limit := mb.MaxRoadmapEvents
	if limit <= 0 {
		limit = MaxScheduleEvents
	}

	var events []domain.InstallmentEvent
	balance := plan.TotalOpen
	due := dateutil.BillingDate(asOf, 0)
	for balance.IsPositive() && len(events) < limit {
		amount := decimal.Min(plan.MonthlyAmount, balance)
		balance = balance.Sub(amount)
		events = append(events, domain.InstallmentEvent{
			PaymentNumber:    len(events) + 1,
			DueDate:          dateutil.DateOf(due),
			Amount:           amount,
			RemainingBalance: balance,
			IsFinalPayment:   balance.IsZero(),
			IsOverdue:        due.Before(asOf),
		})
		due = dateutil.AdvanceMonths(due, plan.Cadence())
	}
	return events
}
