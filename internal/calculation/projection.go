package calculation

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// RenegotiationTermMonths is the amortization horizon proposed to behind customers
	RenegotiationTermMonths = 30

	renegotiatedPlanID = "renegotiated"

	noteContactNeeded = "Behind customer - contact needed"
	noteRestart       = "Restart scenario"
	noteRenegotiated  = "Proposed renegotiated terms"
	noteCompleted     = "Plan completed"
)

// ScenarioProjector builds per-customer forward timelines
type ScenarioProjector struct {
	Arrears          *ArrearsCalculator
	TermMonths       int
	MaxHorizonMonths int
	Workers          int
}

// NewScenarioProjector creates a projector with the default renegotiation term and horizon cap
func NewScenarioProjector(arrears *ArrearsCalculator) *ScenarioProjector {
	if arrears == nil {
		arrears = NewArrearsCalculator()
	}
	return &ScenarioProjector{
		Arrears:          arrears,
		TermMonths:       RenegotiationTermMonths,
		MaxHorizonMonths: MaxScheduleEvents,
		Workers:          runtime.GOMAXPROCS(0),
	}
}

// ProjectablePlans returns the plans that enter projection math: schedulable
// and still carrying an open balance.
func ProjectablePlans(c *domain.Customer) []domain.PaymentPlan {
	var plans []domain.PaymentPlan
	for _, p := range c.SchedulablePlans() {
		if p.TotalOpen.IsPositive() {
			plans = append(plans, p)
		}
	}
	return plans
}

// SuggestedMonthly spreads a balance over termMonths installments, rounded up to
// the cent so that at most termMonths payments clear it.
func SuggestedMonthly(totalOwed decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 || !totalOwed.IsPositive() {
		return decimal.Zero
	}
	return totalOwed.Div(decimal.NewFromInt(int64(termMonths))).RoundUp(2)
}

// ProjectCustomer projects one customer under a scenario. It returns false when
// the customer has no projectable plans.
func (sp *ScenarioProjector) ProjectCustomer(c *domain.Customer, scenario domain.Scenario, monthsAhead int, asOf time.Time) (*domain.CustomerProjection, bool) {
	plans := ProjectablePlans(c)
	if len(plans) == 0 {
		return nil, false
	}
	horizon := sp.horizon(monthsAhead)

	var onSchedule []domain.PaymentPlan
	totalMonthsBehind := 0
	totalMonthly := decimal.Zero
	totalOwed := decimal.Zero
	for _, p := range plans {
		totalMonthly = totalMonthly.Add(p.MonthlyAmount)
		totalOwed = totalOwed.Add(p.TotalOpen)
		arrears, _ := sp.Arrears.Calculate(p, asOf)
		if arrears.IsBehind() {
			totalMonthsBehind += arrears.MonthsBehind
			continue
		}
		onSchedule = append(onSchedule, p)
	}

	projection := &domain.CustomerProjection{
		CustomerName:        c.Name,
		Scenario:            scenario,
		Status:              domain.ProjectionCurrent,
		PlanCount:           len(plans),
		TotalMonthlyPayment: totalMonthly,
		TotalOwed:           totalOwed,
		Classes:             c.Classes(),
	}

	if totalMonthsBehind == 0 {
		projection.Timeline, projection.CompletionMonth = sp.schedule(plans, horizon, asOf)
		return projection, true
	}

	switch scenario {
	case domain.ScenarioRestart:
		projection.Status = domain.ProjectionRestart
		projection.Timeline, projection.CompletionMonth = sp.schedule(plans, horizon, asOf)
		if len(projection.Timeline) > 0 {
			projection.Timeline[0].Note = noteRestart
		}

	case domain.ScenarioRenegotiate:
		sp.renegotiate(projection, len(plans), horizon, asOf)
		projection.MonthsBehind = totalMonthsBehind
		projection.RenegotiationNeeded = true

	default:
		projection.Status = domain.ProjectionBehind
		projection.MonthsBehind = totalMonthsBehind
		projection.RenegotiationNeeded = true
		projection.Timeline, projection.CompletionMonth = sp.schedule(onSchedule, horizon, asOf)
		for i := range projection.Timeline {
			projection.Timeline[i].Note = noteContactNeeded
		}
	}
	return projection, true
}

func (sp *ScenarioProjector) renegotiate(projection *domain.CustomerProjection, planCount, horizon int, asOf time.Time) {
	suggested := SuggestedMonthly(projection.TotalOwed, sp.termMonths())
	synthetic := domain.PaymentPlan{
		CustomerName:  projection.CustomerName,
		PlanID:        renegotiatedPlanID,
		MonthlyAmount: suggested,
		Frequency:     domain.FrequencyMonthly,
		TotalOriginal: projection.TotalOwed,
		TotalOpen:     projection.TotalOwed,
	}

	projection.Status = domain.ProjectionRenegotiate
	projection.SuggestedMonthly = suggested
	projection.TotalMonthlyPayment = suggested
	projection.Timeline, projection.CompletionMonth = sp.schedule([]domain.PaymentPlan{synthetic}, horizon, asOf)
	for i := range projection.Timeline {
		if projection.Timeline[i].Payment.IsPositive() {
			projection.Timeline[i].ActivePlans = planCount
			projection.Timeline[i].Note = noteRenegotiated
		} else {
			projection.Timeline[i].Note = noteCompleted
		}
	}
}

// schedule lays the plans out month by month and returns the timeline with the
// completion month, the latest final payment capped at the horizon.
func (sp *ScenarioProjector) schedule(plans []domain.PaymentPlan, horizon int, asOf time.Time) ([]domain.TimelineMonth, int) {
	timeline := make([]domain.TimelineMonth, 0, horizon)
	for m := 1; m <= horizon; m++ {
		month := domain.TimelineMonth{
			Month:   m,
			Date:    dateutil.DateOf(dateutil.BillingDate(asOf, m)),
			Payment: decimal.Zero,
		}
		for _, p := range plans {
			payment, ok := PlanPaymentForMonth(p, m)
			if !ok {
				continue
			}
			month.Payment = month.Payment.Add(payment.Amount)
			month.ActivePlans++
			month.Details = append(month.Details, payment)
		}
		timeline = append(timeline, month)
	}

	completion := 0
	for _, p := range plans {
		completion = max(completion, min(PlanCompletionMonth(p), horizon))
	}
	return timeline, completion
}

// PlanPaymentForMonth returns the plan's payment in a 1-based month of a fresh
// schedule. A payment falls due every cadence months starting at month 1, and
// the final payment is clamped to the remaining balance.
func PlanPaymentForMonth(plan domain.PaymentPlan, month int) (domain.PlanPayment, bool) {
	cadence := plan.Cadence()
	if month < 1 || !plan.MonthlyAmount.IsPositive() || (month-1)%cadence != 0 {
		return domain.PlanPayment{}, false
	}
	number := (month-1)/cadence + 1
	needed := PaymentsNeeded(plan.TotalOpen, plan.MonthlyAmount)
	if number > needed {
		return domain.PlanPayment{}, false
	}

	remaining := plan.TotalOpen.Sub(plan.MonthlyAmount.Mul(decimal.NewFromInt(int64(number - 1))))
	return domain.PlanPayment{
		PlanID:         plan.PlanID,
		Amount:         decimal.Min(plan.MonthlyAmount, remaining),
		PaymentNumber:  number,
		TotalPayments:  needed,
		IsFinalPayment: number == needed,
	}, true
}

// PlanCompletionMonth returns the month index of the plan's final payment on a
// fresh schedule, zero when nothing is owed.
func PlanCompletionMonth(plan domain.PaymentPlan) int {
	needed := PaymentsNeeded(plan.TotalOpen, plan.MonthlyAmount)
	if needed == 0 {
		return 0
	}
	return (needed-1)*plan.Cadence() + 1
}

// ProjectAll projects every customer in parallel and joins before sorting.
// Customers without projectable plans are dropped.
func (sp *ScenarioProjector) ProjectAll(ctx context.Context, customers []*domain.Customer, scenario domain.Scenario, monthsAhead int, asOf time.Time) ([]domain.CustomerProjection, error) {
	results := make([]*domain.CustomerProjection, len(customers))

	g, ctx := errgroup.WithContext(ctx)
	if sp.Workers > 0 {
		g.SetLimit(sp.Workers)
	}
	for i, c := range customers {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if projection, ok := sp.ProjectCustomer(c, scenario, monthsAhead, asOf); ok {
				results[i] = projection
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	projections := make([]domain.CustomerProjection, 0, len(results))
	for _, p := range results {
		if p != nil {
			projections = append(projections, *p)
		}
	}
	SortProjections(projections)
	return projections, nil
}

// SortProjections orders renegotiation-needed customers first, then by
// descending monthly commitment, then by name.
func SortProjections(projections []domain.CustomerProjection) {
	sort.SliceStable(projections, func(i, j int) bool {
		a, b := projections[i], projections[j]
		if a.RenegotiationNeeded != b.RenegotiationNeeded {
			return a.RenegotiationNeeded
		}
		if cmp := a.TotalMonthlyPayment.Cmp(b.TotalMonthlyPayment); cmp != 0 {
			return cmp > 0
		}
		return a.CustomerName < b.CustomerName
	})
}

func (sp *ScenarioProjector) horizon(monthsAhead int) int {
	limit := sp.MaxHorizonMonths
	if limit <= 0 {
		limit = MaxScheduleEvents
	}
	return max(0, min(monthsAhead, limit))
}

func (sp *ScenarioProjector) termMonths() int {
	if sp.TermMonths <= 0 {
		return RenegotiationTermMonths
	}
	return sp.TermMonths
}
