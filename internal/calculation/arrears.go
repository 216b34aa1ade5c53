package calculation

import (
	"time"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// daysPerMonthHundredths is 30.44 days expressed in hundredths so month counts
// can be computed with integer arithmetic.
const daysPerMonthHundredths = 3044

// ArrearsCalculator converts elapsed calendar time into whole-month arrears.
// It holds no state; every call takes the pinned reference time explicitly.
type ArrearsCalculator struct{}

// NewArrearsCalculator creates a new arrears calculator
func NewArrearsCalculator() *ArrearsCalculator {
	return &ArrearsCalculator{}
}

// MonthsElapsed returns ceil(days/30.44) between since and asOf, never negative.
func (ac *ArrearsCalculator) MonthsElapsed(asOf, since time.Time) int {
	days := dateutil.DaysBetween(asOf, since)
	if days <= 0 {
		return 0
	}
	return ceilDivInt(days*100, daysPerMonthHundredths)
}

// ExpectedPayments returns the installments due after monthsElapsed months.
// Only completed cadence periods count.
func (ac *ArrearsCalculator) ExpectedPayments(plan domain.PaymentPlan, monthsElapsed int) decimal.Decimal {
	if !plan.MonthlyAmount.IsPositive() || monthsElapsed <= 0 {
		return decimal.Zero
	}
	periods := monthsElapsed / plan.Cadence()
	return plan.MonthlyAmount.Mul(decimal.NewFromInt(int64(periods)))
}

// CappedDeficit returns the shortfall implied by a payment difference, capped
// at the plan's open balance. Zero when the plan is not behind.
func (ac *ArrearsCalculator) CappedDeficit(plan domain.PaymentPlan, difference decimal.Decimal) decimal.Decimal {
	if !difference.IsNegative() {
		return decimal.Zero
	}
	deficit := difference.Abs()
	if deficit.GreaterThan(plan.TotalOpen) {
		deficit = plan.TotalOpen
	}
	if deficit.IsNegative() {
		return decimal.Zero
	}
	return deficit
}

// MonthsBehind converts a capped deficit to whole months at the plan's cadence.
func (ac *ArrearsCalculator) MonthsBehind(plan domain.PaymentPlan, deficit decimal.Decimal) int {
	if !plan.MonthlyAmount.IsPositive() || !deficit.IsPositive() {
		return 0
	}
	cadence := decimal.NewFromInt(int64(plan.Cadence()))
	return ceilDivDecimal(deficit.Mul(cadence), plan.MonthlyAmount)
}

// Calculate builds the arrears figure for a plan as of asOf. The second return
// is false when the plan has no earliest date and arrears are undefined.
func (ac *ArrearsCalculator) Calculate(plan domain.PaymentPlan, asOf time.Time) (domain.Arrears, bool) {
	if plan.EarliestDate == nil {
		return domain.Arrears{}, false
	}

	elapsed := ac.MonthsElapsed(asOf, *plan.EarliestDate)
	expected := ac.ExpectedPayments(plan, elapsed)
	actual := plan.PaidToDate()
	difference := actual.Sub(expected)
	deficit := ac.CappedDeficit(plan, difference)

	return domain.Arrears{
		MonthsElapsed:     elapsed,
		ExpectedPayments:  expected,
		ActualPayments:    actual,
		PaymentDifference: difference,
		CappedDeficit:     deficit,
		MonthsBehind:      ac.MonthsBehind(plan, deficit),
	}, true
}

// PaymentsNeeded returns ceil(balance/installment), zero for a non-positive
// installment or balance.
func PaymentsNeeded(balance, installment decimal.Decimal) int {
	if !installment.IsPositive() || !balance.IsPositive() {
		return 0
	}
	return ceilDivDecimal(balance, installment)
}

func ceilDivInt(a, b int) int {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// ceilDivDecimal divides two positive decimals and rounds up to a whole number.
func ceilDivDecimal(a, b decimal.Decimal) int {
	q, r := a.QuoRem(b, 0)
	n := int(q.IntPart())
	if !r.IsZero() {
		n++
	}
	return n
}
