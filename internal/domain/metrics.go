package domain

import (
	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Arrears is the whole-month arrears figure for one plan at a pinned reference time
type Arrears struct {
	MonthsElapsed     int             `json:"monthsElapsed"`
	ExpectedPayments  decimal.Decimal `json:"expectedPayments"`
	ActualPayments    decimal.Decimal `json:"actualPayments"`
	PaymentDifference decimal.Decimal `json:"paymentDifference"` // negative means behind
	CappedDeficit     decimal.Decimal `json:"cappedDeficit"`     // never exceeds total open
	MonthsBehind      int             `json:"monthsBehind"`
}

// IsBehind reports whether any whole month of arrears exists
func (a Arrears) IsBehind() bool {
	return a.MonthsBehind > 0
}

// InstallmentEvent is one scheduled payment on a plan's roadmap
type InstallmentEvent struct {
	PaymentNumber    int             `json:"paymentNumber"`
	DueDate          dateutil.Date   `json:"dueDate"`
	Amount           decimal.Decimal `json:"amount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	IsFinalPayment   bool            `json:"isFinalPayment"`
	IsOverdue        bool            `json:"isOverdue"`
}

// PlanMetrics is the read-only snapshot computed for one eligible plan
type PlanMetrics struct {
	CustomerName  string          `json:"customerName"`
	PlanID        string          `json:"planId"`
	Class         string          `json:"class,omitempty"`
	Frequency     Frequency       `json:"frequency"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	TotalOriginal decimal.Decimal `json:"totalOriginal"`
	TotalOpen     decimal.Decimal `json:"totalOpen"`

	Arrears

	Status                  Status             `json:"status"`
	PercentPaid             decimal.Decimal    `json:"percentPaid"`
	PaymentsRemaining       int                `json:"paymentsRemaining"`
	MonthsRemaining         int                `json:"monthsRemaining"`
	ProjectedCompletionDate *dateutil.Date     `json:"projectedCompletionDate,omitempty"`
	Roadmap                 []InstallmentEvent `json:"roadmap"`
}

// ExpectedMonthly normalizes the installment to a per-month amount by cadence
func (m PlanMetrics) ExpectedMonthly() decimal.Decimal {
	return m.MonthlyAmount.Div(decimal.NewFromInt(int64(m.Frequency.CadenceMonths())))
}
