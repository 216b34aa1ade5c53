package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Scenario is the behavioral assumption applied to a behind customer's projection
type Scenario string

const (
	ScenarioCurrent     Scenario = "current"
	ScenarioRestart     Scenario = "restart"
	ScenarioRenegotiate Scenario = "renegotiate"
)

// Scenarios lists every scenario in comparison order
var Scenarios = []Scenario{ScenarioCurrent, ScenarioRestart, ScenarioRenegotiate}

// ErrUnknownScenario is returned when a scenario name is not recognized
var ErrUnknownScenario = errors.New("unknown scenario")

// ParseScenario converts a scenario name. An empty name selects ScenarioCurrent.
func ParseScenario(name string) (Scenario, error) {
	switch s := Scenario(strings.ToLower(strings.TrimSpace(name))); s {
	case "":
		return ScenarioCurrent, nil
	case ScenarioCurrent, ScenarioRestart, ScenarioRenegotiate:
		return s, nil
	default:
		return "", fmt.Errorf("%w %q (expected current, restart or renegotiate)", ErrUnknownScenario, name)
	}
}

// ProjectionStatus tags a customer projection
type ProjectionStatus string

const (
	ProjectionCurrent     ProjectionStatus = "current"
	ProjectionBehind      ProjectionStatus = "behind"
	ProjectionRestart     ProjectionStatus = "restart"
	ProjectionRenegotiate ProjectionStatus = "renegotiate"
)

// PlanPayment is one plan's contribution to a timeline month
type PlanPayment struct {
	PlanID         string          `json:"planId"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentNumber  int             `json:"paymentNumber"`
	TotalPayments  int             `json:"totalPayments"`
	IsFinalPayment bool            `json:"isFinalPayment"`
}

// TimelineMonth aggregates a customer's payments for one month of the horizon
type TimelineMonth struct {
	Month       int             `json:"month"`
	Date        dateutil.Date   `json:"date"`
	Payment     decimal.Decimal `json:"payment"`
	ActivePlans int             `json:"activePlans"`
	Details     []PlanPayment   `json:"details,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// HasFinalPayment reports whether any plan makes its last payment this month
func (tm TimelineMonth) HasFinalPayment() bool {
	for _, d := range tm.Details {
		if d.IsFinalPayment {
			return true
		}
	}
	return false
}

// CustomerProjection is one customer's forward timeline under a scenario
type CustomerProjection struct {
	CustomerName        string           `json:"customerName"`
	Scenario            Scenario         `json:"scenario"`
	Status              ProjectionStatus `json:"status"`
	PlanCount           int              `json:"planCount"`
	TotalMonthlyPayment decimal.Decimal  `json:"totalMonthlyPayment"`
	TotalOwed           decimal.Decimal  `json:"totalOwed"`
	CompletionMonth     int              `json:"completionMonth"`
	MonthsBehind        int              `json:"monthsBehind"`
	RenegotiationNeeded bool             `json:"renegotiationNeeded"`
	SuggestedMonthly    decimal.Decimal  `json:"suggestedMonthly"`
	Classes             []string         `json:"classes,omitempty"`
	Timeline            []TimelineMonth  `json:"timeline"`
}

// TotalProjected sums every payment on the timeline
func (cp *CustomerProjection) TotalProjected() decimal.Decimal {
	total := decimal.Zero
	for _, m := range cp.Timeline {
		total = total.Add(m.Payment)
	}
	return total
}

// PaymentInMonth returns the payment due in a 1-based month index, zero when out of range
func (cp *CustomerProjection) PaymentInMonth(month int) decimal.Decimal {
	if month < 1 || month > len(cp.Timeline) {
		return decimal.Zero
	}
	return cp.Timeline[month-1].Payment
}
