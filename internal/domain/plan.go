package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the billing cadence tag carried by a payment plan
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyBimonthly Frequency = "bimonthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyUndefined Frequency = "undefined"
)

// ParseFrequency normalizes a frequency tag. Unknown tags map to FrequencyUndefined.
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyMonthly:
		return FrequencyMonthly
	case FrequencyBimonthly:
		return FrequencyBimonthly
	case FrequencyQuarterly:
		return FrequencyQuarterly
	default:
		return FrequencyUndefined
	}
}

// CadenceMonths returns the number of months between installments.
// Undefined or unrecognized frequencies bill monthly.
func (f Frequency) CadenceMonths() int {
	switch f {
	case FrequencyQuarterly:
		return 3
	case FrequencyBimonthly:
		return 2
	default:
		return 1
	}
}

// UnmarshalText normalizes the tag when decoding input files
func (f *Frequency) UnmarshalText(text []byte) error {
	*f = ParseFrequency(string(text))
	return nil
}

// PaymentPlan is one installment agreement for a customer
type PaymentPlan struct {
	CustomerName  string          `json:"customerName"`
	PlanID        string          `json:"planId"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	Frequency     Frequency       `json:"frequency"`
	TotalOriginal decimal.Decimal `json:"totalOriginal"`
	TotalOpen     decimal.Decimal `json:"totalOpen"`
	EarliestDate  *time.Time      `json:"earliestDate,omitempty"`
	HasIssues     bool            `json:"hasIssues"`
	Class         string          `json:"class,omitempty"`
}

// Cadence returns the plan's installment interval in months
func (p PaymentPlan) Cadence() int {
	return p.Frequency.CadenceMonths()
}

// PaidToDate returns the amount already paid against the plan
func (p PaymentPlan) PaidToDate() decimal.Decimal {
	return p.TotalOriginal.Sub(p.TotalOpen)
}

// IsSchedulable reports whether the plan may enter arrears and projection math.
func (p PaymentPlan) IsSchedulable() bool {
	return p.IneligibleReason() == ""
}

// IneligibleReason describes why a plan is excluded from scheduling, or "" if it is not.
func (p PaymentPlan) IneligibleReason() string {
	switch {
	case p.HasIssues:
		return "flagged with data-quality issues"
	case !p.MonthlyAmount.IsPositive():
		return "non-positive installment amount"
	case p.EarliestDate == nil:
		return "missing earliest invoice date"
	default:
		return ""
	}
}

// Validate checks the structural invariants of a plan record
func (p PaymentPlan) Validate() error {
	if strings.TrimSpace(p.PlanID) == "" {
		return fmt.Errorf("plan id is required")
	}
	if p.TotalOriginal.IsNegative() {
		return fmt.Errorf("plan %s: total original cannot be negative", p.PlanID)
	}
	if p.TotalOpen.IsNegative() {
		return fmt.Errorf("plan %s: total open cannot be negative", p.PlanID)
	}
	if p.TotalOpen.GreaterThan(p.TotalOriginal) {
		return fmt.Errorf("plan %s: total open %s exceeds total original %s",
			p.PlanID, p.TotalOpen.StringFixed(2), p.TotalOriginal.StringFixed(2))
	}
	return nil
}

// Customer owns one or more payment plans
type Customer struct {
	Name  string        `json:"name"`
	Plans []PaymentPlan `json:"plans"`
}

// TotalOpenBalance sums the open balance across every plan, eligible or not
func (c *Customer) TotalOpenBalance() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Plans {
		total = total.Add(p.TotalOpen)
	}
	return total
}

// Classes returns the distinct class tags on the customer's plans, sorted
func (c *Customer) Classes() []string {
	seen := make(map[string]bool)
	var classes []string
	for _, p := range c.Plans {
		if p.Class == "" || seen[p.Class] {
			continue
		}
		seen[p.Class] = true
		classes = append(classes, p.Class)
	}
	sort.Strings(classes)
	return classes
}

// HasClass reports whether any plan carries the given class tag (case-insensitive)
func (c *Customer) HasClass(class string) bool {
	for _, p := range c.Plans {
		if strings.EqualFold(p.Class, class) {
			return true
		}
	}
	return false
}

// HasMultiplePlans reports whether the customer owns more than one plan
func (c *Customer) HasMultiplePlans() bool {
	return len(c.Plans) > 1
}

// SchedulablePlans returns the plans eligible for scheduling
func (c *Customer) SchedulablePlans() []PaymentPlan {
	var plans []PaymentPlan
	for _, p := range c.Plans {
		if p.IsSchedulable() {
			plans = append(plans, p)
		}
	}
	return plans
}

// UntrackedBalance sums the open balance of plans excluded from scheduling
func (c *Customer) UntrackedBalance() decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Plans {
		if !p.IsSchedulable() {
			total = total.Add(p.TotalOpen)
		}
	}
	return total
}

// Portfolio is the full set of customers analyzed in one run
type Portfolio struct {
	Customers []*Customer `json:"customers"`
}

// Customer looks up a customer by name (case-insensitive)
func (p *Portfolio) Customer(name string) (*Customer, bool) {
	for _, c := range p.Customers {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

// Classes returns every distinct class tag in the portfolio, sorted
func (p *Portfolio) Classes() []string {
	seen := make(map[string]bool)
	var classes []string
	for _, c := range p.Customers {
		for _, class := range c.Classes() {
			if !seen[class] {
				seen[class] = true
				classes = append(classes, class)
			}
		}
	}
	sort.Strings(classes)
	return classes
}

// FilterByClass returns a portfolio restricted to customers with a plan in the class.
// An empty class returns the receiver unchanged.
func (p *Portfolio) FilterByClass(class string) *Portfolio {
	if class == "" {
		return p
	}
	filtered := &Portfolio{}
	for _, c := range p.Customers {
		if c.HasClass(class) {
			filtered.Customers = append(filtered.Customers, c)
		}
	}
	return filtered
}

// PlanCount returns the total number of plans in the portfolio
func (p *Portfolio) PlanCount() int {
	n := 0
	for _, c := range p.Customers {
		n += len(c.Plans)
	}
	return n
}
