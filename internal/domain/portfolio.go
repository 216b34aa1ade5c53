package domain

import (
	"time"

	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// MonthlySummary is the portfolio-wide total for one month of the horizon
type MonthlySummary struct {
	Month               int             `json:"month"`
	Date                dateutil.Date   `json:"date"`
	TotalPayment        decimal.Decimal `json:"totalPayment"`
	CumulativePayment   decimal.Decimal `json:"cumulativePayment"`
	ActiveCustomers     int             `json:"activeCustomers"`
	CompletingCustomers int             `json:"completingCustomers"`
	BehindCustomers     int             `json:"behindCustomers"`
}

// SummaryCounters are the run-level counters of a portfolio summary
type SummaryCounters struct {
	TotalCustomers          int                      `json:"totalCustomers"`
	Categories              map[ProjectionStatus]int `json:"categories"`
	RenegotiationNeeded     int                      `json:"renegotiationNeeded"`
	CustomersWithPayments   int                      `json:"customersWithPayments"`
	TotalMonthsBehind       int                      `json:"totalMonthsBehind"`
	PotentialRecovery       decimal.Decimal          `json:"potentialRecovery"`
	TotalExpectedCollection decimal.Decimal          `json:"totalExpectedCollection"`
	AverageMonthly          decimal.Decimal          `json:"averageMonthly"`
}

// PortfolioSummary aggregates customer projections over a horizon
type PortfolioSummary struct {
	Scenario    Scenario         `json:"scenario"`
	MonthsAhead int              `json:"monthsAhead"`
	Months      []MonthlySummary `json:"months"`
	Summary     SummaryCounters  `json:"summary"`
}

// GroupTotals counts plans and owed balance for one grouping key
type GroupTotals struct {
	Plans     int             `json:"plans"`
	TotalOwed decimal.Decimal `json:"totalOwed"`
}

// PortfolioMetrics summarizes plan metrics across the portfolio
type PortfolioMetrics struct {
	TotalCustomers      int                       `json:"totalCustomers"`
	TotalPlans          int                       `json:"totalPlans"`
	ExcludedPlans       int                       `json:"excludedPlans"`
	TotalOutstanding    decimal.Decimal           `json:"totalOutstanding"`
	UntrackedBalance    decimal.Decimal           `json:"untrackedBalance"`
	ExpectedMonthly     decimal.Decimal           `json:"expectedMonthly"`
	CustomersByStatus   map[Status]int            `json:"customersByStatus"`
	AverageMonthsBehind int                       `json:"averageMonthsBehind"`
	TotalBehindAmount   decimal.Decimal           `json:"totalBehindAmount"`
	PercentageBehind    decimal.Decimal           `json:"percentageBehind"`
	PlansByClass        map[string]GroupTotals    `json:"plansByClass"`
	PlansByFrequency    map[Frequency]GroupTotals `json:"plansByFrequency"`
}

// Priority ranks how urgently a collections case needs attention
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityForMonthsBehind maps arrears to a priority: more than 6 months is high,
// more than 3 is medium.
func PriorityForMonthsBehind(monthsBehind int) Priority {
	switch {
	case monthsBehind > 6:
		return PriorityHigh
	case monthsBehind > 3:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// RecoveryTerms are the suggested ways to bring a behind plan back on track
type RecoveryTerms struct {
	CatchUpAmount          decimal.Decimal `json:"catchUpAmount"`
	RestartMonthly         decimal.Decimal `json:"restartMonthly"`
	RestartMonths          int             `json:"restartMonths"`
	RenegotiatedMonthly    decimal.Decimal `json:"renegotiatedMonthly"`
	RenegotiatedTermMonths int             `json:"renegotiatedTermMonths"`
}

// CollectionsEntry is one row of the ranked collections list
type CollectionsEntry struct {
	Rank          int             `json:"rank"`
	CustomerName  string          `json:"customerName"`
	PlanID        string          `json:"planId"`
	Class         string          `json:"class,omitempty"`
	MonthsBehind  int             `json:"monthsBehind"`
	TotalOwed     decimal.Decimal `json:"totalOwed"`
	CappedDeficit decimal.Decimal `json:"cappedDeficit"`
	Priority      Priority        `json:"priority"`
	Recovery      RecoveryTerms   `json:"recovery"`
}

// RenegotiationCandidate is a customer whose projection requires new terms
type RenegotiationCandidate struct {
	CustomerName     string          `json:"customerName"`
	MonthsBehind     int             `json:"monthsBehind"`
	TotalOwed        decimal.Decimal `json:"totalOwed"`
	CurrentMonthly   decimal.Decimal `json:"currentMonthly"`
	SuggestedMonthly decimal.Decimal `json:"suggestedMonthly"`
	PlanCount        int             `json:"planCount"`
	Priority         Priority        `json:"priority"`
}

// ExcludedPlan records a plan left out of scheduling and the reason
type ExcludedPlan struct {
	CustomerName string          `json:"customerName"`
	PlanID       string          `json:"planId"`
	TotalOpen    decimal.Decimal `json:"totalOpen"`
	Reason       string          `json:"reason"`
}

// RunOptions are the caller-supplied parameters of an analysis run
type RunOptions struct {
	MonthsAhead      int       `json:"monthsAhead"`
	Scenario         Scenario  `json:"scenario"`
	ClassFilter      string    `json:"classFilter,omitempty"`
	CollectionsLimit int       `json:"collectionsLimit"`
	AsOf             time.Time `json:"-"`
}

// AnalysisReport is everything one analysis run produces for the reporting layer
type AnalysisReport struct {
	RunID                   string                   `json:"runId"`
	AsOf                    dateutil.Date            `json:"asOf"`
	Options                 RunOptions               `json:"options"`
	PlanMetrics             []PlanMetrics            `json:"planMetrics"`
	ExcludedPlans           []ExcludedPlan           `json:"excludedPlans"`
	PortfolioMetrics        PortfolioMetrics         `json:"portfolioMetrics"`
	Projections             []CustomerProjection     `json:"projections"`
	Summary                 PortfolioSummary         `json:"summary"`
	Collections             []CollectionsEntry       `json:"collections"`
	RenegotiationCandidates []RenegotiationCandidate `json:"renegotiationCandidates"`
}

// Projection returns the projection for a customer, if one was produced
func (r *AnalysisReport) Projection(customer string) (*CustomerProjection, bool) {
	for i := range r.Projections {
		if r.Projections[i].CustomerName == customer {
			return &r.Projections[i], true
		}
	}
	return nil, false
}

// MetricsFor returns the plan metrics belonging to a customer
func (r *AnalysisReport) MetricsFor(customer string) []PlanMetrics {
	var out []PlanMetrics
	for _, m := range r.PlanMetrics {
		if m.CustomerName == customer {
			out = append(out, m)
		}
	}
	return out
}
