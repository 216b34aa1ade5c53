package compare

import (
	"fmt"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the collection metrics of one scenario run
type ComparisonResult struct {
	Scenario    domain.Scenario          `json:"scenario"`
	Description string                   `json:"description"`
	Summary     *domain.PortfolioSummary `json:"-"`

	// Key Metrics
	TotalExpectedCollection decimal.Decimal `json:"totalExpectedCollection"`
	AverageMonthly          decimal.Decimal `json:"averageMonthly"`
	CustomersWithPayments   int             `json:"customersWithPayments"`
	RenegotiationNeeded     int             `json:"renegotiationNeeded"`
	LatestCompletionMonth   int             `json:"latestCompletionMonth"`

	// Comparison to Base
	CollectionDiffFromBase decimal.Decimal `json:"collectionDiffFromBase"`
	CollectionPctFromBase  decimal.Decimal `json:"collectionPctFromBase"`
}

// ComparisonSet is the base scenario plus its alternatives for one pinned date
type ComparisonSet struct {
	BaseScenario       domain.Scenario    `json:"baseScenario"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	InputPath          string             `json:"inputPath,omitempty"`
	AsOf               dateutil.Date      `json:"asOf"`
	MonthsAhead        int                `json:"monthsAhead"`
}

// Alternative returns the result for a scenario, if it was compared
func (cs *ComparisonSet) Alternative(s domain.Scenario) (*ComparisonResult, bool) {
	for i := range cs.AlternativeResults {
		if cs.AlternativeResults[i].Scenario == s {
			return &cs.AlternativeResults[i], true
		}
	}
	return nil, false
}

var scenarioDescriptions = map[domain.Scenario]string{
	domain.ScenarioCurrent:     "Behind customers keep paying as they do today",
	domain.ScenarioRestart:     "Behind customers restart their plans this month",
	domain.ScenarioRenegotiate: "Behind customers move to a single 30-month plan",
}

// MetricsCalculator derives comparison metrics from a run
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics extracts the key metrics of one scenario run
func (mc *MetricsCalculator) CalculateMetrics(report *domain.AnalysisReport) ComparisonResult {
	summary := report.Summary
	result := ComparisonResult{
		Scenario:                summary.Scenario,
		Description:             scenarioDescriptions[summary.Scenario],
		Summary:                 &summary,
		TotalExpectedCollection: summary.Summary.TotalExpectedCollection,
		AverageMonthly:          summary.Summary.AverageMonthly,
		CustomersWithPayments:   summary.Summary.CustomersWithPayments,
		RenegotiationNeeded:     summary.Summary.RenegotiationNeeded,
	}
	for _, p := range report.Projections {
		result.LatestCompletionMonth = max(result.LatestCompletionMonth, p.CompletionMonth)
	}
	return result
}

// CalculateComparison fills in the differences of scenario against base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.CollectionDiffFromBase = scenario.TotalExpectedCollection.Sub(base.TotalExpectedCollection)
	scenario.CollectionPctFromBase = decimal.Zero
	if base.TotalExpectedCollection.IsPositive() {
		scenario.CollectionPctFromBase = scenario.CollectionDiffFromBase.
			Div(base.TotalExpectedCollection).
			Mul(decimal.NewFromInt(100)).
			Round(1)
	}
	return scenario
}

// GenerateRecommendations produces plain-language guidance from a comparison
func GenerateRecommendations(compSet *ComparisonSet) []string {
	var recs []string
	if compSet.BaseResult == nil {
		return recs
	}

	best := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].TotalExpectedCollection.GreaterThan(best.TotalExpectedCollection) {
			best = &compSet.AlternativeResults[i]
		}
	}

	if restart, ok := compSet.Alternative(domain.ScenarioRestart); ok {
		if restart.CollectionDiffFromBase.IsPositive() {
			recs = append(recs, fmt.Sprintf("Consider customer outreach for payment plan restart: +$%s (%s%%) over %d months",
				restart.CollectionDiffFromBase.StringFixed(2), restart.CollectionPctFromBase.StringFixed(1), compSet.MonthsAhead))
		} else {
			recs = append(recs, "Current trajectory is optimal")
		}
	}

	if best.Scenario != compSet.BaseScenario {
		recs = append(recs, fmt.Sprintf("Highest projected collection: %s scenario ($%s)",
			best.Scenario, best.TotalExpectedCollection.StringFixed(2)))
	}

	if renegotiate, ok := compSet.Alternative(domain.ScenarioRenegotiate); ok && renegotiate.LatestCompletionMonth > 0 {
		if renegotiate.LatestCompletionMonth < compSet.MonthsAhead {
			recs = append(recs, fmt.Sprintf("Renegotiated terms clear all projected balances by month %d",
				renegotiate.LatestCompletionMonth))
		} else {
			recs = append(recs, fmt.Sprintf("Renegotiated balances run past the %d-month horizon", compSet.MonthsAhead))
		}
	}

	if compSet.BaseResult.RenegotiationNeeded > 0 {
		recs = append(recs, fmt.Sprintf("%d customer(s) are behind and need contact to renegotiate",
			compSet.BaseResult.RenegotiationNeeded))
	}
	return recs
}
