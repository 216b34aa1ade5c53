package calculation

import (
	"context"
	"fmt"
	"testing"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generatedPortfolio builds a deterministic mix of on-schedule, behind, paid-off
// and ineligible plans across n customers.
func generatedPortfolio(n int) *domain.Portfolio {
	frequencies := []domain.Frequency{domain.FrequencyMonthly, domain.FrequencyBimonthly, domain.FrequencyQuarterly, domain.FrequencyUndefined}
	classes := []string{"Retail", "Wholesale", ""}

	p := &domain.Portfolio{}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Customer %03d", i)
		c := &domain.Customer{Name: name}
		for j := 0; j <= i%3; j++ {
			amount := 100 + 25*((i+j)%9)
			original := amount * (6 + (i+j)%18)
			open := original - amount*((i*7+j)%12)
			if open < 0 {
				open = 0
			}
			plan := newPlan(name, fmt.Sprintf("P%03d-%d", i, j), fmt.Sprint(amount), frequencies[(i+j)%len(frequencies)],
				fmt.Sprint(original), fmt.Sprint(open), daysAgo(30*((i+2*j)%20)+i%11))
			plan.Class = classes[(i+j)%len(classes)]
			plan.HasIssues = (i+j)%17 == 0
			c.Plans = append(c.Plans, plan)
		}
		p.Customers = append(p.Customers, c)
	}
	return p
}

func TestCalculationEngine_WorkerCountDoesNotChangeResults(t *testing.T) {
	portfolio := generatedPortfolio(150)

	for _, scenario := range domain.Scenarios {
		t.Run(string(scenario), func(t *testing.T) {
			opts := runOptions()
			opts.Scenario = scenario
			opts.MonthsAhead = 24

			serial := NewCalculationEngine()
			serial.SetWorkers(1)
			parallel := NewCalculationEngine()
			parallel.SetWorkers(8)

			a, err := serial.Run(context.Background(), portfolio, opts)
			require.NoError(t, err)
			b, err := parallel.Run(context.Background(), portfolio, opts)
			require.NoError(t, err)

			assert.Equal(t, a.Projections, b.Projections)
			assert.Equal(t, a.Summary, b.Summary)
			assert.Equal(t, a.Collections, b.Collections)
			assert.Equal(t, a.PortfolioMetrics, b.PortfolioMetrics)
			assert.NotEqual(t, a.RunID, b.RunID)
		})
	}
}

func TestCalculationEngine_SummaryMatchesTimelines(t *testing.T) {
	portfolio := generatedPortfolio(90)

	for _, scenario := range domain.Scenarios {
		t.Run(string(scenario), func(t *testing.T) {
			opts := runOptions()
			opts.Scenario = scenario
			opts.MonthsAhead = 36

			report, err := NewCalculationEngine().Run(context.Background(), portfolio, opts)
			require.NoError(t, err)
			require.Len(t, report.Summary.Months, 36)

			cumulative := decimal.Zero
			for _, month := range report.Summary.Months {
				total := decimal.Zero
				for i := range report.Projections {
					total = total.Add(report.Projections[i].PaymentInMonth(month.Month))
				}
				cumulative = cumulative.Add(total)
				assert.True(t, total.Equal(month.TotalPayment), "month %d: %s != %s", month.Month, total, month.TotalPayment)
				assert.True(t, cumulative.Equal(month.CumulativePayment), "month %d cumulative", month.Month)
			}
			assert.True(t, cumulative.Equal(report.Summary.Summary.TotalExpectedCollection))

			for i := range report.Projections {
				p := &report.Projections[i]
				assert.True(t, p.TotalProjected().LessThanOrEqual(p.TotalOwed), "%s projects more than it owes", p.CustomerName)
				assert.Len(t, p.Timeline, 36)
			}
		})
	}
}

func TestCalculationEngine_ExcludedPlansAreAccountedFor(t *testing.T) {
	portfolio := generatedPortfolio(60)

	report, err := NewCalculationEngine().Run(context.Background(), portfolio, runOptions())
	require.NoError(t, err)

	assert.Equal(t, portfolio.PlanCount(), len(report.PlanMetrics)+len(report.ExcludedPlans))

	untracked := decimal.Zero
	for _, e := range report.ExcludedPlans {
		untracked = untracked.Add(e.TotalOpen)
	}
	assert.True(t, untracked.Equal(report.PortfolioMetrics.UntrackedBalance))
}
