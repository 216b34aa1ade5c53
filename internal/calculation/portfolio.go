package calculation

import (
	"sort"
	"time"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// DefaultCollectionsLimit is the collections list length in DefaultOptions
const DefaultCollectionsLimit = 20

// SummarizePortfolio folds customer projections into monthly and cumulative
// totals. All projections must be complete before it is called.
func SummarizePortfolio(projections []domain.CustomerProjection, scenario domain.Scenario, monthsAhead int, asOf time.Time) domain.PortfolioSummary {
	monthsAhead = max(monthsAhead, 0)
	summary := domain.PortfolioSummary{
		Scenario:    scenario,
		MonthsAhead: monthsAhead,
		Months:      make([]domain.MonthlySummary, 0, monthsAhead),
		Summary: domain.SummaryCounters{
			TotalCustomers:          len(projections),
			Categories:              make(map[domain.ProjectionStatus]int),
			PotentialRecovery:       decimal.Zero,
			TotalExpectedCollection: decimal.Zero,
			AverageMonthly:          decimal.Zero,
		},
	}

	behind := 0
	for _, p := range projections {
		summary.Summary.Categories[p.Status]++
		if p.RenegotiationNeeded {
			summary.Summary.RenegotiationNeeded++
		}
		if p.Status == domain.ProjectionBehind {
			behind++
			summary.Summary.TotalMonthsBehind += p.MonthsBehind
			summary.Summary.PotentialRecovery = summary.Summary.PotentialRecovery.Add(p.TotalOwed)
		}
		if p.TotalProjected().IsPositive() {
			summary.Summary.CustomersWithPayments++
		}
	}

	cumulative := decimal.Zero
	for m := 1; m <= monthsAhead; m++ {
		month := domain.MonthlySummary{
			Month:           m,
			Date:            dateutil.DateOf(dateutil.BillingDate(asOf, m)),
			TotalPayment:    decimal.Zero,
			BehindCustomers: behind,
		}
		for _, p := range projections {
			payment := p.PaymentInMonth(m)
			month.TotalPayment = month.TotalPayment.Add(payment)
			if payment.IsPositive() {
				month.ActiveCustomers++
			}
			if m <= len(p.Timeline) && p.Timeline[m-1].HasFinalPayment() {
				month.CompletingCustomers++
			}
		}
		cumulative = cumulative.Add(month.TotalPayment)
		month.CumulativePayment = cumulative
		summary.Months = append(summary.Months, month)
	}

	summary.Summary.TotalExpectedCollection = cumulative
	if monthsAhead > 0 {
		summary.Summary.AverageMonthly = cumulative.Div(decimal.NewFromInt(int64(monthsAhead))).Round(2)
	}
	return summary
}

// SummarizeMetrics builds portfolio-level metrics from plan metrics. Customer
// status is the worst status across that customer's plans.
func SummarizeMetrics(metrics []domain.PlanMetrics, excluded []domain.ExcludedPlan) domain.PortfolioMetrics {
	pm := domain.PortfolioMetrics{
		TotalPlans:        len(metrics),
		ExcludedPlans:     len(excluded),
		TotalOutstanding:  decimal.Zero,
		UntrackedBalance:  decimal.Zero,
		ExpectedMonthly:   decimal.Zero,
		CustomersByStatus: make(map[domain.Status]int),
		TotalBehindAmount: decimal.Zero,
		PercentageBehind:  decimal.Zero,
		PlansByClass:      make(map[string]domain.GroupTotals),
		PlansByFrequency:  make(map[domain.Frequency]domain.GroupTotals),
	}

	customerStatus := make(map[string]domain.Status)
	behindPlans, behindMonths := 0, 0
	for _, m := range metrics {
		pm.TotalOutstanding = pm.TotalOutstanding.Add(m.TotalOpen)
		pm.ExpectedMonthly = pm.ExpectedMonthly.Add(m.ExpectedMonthly())

		if prev, ok := customerStatus[m.CustomerName]; ok {
			customerStatus[m.CustomerName] = domain.WorstStatus(prev, m.Status)
		} else {
			customerStatus[m.CustomerName] = m.Status
		}

		if m.Status == domain.StatusBehind {
			behindPlans++
			behindMonths += m.MonthsBehind
			pm.TotalBehindAmount = pm.TotalBehindAmount.Add(m.CappedDeficit)
		}

		class := m.Class
		if class == "" {
			class = "Unclassified"
		}
		pm.PlansByClass[class] = addGroup(pm.PlansByClass[class], m.TotalOpen)
		pm.PlansByFrequency[m.Frequency] = addGroup(pm.PlansByFrequency[m.Frequency], m.TotalOpen)
	}
	for _, e := range excluded {
		pm.UntrackedBalance = pm.UntrackedBalance.Add(e.TotalOpen)
	}

	pm.TotalCustomers = len(customerStatus)
	for _, s := range customerStatus {
		pm.CustomersByStatus[s]++
	}
	if behindPlans > 0 {
		pm.AverageMonthsBehind = ceilDivInt(behindMonths, behindPlans)
	}
	if pm.TotalCustomers > 0 {
		behindCustomers := decimal.NewFromInt(int64(pm.CustomersByStatus[domain.StatusBehind]))
		pm.PercentageBehind = behindCustomers.Div(decimal.NewFromInt(int64(pm.TotalCustomers))).Mul(oneHundred).Round(1)
	}
	return pm
}

func addGroup(g domain.GroupTotals, owed decimal.Decimal) domain.GroupTotals {
	g.Plans++
	g.TotalOwed = g.TotalOwed.Add(owed)
	return g
}

// PrioritizeCollections ranks behind plans by months behind, then total owed,
// then capped deficit, all descending, and returns the top limit entries with
// suggested recovery terms. A limit of 0 returns every behind plan. Remaining
// ties fall back to customer and plan id.
func PrioritizeCollections(metrics []domain.PlanMetrics, limit int) []domain.CollectionsEntry {
	var behind []domain.PlanMetrics
	for _, m := range metrics {
		if m.Status == domain.StatusBehind {
			behind = append(behind, m)
		}
	}
	sort.SliceStable(behind, func(i, j int) bool {
		a, b := behind[i], behind[j]
		if a.MonthsBehind != b.MonthsBehind {
			return a.MonthsBehind > b.MonthsBehind
		}
		if cmp := a.TotalOpen.Cmp(b.TotalOpen); cmp != 0 {
			return cmp > 0
		}
		if cmp := a.CappedDeficit.Cmp(b.CappedDeficit); cmp != 0 {
			return cmp > 0
		}
		if a.CustomerName != b.CustomerName {
			return a.CustomerName < b.CustomerName
		}
		return a.PlanID < b.PlanID
	})
	if limit > 0 && len(behind) > limit {
		behind = behind[:limit]
	}

	entries := make([]domain.CollectionsEntry, 0, len(behind))
	for i, m := range behind {
		entries = append(entries, domain.CollectionsEntry{
			Rank:          i + 1,
			CustomerName:  m.CustomerName,
			PlanID:        m.PlanID,
			Class:         m.Class,
			MonthsBehind:  m.MonthsBehind,
			TotalOwed:     m.TotalOpen,
			CappedDeficit: m.CappedDeficit,
			Priority:      domain.PriorityForMonthsBehind(m.MonthsBehind),
			Recovery:      RecoveryTermsFor(m),
		})
	}
	return entries
}

// RecoveryTermsFor suggests catch-up, restart and renegotiated terms for a behind plan
func RecoveryTermsFor(m domain.PlanMetrics) domain.RecoveryTerms {
	return domain.RecoveryTerms{
		CatchUpAmount:          m.CappedDeficit,
		RestartMonthly:         m.MonthlyAmount,
		RestartMonths:          m.MonthsRemaining,
		RenegotiatedMonthly:    SuggestedMonthly(m.TotalOpen, RenegotiationTermMonths),
		RenegotiatedTermMonths: RenegotiationTermMonths,
	}
}

// RenegotiationCandidates lists customers whose projection needs new terms,
// most months behind first.
func RenegotiationCandidates(projections []domain.CustomerProjection) []domain.RenegotiationCandidate {
	var candidates []domain.RenegotiationCandidate
	for _, p := range projections {
		if !p.RenegotiationNeeded {
			continue
		}
		candidates = append(candidates, domain.RenegotiationCandidate{
			CustomerName:     p.CustomerName,
			MonthsBehind:     p.MonthsBehind,
			TotalOwed:        p.TotalOwed,
			CurrentMonthly:   p.TotalMonthlyPayment,
			SuggestedMonthly: SuggestedMonthly(p.TotalOwed, RenegotiationTermMonths),
			PlanCount:        p.PlanCount,
			Priority:         domain.PriorityForMonthsBehind(p.MonthsBehind),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].MonthsBehind != candidates[j].MonthsBehind {
			return candidates[i].MonthsBehind > candidates[j].MonthsBehind
		}
		return candidates[i].CustomerName < candidates[j].CustomerName
	})
	return candidates
}
