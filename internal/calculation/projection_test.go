package calculation

import (
	"context"
	"testing"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioProjector_RestartVersusRenegotiate(t *testing.T) {
	sp := NewScenarioProjector(nil)
	customer := behindCustomer("Acme")

	restart, ok := sp.ProjectCustomer(customer, domain.ScenarioRestart, 60, testAsOf)
	require.True(t, ok)
	assert.Equal(t, domain.ProjectionRestart, restart.Status)
	assert.Equal(t, 9, restart.CompletionMonth)
	assert.Equal(t, 0, restart.MonthsBehind)
	assert.False(t, restart.RenegotiationNeeded)
	assert.Equal(t, "4500", restart.TotalProjected().String())
	assert.Equal(t, "Restart scenario", restart.Timeline[0].Note)
	assert.True(t, restart.Timeline[8].HasFinalPayment())
	assert.True(t, restart.Timeline[9].Payment.IsZero())

	renegotiate, ok := sp.ProjectCustomer(customer, domain.ScenarioRenegotiate, 60, testAsOf)
	require.True(t, ok)
	assert.Equal(t, domain.ProjectionRenegotiate, renegotiate.Status)
	assert.Equal(t, "150", renegotiate.SuggestedMonthly.String())
	assert.Equal(t, "150", renegotiate.TotalMonthlyPayment.String())
	assert.Equal(t, 30, renegotiate.CompletionMonth)
	assert.Equal(t, 9, renegotiate.MonthsBehind)
	assert.True(t, renegotiate.RenegotiationNeeded)
	assert.Equal(t, "4500", renegotiate.TotalProjected().String())
	assert.True(t, renegotiate.Timeline[29].HasFinalPayment())
	assert.Equal(t, 1, renegotiate.Timeline[0].ActivePlans)
	assert.Equal(t, "Proposed renegotiated terms", renegotiate.Timeline[0].Note)
	assert.Equal(t, "Plan completed", renegotiate.Timeline[30].Note)
	assert.Equal(t, 0, renegotiate.Timeline[30].ActivePlans)

	assert.LessOrEqual(t, restart.CompletionMonth, renegotiate.CompletionMonth)
}

func TestScenarioProjector_CurrentBehindCustomer(t *testing.T) {
	sp := NewScenarioProjector(nil)

	projection, ok := sp.ProjectCustomer(behindCustomer("Acme"), domain.ScenarioCurrent, 12, testAsOf)
	require.True(t, ok)

	assert.Equal(t, domain.ProjectionBehind, projection.Status)
	assert.Equal(t, 9, projection.MonthsBehind)
	assert.True(t, projection.RenegotiationNeeded)
	assert.Equal(t, 0, projection.CompletionMonth)
	assert.Equal(t, "4500", projection.TotalOwed.String())
	assert.Equal(t, "500", projection.TotalMonthlyPayment.String())
	require.Len(t, projection.Timeline, 12)
	for _, m := range projection.Timeline {
		assert.True(t, m.Payment.IsZero())
		assert.Equal(t, "Behind customer - contact needed", m.Note)
	}
}

func TestScenarioProjector_MixedCustomer(t *testing.T) {
	sp := NewScenarioProjector(nil)
	customer := behindCustomer("Acme")
	customer.Plans = append(customer.Plans,
		newPlan("Acme", "Acme-2", "200", domain.FrequencyMonthly, "600", "600", daysAgo(0)))

	current, ok := sp.ProjectCustomer(customer, domain.ScenarioCurrent, 12, testAsOf)
	require.True(t, ok)
	assert.Equal(t, domain.ProjectionBehind, current.Status)
	assert.Equal(t, 2, current.PlanCount)
	assert.Equal(t, "5100", current.TotalOwed.String())
	assert.Equal(t, "700", current.TotalMonthlyPayment.String())
	assert.Equal(t, "600", current.TotalProjected().String())
	assert.Equal(t, 3, current.CompletionMonth)
	assert.Equal(t, "200", current.Timeline[0].Payment.String())

	restart, ok := sp.ProjectCustomer(customer, domain.ScenarioRestart, 12, testAsOf)
	require.True(t, ok)
	assert.Equal(t, "700", restart.Timeline[0].Payment.String())
	assert.Equal(t, 2, restart.Timeline[0].ActivePlans)
	assert.Equal(t, "500", restart.Timeline[3].Payment.String())
	assert.Equal(t, "5100", restart.TotalProjected().String())
	assert.Equal(t, 9, restart.CompletionMonth)
}

func TestScenarioProjector_OnScheduleCustomerIgnoresScenario(t *testing.T) {
	sp := NewScenarioProjector(nil)
	customer := currentCustomer("Globex", "250", "1000")

	for _, scenario := range domain.Scenarios {
		projection, ok := sp.ProjectCustomer(customer, scenario, 12, testAsOf)
		require.True(t, ok)
		assert.Equal(t, domain.ProjectionCurrent, projection.Status, "scenario %s", scenario)
		assert.False(t, projection.RenegotiationNeeded)
		assert.Equal(t, 4, projection.CompletionMonth)
		assert.Equal(t, "1000", projection.TotalProjected().String())
	}
}

func TestScenarioProjector_QuarterlySchedule(t *testing.T) {
	sp := NewScenarioProjector(nil)
	customer := &domain.Customer{Name: "Initech", Plans: []domain.PaymentPlan{
		newPlan("Initech", "Q1", "1000", domain.FrequencyQuarterly, "2500", "2500", daysAgo(0)),
	}}

	projection, ok := sp.ProjectCustomer(customer, domain.ScenarioCurrent, 12, testAsOf)
	require.True(t, ok)

	payments := make([]string, 0, 12)
	for _, m := range projection.Timeline {
		payments = append(payments, m.Payment.String())
	}
	assert.Equal(t, []string{"1000", "0", "0", "1000", "0", "0", "500", "0", "0", "0", "0", "0"}, payments)
	assert.Equal(t, 7, projection.CompletionMonth)

	final := projection.Timeline[6].Details[0]
	assert.Equal(t, 3, final.PaymentNumber)
	assert.Equal(t, 3, final.TotalPayments)
	assert.True(t, final.IsFinalPayment)
	assert.Equal(t, 15, projection.Timeline[0].Date.Day())
	assert.Equal(t, 4, int(projection.Timeline[0].Date.Month()))
}

func TestScenarioProjector_RenegotiateRoundsUpToCents(t *testing.T) {
	sp := NewScenarioProjector(nil)
	customer := &domain.Customer{Name: "Umbrella", Plans: []domain.PaymentPlan{
		newPlan("Umbrella", "U1", "100", domain.FrequencyMonthly, "1000", "1000", daysAgo(400)),
	}}

	projection, ok := sp.ProjectCustomer(customer, domain.ScenarioRenegotiate, 60, testAsOf)
	require.True(t, ok)
	assert.Equal(t, "33.34", projection.SuggestedMonthly.String())
	assert.Equal(t, 30, projection.CompletionMonth)
	assert.Equal(t, "1000", projection.TotalProjected().String())
	assert.Equal(t, "33.14", projection.Timeline[29].Payment.String())
}

func TestScenarioProjector_DegenerateCustomers(t *testing.T) {
	sp := NewScenarioProjector(nil)

	flagged := currentCustomer("A", "100", "500")
	flagged.Plans[0].HasIssues = true
	_, ok := sp.ProjectCustomer(flagged, domain.ScenarioCurrent, 12, testAsOf)
	assert.False(t, ok)

	paidOff := &domain.Customer{Name: "B", Plans: []domain.PaymentPlan{
		newPlan("B", "B1", "100", domain.FrequencyMonthly, "500", "0", daysAgo(100)),
	}}
	_, ok = sp.ProjectCustomer(paidOff, domain.ScenarioCurrent, 12, testAsOf)
	assert.False(t, ok)

	_, ok = sp.ProjectCustomer(&domain.Customer{Name: "C"}, domain.ScenarioCurrent, 12, testAsOf)
	assert.False(t, ok)
}

func TestScenarioProjector_Horizon(t *testing.T) {
	sp := NewScenarioProjector(nil)

	long, ok := sp.ProjectCustomer(behindCustomer("A"), domain.ScenarioRestart, 100, testAsOf)
	require.True(t, ok)
	assert.Len(t, long.Timeline, MaxScheduleEvents)

	none, ok := sp.ProjectCustomer(behindCustomer("A"), domain.ScenarioRestart, 0, testAsOf)
	require.True(t, ok)
	assert.Empty(t, none.Timeline)
	assert.Equal(t, 0, none.CompletionMonth)

	short, ok := sp.ProjectCustomer(behindCustomer("A"), domain.ScenarioRestart, 4, testAsOf)
	require.True(t, ok)
	assert.Equal(t, 4, short.CompletionMonth)
}

func TestScenarioProjector_Idempotent(t *testing.T) {
	sp := NewScenarioProjector(nil)
	customer := behindCustomer("Acme")

	for _, scenario := range domain.Scenarios {
		first, ok := sp.ProjectCustomer(customer, scenario, 24, testAsOf)
		require.True(t, ok)
		second, ok := sp.ProjectCustomer(customer, scenario, 24, testAsOf)
		require.True(t, ok)
		assert.Equal(t, first, second)
	}
}

func TestScenarioProjector_TotalNeverExceedsOwed(t *testing.T) {
	sp := NewScenarioProjector(nil)
	customers := []*domain.Customer{
		behindCustomer("A"),
		currentCustomer("B", "333.33", "1000"),
		{Name: "C", Plans: []domain.PaymentPlan{
			newPlan("C", "C1", "700", domain.FrequencyBimonthly, "5000", "4321.09", daysAgo(300)),
			newPlan("C", "C2", "99.99", domain.FrequencyQuarterly, "800", "800", daysAgo(10)),
		}},
	}

	for _, c := range customers {
		for _, scenario := range domain.Scenarios {
			p, ok := sp.ProjectCustomer(c, scenario, 60, testAsOf)
			require.True(t, ok)
			assert.True(t, p.TotalProjected().LessThanOrEqual(p.TotalOwed),
				"%s/%s projected %s owed %s", c.Name, scenario, p.TotalProjected(), p.TotalOwed)
		}
	}
}

func TestPlanPaymentForMonth(t *testing.T) {
	plan := newPlan("A", "1", "400", domain.FrequencyBimonthly, "1000", "1000", daysAgo(0))

	_, ok := PlanPaymentForMonth(plan, 2)
	assert.False(t, ok)

	p, ok := PlanPaymentForMonth(plan, 5)
	require.True(t, ok)
	assert.Equal(t, 3, p.PaymentNumber)
	assert.Equal(t, "200", p.Amount.String())
	assert.True(t, p.IsFinalPayment)

	_, ok = PlanPaymentForMonth(plan, 7)
	assert.False(t, ok)
	_, ok = PlanPaymentForMonth(plan, 0)
	assert.False(t, ok)

	assert.Equal(t, 5, PlanCompletionMonth(plan))
}

func TestScenarioProjector_ProjectAll(t *testing.T) {
	sp := NewScenarioProjector(nil)
	sp.Workers = 2

	flagged := currentCustomer("D", "50", "500")
	flagged.Plans[0].HasIssues = true
	customers := []*domain.Customer{
		currentCustomer("A", "100", "1200"),
		behindCustomer("B"),
		currentCustomer("C", "300", "900"),
		flagged,
	}

	projections, err := sp.ProjectAll(context.Background(), customers, domain.ScenarioCurrent, 12, testAsOf)
	require.NoError(t, err)
	require.Len(t, projections, 3)
	assert.Equal(t, "B", projections[0].CustomerName)
	assert.Equal(t, "C", projections[1].CustomerName)
	assert.Equal(t, "A", projections[2].CustomerName)
}

func TestScenarioProjector_ProjectAllCancelled(t *testing.T) {
	sp := NewScenarioProjector(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sp.ProjectAll(ctx, []*domain.Customer{behindCustomer("A")}, domain.ScenarioCurrent, 12, testAsOf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSortProjections(t *testing.T) {
	projections := []domain.CustomerProjection{
		{CustomerName: "small", TotalMonthlyPayment: dec("100")},
		{CustomerName: "flagged-small", TotalMonthlyPayment: dec("50"), RenegotiationNeeded: true},
		{CustomerName: "big", TotalMonthlyPayment: dec("900")},
		{CustomerName: "flagged-big", TotalMonthlyPayment: dec("500"), RenegotiationNeeded: true},
		{CustomerName: "also-small", TotalMonthlyPayment: dec("100")},
	}

	SortProjections(projections)

	names := make([]string, len(projections))
	for i, p := range projections {
		names[i] = p.CustomerName
	}
	assert.Equal(t, []string{"flagged-big", "flagged-small", "big", "also-small", "small"}, names)
}

func TestSuggestedMonthly(t *testing.T) {
	assert.Equal(t, "150", SuggestedMonthly(dec("4500"), 30).String())
	assert.Equal(t, "33.34", SuggestedMonthly(dec("1000"), 30).String())
	assert.True(t, SuggestedMonthly(dec("0"), 30).IsZero())
	assert.True(t, SuggestedMonthly(dec("100"), 0).IsZero())
}
