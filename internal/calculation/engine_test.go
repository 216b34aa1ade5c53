package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePortfolio() *domain.Portfolio {
	retail := currentCustomer("Acme", "100", "1200")
	retail.Plans[0].Class = "Retail"

	wholesale := behindCustomer("Globex")
	wholesale.Plans[0].Class = "Wholesale"

	mixed := &domain.Customer{Name: "Initech", Plans: []domain.PaymentPlan{
		newPlan("Initech", "I-1", "250", domain.FrequencyQuarterly, "1000", "1000", daysAgo(10)),
		newPlan("Initech", "I-2", "100", domain.FrequencyMonthly, "400", "400", nil),
	}}
	mixed.Plans[0].Class = "Retail"

	return &domain.Portfolio{Customers: []*domain.Customer{retail, wholesale, mixed}}
}

func runOptions() domain.RunOptions {
	opts := DefaultOptions()
	opts.AsOf = testAsOf
	return opts
}

func TestNewCalculationEngine(t *testing.T) {
	engine := NewCalculationEngine()

	assert.NotNil(t, engine, "Should create engine")
	assert.NotNil(t, engine.Arrears, "Should initialize arrears calculator")
	assert.NotNil(t, engine.Metrics, "Should initialize metrics builder")
	assert.NotNil(t, engine.Projector, "Should initialize scenario projector")
	assert.Same(t, engine.Arrears, engine.Projector.Arrears, "Should share one arrears calculator")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestCalculationEngine_SetLogger(t *testing.T) {
	engine := NewCalculationEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.NotNil(t, engine.Logger, "Should not be nil")
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestValidateOptions(t *testing.T) {
	opts := runOptions()
	assert.NoError(t, ValidateOptions(opts))

	opts.MonthsAhead = 0
	assert.ErrorIs(t, ValidateOptions(opts), ErrInvalidMonthsAhead)

	opts.MonthsAhead = MaxMonthsAhead + 1
	assert.ErrorIs(t, ValidateOptions(opts), ErrInvalidMonthsAhead)

	opts = runOptions()
	opts.Scenario = "forgive"
	assert.ErrorIs(t, ValidateOptions(opts), domain.ErrUnknownScenario)

	opts = runOptions()
	opts.CollectionsLimit = -1
	assert.Error(t, ValidateOptions(opts))
}

func TestCalculationEngine_Run(t *testing.T) {
	engine := NewCalculationEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	report, err := engine.Run(context.Background(), samplePortfolio(), runOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, testAsOf, report.AsOf.Time)
	assert.Len(t, report.PlanMetrics, 3)
	require.Len(t, report.ExcludedPlans, 1)
	assert.Equal(t, "I-2", report.ExcludedPlans[0].PlanID)
	assert.Equal(t, "missing earliest invoice date", report.ExcludedPlans[0].Reason)
	assert.Equal(t, "400", report.PortfolioMetrics.UntrackedBalance.String())

	require.Len(t, report.Projections, 3)
	assert.Equal(t, "Globex", report.Projections[0].CustomerName)
	assert.True(t, report.Projections[0].RenegotiationNeeded)

	require.Len(t, report.Collections, 1)
	assert.Equal(t, "Globex", report.Collections[0].CustomerName)
	require.Len(t, report.RenegotiationCandidates, 1)

	assert.Len(t, report.Summary.Months, 12)
	assert.NotEmpty(t, logger.Messages)
}

func TestCalculationEngine_RunLogsDroppedCustomers(t *testing.T) {
	flagged := newPlan("Flagged Co", "F-1", "100", domain.FrequencyMonthly, "1000", "500", daysAgo(60))
	flagged.HasIssues = true
	portfolio := &domain.Portfolio{Customers: []*domain.Customer{
		currentCustomer("Fresh Co", "100", "600"),
		{Name: "Flagged Co", Plans: []domain.PaymentPlan{flagged}},
		{Name: "Settled Co", Plans: []domain.PaymentPlan{
			newPlan("Settled Co", "S-1", "100", domain.FrequencyMonthly, "1000", "0", daysAgo(400)),
		}},
	}}

	engine := NewCalculationEngine()
	engine.Debug = true
	logger := &TestLogger{}
	engine.SetLogger(logger)

	report, err := engine.Run(context.Background(), portfolio, runOptions())
	require.NoError(t, err)
	require.Len(t, report.Projections, 1)

	assert.Contains(t, logger.Messages, "DEBUG: dropped customer Flagged Co: no projectable plans")
	assert.Contains(t, logger.Messages, "DEBUG: dropped customer Settled Co: no projectable plans")
	assert.NotContains(t, logger.Messages, "DEBUG: dropped customer Fresh Co: no projectable plans")
	assert.Contains(t, logger.Messages, "DEBUG: projected 1 of 3 customers")
}

func TestCalculationEngine_RunPinsClockOnce(t *testing.T) {
	engine := NewCalculationEngine()
	calls := 0
	engine.Clock = func() time.Time {
		calls++
		return testAsOf.Add(time.Duration(calls) * time.Hour)
	}

	opts := DefaultOptions()
	report, err := engine.Run(context.Background(), samplePortfolio(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, testAsOf.Add(time.Hour), report.AsOf.Time)
	assert.Equal(t, report.AsOf.Time, report.Options.AsOf)
}

func TestCalculationEngine_RunClassFilter(t *testing.T) {
	engine := NewCalculationEngine()
	opts := runOptions()
	opts.ClassFilter = "retail"

	report, err := engine.Run(context.Background(), samplePortfolio(), opts)
	require.NoError(t, err)

	assert.Len(t, report.Projections, 2)
	assert.Len(t, report.PlanMetrics, 2)
	assert.Empty(t, report.ExcludedPlans)
	assert.Empty(t, report.Collections)
}

func TestCalculationEngine_RunErrors(t *testing.T) {
	engine := NewCalculationEngine()

	_, err := engine.Run(context.Background(), nil, runOptions())
	assert.Error(t, err)

	opts := runOptions()
	opts.MonthsAhead = 61
	_, err = engine.Run(context.Background(), samplePortfolio(), opts)
	assert.ErrorIs(t, err, ErrInvalidMonthsAhead)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx, samplePortfolio(), runOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculationEngine_ProjectCustomer(t *testing.T) {
	engine := NewCalculationEngine()
	portfolio := samplePortfolio()

	projection, err := engine.ProjectCustomer(portfolio, "globex", domain.ScenarioRestart, 12, testAsOf)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectionRestart, projection.Status)

	_, err = engine.ProjectCustomer(portfolio, "Umbrella", domain.ScenarioCurrent, 12, testAsOf)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	portfolio.Customers = append(portfolio.Customers, &domain.Customer{Name: "Empty"})
	_, err = engine.ProjectCustomer(portfolio, "Empty", domain.ScenarioCurrent, 12, testAsOf)
	assert.ErrorIs(t, err, ErrNoProjectablePlans)
}
