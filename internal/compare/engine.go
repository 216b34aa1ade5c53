package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
)

// CompareEngine runs the same portfolio under several scenarios
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Run          domain.RunOptions // Scenario is ignored; BaseScenario and Alternatives are used
	BaseScenario domain.Scenario
	Alternatives []domain.Scenario
	InputPath    string
}

// DefaultCompareOptions compares restart and renegotiate against current
func DefaultCompareOptions(run domain.RunOptions) CompareOptions {
	return CompareOptions{
		Run:          run,
		BaseScenario: domain.ScenarioCurrent,
		Alternatives: []domain.Scenario{domain.ScenarioRestart, domain.ScenarioRenegotiate},
	}
}

// Compare runs the base and alternative scenarios against one pinned reference date
func (ce *CompareEngine) Compare(ctx context.Context, portfolio *domain.Portfolio, options CompareOptions) (*ComparisonSet, error) {
	run := options.Run
	run.AsOf = ce.CalcEngine.PinAsOf(run)

	base := options.BaseScenario
	if base == "" {
		base = domain.ScenarioCurrent
	}

	baseResult, err := ce.runScenario(ctx, portfolio, run, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	alternatives := []ComparisonResult{}
	for _, s := range options.Alternatives {
		if s == base {
			continue
		}
		altResult, err := ce.runScenario(ctx, portfolio, run, s)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", s, err)
		}
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenario:       base,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		InputPath:          options.InputPath,
		AsOf:               dateutil.DateOf(run.AsOf),
		MonthsAhead:        run.MonthsAhead,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) runScenario(ctx context.Context, portfolio *domain.Portfolio, run domain.RunOptions, s domain.Scenario) (ComparisonResult, error) {
	run.Scenario = s
	report, err := ce.CalcEngine.Run(ctx, portfolio, run)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(report), nil
}
