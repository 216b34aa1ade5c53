package calculation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
)

// MaxMonthsAhead is the longest horizon a run may request
const MaxMonthsAhead = MaxScheduleEvents

// ErrInvalidMonthsAhead is returned for a horizon outside 1..MaxMonthsAhead
var ErrInvalidMonthsAhead = errors.New("months ahead out of range")

// CalculationEngine orchestrates one analysis run over a portfolio
type CalculationEngine struct {
	Arrears   *ArrearsCalculator
	Metrics   *MetricsBuilder
	Projector *ScenarioProjector
	Logger    Logger
	Clock     func() time.Time
	Debug     bool // Log per-plan exclusions and per-customer results
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	arrears := NewArrearsCalculator()
	return &CalculationEngine{
		Arrears:   arrears,
		Metrics:   NewMetricsBuilder(arrears),
		Projector: NewScenarioProjector(arrears),
		Logger:    NopLogger{},
		Clock:     time.Now,
	}
}

// SetLogger replaces the engine logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// SetWorkers bounds the number of customers projected concurrently
func (ce *CalculationEngine) SetWorkers(n int) {
	ce.Projector.Workers = n
}

// DefaultOptions returns the options used when the caller supplies none
func DefaultOptions() domain.RunOptions {
	return domain.RunOptions{
		MonthsAhead:      12,
		Scenario:         domain.ScenarioCurrent,
		CollectionsLimit: DefaultCollectionsLimit,
	}
}

// ValidateOptions checks caller-supplied run options
func ValidateOptions(opts domain.RunOptions) error {
	if opts.MonthsAhead < 1 || opts.MonthsAhead > MaxMonthsAhead {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidMonthsAhead, opts.MonthsAhead, MaxMonthsAhead)
	}
	if _, err := domain.ParseScenario(string(opts.Scenario)); err != nil {
		return err
	}
	if opts.CollectionsLimit < 0 {
		return fmt.Errorf("collections limit cannot be negative: %d", opts.CollectionsLimit)
	}
	return nil
}

// PinAsOf returns the reference time for a run: the option value when set,
// otherwise one reading of the engine clock.
func (ce *CalculationEngine) PinAsOf(opts domain.RunOptions) time.Time {
	if !opts.AsOf.IsZero() {
		return opts.AsOf
	}
	if ce.Clock == nil {
		return time.Now()
	}
	return ce.Clock()
}

// Run performs a full analysis run. The reference time is pinned once and
// reused for every plan and customer.
func (ce *CalculationEngine) Run(ctx context.Context, portfolio *domain.Portfolio, opts domain.RunOptions) (*domain.AnalysisReport, error) {
	if portfolio == nil {
		return nil, fmt.Errorf("portfolio is required")
	}
	if err := ValidateOptions(opts); err != nil {
		return nil, err
	}
	opts.Scenario, _ = domain.ParseScenario(string(opts.Scenario))
	opts.AsOf = ce.PinAsOf(opts)
	asOf := opts.AsOf

	ce.Logger.Infof("analysis run as of %s: scenario=%s months=%d class=%q",
		dateutil.FormatDate(asOf), opts.Scenario, opts.MonthsAhead, opts.ClassFilter)

	scoped := portfolio.FilterByClass(opts.ClassFilter)
	metrics, excluded := ce.BuildMetrics(scoped, opts.ClassFilter, asOf)

	projections, err := ce.Projector.ProjectAll(ctx, scoped.Customers, opts.Scenario, opts.MonthsAhead, asOf)
	if err != nil {
		return nil, fmt.Errorf("projecting customers: %w", err)
	}
	if ce.Debug {
		ce.logDroppedCustomers(scoped.Customers, projections)
		ce.Logger.Debugf("projected %d of %d customers", len(projections), len(scoped.Customers))
	}

	report := &domain.AnalysisReport{
		RunID:                   uuid.NewString(),
		AsOf:                    dateutil.DateOf(asOf),
		Options:                 opts,
		PlanMetrics:             metrics,
		ExcludedPlans:           excluded,
		PortfolioMetrics:        SummarizeMetrics(metrics, excluded),
		Projections:             projections,
		Summary:                 SummarizePortfolio(projections, opts.Scenario, opts.MonthsAhead, asOf),
		Collections:             PrioritizeCollections(metrics, opts.CollectionsLimit),
		RenegotiationCandidates: RenegotiationCandidates(projections),
	}

	ce.Logger.Infof("analysis complete: %d plans, %d excluded, %d projections, %d behind",
		len(metrics), len(excluded), len(projections), report.PortfolioMetrics.CustomersByStatus[domain.StatusBehind])
	return report, nil
}

// BuildMetrics computes plan metrics for every schedulable plan and records the
// rest as excluded. A non-empty class restricts both lists to plans in that class.
func (ce *CalculationEngine) BuildMetrics(portfolio *domain.Portfolio, class string, asOf time.Time) ([]domain.PlanMetrics, []domain.ExcludedPlan) {
	var metrics []domain.PlanMetrics
	var excluded []domain.ExcludedPlan
	for _, c := range portfolio.Customers {
		for _, plan := range c.Plans {
			if class != "" && !strings.EqualFold(plan.Class, class) {
				continue
			}
			if plan.CustomerName == "" {
				plan.CustomerName = c.Name
			}
			m, ok := ce.Metrics.Build(plan, asOf)
			if !ok {
				excluded = append(excluded, domain.ExcludedPlan{
					CustomerName: c.Name,
					PlanID:       plan.PlanID,
					TotalOpen:    plan.TotalOpen,
					Reason:       plan.IneligibleReason(),
				})
				if ce.Debug {
					ce.Logger.Debugf("excluded plan %s/%s: %s", c.Name, plan.PlanID, plan.IneligibleReason())
				}
				continue
			}
			metrics = append(metrics, m)
		}
	}
	return metrics, excluded
}

func (ce *CalculationEngine) logDroppedCustomers(customers []*domain.Customer, projections []domain.CustomerProjection) {
	projected := make(map[string]bool, len(projections))
	for _, p := range projections {
		projected[p.CustomerName] = true
	}
	for _, c := range customers {
		if !projected[c.Name] {
			ce.Logger.Debugf("dropped customer %s: no projectable plans", c.Name)
		}
	}
}

// ProjectCustomer projects a single named customer
func (ce *CalculationEngine) ProjectCustomer(portfolio *domain.Portfolio, name string, scenario domain.Scenario, monthsAhead int, asOf time.Time) (*domain.CustomerProjection, error) {
	c, ok := portfolio.Customer(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCustomerNotFound, name)
	}
	projection, ok := ce.Projector.ProjectCustomer(c, scenario, monthsAhead, asOf)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoProjectablePlans, name)
	}
	return projection, nil
}

var (
	// ErrCustomerNotFound is returned when a named customer is not in the portfolio
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrNoProjectablePlans is returned when a customer has nothing to schedule
	ErrNoProjectablePlans = errors.New("customer has no projectable plans")
)
