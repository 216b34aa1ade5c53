package api

import (
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// CustomerSummaryDTO is one row of the customer list.
type CustomerSummaryDTO struct {
	Name         string          `json:"name"`
	Plans        int             `json:"plans"`
	Classes      []string        `json:"classes"`
	TotalOpen    decimal.Decimal `json:"totalOpen"`
	Status       string          `json:"status"`
	MonthsBehind int             `json:"monthsBehind"`
}

// CustomerDetailDTO is a customer's projection with the metrics of its plans.
type CustomerDetailDTO struct {
	AsOf       string                     `json:"asOf"`
	Projection *domain.CustomerProjection `json:"projection"`
	Metrics    []domain.PlanMetrics       `json:"metrics"`
	Excluded   []domain.ExcludedPlan      `json:"excludedPlans"`
}

// ProjectionsDTO is the projection-only view of a run.
type ProjectionsDTO struct {
	RunID       string                      `json:"runId"`
	AsOf        string                      `json:"asOf"`
	Projections []domain.CustomerProjection `json:"projections"`
	Summary     domain.PortfolioSummary     `json:"summary"`
}

// CollectionsDTO is the ranked collections list of a run.
type CollectionsDTO struct {
	RunID       string                          `json:"runId"`
	AsOf        string                          `json:"asOf"`
	Collections []domain.CollectionsEntry       `json:"collections"`
	Candidates  []domain.RenegotiationCandidate `json:"renegotiationCandidates"`
}

// ClassesDTO lists the plan classes present in the loaded portfolio.
type ClassesDTO struct {
	Classes []string `json:"classes"`
}
