// Package api exposes the analysis engine over HTTP. Every endpoint runs
// against the portfolio currently loaded into the Handler; run options come
// from the query string (months, scenario, class, as_of, limit).
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/compare"
	"github.com/rgehrsitz/payplan/internal/config"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
)

// DefaultMaxUploadBytes bounds a POSTed portfolio document
const DefaultMaxUploadBytes = 10 << 20

// Handler holds the dependencies of every API endpoint.
type Handler struct {
	Engine         *calculation.CalculationEngine
	Compare        *compare.CompareEngine
	Parser         *config.InputParser
	Logger         calculation.Logger
	MaxUploadBytes int64

	mu        sync.RWMutex
	portfolio *domain.Portfolio
}

// NewHandler creates a handler serving the given portfolio.
func NewHandler(engine *calculation.CalculationEngine, portfolio *domain.Portfolio) *Handler {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	return &Handler{
		Engine:         engine,
		Compare:        compare.NewCompareEngine(engine),
		Parser:         config.NewInputParser(),
		Logger:         engine.Logger,
		MaxUploadBytes: DefaultMaxUploadBytes,
		portfolio:      portfolio,
	}
}

// Portfolio returns the portfolio currently served.
func (h *Handler) Portfolio() *domain.Portfolio {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.portfolio
}

// SetPortfolio replaces the served portfolio.
func (h *Handler) SetPortfolio(p *domain.Portfolio) {
	h.mu.Lock()
	h.portfolio = p
	h.mu.Unlock()
}

// =============================================================================
// ANALYSIS ENDPOINTS
// =============================================================================

// Health reports liveness and the size of the loaded portfolio.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	p := h.Portfolio()
	customers := 0
	if p != nil {
		customers = len(p.Customers)
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "customers": customers})
}

// GetAnalysis runs a full analysis of the loaded portfolio.
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r, h.Portfolio())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Analyze runs a full analysis of a portfolio document posted in the body.
// YAML and JSON bodies are both accepted.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Portfolio document too large", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	portfolio, err := h.Parser.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid portfolio", err)
		return
	}
	if r.URL.Query().Get("load") == "true" {
		h.SetPortfolio(portfolio)
		h.Logger.Infof("loaded posted portfolio with %d customers", len(portfolio.Customers))
	}
	report, ok := h.run(w, r, portfolio)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetProjections returns customer projections and the monthly summary.
func (h *Handler) GetProjections(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r, h.Portfolio())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ProjectionsDTO{
		RunID:       report.RunID,
		AsOf:        report.AsOf.String(),
		Projections: report.Projections,
		Summary:     report.Summary,
	})
}

// GetCollections returns the ranked collections list.
func (h *Handler) GetCollections(w http.ResponseWriter, r *http.Request) {
	report, ok := h.run(w, r, h.Portfolio())
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CollectionsDTO{
		RunID:       report.RunID,
		AsOf:        report.AsOf.String(),
		Collections: report.Collections,
		Candidates:  report.RenegotiationCandidates,
	})
}

// GetComparison runs every scenario against the loaded portfolio.
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	opts, ok := h.runOptions(w, r)
	if !ok {
		return
	}
	portfolio := h.Portfolio()
	if portfolio == nil {
		writeError(w, http.StatusNotFound, "No portfolio loaded", nil)
		return
	}
	set, err := h.Compare.Compare(r.Context(), portfolio, compare.DefaultCompareOptions(opts))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Comparison failed", err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// =============================================================================
// CUSTOMER ENDPOINTS
// =============================================================================

// ListCustomers lists customers with their worst plan status.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	loaded := h.Portfolio()
	report, ok := h.run(w, r, loaded)
	if !ok {
		return
	}
	portfolio := loaded.FilterByClass(report.Options.ClassFilter)

	out := make([]CustomerSummaryDTO, 0, len(portfolio.Customers))
	for _, c := range portfolio.Customers {
		dto := CustomerSummaryDTO{
			Name:      c.Name,
			Plans:     len(c.Plans),
			Classes:   c.Classes(),
			TotalOpen: c.TotalOpenBalance(),
			Status:    "excluded",
		}
		var statuses []domain.Status
		for _, m := range report.MetricsFor(c.Name) {
			statuses = append(statuses, m.Status)
			if m.MonthsBehind > dto.MonthsBehind {
				dto.MonthsBehind = m.MonthsBehind
			}
		}
		if len(statuses) > 0 {
			dto.Status = domain.ReduceStatus(statuses...).String()
		}
		out = append(out, dto)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCustomer returns one customer's projection with the metrics and
// exclusions of its plans. The projection is null when no plan is projectable.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	opts, ok := h.runOptions(w, r)
	if !ok {
		return
	}
	portfolio := h.Portfolio()
	if portfolio == nil {
		writeError(w, http.StatusNotFound, "No portfolio loaded", nil)
		return
	}

	asOf := h.Engine.PinAsOf(opts)
	projection, err := h.Engine.ProjectCustomer(portfolio, name, opts.Scenario, opts.MonthsAhead, asOf)
	switch {
	case errors.Is(err, calculation.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "Customer not found", err)
		return
	case errors.Is(err, calculation.ErrNoProjectablePlans):
		// metrics and exclusions are still reported
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Projection failed", err)
		return
	}

	customer, _ := portfolio.Customer(name)
	metrics, excluded := h.Engine.BuildMetrics(&domain.Portfolio{Customers: []*domain.Customer{customer}}, "", asOf)
	writeJSON(w, http.StatusOK, CustomerDetailDTO{
		AsOf:       dateutil.FormatDate(asOf),
		Projection: projection,
		Metrics:    append([]domain.PlanMetrics{}, metrics...),
		Excluded:   append([]domain.ExcludedPlan{}, excluded...),
	})
}

// ListClasses returns the distinct plan classes.
func (h *Handler) ListClasses(w http.ResponseWriter, r *http.Request) {
	portfolio := h.Portfolio()
	classes := []string{}
	if portfolio != nil {
		classes = append(classes, portfolio.Classes()...)
	}
	writeJSON(w, http.StatusOK, ClassesDTO{Classes: classes})
}

// =============================================================================
// HELPERS
// =============================================================================

// runOptions reads run options from the query string, writing a 400 on failure.
func (h *Handler) runOptions(w http.ResponseWriter, r *http.Request) (domain.RunOptions, bool) {
	q := r.URL.Query()
	flags := config.DefaultRunFlags()
	if v := q.Get("scenario"); v != "" {
		flags.Scenario = v
	}
	flags.ClassFilter = q.Get("class")
	flags.AsOf = q.Get("as_of")

	var err error
	if v := q.Get("months"); v != "" {
		if flags.MonthsAhead, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid months", err)
			return domain.RunOptions{}, false
		}
	}
	if v := q.Get("limit"); v != "" {
		if flags.CollectionsLimit, err = strconv.Atoi(v); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return domain.RunOptions{}, false
		}
	}

	opts, err := config.BuildRunOptions(flags)
	if err == nil {
		err = calculation.ValidateOptions(opts)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid run options", err)
		return domain.RunOptions{}, false
	}
	return opts, true
}

// run executes an analysis for the request, writing the error response itself.
func (h *Handler) run(w http.ResponseWriter, r *http.Request, portfolio *domain.Portfolio) (*domain.AnalysisReport, bool) {
	opts, ok := h.runOptions(w, r)
	if !ok {
		return nil, false
	}
	if portfolio == nil {
		writeError(w, http.StatusNotFound, "No portfolio loaded", nil)
		return nil, false
	}
	report, err := h.Engine.Run(r.Context(), portfolio, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) {
			status = http.StatusServiceUnavailable
		}
		h.Logger.Errorf("analysis failed: %v", err)
		writeError(w, status, "Analysis failed", err)
		return nil, false
	}
	return report, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
