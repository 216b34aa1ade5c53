package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/payplan/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const rule = "================================================================================"

// ConsoleFormatter renders a human-readable report for the terminal
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.AnalysisReport) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("PAYMENT PLAN ANALYSIS") + "\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "As of:     %s\n", report.AsOf.String())
	fmt.Fprintf(&sb, "Scenario:  %s\n", report.Options.Scenario)
	fmt.Fprintf(&sb, "Horizon:   %s\n", monthsLabel(report.Options.MonthsAhead))
	if report.Options.ClassFilter != "" {
		fmt.Fprintf(&sb, "Class:     %s\n", report.Options.ClassFilter)
	}
	fmt.Fprintf(&sb, "Run:       %s\n\n", report.RunID)

	c.writePortfolioMetrics(&sb, report.PortfolioMetrics)
	c.writeMonthlySummary(&sb, report.Summary)
	sb.WriteString(FormatCollectionsTable(report.Collections))
	c.writeCandidates(&sb, report.RenegotiationCandidates)
	c.writeExcluded(&sb, report.ExcludedPlans)

	return []byte(sb.String()), nil
}

func (c ConsoleFormatter) writePortfolioMetrics(sb *strings.Builder, pm domain.PortfolioMetrics) {
	sb.WriteString(sectionStyle.Render("PORTFOLIO") + "\n")
	fmt.Fprintf(sb, "Customers:            %d (%d current, %d behind, %d completed)\n",
		pm.TotalCustomers,
		pm.CustomersByStatus[domain.StatusCurrent],
		pm.CustomersByStatus[domain.StatusBehind],
		pm.CustomersByStatus[domain.StatusCompleted])
	fmt.Fprintf(sb, "Plans:                %d tracked, %d excluded\n", pm.TotalPlans, pm.ExcludedPlans)
	fmt.Fprintf(sb, "Outstanding:          %s\n", FormatCurrency(pm.TotalOutstanding))
	fmt.Fprintf(sb, "Untracked balance:    %s\n", FormatCurrency(pm.UntrackedBalance))
	fmt.Fprintf(sb, "Expected monthly:     %s\n", FormatCurrency(pm.ExpectedMonthly.Round(2)))
	fmt.Fprintf(sb, "Behind amount:        %s (%s of customers, avg %s)\n",
		FormatCurrency(pm.TotalBehindAmount), FormatPercentage(pm.PercentageBehind), monthsLabel(pm.AverageMonthsBehind))

	if len(pm.PlansByClass) > 0 {
		classes := make([]string, 0, len(pm.PlansByClass))
		for class := range pm.PlansByClass {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		sb.WriteString("By class:\n")
		for _, class := range classes {
			g := pm.PlansByClass[class]
			fmt.Fprintf(sb, "  %-20s %4d plans %14s\n", class, g.Plans, FormatCurrency(g.TotalOwed))
		}
	}
	sb.WriteString("\n")
}

func (c ConsoleFormatter) writeMonthlySummary(sb *strings.Builder, summary domain.PortfolioSummary) {
	sb.WriteString(sectionStyle.Render("MONTHLY PROJECTION") + "\n")
	fmt.Fprintf(sb, "%-6s %-11s %14s %14s %7s %10s\n", "Month", "Date", "Expected", "Cumulative", "Active", "Completing")
	for _, m := range summary.Months {
		fmt.Fprintf(sb, "%-6d %-11s %14s %14s %7d %10d\n",
			m.Month, m.Date.String(), FormatCurrency(m.TotalPayment), FormatCurrency(m.CumulativePayment),
			m.ActiveCustomers, m.CompletingCustomers)
	}
	s := summary.Summary
	fmt.Fprintf(sb, "Total expected: %s | Average monthly: %s | Paying customers: %d\n",
		FormatCurrency(s.TotalExpectedCollection), FormatCurrency(s.AverageMonthly), s.CustomersWithPayments)
	if s.RenegotiationNeeded > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%d customer(s) need renegotiation, %s behind, %s at risk",
			s.RenegotiationNeeded, monthsLabel(s.TotalMonthsBehind), FormatCurrency(s.PotentialRecovery))) + "\n")
	}
	sb.WriteString("\n")
}

// FormatCollectionsTable renders the ranked collections list
func FormatCollectionsTable(entries []domain.CollectionsEntry) string {
	var sb strings.Builder
	sb.WriteString(sectionStyle.Render("COLLECTIONS PRIORITY") + "\n")
	if len(entries) == 0 {
		sb.WriteString("No plans are behind.\n\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "%-4s %-24s %-12s %7s %12s %12s %-7s %12s\n",
		"#", "Customer", "Plan", "Behind", "Owed", "Catch-up", "Prio", "30-mo terms")
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-4d %-24s %-12s %7d %12s %12s %-7s %12s\n",
			e.Rank, truncate(e.CustomerName, 24), truncate(e.PlanID, 12), e.MonthsBehind,
			FormatCurrency(e.TotalOwed), FormatCurrency(e.Recovery.CatchUpAmount), e.Priority,
			FormatCurrency(e.Recovery.RenegotiatedMonthly))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (c ConsoleFormatter) writeCandidates(sb *strings.Builder, candidates []domain.RenegotiationCandidate) {
	if len(candidates) == 0 {
		return
	}
	sb.WriteString(sectionStyle.Render("RENEGOTIATION CANDIDATES") + "\n")
	for _, rc := range candidates {
		fmt.Fprintf(sb, "%-24s %s behind, owes %s, pays %s, suggest %s/month [%s]\n",
			truncate(rc.CustomerName, 24), monthsLabel(rc.MonthsBehind), FormatCurrency(rc.TotalOwed),
			FormatCurrency(rc.CurrentMonthly), FormatCurrency(rc.SuggestedMonthly), rc.Priority)
	}
	sb.WriteString("\n")
}

func (c ConsoleFormatter) writeExcluded(sb *strings.Builder, excluded []domain.ExcludedPlan) {
	if len(excluded) == 0 {
		return
	}
	sb.WriteString(sectionStyle.Render("EXCLUDED PLANS") + "\n")
	for _, e := range excluded {
		fmt.Fprintf(sb, "%-24s %-12s %12s  %s\n", truncate(e.CustomerName, 24), truncate(e.PlanID, 12), FormatCurrency(e.TotalOpen), e.Reason)
	}
	sb.WriteString("\n")
}

// FormatCustomerDetail renders one customer's plan metrics and projection
func FormatCustomerDetail(projection *domain.CustomerProjection, metrics []domain.PlanMetrics) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(strings.ToUpper(projection.CustomerName)) + "\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Scenario: %s | Status: %s | Plans: %d\n", projection.Scenario, projection.Status, projection.PlanCount)
	fmt.Fprintf(&sb, "Owed: %s | Monthly: %s | Completion month: %d\n",
		FormatCurrency(projection.TotalOwed), FormatCurrency(projection.TotalMonthlyPayment), projection.CompletionMonth)
	if projection.RenegotiationNeeded {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("Renegotiation needed: %s behind", monthsLabel(projection.MonthsBehind))) + "\n")
	}
	sb.WriteString("\n")

	if len(metrics) > 0 {
		sb.WriteString(sectionStyle.Render("PLANS") + "\n")
		for _, m := range metrics {
			completion := formatOptionalDate(m.ProjectedCompletionDate)
			fmt.Fprintf(&sb, "%-12s %-10s %-9s %10s/%-9s open %12s  paid %6s  behind %2d  done %s\n",
				truncate(m.PlanID, 12), m.Status, m.Class, FormatCurrency(m.MonthlyAmount), m.Frequency,
				FormatCurrency(m.TotalOpen), FormatPercentage(m.PercentPaid), m.MonthsBehind, completion)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(sectionStyle.Render("TIMELINE") + "\n")
	for _, m := range projection.Timeline {
		line := fmt.Sprintf("%3d  %s  %12s  %d plan(s)", m.Month, m.Date.String(), FormatCurrency(m.Payment), m.ActivePlans)
		if m.HasFinalPayment() {
			line += "  final"
		}
		if m.Note != "" {
			line += "  " + m.Note
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
