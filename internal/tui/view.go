package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/payplan/internal/output"
	"github.com/rgehrsitz/payplan/pkg/dateutil"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}
	if m.loading || m.report == nil {
		message := m.loadingMessage
		if message == "" {
			message = "Loading..."
		}
		return m.renderApp(BorderStyle.Render(message))
	}

	var content string
	switch m.currentScene {
	case SceneCustomers:
		content = m.renderCustomers()
	case SceneDetail:
		content = m.renderDetail()
	case SceneCollections:
		content = output.FormatCollectionsTable(m.report.Collections)
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("PAYPLAN - Payment Schedule & Arrears")
	breadcrumb := fmt.Sprintf("%s / %s / %d months", m.currentScene, m.options.Scenario, m.options.MonthsAhead)
	if !m.options.AsOf.IsZero() {
		breadcrumb += " / as of " + dateutil.FormatDate(m.options.AsOf)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(breadcrumb))
}

func (m Model) renderStatusBar() string {
	var shortcuts []string
	for _, b := range m.keys.shortcuts() {
		h := b.Help()
		shortcuts = append(shortcuts, StatusKeyStyle.Render(h.Key)+" "+h.Desc)
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

func (m Model) renderCustomers() string {
	var sb strings.Builder
	sb.WriteString(TableHeaderStyle.Render(fmt.Sprintf("  %-24s %-12s %12s %12s %6s %6s", "Customer", "Status", "Monthly", "Owed", "Done", "Behind")))
	sb.WriteString("\n")
	for i, p := range m.report.Projections {
		status := statusStyle(string(p.Status)).Render(fmt.Sprintf("%-12s", p.Status))
		line := fmt.Sprintf("%-24s %s %12s %12s %6d %6d", truncate(p.CustomerName, 24), status,
			output.FormatCurrency(p.TotalMonthlyPayment), output.FormatCurrency(p.TotalOwed), p.CompletionMonth, p.MonthsBehind)
		if i == m.selected {
			sb.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	s := m.report.Summary.Summary
	sb.WriteString(fmt.Sprintf("\nExpected over horizon: %s | Average monthly: %s | Renegotiation needed: %d\n",
		output.FormatCurrency(s.TotalExpectedCollection), output.FormatCurrency(s.AverageMonthly), s.RenegotiationNeeded))
	return BorderStyle.Render(sb.String())
}

func (m Model) renderDetail() string {
	projection, ok := m.SelectedProjection()
	if !ok {
		return BorderStyle.Render("No customer selected")
	}
	return BorderStyle.Render(output.FormatCustomerDetail(projection, m.report.MetricsFor(projection.CustomerName)))
}

func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString("KEYBOARD SHORTCUTS:\n")
	bindings := []struct {
		keys, desc string
	}{
		{"↑/k ↓/j", "Move through customers"},
		{"enter", "Show or hide the selected customer's timeline"},
		{"tab", "Cycle scenario (current, restart, renegotiate)"},
		{"+ / -", "Lengthen or shorten the horizon"},
		{"c", "Collections priority list"},
		{"esc", "Back to customers"},
		{"q", "Quit"},
	}
	for _, b := range bindings {
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", b.keys, b.desc))
	}
	return BorderStyle.Render(sb.String())
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
