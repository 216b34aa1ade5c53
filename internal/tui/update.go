package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/payplan/internal/calculation"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case PortfolioLoadedMsg:
		m.portfolio = msg.Portfolio
		return m.rerun()

	case AnalysisCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.report = msg.Report
		if m.selected >= len(m.report.Projections) {
			m.selected = 0
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.err != nil {
		// Any key dismisses the error
		m.err = nil
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.navigate(SceneHelp)

	case key.Matches(msg, m.keys.Back):
		if m.currentScene != SceneCustomers {
			m.navigate(SceneCustomers)
		}

	case key.Matches(msg, m.keys.Collections):
		m.navigate(SceneCollections)

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.report != nil && m.selected < len(m.report.Projections)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Select):
		switch m.currentScene {
		case SceneCustomers:
			if _, ok := m.SelectedProjection(); ok {
				m.navigate(SceneDetail)
			}
		case SceneDetail:
			m.navigate(SceneCustomers)
		}

	case key.Matches(msg, m.keys.Scenario):
		m.options.Scenario = nextScenario(m.options.Scenario)
		return m.rerun()

	case key.Matches(msg, m.keys.MoreMonths):
		if m.options.MonthsAhead < calculation.MaxMonthsAhead {
			m.options.MonthsAhead++
			return m.rerun()
		}

	case key.Matches(msg, m.keys.FewerMonths):
		if m.options.MonthsAhead > 1 {
			m.options.MonthsAhead--
			return m.rerun()
		}
	}
	return m, nil
}

func (m *Model) navigate(scene Scene) {
	m.previousScene = m.currentScene
	m.currentScene = scene
}

// rerun starts a new analysis with the current options
func (m Model) rerun() (tea.Model, tea.Cmd) {
	if m.portfolio == nil {
		return m, nil
	}
	m.loading = true
	m.loadingMessage = "Projecting " + string(m.options.Scenario) + " scenario..."
	return m, runAnalysisCmd(m.calcEngine, m.portfolio, m.options)
}
