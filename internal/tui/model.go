package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/config"
	"github.com/rgehrsitz/payplan/internal/domain"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene
	keys          keyMap

	// Terminal dimensions
	width  int
	height int

	// Input and engine
	inputPath  string
	portfolio  *domain.Portfolio
	calcEngine *calculation.CalculationEngine
	options    domain.RunOptions

	// Current results
	report   *domain.AnalysisReport
	selected int

	// Error state
	err error

	// Loading state
	loading        bool
	loadingMessage string
}

// NewModel creates a new application model. The as-of date in opts is pinned
// once here so that cycling scenarios compares like with like.
func NewModel(inputPath string, engine *calculation.CalculationEngine, opts domain.RunOptions) Model {
	if engine == nil {
		engine = calculation.NewCalculationEngine()
	}
	opts.AsOf = engine.PinAsOf(opts)
	return Model{
		currentScene:   SceneCustomers,
		keys:           defaultKeyMap(),
		inputPath:      inputPath,
		calcEngine:     engine,
		options:        opts,
		width:          100,
		height:         30,
		loading:        true,
		loadingMessage: "Loading portfolio...",
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadPortfolioCmd(m.inputPath)
}

// Report returns the most recent analysis, if any
func (m Model) Report() *domain.AnalysisReport {
	return m.report
}

// Options returns the run options the next analysis will use
func (m Model) Options() domain.RunOptions {
	return m.options
}

// Scene returns the scene being displayed
func (m Model) Scene() Scene {
	return m.currentScene
}

// SelectedProjection returns the highlighted customer projection
func (m Model) SelectedProjection() (*domain.CustomerProjection, bool) {
	if m.report == nil || m.selected < 0 || m.selected >= len(m.report.Projections) {
		return nil, false
	}
	return &m.report.Projections[m.selected], true
}

// loadPortfolioCmd returns a command that loads the portfolio file
func loadPortfolioCmd(path string) tea.Cmd {
	return func() tea.Msg {
		portfolio, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return PortfolioLoadedMsg{Portfolio: portfolio}
	}
}

// runAnalysisCmd returns a command that runs the engine over the portfolio
func runAnalysisCmd(engine *calculation.CalculationEngine, portfolio *domain.Portfolio, opts domain.RunOptions) tea.Cmd {
	return func() tea.Msg {
		report, err := engine.Run(context.Background(), portfolio, opts)
		return AnalysisCompleteMsg{Report: report, Err: err}
	}
}

// nextScenario cycles current -> restart -> renegotiate -> current
func nextScenario(s domain.Scenario) domain.Scenario {
	for i, candidate := range domain.Scenarios {
		if candidate == s {
			return domain.Scenarios[(i+1)%len(domain.Scenarios)]
		}
	}
	return domain.ScenarioCurrent
}
