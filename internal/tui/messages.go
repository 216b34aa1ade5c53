package tui

import (
	"github.com/rgehrsitz/payplan/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneCustomers Scene = iota
	SceneDetail
	SceneCollections
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneCustomers:
		return "Customers"
	case SceneDetail:
		return "Timeline"
	case SceneCollections:
		return "Collections"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// PortfolioLoadedMsg signals the input file has been parsed
type PortfolioLoadedMsg struct {
	Portfolio *domain.Portfolio
}

// AnalysisCompleteMsg carries the result of an analysis run
type AnalysisCompleteMsg struct {
	Report *domain.AnalysisReport
	Err    error
}
