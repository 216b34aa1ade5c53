package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/payplan/internal/calculation"
	"github.com/rgehrsitz/payplan/internal/config"
	"github.com/rgehrsitz/payplan/internal/tui"
)

func main() {
	months := flag.Int("months", 12, "Months to project")
	scenario := flag.String("scenario", "current", "Starting scenario (current, restart, renegotiate)")
	class := flag.String("class", "", "Only include plans with this class")
	asOf := flag.String("as-of", "", "Reference date YYYY-MM-DD")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: payplan-tui [flags] <portfolio-file>")
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	// Check if input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		fmt.Printf("Error: portfolio file not found: %s\n", inputPath)
		os.Exit(1)
	}

	flags := config.DefaultRunFlags()
	flags.MonthsAhead = *months
	flags.Scenario = *scenario
	flags.ClassFilter = *class
	flags.AsOf = *asOf
	opts, err := config.BuildRunOptions(flags)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	model := tui.NewModel(inputPath, calculation.NewCalculationEngine(), opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
