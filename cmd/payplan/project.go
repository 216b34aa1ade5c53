package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/rgehrsitz/payplan/internal/output"
	"github.com/spf13/cobra"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [input-file]",
		Short: "Show customer payment timelines under a scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := runOptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			portfolio, err := loadPortfolio(args[0])
			if err != nil {
				return err
			}

			logger := newLogger(cmd)
			engine := newEngine(cmd, logger)
			report, err := engine.Run(cmd.Context(), portfolio, opts)
			if err != nil {
				return err
			}

			projections := report.Projections
			if customer, _ := cmd.Flags().GetString("customer"); customer != "" {
				c, ok := portfolio.Customer(customer)
				if !ok {
					return fmt.Errorf("customer %q not found", customer)
				}
				p, ok := report.Projection(c.Name)
				if !ok {
					return fmt.Errorf("customer %q has no projectable plans", c.Name)
				}
				projections = []domain.CustomerProjection{*p}
			}

			format, _ := cmd.Flags().GetString("format")
			switch strings.ToLower(format) {
			case "json":
				data, err := json.MarshalIndent(projections, "", "  ")
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", append(data, '\n'))
			case "console", "":
				var sb strings.Builder
				for i := range projections {
					p := &projections[i]
					sb.WriteString(output.FormatCustomerDetail(p, report.MetricsFor(p.CustomerName)))
					sb.WriteString("\n")
				}
				return writeOutput(cmd, "", []byte(sb.String()))
			default:
				return fmt.Errorf("unknown format %q (available: console, json)", format)
			}
		},
	}
	addRunFlags(cmd)
	cmd.Flags().String("customer", "", "Only show this customer")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	return cmd
}
