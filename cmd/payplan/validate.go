package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a portfolio file and report plans that cannot be scheduled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := loadPortfolio(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Portfolio is valid: %d customers, %d plans\n", len(portfolio.Customers), portfolio.PlanCount())
			if classes := portfolio.Classes(); len(classes) > 0 {
				fmt.Fprintf(out, "Classes: %v\n", classes)
			}
			for _, c := range portfolio.Customers {
				for _, p := range c.Plans {
					if !p.IsSchedulable() {
						fmt.Fprintf(out, "  excluded %s/%s: %s\n", c.Name, p.PlanID, p.IneligibleReason())
					}
				}
			}
			return nil
		},
	}
}
