package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/payplan/internal/output"
	"github.com/spf13/cobra"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [input-file]",
		Short: "Analyze a portfolio: arrears, projections, collections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")
			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(output.FormatterNames(), ", "))
			}
			if output.IsBinary(format) && outPath == "" {
				return fmt.Errorf("%s output requires --output", format)
			}

			opts, err := runOptionsFromFlags(cmd)
			if err != nil {
				return err
			}
			portfolio, err := loadPortfolio(args[0])
			if err != nil {
				return err
			}

			logger := newLogger(cmd)
			report, err := newEngine(cmd, logger).Run(cmd.Context(), portfolio, opts)
			if err != nil {
				return err
			}

			data, err := formatter.Format(report)
			if err != nil {
				return fmt.Errorf("failed to format report: %w", err)
			}
			return writeOutput(cmd, outPath, data)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.FormatterNames(), ", ")+")")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	return cmd
}
