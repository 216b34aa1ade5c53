package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/payplan/internal/compare"
	"github.com/rgehrsitz/payplan/internal/domain"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare expected collections under each scenario",
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

			compareOpts := compare.DefaultCompareOptions(opts)
			compareOpts.InputPath = args[0]
			if base, _ := cmd.Flags().GetString("base"); base != "" {
				s, err := domain.ParseScenario(base)
				if err != nil {
					return err
				}
				compareOpts.BaseScenario = s
				compareOpts.Alternatives = nil
				for _, alt := range domain.Scenarios {
					if alt != s {
						compareOpts.Alternatives = append(compareOpts.Alternatives, alt)
					}
				}
			}

			logger := newLogger(cmd)
			set, err := compare.NewCompareEngine(newEngine(cmd, logger)).Compare(cmd.Context(), portfolio, compareOpts)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			var text string
			switch strings.ToLower(format) {
			case "table", "":
				text = (&compare.TableFormatter{}).Format(set)
			case "compact":
				text = (&compare.TableFormatter{}).FormatCompact(set) + "\n"
			case "csv":
				text, err = (&compare.CSVFormatter{}).Format(set)
			case "json":
				text, err = (&compare.JSONFormatter{Pretty: true}).Format(set)
			default:
				return fmt.Errorf("unknown format %q (available: table, compact, csv, json)", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, "", []byte(text))
		},
	}
	addRunFlags(cmd)
	cmd.Flags().String("base", "", "Base scenario (default current)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	return cmd
}
