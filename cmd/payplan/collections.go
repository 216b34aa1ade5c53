package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/payplan/internal/output"
	"github.com/spf13/cobra"
)

func collectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections [input-file]",
		Short: "List behind plans ranked by collections priority",
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
			report, err := newEngine(cmd, logger).Run(cmd.Context(), portfolio, opts)
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("output")
			var data []byte
			switch strings.ToLower(format) {
			case "console", "":
				data = []byte(output.FormatCollectionsTable(report.Collections))
			case "csv":
				data, err = output.FormatCollectionsCSV(report.Collections)
			case "json":
				data, err = json.MarshalIndent(report.Collections, "", "  ")
			default:
				return fmt.Errorf("unknown format %q (available: console, csv, json)", format)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, data)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	return cmd
}
