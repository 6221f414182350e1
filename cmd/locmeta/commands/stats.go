package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/summary"
)

const (
	formatFlag      = "format"
	formatFlagUsage = "output format: table, json or yaml"
	styleFlag       = "style"
)

// NewStatsCommand creates the stats subcommand.
func NewStatsCommand() *cobra.Command {
	var (
		format string
		style  string
	)

	cmd := &cobra.Command{
		Use:   "stats <log>",
		Short: "Print the summary statistics of a line-of-code log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := checkFormat(format)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			c, err := loadContext(cmd, a, args[0])
			if err != nil {
				return err
			}

			if format == FormatTable {
				return summary.WriteTable(cmd.OutOrStdout(), c.Report, style)
			}

			return writeStructured(cmd.OutOrStdout(), format, c.Report)
		},
	}

	cmd.Flags().StringVar(&format, formatFlag, FormatTable, formatFlagUsage)
	cmd.Flags().StringVar(&style, styleFlag, summary.StyleRounded, "table style: rounded, light or ascii")

	return cmd
}
