package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/analytics"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
	"github.com/Sumatoshi-tech/locmeta/internal/selection"
)

// ErrRegionRequired is returned when select runs without --region.
var ErrRegionRequired = errors.New("a region is required (use --region x0,y0,x1,y1)")

// SelectionResult is the machine-readable output of select.
type SelectionResult struct {
	Region  selection.Region `json:"region"  yaml:"region"`
	Label   string           `json:"label"   yaml:"label"`
	Stats   selection.Stats  `json:"stats"   yaml:"stats"`
	Commits []string         `json:"commits" yaml:"commits"`
}

// NewSelectCommand creates the select subcommand.
func NewSelectCommand() *cobra.Command {
	var (
		region string
		format string
	)

	cmd := &cobra.Command{
		Use:   "select <log>",
		Short: "Select commits inside a plot region and print the language breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if region == "" {
				return ErrRegionRequired
			}

			r, err := selection.ParseRegion(region)
			if err != nil {
				return err
			}

			err = checkFormat(format)
			if err != nil {
				return err
			}

			return runSelect(cmd, args[0], r, format)
		},
	}

	cmd.Flags().StringVar(&region, renderRegionFlag, "", "selection as x0,y0,x1,y1 in plot pixels")
	cmd.Flags().StringVar(&format, formatFlag, FormatTable, formatFlagUsage)

	return cmd
}

func runSelect(cmd *cobra.Command, source string, region selection.Region, format string) error {
	a, err := newApp(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer a.close()

	c, err := loadContext(cmd, a, source)
	if err != nil {
		return err
	}

	change, err := c.Select(cmd.Context(), region)
	if err != nil {
		return err
	}

	result := SelectionResult{
		Region:  region.Normalize(),
		Label:   change.Stats.Label(),
		Stats:   change.Stats,
		Commits: selectedIDs(c, change.Highlights),
	}

	if format == FormatTable {
		return writeSelectionTable(cmd.OutOrStdout(), result)
	}

	return writeStructured(cmd.OutOrStdout(), format, result)
}

func selectedIDs(c *analytics.Context, highlights []scatter.Highlight) []string {
	ids := make([]string, 0)

	for i, h := range highlights {
		if h == scatter.HighlightSelected {
			ids = append(ids, c.Plot.Commits[i].ID)
		}
	}

	return ids
}

func writeSelectionTable(w io.Writer, result SelectionResult) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(result.Label)
	tw.AppendHeader(table.Row{"Type", "Lines", "Share"})

	for _, share := range result.Stats.Breakdown {
		tw.AppendRow(table.Row{share.Type, share.Count, share.Percent()})
	}

	tw.AppendSeparator()
	tw.AppendRow(table.Row{"Total", result.Stats.SelectedLines, ""})
	tw.Render()

	_, err := fmt.Fprintln(w)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}
