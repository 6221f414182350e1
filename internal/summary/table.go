package summary

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table styles accepted by WriteTable.
const (
	StyleRounded = "rounded"
	StyleLight   = "light"
	StyleASCII   = "ascii"
)

// WriteTable prints the report as a two-column table.
func WriteTable(w io.Writer, r Report, style string) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(tableStyle(style))
	tw.SetTitle("Commit log summary")
	tw.AppendHeader(table.Row{"Metric", "Value"})

	for _, item := range r.Items() {
		tw.AppendRow(table.Row{item.Label, item.Value})
	}

	// Plain rows: go-pretty upper-cases footer text.
	if r.LongestFile != "" || r.Skipped > 0 {
		tw.AppendSeparator()
	}

	if r.LongestFile != "" {
		tw.AppendRow(table.Row{"Longest file", r.LongestFile})
	}

	if r.Skipped > 0 {
		tw.AppendRow(table.Row{"Skipped rows", r.Skipped})
	}

	tw.Render()

	_, err := fmt.Fprintln(w)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

func tableStyle(name string) table.Style {
	switch name {
	case StyleLight:
		return table.StyleLight
	case StyleASCII:
		return table.StyleDefault
	default:
		return table.StyleRounded
	}
}
