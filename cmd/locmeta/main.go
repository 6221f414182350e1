// Package main provides the entry point for the locmeta CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/cmd/locmeta/commands"
	"github.com/Sumatoshi-tech/locmeta/internal/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "locmeta",
		Short: "locmeta - commit analytics over line-of-code logs",
		Long: `locmeta turns a per-line code log into commit analytics: summary
statistics, a time-of-day scatter plot of commits, and brush selection with a
per-language breakdown.

Commands:
  generate  Blame a git revision into a line-of-code log
  render    Write the analytics page as standalone HTML
  stats     Print summary statistics
  select    Print the breakdown of commits inside a plot region
  serve     Serve the analytics page with live brushing`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewSelectCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
