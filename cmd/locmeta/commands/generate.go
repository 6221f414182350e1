package commands

import (
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/gitlog"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
)

// NewGenerateCommand creates the generate subcommand.
func NewGenerateCommand() *cobra.Command {
	var (
		output    string
		revision  string
		prefix    string
		languages bool
	)

	cmd := &cobra.Command{
		Use:   "generate [repo]",
		Short: "Blame every file of a git revision into a line-of-code log",
		Long: `Walk every file of a revision (HEAD by default), blame it, and write one
CSV row per line: commit, file, line, depth, length, type, author, date, time,
timezone, datetime. Vendored and binary files are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo := "."
			if len(args) > 0 {
				repo = args[0]
			}

			a, err := newApp(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer a.close()

			w, closeOut, err := openOutput(cmd, output)
			if err != nil {
				return err
			}

			stats, genErr := gitlog.Generate(cmd.Context(), repo, w,
				gitlog.WithLogger(a.logger),
				gitlog.WithRevision(revision),
				gitlog.WithLanguageTypes(languages),
				gitlog.WithPathPrefix(prefix),
			)

			closeErr := closeOut()
			if genErr != nil || closeErr != nil {
				return errors.Join(genErr, closeErr)
			}

			a.status(cmd.ErrOrStderr(), color.FgGreen, "wrote %s lines from %s files",
				humanize.Comma(int64(stats.Lines)), humanize.Comma(int64(stats.Files)))

			if stats.Skipped > 0 {
				a.status(cmd.ErrOrStderr(), color.FgYellow, "skipped %s vendored or binary files",
					humanize.Comma(int64(stats.Skipped)))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, renderOutputFlag, renderOutputShort, stdoutPath, "output CSV file (- for stdout)")
	cmd.Flags().StringVar(&revision, "rev", "", "revision to blame (default HEAD)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "only include files under this path")
	cmd.Flags().BoolVar(&languages, "languages", false, "tag lines with the detected language instead of the file extension")

	return cmd
}
