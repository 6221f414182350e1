package commands

import (
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/locmeta/internal/analytics"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/selection"
)

const (
	renderCmdUse      = "render <log>"
	renderCmdShort    = "Render the commit analytics page as standalone HTML"
	renderOutputFlag  = "output"
	renderOutputShort = "o"
	renderRegionFlag  = "region"
	renderThemeFlag   = "theme"
)

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	var (
		output string
		region string
		theme  string
	)

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Long: `Load a line-of-code log (file path or http(s) URL) and write one HTML page
with the summary, the commit scatter plot and the selection breakdown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], output, region, theme)
		},
	}

	cmd.Flags().StringVarP(&output, renderOutputFlag, renderOutputShort, stdoutPath, "output HTML file (- for stdout)")
	cmd.Flags().StringVar(&region, renderRegionFlag, "", "initial selection as x0,y0,x1,y1 in plot pixels")
	cmd.Flags().StringVar(&theme, renderThemeFlag, "", "page theme: dark or light (default from config)")

	return cmd
}

func runRender(cmd *cobra.Command, source, output, regionArg, theme string) error {
	var region *selection.Region

	if regionArg != "" {
		parsed, err := selection.ParseRegion(regionArg)
		if err != nil {
			return err
		}

		region = &parsed
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

	c, renderErr := analytics.RenderPage(cmd.Context(), w, source, region, a.analyticsOptions(theme)...)

	closeErr := closeOut()
	if renderErr != nil || closeErr != nil {
		return errors.Join(renderErr, closeErr)
	}

	if output != stdoutPath && output != "" {
		a.status(cmd.ErrOrStderr(), color.FgGreen, "rendered %s commits (%s lines) to %s",
			humanize.Comma(int64(len(c.Commits))), humanize.Comma(int64(c.Report.TotalLines)), output)
	}

	if c.Report.Skipped > 0 {
		a.status(cmd.ErrOrStderr(), color.FgYellow, "skipped %s malformed rows", humanize.Comma(int64(c.Report.Skipped)))
	}

	return nil
}

// loadContext loads source with the app's analytics options.
func loadContext(cmd *cobra.Command, a *app, source string) (*analytics.Context, error) {
	return analytics.Load(cmd.Context(), source, a.analyticsOptions("")...)
}
