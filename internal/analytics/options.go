package analytics

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Sumatoshi-tech/locmeta/internal/commits"
	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
)

type options struct {
	logger    *slog.Logger
	theme     plotpage.Theme
	dims      scatter.Dimensions
	jitter    scatter.Jitter
	urlPrefix string
	load      []loclog.Option
	metrics   *observability.AnalyticsMetrics
}

func defaultOptions() options {
	return options{
		logger:    slog.Default(),
		theme:     plotpage.ThemeDark,
		dims:      scatter.DefaultDimensions(),
		jitter:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // visual jitter only.
		urlPrefix: commits.DefaultURLPrefix,
	}
}

// Option configures a Context.
type Option func(*options)

// WithLogger sets the logger. It is also passed to the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithTheme sets the chart and page theme.
func WithTheme(theme plotpage.Theme) Option {
	return func(o *options) { o.theme = theme }
}

// WithDimensions sets the plot frame.
func WithDimensions(dims scatter.Dimensions) Option {
	return func(o *options) { o.dims = dims }
}

// WithJitter sets the jitter source for drawn points. Nil draws every
// commit at its true position.
func WithJitter(jitter scatter.Jitter) Option {
	return func(o *options) { o.jitter = jitter }
}

// WithURLPrefix sets the prefix of commit links.
func WithURLPrefix(prefix string) Option {
	return func(o *options) { o.urlPrefix = prefix }
}

// WithLoadOptions passes options through to the loader.
func WithLoadOptions(opts ...loclog.Option) Option {
	return func(o *options) { o.load = append(o.load, opts...) }
}

// WithMetrics records pipeline metrics.
func WithMetrics(metrics *observability.AnalyticsMetrics) Option {
	return func(o *options) { o.metrics = metrics }
}
