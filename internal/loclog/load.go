package loclog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	filePrefix     = "file://"
)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	client  *http.Client
	logger  *slog.Logger
	timeout time.Duration
}

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(client *http.Client) Option {
	return func(o *loadOptions) {
		o.client = client
	}
}

// WithLogger sets the logger for skipped-row diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		o.logger = logger
	}
}

// WithTimeout bounds the single fetch attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(o *loadOptions) {
		o.timeout = timeout
	}
}

// Load fetches and parses the log at source. Sources starting with http://
// or https:// are fetched with a single GET; anything else is read from the
// local filesystem. Every failure is returned as a *LoadError.
func Load(ctx context.Context, source string, opts ...Option) (*Log, error) {
	options := loadOptions{
		client:  http.DefaultClient,
		logger:  slog.Default(),
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(&options)
	}

	if source == "" {
		return nil, newLoadError(source, OpRead, ErrEmptySource)
	}

	body, err := open(ctx, source, options)
	if err != nil {
		return nil, err
	}

	defer body.Close()

	result, err := parse(body, options.logger)
	if err != nil {
		return nil, newLoadError(source, OpParse, err)
	}

	options.logger.DebugContext(ctx, "loaded log",
		"source", source, "records", len(result.Records), "skipped", result.Skipped)

	return result, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func open(ctx context.Context, source string, options loadOptions) (io.ReadCloser, error) {
	if !isRemote(source) {
		f, err := os.Open(strings.TrimPrefix(source, filePrefix))
		if err != nil {
			return nil, newLoadError(source, OpRead, err)
		}

		return f, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, options.timeout)

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, source, http.NoBody)
	if err != nil {
		cancel()

		return nil, newLoadError(source, OpFetch, err)
	}

	resp, err := options.client.Do(req)
	if err != nil {
		cancel()

		return nil, newLoadError(source, OpFetch, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		cancel()

		return nil, newLoadError(source, OpFetch, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status))
	}

	return cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

// cancelOnClose releases the fetch deadline once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser

	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()

	err := c.ReadCloser.Close()
	if err != nil {
		return fmt.Errorf("close body: %w", err)
	}

	return nil
}
