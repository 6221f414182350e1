// Package gitlog produces per-line code change logs from a git repository by
// blaming every file of a revision.
package gitlog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/locmeta/internal/loclog"
)

// Output layouts of the date, time, timezone and datetime columns.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	TimezoneLayout = "-07:00"
	DatetimeLayout = "2006-01-02T15:04:05-07:00"
)

const fallbackType = "other"

// ErrNoFiles is returned when no file of the revision could be blamed.
var ErrNoFiles = errors.New("no blameable files at revision")

// Stats summarises a generation run.
type Stats struct {
	Files   int
	Skipped int
	Lines   int
}

type options struct {
	logger    *slog.Logger
	revision  string
	languages bool
	prefix    string
}

// Option configures Generate.
type Option func(*options)

// WithLogger sets the logger for per-file diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRevision blames the given revision instead of HEAD.
func WithRevision(rev string) Option {
	return func(o *options) { o.revision = rev }
}

// WithLanguageTypes tags lines with the detected language name instead of
// the file extension.
func WithLanguageTypes(enabled bool) Option {
	return func(o *options) { o.languages = enabled }
}

// WithPathPrefix restricts the log to files under prefix.
func WithPathPrefix(prefix string) Option {
	return func(o *options) { o.prefix = strings.TrimPrefix(prefix, "./") }
}

// Generate blames every text file of the repository at repoPath and writes
// one log row per line to w. Vendored and binary files are skipped.
func Generate(ctx context.Context, repoPath string, w io.Writer, opts ...Option) (Stats, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Stats{}, fmt.Errorf("open repository %s: %w", repoPath, err)
	}

	commit, err := resolve(repo, o.revision)
	if err != nil {
		return Stats{}, err
	}

	files, err := commit.Files()
	if err != nil {
		return Stats{}, fmt.Errorf("list files: %w", err)
	}
	defer files.Close()

	out := csv.NewWriter(w)

	err = out.Write(loclog.Columns)
	if err != nil {
		return Stats{}, fmt.Errorf("write header: %w", err)
	}

	var stats Stats

	err = files.ForEach(func(f *object.File) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !o.wants(f) {
			stats.Skipped++

			return nil
		}

		n, blameErr := blameFile(commit, f, o, out)
		if blameErr != nil {
			o.logger.DebugContext(ctx, "skipping file", "file", f.Name, "error", blameErr)

			stats.Skipped++

			return nil
		}

		stats.Files++
		stats.Lines += n

		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("blame files: %w", err)
	}

	out.Flush()

	err = out.Error()
	if err != nil {
		return stats, fmt.Errorf("write log: %w", err)
	}

	if stats.Files == 0 {
		return stats, ErrNoFiles
	}

	o.logger.InfoContext(ctx, "log generated",
		"revision", commit.Hash.String(), "files", stats.Files, "skipped", stats.Skipped, "lines", stats.Lines)

	return stats, nil
}

func resolve(repo *git.Repository, rev string) (*object.Commit, error) {
	var hash plumbing.Hash

	if rev == "" {
		head, err := repo.Head()
		if err != nil {
			return nil, fmt.Errorf("resolve HEAD: %w", err)
		}

		hash = head.Hash()
	} else {
		h, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", rev, err)
		}

		hash = *h
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}

	return commit, nil
}

func (o options) wants(f *object.File) bool {
	if o.prefix != "" && !strings.HasPrefix(f.Name, o.prefix) {
		return false
	}

	if enry.IsVendor(f.Name) {
		return false
	}

	binary, err := f.IsBinary()

	return err == nil && !binary
}

func blameFile(commit *object.Commit, f *object.File, o options, out *csv.Writer) (int, error) {
	result, err := git.Blame(commit, f.Name)
	if err != nil {
		return 0, fmt.Errorf("blame %s: %w", f.Name, err)
	}

	fileType, err := o.fileType(f)
	if err != nil {
		return 0, err
	}

	depth := strconv.Itoa(strings.Count(f.Name, "/"))

	for i, line := range result.Lines {
		when := line.Date

		err = out.Write([]string{
			line.Hash.String(),
			f.Name,
			strconv.Itoa(i + 1),
			depth,
			strconv.Itoa(len(line.Text)),
			fileType,
			line.AuthorName,
			when.Format(DateLayout),
			when.Format(TimeLayout),
			when.Format(TimezoneLayout),
			when.Format(DatetimeLayout),
		})
		if err != nil {
			return i, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	return len(result.Lines), nil
}

// fileType is the extension without its dot, or the enry language when
// requested or when the file has no extension.
func (o options) fileType(f *object.File) (string, error) {
	ext := strings.TrimPrefix(path.Ext(f.Name), ".")
	if ext != "" && !o.languages {
		return strings.ToLower(ext), nil
	}

	lang := enry.GetLanguage(path.Base(f.Name), nil)
	if lang == "" {
		contents, err := f.Contents()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f.Name, err)
		}

		lang = enry.GetLanguage(path.Base(f.Name), []byte(contents))
	}

	if lang == "" {
		if ext != "" {
			return strings.ToLower(ext), nil
		}

		return fallbackType, nil
	}

	return strings.ToLower(lang), nil
}
