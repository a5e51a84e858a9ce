// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package rewrite replaces license headers of files in a project tree.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go4org/hashtriemap"

	"go.astrophena.name/relicense/config"
	"go.astrophena.name/relicense/header"
	"go.astrophena.name/relicense/logger"
)

// ErrDecode is returned for files that are not valid UTF-8 text.
var ErrDecode = errors.New("not valid UTF-8 text")

// Status is the outcome of processing a single file.
type Status int

const (
	// Skipped files have an extension without a classification. They are
	// not counted as processed.
	Skipped Status = iota
	// Unchanged files already carry the right header.
	Unchanged
	// Updated files got a new header.
	Updated
	// Failed files could not be read, decoded or written.
	Failed
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Unchanged:
		return "unchanged"
	case Updated:
		return "updated"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result describes what happened to a file.
type Result struct {
	Path   string
	Status Status
	// HeaderFound is true if an existing header was replaced rather than
	// a new one added.
	HeaderFound bool
	// Err is set for Failed results.
	Err error
}

// Rewriter rewrites headers according to a configuration.
//
// Process and Transform may be called from multiple goroutines; rendered
// headers are shared between them. Walk itself visits files one at a time.
type Rewriter struct {
	// DryRun reports what would change without writing files.
	DryRun bool

	cfg     *config.Config
	rules   header.Rules
	notice  header.Notice
	headers hashtriemap.HashTrieMap[string, string] // extension → rendered header
}

// New returns a Rewriter that uses cfg, which must be valid.
func New(cfg *config.Config) *Rewriter {
	return &Rewriter{
		cfg:    cfg,
		rules:  cfg.Rules(),
		notice: cfg.Notice(),
	}
}

// Transform returns content with its header replaced, and whether an
// existing header was found.
func (r *Rewriter) Transform(content string, ext string, c header.Classification) (out string, found bool) {
	body, directive := r.rules.Strip(content, c)
	return directive + r.header(ext, c) + body, r.rules.Detect(content, c)
}

func (r *Rewriter) header(ext string, c header.Classification) string {
	if h, ok := r.headers.Load(ext); ok {
		return h
	}
	h, _ := r.headers.LoadOrStore(ext, header.Render(c, r.notice))
	return h
}

// Process rewrites the header of the file at path.
func (r *Rewriter) Process(ctx context.Context, path string) Result {
	res := Result{Path: path}

	c, ok := r.cfg.Classify(path)
	if !ok {
		logger.Debug(ctx, "skipping file with unknown extension", slog.String("path", path))
		return res
	}

	fail := func(err error) Result {
		res.Status, res.Err = Failed, err
		logger.Debug(ctx, "processing failed", slog.String("path", path), slog.Any("err", err))
		return res
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("reading: %w", err))
	}
	if !utf8.Valid(b) {
		return fail(ErrDecode)
	}
	content := string(b)

	out, found := r.Transform(content, strings.ToLower(filepath.Ext(path)), c)
	res.HeaderFound = found
	if out == content {
		res.Status = Unchanged
		return res
	}

	res.Status = Updated
	if r.DryRun {
		return res
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fail(fmt.Errorf("writing: %w", err))
	}
	logger.Debug(ctx, "rewrote header", slog.String("path", path), slog.Bool("replaced", found))
	return res
}

// Summary counts the results of a walk.
type Summary struct {
	// Processed counts files with a known extension.
	Processed int
	Added     int
	Replaced  int
	Unchanged int
	Failed    int
}

// Updated returns the number of files that got a new header.
func (s Summary) Updated() int { return s.Added + s.Replaced }

func (s *Summary) add(res Result) {
	if res.Status == Skipped {
		return
	}
	s.Processed++
	switch res.Status {
	case Unchanged:
		s.Unchanged++
	case Updated:
		if res.HeaderFound {
			s.Replaced++
		} else {
			s.Added++
		}
	case Failed:
		s.Failed++
	}
}

// Walk processes every file under root, one at a time, calling report with
// each result except skipped ones. Ignored directories are not descended
// into and excluded files are not processed.
//
// Only failing to read root itself, or ctx being canceled, stops the walk.
func (r *Rewriter) Walk(ctx context.Context, root string, report func(Result)) (Summary, error) {
	var sum Summary
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			res, counted := r.walkFailure(ctx, path, d, err)
			if counted {
				sum.add(res)
			}
			report(res)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && r.cfg.IsIgnoredDir(d.Name()) {
				logger.Debug(ctx, "pruning ignored directory", slog.String("path", path))
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if rel, err := filepath.Rel(root, path); err == nil && r.cfg.IsExcluded(rel) {
			logger.Debug(ctx, "skipping excluded file", slog.String("path", path))
			return nil
		}

		res := r.Process(ctx, path)
		if res.Status != Skipped {
			sum.add(res)
			report(res)
		}
		return nil
	})
	return sum, err
}

// walkFailure turns an error met below the root into a Failed result. Only
// files that would have been processed count toward the summary.
func (r *Rewriter) walkFailure(ctx context.Context, path string, d fs.DirEntry, err error) (res Result, counted bool) {
	logger.Debug(ctx, "walking failed", slog.String("path", path), slog.Any("err", err))
	res = Result{Path: path, Status: Failed, Err: err}
	if d != nil && d.IsDir() {
		return res, false
	}
	_, counted = r.cfg.Classify(path)
	return res, counted
}
