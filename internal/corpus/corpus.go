// Package corpus checks and normalizes many ATF files at once.
//
// Files are parsed on a bounded worker pool. Each file is decoded, parsed
// (through an optional parse cache), checked for a stable canonical form
// and fingerprinted. The canonical text can be stored in a content
// addressed store and written to an output directory.
package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/atfkit/core/atf"
	"github.com/FocuswithJustin/atfkit/core/atf/parser"
	"github.com/FocuswithJustin/atfkit/core/cache"
	"github.com/FocuswithJustin/atfkit/core/cas"
	"github.com/FocuswithJustin/atfkit/core/encoding"
	"github.com/FocuswithJustin/atfkit/core/errors"
	"github.com/FocuswithJustin/atfkit/internal/fileio"
	"github.com/FocuswithJustin/atfkit/internal/logging"
)

// Status summarizes the outcome for one file.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarnings Status = "warnings"
	StatusFailed   Status = "failed"
	StatusError    Status = "error"
)

// Options configures Process.
type Options struct {
	// Workers bounds the number of files processed at once.
	Workers int

	// Cache memoizes parse results; nil disables caching.
	Cache *cache.ParseCache

	// Store receives the canonical text of every file; nil disables it.
	Store *cas.Store

	// OutDir receives the canonical text of every file that has no
	// error-severity diagnostic, under its base name.
	OutDir string

	// Compression applies to files written to OutDir.
	Compression fileio.Compression

	// FailOn is the severity at which a file counts as failed.
	FailOn errors.Severity
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path        string             `json:"path"`
	Status      Status             `json:"status"`
	Charset     encoding.Charset   `json:"charset,omitempty"`
	Bytes       int                `json:"bytes"`
	Texts       int                `json:"texts"`
	Lines       int                `json:"lines"`
	Diagnostics errors.Diagnostics `json:"diagnostics,omitempty"`
	Stable      bool               `json:"stable"`
	Fingerprint cas.Fingerprint    `json:"fingerprint"`
	Cached      bool               `json:"cached,omitempty"`
	Output      string             `json:"output,omitempty"`
	Error       string             `json:"error,omitempty"`
	Duration    time.Duration      `json:"duration"`
}

// Totals aggregates a Report.
type Totals struct {
	Files    int   `json:"files"`
	Bytes    int64 `json:"bytes"`
	Texts    int   `json:"texts"`
	Lines    int   `json:"lines"`
	Errors   int   `json:"errors"`
	Warnings int   `json:"warnings"`
	Failed   int   `json:"failed"`
	Cached   int   `json:"cached"`
}

// Report is the outcome of one Process run.
type Report struct {
	RunID    string       `json:"run_id"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Workers  int          `json:"workers"`
	Files    []FileResult `json:"files"`
	Totals   Totals       `json:"totals"`
	// Cache is set when Options.Cache was given.
	Cache *cache.Stats `json:"cache,omitempty"`
}

// Failed reports whether any file failed.
func (r *Report) Failed() bool {
	return r.Totals.Failed > 0
}

type job struct {
	index int
	path  string

	// output is where the canonical text goes; empty when OutDir is unset.
	output string
	// owner is the earlier input that already claimed output.
	owner string
}

type result struct {
	index int
	file  FileResult
}

// Process expands directories in paths to the ATF files below them and
// processes every file. Files are reported in sorted path order. The error
// is non-nil only when paths cannot be expanded; per-file problems are
// recorded in the Report.
func Process(ctx context.Context, paths []string, opts Options) (*Report, error) {
	files, err := fileio.ExpandSources(paths)
	if err != nil {
		return nil, err
	}
	jobs := planOutputs(files, opts)

	report := &Report{
		RunID:   uuid.New().String(),
		Started: time.Now(),
		Files:   make([]FileResult, len(files)),
	}
	ctx = logging.WithRunID(ctx, report.RunID)

	pool := NewWorkerPool[job, result](opts.Workers, len(files))
	report.Workers = pool.Workers()
	logging.BatchEvent(ctx, "start", len(files), report.Workers)

	pool.Start(ctx, func(ctx context.Context, j job) result {
		return result{index: j.index, file: processFile(ctx, j, opts)}
	})
	for _, j := range jobs {
		pool.Submit(j)
	}
	pool.Close()
	for r := range pool.Results() {
		report.Files[r.index] = r.file
	}

	report.Finished = time.Now()
	report.Totals = total(report.Files)
	if opts.Cache != nil {
		stats := opts.Cache.Stats()
		report.Cache = &stats
	}
	logging.BatchEvent(ctx, "done", len(files), report.Workers,
		"failed", report.Totals.Failed,
		"duration_ms", report.Finished.Sub(report.Started).Milliseconds(),
	)
	return report, nil
}

// planOutputs assigns every file its output path under opts.OutDir. Files
// are kept at their path relative to the directory they were found under;
// a file whose output is already claimed records the claiming input.
func planOutputs(files []fileio.Source, opts Options) []job {
	jobs := make([]job, len(files))
	owners := map[string]string{}
	for i, f := range files {
		jobs[i] = job{index: i, path: f.Path}
		if opts.OutDir == "" {
			continue
		}
		out := OutputPath(opts.OutDir, f.Rel, opts.Compression)
		if owner, ok := owners[out]; ok {
			jobs[i].owner = owner
			continue
		}
		owners[out] = f.Path
		jobs[i].output = out
	}
	return jobs
}

func processFile(ctx context.Context, j job, opts Options) FileResult {
	path := j.path
	start := time.Now()
	fr := FileResult{Path: path}
	fail := func(op string, err error) FileResult {
		logging.FileError(ctx, path, op, err)
		fr.Status = StatusError
		fr.Error = err.Error()
		fr.Duration = time.Since(start)
		return fr
	}
	if err := ctx.Err(); err != nil {
		return fail("process", err)
	}

	data, err := fileio.ReadFile(path)
	if err != nil {
		return fail("read", err)
	}
	fr.Bytes = len(data)
	src, charset, err := encoding.DecodeCharset(data)
	if err != nil {
		return fail("decode", err)
	}
	fr.Charset = charset

	var res *parser.Result
	if opts.Cache != nil {
		res, fr.Cached = opts.Cache.Parse(src)
		if fr.Cached {
			logging.DebugContext(ctx, "atf_cache_hit", "path", path)
		}
	} else {
		res = parser.Parse(src)
	}
	check := atf.CheckResult(res)
	fr.Texts = check.Stats.Texts
	fr.Lines = check.Stats.Lines
	fr.Diagnostics = check.Diagnostics
	fr.Stable = check.Stable
	fr.Fingerprint = check.Fingerprint
	for _, d := range check.Diagnostics {
		logging.DiagnosticEvent(ctx, path, d)
	}

	switch {
	case check.Failed(opts.FailOn):
		fr.Status = StatusFailed
	case len(check.Diagnostics) > 0:
		fr.Status = StatusWarnings
	default:
		fr.Status = StatusOK
	}

	if opts.Store != nil {
		if _, err := opts.Store.Put([]byte(check.Canonical)); err != nil {
			return fail("store", err)
		}
	}
	if j.owner != "" {
		return fail("write", errors.NewValidation("output",
			fmt.Sprintf("output name already used by %s", j.owner)))
	}
	if j.output != "" && len(check.Diagnostics.AtLeast(errors.SeverityError)) == 0 {
		if err := fileio.WriteFile(j.output, []byte(check.Canonical), opts.Compression); err != nil {
			return fail("write", err)
		}
		fr.Output = j.output
	}

	fr.Duration = time.Since(start)
	logging.ParseEvent(ctx, path, fr.Texts, len(fr.Diagnostics), fr.Duration, "cached", fr.Cached)
	return fr
}

// OutputPath maps the relative path of an input file to its name under
// dir: any .xz or .gz suffix is replaced by the one for c.
func OutputPath(dir, rel string, c fileio.Compression) string {
	base := filepath.Clean(rel)
	for _, ext := range []string{".xz", ".gz"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			base = base[:len(base)-len(ext)]
		}
	}
	return filepath.Join(dir, base+c.Extension())
}

func total(files []FileResult) Totals {
	t := Totals{Files: len(files)}
	for _, f := range files {
		t.Bytes += int64(f.Bytes)
		t.Texts += f.Texts
		t.Lines += f.Lines
		t.Errors += len(f.Diagnostics.AtLeast(errors.SeverityError))
		t.Warnings += len(f.Diagnostics) - len(f.Diagnostics.AtLeast(errors.SeverityError))
		if f.Status == StatusFailed || f.Status == StatusError {
			t.Failed++
		}
		if f.Cached {
			t.Cached++
		}
	}
	return t
}
