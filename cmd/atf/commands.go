package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/atfkit/core/atf"
	"github.com/FocuswithJustin/atfkit/core/atf/lexer"
	"github.com/FocuswithJustin/atfkit/core/atf/model"
	"github.com/FocuswithJustin/atfkit/core/cache"
	"github.com/FocuswithJustin/atfkit/core/cas"
	"github.com/FocuswithJustin/atfkit/core/encoding"
	atferrors "github.com/FocuswithJustin/atfkit/core/errors"
	"github.com/FocuswithJustin/atfkit/core/xml"
	"github.com/FocuswithJustin/atfkit/internal/corpus"
	"github.com/FocuswithJustin/atfkit/internal/fileio"
	"github.com/FocuswithJustin/atfkit/internal/logging"
)

// readSource reads and decodes a file, or stdin for "-".
func readSource(env *Env, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return "", atferrors.NewIO("read", "stdin", err)
		}
		data, err = fileio.Decompress(data)
		if err != nil {
			return "", atferrors.NewIO("decompress", "stdin", err)
		}
		return encoding.Decode(data)
	}
	return fileio.ReadSource(path)
}

// failOn resolves a --fail-on flag, falling back to the configuration.
func failOn(env *Env, flag string) (atferrors.Severity, error) {
	if flag == "" {
		flag = env.Config.Check.FailOn
	}
	return atferrors.ParseSeverity(flag)
}

// compression resolves a --compress flag, falling back to the
// configuration.
func compression(env *Env, flag string) (fileio.Compression, error) {
	if flag == "" {
		flag = env.Config.Output.Compress
	}
	return fileio.ParseCompression(flag)
}

func printDiagnostics(w io.Writer, source string, diags atferrors.Diagnostics) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s:%s: %s %s: %s", source, d.Pos, d.Severity, d.Kind, d.Message)
		if len(d.Expected) > 0 {
			fmt.Fprintf(w, " (expected %s)", strings.Join(d.Expected, ", "))
		}
		fmt.Fprintln(w)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ParseCmd prints the document tree.
type ParseCmd struct {
	Path string `arg:"" default:"-" help:"ATF file, or - for stdin"`
}

func (c *ParseCmd) Run(env *Env) error {
	src, err := readSource(env, c.Path)
	if err != nil {
		return err
	}
	start := time.Now()
	res := atf.Parse(src)
	logging.ParseEvent(env.Ctx, c.Path, len(res.Document.Texts), len(res.Diagnostics), time.Since(start))
	return writeJSON(env.Stdout, struct {
		Document    *model.Document       `json:"document"`
		Diagnostics atferrors.Diagnostics `json:"diagnostics"`
	}{res.Document, res.Diagnostics})
}

// FmtCmd prints or rewrites files in canonical form.
type FmtCmd struct {
	Paths    []string `arg:"" default:"-" help:"ATF files, or - for stdin"`
	Write    bool     `short:"w" help:"Rewrite files in place instead of printing"`
	Compress string   `help:"Compression for rewritten files: none, xz, gzip (default: keep)"`
	Jobs     int      `short:"j" default:"0" help:"Texts serialized in parallel (0 = all)"`
}

func (c *FmtCmd) Run(env *Env) error {
	failed := false
	for _, path := range c.Paths {
		src, err := readSource(env, path)
		if err != nil {
			return err
		}
		res := atf.Parse(src)
		if errs := res.Diagnostics.AtLeast(atferrors.SeverityError); len(errs) > 0 {
			printDiagnostics(env.Stderr, path, errs)
			logging.WarnContext(env.Ctx, "atf_fmt_skipped", "path", path, "errors", len(errs))
			failed = true
			continue
		}
		out, err := atf.SerializeParallel(env.Ctx, res.Document, c.Jobs)
		if err != nil {
			return err
		}
		if !c.Write || path == "-" {
			if _, err := io.WriteString(env.Stdout, out); err != nil {
				return err
			}
			continue
		}
		comp := fileio.CompressionForPath(path)
		if c.Compress != "" {
			if comp, err = fileio.ParseCompression(c.Compress); err != nil {
				return err
			}
		}
		if err := fileio.WriteFile(path, []byte(out), comp); err != nil {
			return err
		}
		logging.InfoContext(env.Ctx, "atf_fmt", "path", path, "compression", string(comp), "bytes", len(out))
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

// CheckCmd reports diagnostics for each file.
type CheckCmd struct {
	Paths  []string `arg:"" default:"-" help:"ATF files, or - for stdin"`
	FailOn string   `name:"fail-on" help:"Lowest severity that fails the check: error, warning, info"`
	JSON   bool     `help:"Print reports as JSON"`
}

type checkOutput struct {
	Path string `json:"path"`
	*atf.CheckReport
}

func (c *CheckCmd) Run(env *Env) error {
	threshold, err := failOn(env, c.FailOn)
	if err != nil {
		return err
	}
	var reports []checkOutput
	failed := false
	for _, path := range c.Paths {
		src, err := readSource(env, path)
		if err != nil {
			return err
		}
		r := atf.Check(src)
		if r.Failed(threshold) {
			failed = true
		}
		if c.JSON {
			reports = append(reports, checkOutput{Path: path, CheckReport: r})
			continue
		}
		printDiagnostics(env.Stdout, path, r.Diagnostics)
		status := "ok"
		switch {
		case !r.Stable:
			status = "unstable"
		case r.Failed(threshold):
			status = "failed"
		}
		fmt.Fprintf(env.Stdout, "%s: %s, %s, %s, %s\n",
			path, status,
			plural(r.Stats.Texts, "text"),
			plural(r.Stats.Lines, "line"),
			r.Fingerprint.Short(),
		)
	}
	if c.JSON {
		if err := writeJSON(env.Stdout, reports); err != nil {
			return err
		}
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return humanize.Comma(int64(n)) + " " + word + "s"
}

// TokensCmd prints the lexer's token stream.
type TokensCmd struct {
	Path string `arg:"" default:"-" help:"ATF file, or - for stdin"`
}

func (c *TokensCmd) Run(env *Env) error {
	src, err := readSource(env, c.Path)
	if err != nil {
		return err
	}
	for _, tok := range lexer.Tokenize(src) {
		if tok.Value == "" {
			fmt.Fprintf(env.Stdout, "%s\t%s\n", tok.Pos, tok.Type)
			continue
		}
		fmt.Fprintf(env.Stdout, "%s\t%s\t%q\n", tok.Pos, tok.Type, tok.Value)
	}
	return nil
}

// XMLCmd exports a file as XML.
type XMLCmd struct {
	Path    string `arg:"" default:"-" help:"ATF file, or - for stdin"`
	Output  string `short:"o" help:"Output file (default: stdout)" type:"path"`
	Indent  string `default:"  " help:"Indentation string"`
	Compact bool   `help:"Write the export on one line"`
}

func (c *XMLCmd) Run(env *Env) error {
	doc, err := exportXML(env, c.Path)
	if err != nil {
		return err
	}
	var out []byte
	if c.Compact {
		out = append(doc.Serialize(), '\n')
	} else if out, err = doc.Format(xml.FormatOptions{Indent: c.Indent}); err != nil {
		return err
	}
	if c.Output == "" {
		_, err = env.Stdout.Write(out)
		return err
	}
	comp := fileio.CompressionForPath(c.Output)
	if err := fileio.WriteFile(c.Output, out, comp); err != nil {
		return err
	}
	logging.InfoContext(env.Ctx, "atf_xml", "path", c.Output, "compression", string(comp), "bytes", len(out))
	return nil
}

func exportXML(env *Env, path string) (*xml.Document, error) {
	src, err := readSource(env, path)
	if err != nil {
		return nil, err
	}
	res := atf.Parse(src)
	printDiagnostics(env.Stderr, path, res.Diagnostics)
	doc, err := xml.FromDocument(res.Document)
	if err != nil {
		return nil, atferrors.Wrapf(err, "export %s", path)
	}
	return doc, nil
}

// QueryCmd evaluates XPath against the XML export.
type QueryCmd struct {
	Expr  string `arg:"" help:"XPath expression, e.g. //l[@n=\"1\"] or count(//w)"`
	Path  string `arg:"" default:"-" help:"ATF file, or - for stdin"`
	Nodes bool   `short:"n" help:"Print each matched node as name, attributes and text"`
}

func (c *QueryCmd) Run(env *Env) error {
	doc, err := exportXML(env, c.Path)
	if err != nil {
		return err
	}
	if c.Nodes {
		nodes, err := doc.XPath(c.Expr)
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			return atferrors.NewNotFound("xpath match", c.Expr)
		}
		for _, n := range nodes {
			fmt.Fprintln(env.Stdout, n.Summary())
		}
		return nil
	}
	v, err := doc.Evaluate(c.Expr)
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case []string:
		if len(v) == 0 {
			return atferrors.NewNotFound("xpath match", c.Expr)
		}
		for _, s := range v {
			fmt.Fprintln(env.Stdout, s)
		}
	case float64:
		fmt.Fprintln(env.Stdout, humanize.Ftoa(v))
	default:
		fmt.Fprintln(env.Stdout, v)
	}
	return nil
}

// BatchCmd processes many files on a worker pool.
type BatchCmd struct {
	Paths    []string `arg:"" help:"ATF files or directories" type:"path"`
	Workers  int      `short:"j" help:"Parallel workers (default from config)"`
	OutDir   string   `name:"out-dir" short:"o" help:"Write canonical files to this directory" type:"path"`
	Compress string   `help:"Compression for written files: none, xz, gzip"`
	Store    string   `help:"Content-addressed store for canonical texts" type:"path"`
	FailOn   string   `name:"fail-on" help:"Lowest severity that fails a file"`
	JSON     bool     `help:"Print the report as JSON"`
}

func (c *BatchCmd) Run(env *Env) error {
	threshold, err := failOn(env, c.FailOn)
	if err != nil {
		return err
	}
	comp, err := compression(env, c.Compress)
	if err != nil {
		return err
	}
	opts := corpus.Options{
		Workers:     env.Config.Batch.Workers,
		OutDir:      c.OutDir,
		Compression: comp,
		FailOn:      threshold,
	}
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	if n := env.Config.Batch.CacheSize; n > 0 {
		cfg := cache.DefaultConfig()
		cfg.MaxSize = n
		opts.Cache = cache.NewParseCache(cfg)
	}
	if c.Store != "" {
		if opts.Store, err = cas.NewStore(c.Store); err != nil {
			return err
		}
	}

	report, err := corpus.Process(env.Ctx, c.Paths, opts)
	if err != nil {
		return err
	}
	if c.JSON {
		if err := writeJSON(env.Stdout, report); err != nil {
			return err
		}
	} else {
		printReport(env.Stdout, report)
	}
	if report.Failed() {
		return errCheckFailed
	}
	return nil
}

func printReport(w io.Writer, r *corpus.Report) {
	for _, f := range r.Files {
		printDiagnostics(w, f.Path, f.Diagnostics)
		if f.Error != "" {
			fmt.Fprintf(w, "%s: %s: %s\n", f.Path, f.Status, f.Error)
			continue
		}
		fmt.Fprintf(w, "%s: %s, %s, %s\n", f.Path, f.Status, humanize.Bytes(uint64(f.Bytes)), f.Fingerprint.Short())
	}
	t := r.Totals
	fmt.Fprintf(w, "%s in %s (%s, %s), %d failed, %d errors, %d warnings, %s with %d workers\n",
		plural(t.Files, "file"),
		humanize.Bytes(uint64(t.Bytes)),
		plural(t.Texts, "text"),
		plural(t.Lines, "line"),
		t.Failed, t.Errors, t.Warnings,
		r.Finished.Sub(r.Started).Round(time.Millisecond),
		r.Workers,
	)
	if c := r.Cache; c != nil {
		fmt.Fprintf(w, "parse cache: %d hits, %d misses (%.0f%% hit rate), %d evictions\n",
			c.Hits, c.Misses, 100*c.HitRate(), c.Evictions)
	}
	fmt.Fprintf(w, "run %s\n", r.RunID)
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	fmt.Fprintf(env.Stdout, "atf version %s\n", version)
	return nil
}
