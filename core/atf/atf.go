// Package atf is the entry point for parsing, checking and serializing ATF.
//
// Every call owns its own lexer and parser, so any number of goroutines may
// parse different inputs at once. A parsed Document is not modified by the
// serializer and may be shared for reading.
package atf

import (
	"bufio"
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/atfkit/core/atf/model"
	"github.com/FocuswithJustin/atfkit/core/atf/parser"
	"github.com/FocuswithJustin/atfkit/core/cas"
	"github.com/FocuswithJustin/atfkit/core/encoding"
	"github.com/FocuswithJustin/atfkit/core/errors"
)

// Parse parses decoded ATF text. The Result always carries a Document.
func Parse(src string) *parser.Result {
	return parser.Parse(src)
}

// ParseBytes decodes raw input with encoding.Decode and parses it.
func ParseBytes(data []byte) (*parser.Result, error) {
	src, err := encoding.Decode(data)
	if err != nil {
		return nil, err
	}
	return parser.Parse(src), nil
}

// Serialize returns the canonical ATF of doc.
func Serialize(doc *model.Document) string {
	return model.SerializeDocument(doc)
}

// SerializeParallel serializes the Texts of doc concurrently. The output is
// identical to Serialize. At most limit Texts are serialized at once; a
// limit below one means no limit.
func SerializeParallel(ctx context.Context, doc *model.Document, limit int) (string, error) {
	texts := doc.Texts[model.LeadingEmpty(doc):]
	parts := make([]string, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, t := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = model.SerializeTextAt(t, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(parts, "\n"), nil
}

// CheckReport is the outcome of Check.
type CheckReport struct {
	Diagnostics errors.Diagnostics `json:"diagnostics"`
	Canonical   string             `json:"-"`
	// Stable is false when serializing the reparsed canonical form gives a
	// different text.
	Stable      bool            `json:"stable"`
	Fingerprint cas.Fingerprint `json:"fingerprint"`
	Stats       model.Stats     `json:"stats"`
}

// Failed reports whether any diagnostic is at least as severe as threshold.
func (r *CheckReport) Failed(threshold errors.Severity) bool {
	if !r.Stable {
		return true
	}
	return len(r.Diagnostics.AtLeast(threshold)) > 0
}

// Check parses src, reports repeated text codes and verifies that its
// canonical form is a fixed point of parse and serialize.
func Check(src string) *CheckReport {
	return CheckResult(parser.Parse(src))
}

// CheckResult is Check for a source that was already parsed. res is not
// modified.
func CheckResult(res *parser.Result) *CheckReport {
	diags := append(errors.Diagnostics{}, res.Diagnostics...)
	diags = append(diags, model.DuplicateCodes(res.Document)...)
	diags.Sort()

	canonical := model.SerializeDocument(res.Document)
	again := model.SerializeDocument(parser.Parse(canonical).Document)
	return &CheckReport{
		Diagnostics: diags,
		Canonical:   canonical,
		Stable:      again == canonical,
		Fingerprint: cas.SumString(canonical),
		Stats:       res.Document.Stats(),
	}
}

// DetectResult says whether input looks like ATF.
type DetectResult struct {
	Detected bool   `json:"detected"`
	Reason   string `json:"reason"`
}

// Detect inspects the first non-blank, non-comment line of data. ATF files
// start with a text header, a protocol line or a structure line.
func Detect(data []byte) DetectResult {
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = strings.TrimPrefix(line, "\ufeff")
		if line == "" || strings.HasPrefix(line, "# ") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "&"):
			return DetectResult{Detected: true, Reason: "text header"}
		case strings.HasPrefix(line, "#atf:"), strings.HasPrefix(line, "#project:"):
			return DetectResult{Detected: true, Reason: "protocol line"}
		case strings.HasPrefix(line, "@"):
			return DetectResult{Detected: true, Reason: "structure line"}
		}
		return DetectResult{Reason: "first line is not an ATF header"}
	}
	return DetectResult{Reason: "no content"}
}
