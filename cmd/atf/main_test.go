package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FocuswithJustin/atfkit/core/atf"
	"github.com/FocuswithJustin/atfkit/internal/fileio"
)

const tablet = "&X001001 = JCS 48, 089\n#atf: lang akk\n@obverse\n1. a-na  {d}utu\n#lem: ana[to]PRP; Šamaš[1]DN\n2. szu\n"

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := fileio.WriteFile(path, []byte(body), fileio.CompressionForPath(path)); err != nil {
		t.Fatal(err)
	}
	return path
}

func canonical(src string) string {
	return atf.Serialize(atf.Parse(src).Document)
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "", "version")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if want := "atf version " + version + "\n"; out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"unknown flag", []string{"check", "--nope"}},
		{"missing config", []string{"-c", "/does/not/exist.toml", "version"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			if code != 2 {
				t.Errorf("exit = %d, want 2", code)
			}
			if stderr == "" {
				t.Error("stderr is empty")
			}
		})
	}
}

func TestHelp(t *testing.T) {
	code, out, _ := runCLI(t, "", "--help")
	if code != 0 {
		t.Errorf("exit = %d, want 0", code)
	}
	for _, cmd := range []string{"parse", "fmt", "check", "tokens", "xml", "query", "batch"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("help does not mention %q", cmd)
		}
	}
}

func TestParseCommand(t *testing.T) {
	code, out, _ := runCLI(t, tablet, "parse")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	var got struct {
		Document struct {
			Texts []struct {
				Code string `json:"code"`
			} `json:"texts"`
		} `json:"document"`
		Diagnostics []json.RawMessage `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(got.Document.Texts) != 1 || got.Document.Texts[0].Code != "X001001" {
		t.Errorf("texts = %+v, want one text X001001", got.Document.Texts)
	}
	if len(got.Diagnostics) != 0 {
		t.Errorf("diagnostics = %d, want 0", len(got.Diagnostics))
	}
}

func TestFmtCommand(t *testing.T) {
	code, out, _ := runCLI(t, tablet, "fmt")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if want := canonical(tablet); out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}
}

func TestFmtWrite(t *testing.T) {
	dir := t.TempDir()
	plain := writeFile(t, dir, "a.atf", tablet)
	packed := writeFile(t, dir, "b.atf.xz", tablet)

	code, out, stderr := runCLI(t, "", "fmt", "-w", "-j", "2", plain, packed)
	if code != 0 {
		t.Fatalf("exit = %d, want 0 (stderr %q)", code, stderr)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	for _, path := range []string{plain, packed} {
		got, err := fileio.ReadSource(path)
		if err != nil {
			t.Fatalf("ReadSource(%s) error = %v", path, err)
		}
		if want := canonical(tablet); got != want {
			t.Errorf("%s = %q, want %q", filepath.Base(path), got, want)
		}
	}
	raw, err := os.ReadFile(packed)
	if err != nil {
		t.Fatal(err)
	}
	if c := fileio.DetectCompression(raw); c != fileio.CompressionXZ {
		t.Errorf("compression = %s, want xz", c)
	}
}

func TestFmtRefusesErrors(t *testing.T) {
	dir := t.TempDir()
	src := "&P1 = t\n@nope\n1. a\n"
	path := writeFile(t, dir, "bad.atf", src)

	code, _, stderr := runCLI(t, "", "fmt", "-w", path)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(stderr, "bad.atf:2") {
		t.Errorf("stderr = %q, want a diagnostic on line 2", stderr)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != src {
		t.Errorf("file was rewritten: %q", got)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "clean.atf", tablet)
	warn := writeFile(t, dir, "warn.atf", "&P1 = t\n@obverse\n1. a\n@translation labeled en project\n@label o 9\nX\n")
	bad := writeFile(t, dir, "bad.atf", "&P1 = t\n@nope\n")

	tests := []struct {
		name string
		args []string
		code int
		want []string
	}{
		{"clean", []string{"check", clean}, 0, []string{"clean.atf: ok, 1 text, 2 lines"}},
		{"warning below threshold", []string{"check", warn}, 0, []string{"warning binding", "warn.atf: ok"}},
		{"warning at threshold", []string{"check", "--fail-on", "warning", warn}, 1, []string{"warn.atf: failed"}},
		{"error", []string{"check", clean, bad}, 1, []string{"clean.atf: ok", "bad.atf:2", "bad.atf: failed"}},
		{"bad threshold", []string{"check", "--fail-on", "fatal", clean}, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runCLI(t, "", tt.args...)
			if code != tt.code {
				t.Errorf("exit = %d, want %d\n%s", code, tt.code, out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("stdout = %q, want it to contain %q", out, w)
				}
			}
		})
	}
}

func TestCheckJSON(t *testing.T) {
	code, out, _ := runCLI(t, tablet, "check", "--json")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	var reports []struct {
		Path        string `json:"path"`
		Stable      bool   `json:"stable"`
		Fingerprint struct {
			BLAKE3 string `json:"blake3"`
		} `json:"fingerprint"`
	}
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(reports) != 1 || reports[0].Path != "-" || !reports[0].Stable {
		t.Fatalf("reports = %+v, want one stable report for stdin", reports)
	}
	if want := atf.Check(tablet).Fingerprint.BLAKE3; reports[0].Fingerprint.BLAKE3 != want {
		t.Errorf("fingerprint = %s, want %s", reports[0].Fingerprint.BLAKE3, want)
	}
}

func TestCheckFailOnFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "atfkit.toml", "[check]\nfail_on = \"warning\"\n")
	warn := writeFile(t, dir, "warn.atf", "&P1 = t\n@obverse\n1. a\n@translation labeled en project\n@label o 9\nX\n")

	if code, _, _ := runCLI(t, "", "-c", cfg, "check", warn); code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if code, _, _ := runCLI(t, "", "-c", cfg, "check", "--fail-on", "error", warn); code != 0 {
		t.Errorf("exit with --fail-on error = %d, want 0", code)
	}
}

func TestTokensCommand(t *testing.T) {
	code, out, _ := runCLI(t, "&P1 = t\n1. a\n", "tokens")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 3 {
		t.Fatalf("tokens = %q, want several lines", out)
	}
	if !strings.HasPrefix(lines[0], "1:1\t") {
		t.Errorf("first token = %q, want position 1:1", lines[0])
	}
	if !strings.Contains(out, `"P1"`) {
		t.Errorf("tokens = %q, want the text code", out)
	}
}

func TestXMLCommand(t *testing.T) {
	dir := t.TempDir()
	code, out, _ := runCLI(t, tablet, "xml")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	for _, w := range []string{"<atf>", `code="X001001"`, `<l n="1">`} {
		if !strings.Contains(out, w) {
			t.Errorf("stdout does not contain %q:\n%s", w, out)
		}
	}

	dest := filepath.Join(dir, "out", "tablet.xml")
	if code, _, _ := runCLI(t, tablet, "xml", "-o", dest); code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != out {
		t.Errorf("file differs from stdout export")
	}

	code, compact, _ := runCLI(t, tablet, "xml", "--compact")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if strings.Count(compact, "\n") != 1 || !strings.HasPrefix(compact, "<atf><text ") {
		t.Errorf("compact export = %q, want one line", compact)
	}
}

func TestQueryCommand(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"count(//l)", "2\n"},
		{`//l[@n="2"]/w/@form`, "szu\n"},
		{"//text/@code", "X001001\n"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			code, out, stderr := runCLI(t, tablet, "query", tt.expr)
			if code != 0 {
				t.Fatalf("exit = %d, want 0 (stderr %q)", code, stderr)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}

	if code, _, _ := runCLI(t, tablet, "query", "//["); code != 2 {
		t.Errorf("invalid expression exit = %d, want 2", code)
	}
	for _, args := range [][]string{{"query", "//missing"}, {"query", "--nodes", "//missing"}} {
		code, _, stderr := runCLI(t, tablet, args...)
		if code != 2 || !strings.Contains(stderr, `xpath match "//missing": not found`) {
			t.Errorf("%v = exit %d, stderr %q, want exit 2 and a not found error", args, code, stderr)
		}
	}
}

func TestQueryNodes(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{`//l[@n="1"]/w[1]`, "w form=\"ana\" gloss=\"to\" pos=\"PRP\"\ta-na\n"},
		{`//l[@n="2"]`, "l n=\"2\"\tszu\n"},
		{"//text/@code", "code\tX001001\n"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			code, out, stderr := runCLI(t, tablet, "query", "-n", tt.expr)
			if code != 0 {
				t.Fatalf("exit = %d, want 0 (stderr %q)", code, stderr)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.atf", tablet)
	writeFile(t, dir, "sub/b.atf.gz", "&P2 = b\n1. b  c\n")
	out := filepath.Join(t.TempDir(), "out")
	store := filepath.Join(t.TempDir(), "store")

	code, stdout, stderr := runCLI(t, "", "batch", "-j", "2", "-o", out, "--compress", "xz", "--store", store, dir)
	if code != 0 {
		t.Fatalf("exit = %d, want 0 (stderr %q)", code, stderr)
	}
	for _, w := range []string{"a.atf: ok", "b.atf.gz: ok", "2 files", "with 2 workers", "parse cache: 0 hits, 2 misses (0% hit rate)", "run "} {
		if !strings.Contains(stdout, w) {
			t.Errorf("stdout = %q, want it to contain %q", stdout, w)
		}
	}
	got, err := fileio.ReadSource(filepath.Join(out, "a.atf.xz"))
	if err != nil {
		t.Fatalf("ReadSource() error = %v", err)
	}
	if want := canonical(tablet); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(store, "blobs", "sha256")); err != nil {
		t.Errorf("store not created: %v", err)
	}
}

func TestBatchJSONFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.atf", "&P1 = t\n@nope\n")

	code, stdout, _ := runCLI(t, "", "batch", "--json", dir)
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	var report struct {
		RunID  string `json:"run_id"`
		Totals struct {
			Files  int `json:"files"`
			Failed int `json:"failed"`
		} `json:"totals"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if report.RunID == "" || report.Totals.Files != 1 || report.Totals.Failed != 1 {
		t.Errorf("report = %+v, want one failed file with a run ID", report)
	}
}

func TestLogFlags(t *testing.T) {
	code, _, stderr := runCLI(t, tablet, "--log-level", "debug", "--log-format", "json", "parse")
	if code != 0 {
		t.Fatalf("exit = %d, want 0", code)
	}
	if !strings.Contains(stderr, `"msg":"atf_parse"`) {
		t.Errorf("stderr = %q, want a JSON atf_parse event", stderr)
	}
	for _, event := range []string{`"msg":"atf_config"`, `"fail_on":"error"`} {
		if !strings.Contains(stderr, event) {
			t.Errorf("stderr = %q, want %s", stderr, event)
		}
	}

	path := writeFile(t, t.TempDir(), "a.atf", tablet)
	code, _, stderr = runCLI(t, "", "--log-level", "info", "--log-format", "json", "fmt", "-w", path)
	if code != 0 {
		t.Fatalf("fmt -w exit = %d, want 0", code)
	}
	if !strings.Contains(stderr, `"msg":"atf_fmt"`) || !strings.Contains(stderr, `"compression":"none"`) {
		t.Errorf("stderr = %q, want an atf_fmt event", stderr)
	}
	if code, _, _ := runCLI(t, "", "--log-level", "loud", "version"); code != 2 {
		t.Errorf("invalid log level exit = %d, want 2", code)
	}
}
