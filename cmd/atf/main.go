// Command atf parses, checks, formats and exports ATF transliterations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/atfkit/internal/config"
	"github.com/FocuswithJustin/atfkit/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for atf.
type CLI struct {
	// Global flags
	Config    string `short:"c" help:"Configuration file (TOML or YAML)" type:"existingfile"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: text, json"`

	Parse   ParseCmd   `cmd:"" help:"Parse ATF and print the document tree as JSON"`
	Fmt     FmtCmd     `cmd:"" help:"Print or rewrite ATF in canonical form"`
	Check   CheckCmd   `cmd:"" help:"Report diagnostics and verify the canonical form"`
	Tokens  TokensCmd  `cmd:"" help:"Print the token stream"`
	XML     XMLCmd     `cmd:"" name:"xml" help:"Export ATF as XML"`
	Query   QueryCmd   `cmd:"" help:"Evaluate an XPath expression against the XML export"`
	Batch   BatchCmd   `cmd:"" help:"Check and normalize many files in parallel"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// Env is bound into every command's Run method.
type Env struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
}

// errCheckFailed reports that input had diagnostics at or above the
// failure threshold. The diagnostics were already printed.
var errCheckFailed = errors.New("check failed")

// exitCode is what kong.Exit was called with, for --help and usage errors.
type exitCode int

// run executes the CLI and returns the process exit status: 0 on success,
// 1 when a check fails and 2 for usage or I/O errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("atf"),
		kong.Description("ATF transliteration toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		fmt.Fprintf(stderr, "atf: %v\n", err)
		return 2
	}
	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	ctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		return 2
	}

	cfg, err := loadConfig(&cli)
	if err != nil {
		fmt.Fprintf(stderr, "atf: %v\n", err)
		return 2
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	format, _ := logging.ParseFormat(cfg.Log.Format)
	logging.InitLoggerTo(stderr, level, format)

	env := &Env{
		Ctx:    context.Background(),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Config: cfg,
	}
	logging.DebugContext(env.Ctx, "atf_config",
		"path", cli.Config,
		"workers", cfg.Batch.Workers,
		"cache_size", cfg.Batch.CacheSize,
		"fail_on", cfg.Check.FailOn,
	)
	if err := ctx.Run(env); err != nil {
		if errors.Is(err, errCheckFailed) {
			return 1
		}
		fmt.Fprintf(stderr, "atf: error: %v\n", err)
		return 2
	}
	return 0
}

// loadConfig merges defaults, the config file, ATFKIT_* variables and the
// global flags, in increasing precedence.
func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	return cfg, cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
