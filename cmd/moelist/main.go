// Moelist prints the summary forum post of zip and rar archives and folders.
//
// Usage:
//
//	moelist [flags] path ...
//	moelist pack [-comment text] [-zstd] directory archive.zip
//	moelist pack -relabel [-comment text] archive.zip
//
// The post is written to stdout, warnings, failures and logs to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/Defacto2/moelist"
	"github.com/Defacto2/moelist/bonus"
	"github.com/Defacto2/moelist/config"
	"github.com/Defacto2/moelist/format"
	"github.com/Defacto2/moelist/pkzip"
	"github.com/Defacto2/moelist/rezip"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "pack" {
		return pack(args[1:], stdout, stderr)
	}
	return list(ctx, args, stdout, stderr)
}

// logger returns a console logger writing to w.
func logger(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}

func list(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("moelist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		name    = fs.String("config", "", "YAML configuration `file`")
		style   = fs.String("style", "", "post style: preview, code or table")
		tag     = fs.String("tag", "", "expected archive comment suffix")
		workers = fs.Int("workers", -1, "archives read at the same time, 0 uses the number of CPUs")
		debug   = fs.Bool("debug", false, "log every archive read")
		forums  []bonus.Category
	)
	fs.Func("forum", "forum `category` for the bonus lines, can be repeated", func(s string) error {
		forums = append(forums, bonus.Category(s))
		return nil
	})
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: moelist [flags] path ...")
		fmt.Fprintln(stderr, "       moelist pack [flags] directory archive.zip")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	log := logger(stderr, *debug)
	defer func() { _ = log.Sync() }()

	cfg := config.Default()
	if *name != "" {
		var err error
		if cfg, err = config.Load(*name); err != nil {
			fmt.Fprintln(stderr, errStyle.Render(err.Error()))
			return exitFailure
		}
	}
	if *style != "" {
		s, err := format.ParseStyle(*style)
		if err != nil {
			fmt.Fprintln(stderr, errStyle.Render(err.Error()))
			return exitUsage
		}
		cfg.Style = s
	}
	if *tag != "" {
		cfg.Tag = *tag
	}
	if *workers >= 0 {
		cfg.Workers = *workers
	}
	if len(forums) > 0 {
		cfg.Forums = forums
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, errStyle.Render(err.Error()))
		return exitUsage
	}

	entries, err := moelist.Walk(fs.Args()...)
	if err != nil {
		fmt.Fprintln(stderr, errStyle.Render(err.Error()))
		return exitFailure
	}
	var c moelist.Collection
	r := moelist.NewReader(cfg.Options(log)...)
	for _, f := range c.Add(r.ReadAll(ctx, entries...)) {
		fmt.Fprintln(stderr, errStyle.Render("error: "+f.Error()))
	}
	infos := c.Infos()
	for _, w := range moelist.Check(infos, cfg.Tag) {
		fmt.Fprintln(stderr, warnStyle.Render("warning: "+string(w)))
	}
	if post := cfg.Formatter().Format(cfg.Style, infos, cfg.Forums); post != "" {
		fmt.Fprintln(stdout, post)
	}
	if c.Len() == 0 {
		return exitFailure
	}
	return exitOK
}

func pack(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("moelist pack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		comment = fs.String("comment", "", "archive comment label, defaults to the "+moelist.DefaultTag+" tag")
		useZstd = fs.Bool("zstd", false, "compress using the Zstandard method")
		relabel = fs.Bool("relabel", false, "replace the comment of an existing zip archive")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	label := *comment
	if strings.TrimSpace(label) == "" {
		label = moelist.DefaultTag
	}
	if *relabel {
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "usage: moelist pack -relabel [-comment text] archive.zip")
			return exitUsage
		}
		if err := rezip.Comment(fs.Arg(0), label); err != nil {
			fmt.Fprintln(stderr, errStyle.Render(err.Error()))
			return exitFailure
		}
		fmt.Fprintf(stdout, "relabeled %s\n", fs.Arg(0))
		return exitOK
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: moelist pack [-comment text] [-zstd] directory archive.zip")
		return exitUsage
	}
	method := pkzip.Deflated
	if *useZstd {
		method = pkzip.Zstd
	}
	n, err := rezip.CompressDirWith(fs.Arg(0), fs.Arg(1), label, method)
	if err != nil {
		fmt.Fprintln(stderr, errStyle.Render(err.Error()))
		return exitFailure
	}
	if err := rezip.Test(fs.Arg(1)); err != nil {
		fmt.Fprintln(stderr, errStyle.Render(err.Error()))
		return exitFailure
	}
	fmt.Fprintf(stdout, "packed %d bytes into %s\n", n, fs.Arg(1))
	return exitOK
}
