// Package main is the entry point for the textcore editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/textcore/internal/app"
	"github.com/dshills/textcore/internal/input"
	"github.com/dshills/textcore/internal/logging"
	"github.com/dshills/textcore/internal/syntax"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetScreen(screen); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set screen: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion, showHelp, showKeys, showLanguages bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file read-only")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the file read-only (shorthand)")
	flag.BoolVar(&opts.WordWrap, "wrap", false, "Start with word wrap on")
	flag.BoolVar(&showKeys, "keys", false, "List the default key bindings")
	flag.BoolVar(&showLanguages, "languages", false, "List the built-in syntax languages")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "textcore - a small terminal text editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: textcore [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  ctrl+q quit, ctrl+f find, ctrl+r replace all,\n")
		fmt.Fprintf(os.Stderr, "  alt+c toggle case sensitivity, alt+w toggle whole words\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  textcore                 Open an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  textcore notes.txt       Open a file\n")
		fmt.Fprintf(os.Stderr, "  textcore -R -wrap a.md   Open a file read-only with word wrap\n")
	}

	flag.Parse()

	switch {
	case showHelp:
		flag.Usage()
		os.Exit(0)
	case showVersion:
		fmt.Printf("textcore %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	case showKeys:
		for _, b := range input.DefaultKeymap().Bindings() {
			fmt.Printf("%-16s %s\n", b.Key, b.Action)
		}
		os.Exit(0)
	case showLanguages:
		langs := syntax.Languages()
		sort.Strings(langs)
		for _, name := range langs {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	if opts.LogLevel != "" {
		if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	switch args := flag.Args(); len(args) {
	case 0:
	case 1:
		opts.File = args[0]
	default:
		fmt.Fprintf(os.Stderr, "Error: expected at most one file, got %d\n", len(args))
		os.Exit(1)
	}
	return opts
}
