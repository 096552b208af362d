// Package main is the entry point for the inlay editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"inlay/internal/app"
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
	opts, logPath, verbosity := parseFlags()

	// Logging goes to a file or nowhere; stderr belongs to the terminal
	// screen while the app runs.
	if logPath != "" {
		commonlog.Configure(verbosity, &logPath)
	} else {
		commonlog.Configure(-1, nil)
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create screen: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to init screen: %v\n", err)
		return 1
	}
	defer screen.Fini()

	// Finalizing the screen makes PollEvent return nil, which ends Run.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		screen.Fini()
	}()

	if err := application.Run(screen); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func parseFlags() (app.Options, string, int) {
	var opts app.Options
	var configs stringList
	var logPath string
	var debug bool
	var showVersion bool
	var showHelp bool

	flag.Var(&configs, "config", "Path to a configuration file (repeatable, later files override earlier ones)")
	flag.Var(&configs, "c", "Path to a configuration file (shorthand)")
	flag.StringVar(&logPath, "log", "", "Write logs to this file")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging (with -log)")
	flag.BoolVar(&debug, "d", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inlay - fenced-text editor with embedded code blocks\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inlay [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inlay                         Open the built-in sample document\n")
		fmt.Fprintf(os.Stderr, "  inlay notes.md                Open a fenced-text file\n")
		fmt.Fprintf(os.Stderr, "  inlay -c inlay.toml notes.md  Layer a configuration file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Inlay %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	opts.ConfigPaths = configs
	opts.Path = flag.Arg(0)

	verbosity := 1
	if debug {
		verbosity = 2
	}
	return opts, logPath, verbosity
}
