// Package main is the entry point for the glyphstorm scanner.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/glyphstorm/internal/config"
	"github.com/dshills/glyphstorm/internal/engine"
	"github.com/dshills/glyphstorm/internal/event"
	"github.com/dshills/glyphstorm/internal/host"
	"github.com/dshills/glyphstorm/internal/host/term"
	"github.com/dshills/glyphstorm/internal/logging"
	"github.com/dshills/glyphstorm/internal/overlay"
	"github.com/dshills/glyphstorm/internal/unidata"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	view       bool
	quiet      bool
}

func run() int {
	opts, files := parseFlags()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: glyphstorm [flags] file...")
		return 2
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Output: os.Stderr,
		Prefix: "glyphstorm",
	})

	data, err := loadData(cfg)
	if err != nil {
		// A missing data source is fatal; scanning with empty tables
		// would report "no issues found" for every file.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	bus := event.NewBus()
	memHost := host.NewMemoryHost(bus)

	eng, err := engine.New(memHost, cfg, data, engine.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if err := eng.Attach(bus); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	// Settings edits made while scanning flow back in as config.changed.
	watcher, err := config.Watch(opts.configPath, func(c config.Config) {
		bus.Publish(event.TopicConfigChanged, c, "config.watcher")
	}, func(err error) {
		logger.Warn("settings reload failed: %v", err)
	})
	if err != nil {
		logger.Debug("settings watcher unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	findings := 0
	failures := 0
	for _, path := range files {
		n, err := scanFile(eng, memHost, path, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			failures++
			continue
		}
		findings += n
	}

	switch {
	case failures > 0:
		return 2
	case findings > 0:
		return 1
	default:
		return 0
	}
}

// scanFile opens one file in the host, scans it, and reports findings.
// It returns the number of findings.
func scanFile(eng *engine.Engine, memHost *host.MemoryHost, path string, opts options) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	lines := splitLines(data)
	id := memHost.Open(path, filetypeOf(path), lines)
	defer memHost.Close(id)

	// With scanning enabled, the buffer.opened event has already run the
	// scan; only a disabled engine needs an explicit Enable here.
	if !eng.Enabled() {
		if err := eng.Enable(id); err != nil {
			return 0, err
		}
	}

	diags := eng.Collect(id)
	if !opts.quiet {
		for _, d := range diags {
			fmt.Printf("%s:%d:%d: %s: %s\n",
				path, d.Line+1, d.StartByte+1, severityLabel(d.Severity), d.Message)
		}
	}

	if opts.view {
		viewer := term.NewViewer(path, lines)
		rec := overlay.NewReconciler(viewer, "")
		if _, err := rec.Apply(id, eng.Matches(id), overlay.Options{
			VirtualText:       true,
			VirtualTextPrefix: eng.Config().VirtualTextPrefix,
		}); err != nil {
			return len(diags), err
		}
		if err := viewer.Run(); err != nil {
			return len(diags), err
		}
	}

	return len(diags), nil
}

// parseFlags parses command-line options.
func parseFlags() (options, []string) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", defaultConfigPath(), "Path to configuration file")
	flag.BoolVar(&opts.view, "view", false, "Open an interactive viewer for each file")
	flag.BoolVar(&opts.quiet, "quiet", false, "Suppress per-finding output")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("glyphstorm %s (%s)\n", version, commit)
		os.Exit(0)
	}

	return opts, flag.Args()
}

// defaultConfigPath returns the conventional settings file location.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "glyphstorm.toml"
	}
	return filepath.Join(dir, "glyphstorm", "settings.toml")
}

// loadData builds the classification set: embedded tables plus any
// configured user sources.
func loadData(cfg config.Config) (*unidata.Set, error) {
	data, err := unidata.Load()
	if err != nil {
		return nil, err
	}
	if cfg.DataFile != "" {
		if err := data.LoadFile(cfg.DataFile); err != nil {
			return nil, err
		}
	}
	if cfg.LuaExtension != "" {
		if err := data.LoadLua(cfg.LuaExtension); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// splitLines splits file content into lines without terminators.
func splitLines(data []byte) [][]byte {
	data = bytes.TrimSuffix(data, []byte("\n"))
	lines := bytes.Split(data, []byte("\n"))
	for i, line := range lines {
		lines[i] = bytes.TrimSuffix(line, []byte("\r"))
	}
	return lines
}

// filetypeOf derives a filetype tag from the file extension.
func filetypeOf(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// severityLabel formats a severity for CLI output.
func severityLabel(s overlay.Severity) string {
	return strings.ToLower(s.String())
}
