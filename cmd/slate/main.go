// Command slate shows a document of text, images and gauges as a paginated,
// scrollable terminal screen.
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
	"syscall"
	"time"

	"github.com/odvcencio/slate/pkg/config"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type options struct {
	configPath  string
	docPath     string
	screen      string
	prefsPath   string
	metricsAddr string
	keys        string
	ticks       int
	width       int
	height      int

	headless    bool
	headlessSet bool
	noColor     bool
	trace       bool
	showVersion bool
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("slate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.slate/config.yaml then ./.slate/config.yaml)")
	fs.StringVar(&opts.screen, "screen", "", "name of the screen to show (default first)")
	fs.StringVar(&opts.prefsPath, "prefs", "", "preference database path")
	fs.StringVar(&opts.metricsAddr, "metrics", "", "serve prometheus metrics on this address")
	fs.StringVar(&opts.keys, "keys", "", "headless: comma separated keys to replay, e.g. down,down,right")
	fs.IntVar(&opts.ticks, "ticks", 0, "headless: timer ticks to replay after the keys")
	fs.IntVar(&opts.width, "width", 0, "surface width in cells")
	fs.IntVar(&opts.height, "height", 0, "surface height in cells")
	fs.BoolVar(&opts.headless, "headless", false, "print one frame instead of running interactively")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colors in headless output")
	fs.BoolVar(&opts.trace, "trace", false, "export layout spans")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: slate [flags] [document.yaml]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			opts.headlessSet = true
		}
	})
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		opts.docPath = rest[0]
	default:
		return nil, withExitCode(fmt.Errorf("expected at most one document, got %s", strings.Join(rest, " ")), exitUsage)
	}
	if opts.ticks < 0 || opts.width < 0 || opts.height < 0 {
		return nil, withExitCode(errors.New("ticks, width and height must not be negative"), exitUsage)
	}
	return opts, nil
}

// apply overlays command line flags on the loaded configuration.
func (o *options) apply(cfg *config.Config) error {
	if o.headlessSet {
		cfg.Display.Headless = o.headless
	}
	if o.width > 0 {
		cfg.Display.Width = o.width
	}
	if o.height > 0 {
		cfg.Display.Height = o.height
	}
	if o.prefsPath != "" {
		cfg.Prefs.Path = o.prefsPath
	}
	if o.metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = o.metricsAddr
	}
	if o.trace {
		cfg.Telemetry.Tracing = true
	}
	return cfg.Validate()
}

func loadConfig(o *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(exitOK)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	if opts.showVersion {
		fmt.Printf("slate %s (commit %s, built %s)\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeForError(err))
	}
}

const shutdownTimeout = 2 * time.Second
