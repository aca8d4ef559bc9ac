package main

import (
	"context"
	_ "embed"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/odvcencio/slate/pkg/config"
	slateerrors "github.com/odvcencio/slate/pkg/errors"
	"github.com/odvcencio/slate/pkg/logging"
	"github.com/odvcencio/slate/pkg/prefs"
	"github.com/odvcencio/slate/pkg/telemetry"
	tcellbackend "github.com/odvcencio/slate/pkg/ui/backend/tcell"
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/panel"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/screen"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

//go:embed demo.yaml
var demoDocument []byte

const (
	defaultHeadlessWidth  = 80
	defaultHeadlessHeight = 24
)

// session holds everything one run of the command owns.
type session struct {
	cfg     *config.Config
	log     *logging.Logger
	hub     *telemetry.Hub
	metrics *telemetry.Metrics
	store   prefs.Store
	theme   *theme.Theme
	built   *built
	screen  *screen.Screen
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	interactive := !cfg.Display.Headless && isTerminal(stdout)

	logOut, closeLog, err := openLogOutput(cfg, interactive, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	sessionID := uuid.NewString()
	log := logging.New(logOut, cfg.LogLevel(), cfg.LogFormat()).WithSession(sessionID)

	hub := telemetry.NewHub()
	defer hub.Close()
	hub.SetSession(sessionID)
	metrics := telemetry.NewMetrics(hub)
	if cfg.LogLevel() <= slog.LevelDebug {
		go logEvents(hub, log.WithCategory(logging.CategoryRender))
	}

	if cfg.Telemetry.MetricsAddr != "" {
		stopMetrics, err := serveMetrics(cfg.Telemetry.MetricsAddr, metrics, log)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	if cfg.Telemetry.Tracing {
		traceOut, closeTrace, err := openTraceOutput(cfg, interactive, stderr)
		if err != nil {
			return err
		}
		defer closeTrace()
		tp, err := telemetry.NewTracerProvider(traceOut, "slate", version)
		if err != nil {
			return slateerrors.Wrap(err, slateerrors.ErrCodeInternal, "start tracing")
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			_ = tp.Shutdown(sctx)
		}()
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := newSession(ctx, cfg, opts, log, hub, metrics, store)
	if err != nil {
		return err
	}
	log.Info("session started",
		slog.String("version", version),
		slog.String("screen", s.screen.Name()),
		slog.Bool("interactive", interactive),
	)

	if !interactive {
		width, height := cfg.Display.Width, cfg.Display.Height
		if width == 0 {
			width = defaultHeadlessWidth
		}
		if height == 0 {
			height = defaultHeadlessHeight
		}
		keys, err := parseKeys(opts.keys)
		if err != nil {
			return err
		}
		profile := termenv.NewOutput(stdout).Profile
		if opts.noColor || !isTerminal(stdout) {
			profile = termenv.Ascii
		}
		sc := script{keys: keys, ticks: opts.ticks, tickRate: cfg.Display.TickRate}
		return renderHeadless(ctx, stdout, s.screen, s.theme, width, height, sc, s.handleCommand(ctx), profile)
	}
	return s.runInteractive(ctx, opts.configPath)
}

func newSession(ctx context.Context, cfg *config.Config, opts *options, log *logging.Logger, hub *telemetry.Hub, metrics *telemetry.Metrics, store prefs.Store) (*session, error) {
	th, err := cfg.BuildTheme()
	if err != nil {
		return nil, err
	}

	var doc *document
	if opts.docPath != "" {
		doc, err = loadDocument(opts.docPath)
	} else {
		doc, err = parseDocument(demoDocument)
	}
	if err != nil {
		return nil, err
	}
	sd, err := doc.find(opts.screen)
	if err != nil {
		return nil, err
	}
	b, err := sd.build(th)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log, hub: hub, metrics: metrics, store: store, theme: th, built: b}
	speed := prefs.Int(ctx, store, log, prefs.KeyAnimationSpeed, cfg.Animation.Speed)
	s.applySpeed(speed)
	for _, g := range b.gauges {
		if key, _, ok := g.Preference(); ok {
			g.SetValue(prefs.Int(ctx, store, log, key, g.Value()))
		}
	}

	compCtx := &component.Context{
		Font:     cfg.BuildFont(),
		Theme:    th,
		Messages: cfg.BuildMessages(),
		Log:      log,
		Metrics:  metrics,
	}
	s.screen = screen.New(sd.Name, b.panel, compCtx,
		screen.WithRepeatRate(cfg.Input.RepeatRate, cfg.Input.RepeatBurst),
	)
	return s, nil
}

func (s *session) applySpeed(speed int) {
	if ap, ok := s.built.panel.(*panel.AnimatedPanel); ok {
		ap.SetSpeed(speed)
	}
}

// handleCommand persists preference changes requested by the screen.
func (s *session) handleCommand(ctx context.Context) runtime.CommandHandler {
	return func(cmd runtime.Command) bool {
		c, ok := cmd.(runtime.SetPreference)
		if !ok {
			return false
		}
		if err := s.store.Set(ctx, c.Key, c.Value); err != nil {
			s.log.WithCategory(logging.CategoryPrefs).Warn("preference write failed",
				slog.String("key", c.Key),
				slog.String("error", err.Error()),
			)
		}
		if c.Key == prefs.KeyAnimationSpeed {
			s.applySpeed(c.Value)
		}
		s.hub.Publish(telemetry.Event{
			Type:   telemetry.EventPreferenceChanged,
			Screen: s.screen.Name(),
			Data:   map[string]any{"key": c.Key, "value": c.Value},
		})
		return true
	}
}

func (s *session) runInteractive(ctx context.Context, configPath string) error {
	be, err := tcellbackend.New()
	if err != nil {
		return slateerrors.Wrap(err, slateerrors.ErrCodeBackendInit, "open terminal").
			WithRemediation("run with -headless when no terminal is attached")
	}

	app := runtime.NewApp(runtime.AppConfig{
		Backend:        be,
		Root:           s.screen,
		Theme:          s.theme,
		TickRate:       s.cfg.Display.TickRate,
		CommandHandler: s.handleCommand(ctx),
		Tracer:         telemetry.Tracer(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, s.log, func(cfg *config.Config, err error) {
				if err == nil {
					var th *theme.Theme
					if th, err = cfg.BuildTheme(); err == nil {
						app.Post(runtime.ThemeChangedMsg{Theme: th})
					}
				}
				data := map[string]any{"path": configPath}
				if err != nil {
					data["error"] = err.Error()
				}
				s.hub.Publish(telemetry.Event{Type: telemetry.EventConfigReloaded, Data: data})
			})
			if err != nil {
				s.log.WithCategory(logging.CategoryConfig).Warn("config watch stopped", slog.String("error", err.Error()))
			}
		}()
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return slateerrors.Wrap(err, slateerrors.ErrCodeBackendInit, "run screen")
	}
	return nil
}

func openStore(cfg *config.Config) (prefs.Store, func(), error) {
	if cfg.Prefs.Path == "" {
		return prefs.NewMemory(), func() {}, nil
	}
	db, err := prefs.OpenSQLite(config.ExpandHome(cfg.Prefs.Path))
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

// openLogOutput picks the log destination. An interactive screen owns the
// terminal, so logs are dropped unless a file is configured.
func openLogOutput(cfg *config.Config, interactive bool, stderr io.Writer) (io.Writer, func(), error) {
	if cfg.Logging.File != "" {
		return openAppend(config.ExpandHome(cfg.Logging.File), "log file")
	}
	if interactive {
		return io.Discard, func() {}, nil
	}
	return stderr, func() {}, nil
}

func openTraceOutput(cfg *config.Config, interactive bool, stderr io.Writer) (io.Writer, func(), error) {
	if cfg.Telemetry.TraceFile != "" {
		return openAppend(config.ExpandHome(cfg.Telemetry.TraceFile), "trace file")
	}
	if interactive {
		return io.Discard, func() {}, nil
	}
	return stderr, func() {}, nil
}

func openAppend(path, what string) (io.Writer, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, slateerrors.Wrap(err, slateerrors.ErrCodeConfigInvalid, "open "+what).
			WithContext("path", path)
	}
	return f, func() { _ = f.Close() }, nil
}

func serveMetrics(addr string, metrics *telemetry.Metrics, log *logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, slateerrors.Wrap(err, slateerrors.ErrCodeConfigInvalid, "listen for metrics").
			WithContext("addr", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: shutdownTimeout}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", slog.String("error", err.Error()))
		}
	}()
	log.Info("serving metrics", slog.String("addr", ln.Addr().String()))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// logEvents writes hub events to the debug log until the hub closes.
func logEvents(hub *telemetry.Hub, log *logging.Logger) {
	events, _ := hub.Subscribe()
	for ev := range events {
		log.Debug("telemetry event",
			slog.String("type", string(ev.Type)),
			slog.String("screen", ev.Screen),
			slog.Any("data", ev.Data),
		)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
