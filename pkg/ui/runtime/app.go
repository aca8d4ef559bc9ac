package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/odvcencio/slate/pkg/ui/backend"
	"github.com/odvcencio/slate/pkg/ui/terminal"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(app *App, msg Message) bool

// CommandHandler handles commands the App does not handle itself.
// Return true if the command requires a render.
type CommandHandler func(cmd Command) bool

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend        backend.Backend
	Root           Widget
	Theme          *theme.Theme
	Update         UpdateFunc
	CommandHandler CommandHandler
	MessageBuffer  int
	TickRate       time.Duration
	Tracer         trace.Tracer
}

// App runs a widget against a backend. All widget calls happen on the
// goroutine executing Run.
type App struct {
	backend        backend.Backend
	screen         atomic.Pointer[Screen]
	root           Widget
	theme          *theme.Theme
	update         UpdateFunc
	commandHandler CommandHandler
	messages       chan Message
	tickRate       time.Duration
	tracer         trace.Tracer

	running atomic.Bool
	dirty   bool
	frames  atomic.Uint64
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("slate")
	}
	return &App{
		backend:        cfg.Backend,
		root:           cfg.Root,
		theme:          cfg.Theme,
		update:         cfg.Update,
		commandHandler: cfg.CommandHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       cfg.TickRate,
		tracer:         tracer,
	}
}

// Screen returns the active screen, or nil before Run initializes it.
func (a *App) Screen() *Screen {
	return a.screen.Load()
}

// Frames returns the number of frames rendered so far.
func (a *App) Frames() uint64 {
	return a.frames.Load()
}

// Post sends a message to the event loop. It never blocks; messages are
// dropped when the queue is full.
func (a *App) Post(msg Message) bool {
	select {
	case a.messages <- msg:
		return true
	default:
		return false
	}
}

// Run starts the event loop until quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.backend == nil {
		return errors.New("backend is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := a.backend.Init(); err != nil {
		return fmt.Errorf("init backend: %w", err)
	}
	defer a.backend.Fini()

	a.backend.HideCursor()
	w, h := a.backend.Size()
	if a.theme == nil {
		a.theme = theme.DefaultTheme()
	}
	screen := NewScreen(w, h, a.theme)
	screen.SetRoot(a.root)
	a.screen.Store(screen)

	if a.update == nil {
		a.update = DefaultUpdate
	}

	a.running.Store(true)
	a.dirty = true
	a.update(a, ShowMsg{})
	defer a.update(a, HideMsg{})

	go a.pollEvents()

	var ticks <-chan time.Time
	if a.tickRate > 0 {
		ticker := time.NewTicker(a.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for a.running.Load() {
		if a.dirty {
			a.render(ctx)
			a.dirty = false
		}

		select {
		case <-ctx.Done():
			a.running.Store(false)
		case msg := <-a.messages:
			if a.update(a, msg) {
				a.dirty = true
			}
		case now := <-ticks:
			if a.update(a, TickMsg{Time: now}) {
				a.dirty = true
			}
		}
	}

	return ctx.Err()
}

// DefaultUpdate handles resize and theme messages and routes everything
// else to the screen.
func DefaultUpdate(app *App, msg Message) bool {
	screen := app.Screen()
	if screen == nil {
		return false
	}

	switch m := msg.(type) {
	case ResizeMsg:
		screen.Resize(m.Width, m.Height)
		app.backend.Sync()
	case ThemeChangedMsg:
		screen.SetTheme(m.Theme)
	}

	result := screen.HandleMessage(msg)
	dirty := result.Handled
	for _, cmd := range result.Commands {
		if app.handleCommand(cmd) {
			dirty = true
		}
	}
	switch msg.(type) {
	case ResizeMsg, ThemeChangedMsg:
		return true
	}
	return dirty
}

func (a *App) handleCommand(cmd Command) bool {
	switch cmd.(type) {
	case Quit:
		a.running.Store(false)
		return false
	case Refresh:
		if s := a.Screen(); s != nil {
			s.Buffer().MarkAllDirty()
		}
		return true
	case Beep:
		a.backend.Beep()
		return false
	default:
		if a.commandHandler != nil {
			return a.commandHandler(cmd)
		}
		return false
	}
}

func (a *App) pollEvents() {
	for a.running.Load() {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}

		switch e := ev.(type) {
		case terminal.KeyEvent:
			a.Post(KeyMsg{
				Key:   e.Key,
				Rune:  e.Rune,
				Alt:   e.Alt,
				Ctrl:  e.Ctrl,
				Shift: e.Shift,
			})
		case terminal.ResizeEvent:
			a.Post(ResizeMsg{Width: e.Width, Height: e.Height})
		}
	}
}

func (a *App) render(ctx context.Context) {
	screen := a.Screen()
	if screen == nil {
		return
	}

	ctx, span := a.tracer.Start(ctx, "slate.frame")
	defer span.End()

	screen.Render(ctx)
	buf := screen.Buffer()
	span.SetAttributes(attribute.Int("dirty_cells", buf.DirtyCount()))
	buf.Flush(a.backend)
	a.backend.Show()
	a.frames.Add(1)
}
