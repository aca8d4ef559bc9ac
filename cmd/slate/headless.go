package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/odvcencio/slate/pkg/errors"
	"github.com/odvcencio/slate/pkg/ui/backend"
	"github.com/odvcencio/slate/pkg/ui/backend/sim"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/terminal"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// script is the input replayed against a headless screen.
type script struct {
	keys     []runtime.KeyMsg
	ticks    int
	tickRate time.Duration
}

// parseKeys reads a comma separated list of key names such as
// "down,down,right".
func parseKeys(s string) ([]runtime.KeyMsg, error) {
	var keys []runtime.KeyMsg
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		key, ok := keyByName(name)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidInput, "unknown key %q", name)
		}
		keys = append(keys, runtime.KeyMsg{Key: key})
	}
	return keys, nil
}

func keyByName(name string) (terminal.Key, bool) {
	for k := terminal.KeyEnter; k <= terminal.KeyCtrlR; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return terminal.KeyNone, false
}

// renderHeadless drives root on an off-screen surface and writes the final
// frame to w. Commands emitted along the way go to handle; a quit stops
// the script early.
func renderHeadless(ctx context.Context, w io.Writer, root runtime.Widget, th *theme.Theme, width, height int, sc script, handle runtime.CommandHandler, profile termenv.Profile) error {
	be := sim.New(width, height)
	if err := be.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBackendInit, "init headless backend")
	}
	defer be.Fini()

	host := runtime.NewScreen(width, height, th)
	host.SetRoot(root)
	host.HandleMessage(runtime.ShowMsg{})
	defer host.HandleMessage(runtime.HideMsg{})
	host.Render(ctx)

	dispatch := func(msg runtime.Message) bool {
		res := host.HandleMessage(msg)
		for _, cmd := range res.Commands {
			if _, quit := cmd.(runtime.Quit); quit {
				return false
			}
			if handle != nil {
				handle(cmd)
			}
		}
		host.Render(ctx)
		return true
	}

	running := true
	for _, k := range sc.keys {
		if running = dispatch(k); !running {
			break
		}
	}
	now := time.Now()
	for i := 0; running && i < sc.ticks; i++ {
		now = now.Add(sc.tickRate)
		running = dispatch(runtime.TickMsg{Time: now})
	}

	buf := host.Buffer()
	buf.MarkAllDirty()
	buf.Flush(be)
	be.Show()
	return writeFrame(w, be, width, height, profile)
}

// writeFrame prints the captured cells, coloring runs of equal style when
// the profile supports it.
func writeFrame(w io.Writer, be *sim.Backend, width, height int, profile termenv.Profile) error {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	var sb strings.Builder
	for y := 0; y < height; y++ {
		var run strings.Builder
		var runStyle backend.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(styled(out, run.String(), runStyle))
			run.Reset()
		}
		for x := 0; x < width; x++ {
			r, st := be.CaptureCell(x, y)
			if r == 0 {
				r = ' '
			}
			if st != runStyle {
				flush()
				runStyle = st
			}
			run.WriteRune(r)
		}
		flush()
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func styled(out *termenv.Output, s string, st backend.Style) string {
	if out.Profile == termenv.Ascii {
		return s
	}
	fg, bg, attrs := st.Decompose()
	ts := out.String(s)
	if c := termColor(out, fg); c != nil {
		ts = ts.Foreground(c)
	}
	if c := termColor(out, bg); c != nil {
		ts = ts.Background(c)
	}
	if attrs&backend.AttrBold != 0 {
		ts = ts.Bold()
	}
	if attrs&backend.AttrItalic != 0 {
		ts = ts.Italic()
	}
	if attrs&backend.AttrUnderline != 0 {
		ts = ts.Underline()
	}
	if attrs&backend.AttrReverse != 0 {
		ts = ts.Reverse()
	}
	return ts.String()
}

func termColor(out *termenv.Output, c backend.Color) termenv.Color {
	switch {
	case c == backend.ColorDefault:
		return nil
	case c.IsRGB():
		r, g, b := c.RGB()
		return out.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
	default:
		return out.Color(fmt.Sprintf("%d", int(c)))
	}
}
