package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slateerrors "github.com/odvcencio/slate/pkg/errors"
	"github.com/odvcencio/slate/pkg/prefs"
	"github.com/odvcencio/slate/pkg/ui/panel"
	"github.com/odvcencio/slate/pkg/ui/terminal"
	"github.com/odvcencio/slate/pkg/ui/theme"
	"github.com/odvcencio/slate/pkg/ui/widgets"
)

// isolate points config discovery at empty directories.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"-headless", "-width", "40", "-keys", "down,right", "doc.yaml"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, opts.headless)
	assert.True(t, opts.headlessSet)
	assert.Equal(t, 40, opts.width)
	assert.Equal(t, "down,right", opts.keys)
	assert.Equal(t, "doc.yaml", opts.docPath)

	opts, err = parseOptions(nil, io.Discard)
	require.NoError(t, err)
	assert.False(t, opts.headlessSet)
	assert.Empty(t, opts.docPath)

	_, err = parseOptions([]string{"a.yaml", "b.yaml"}, io.Discard)
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCodeForError(err))

	_, err = parseOptions([]string{"-ticks", "-1"}, io.Discard)
	require.Error(t, err)

	_, err = parseOptions([]string{"-h"}, io.Discard)
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func TestParseDocumentErrors(t *testing.T) {
	_, err := parseDocument([]byte("screens: []\n"))
	assert.True(t, slateerrors.IsCode(err, slateerrors.ErrCodeInvalidInput))

	_, err = parseDocument([]byte("screens: [unterminated\n"))
	assert.True(t, slateerrors.IsCode(err, slateerrors.ErrCodeConfigParse))

	th := theme.DefaultTheme()
	for _, body := range []string{
		"screens:\n  - components:\n      - type: video\n",
		"screens:\n  - components:\n      - type: image\n        width: 0\n        height: 3\n",
		"screens:\n  - panel: carousel\n    components:\n      - text: hi\n",
	} {
		doc, err := parseDocument([]byte(body))
		require.NoError(t, err)
		_, err = doc.Screens[0].build(th)
		assert.True(t, slateerrors.IsCode(err, slateerrors.ErrCodeInvalidInput), "%q: %v", body, err)
	}
}

func TestDocumentBuild(t *testing.T) {
	doc, err := parseDocument([]byte(`
screens:
  - components:
      - text: plain
  - name: pick
    panel: selection
    components:
      - type: gauge
        text: Speed
        lower: 0
        upper: 100
        steps: 10
        value: 30
        preference: animation.speed
  - name: play
    panel: animated
    components:
      - type: highlight
        text: one two
        style:
          padding: 1
          margin: [2, 3]
`))
	require.NoError(t, err)
	th := theme.DefaultTheme()

	first, err := doc.find("")
	require.NoError(t, err)
	assert.Equal(t, "screen-1", first.Name)
	b, err := first.build(th)
	require.NoError(t, err)
	assert.IsType(t, &panel.ContentPanel{}, b.panel)

	sd, err := doc.find("pick")
	require.NoError(t, err)
	b, err = sd.build(th)
	require.NoError(t, err)
	assert.IsType(t, &panel.SelectionPanel{}, b.panel)
	require.Len(t, b.gauges, 1)
	key, value, ok := b.gauges[0].Preference()
	assert.True(t, ok)
	assert.Equal(t, prefs.KeyAnimationSpeed, key)
	assert.Equal(t, 30, value)

	sd, err = doc.find("play")
	require.NoError(t, err)
	b, err = sd.build(th)
	require.NoError(t, err)
	ap, ok := b.panel.(*panel.AnimatedPanel)
	require.True(t, ok)
	h, ok := ap.At(0).(*widgets.HighlightTextArea)
	require.True(t, ok)
	st := h.Style()
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Padding)
	assert.Equal(t, theme.Spacing{Top: 2, Right: 3, Bottom: 2, Left: 3}, st.Margin)
	assert.Equal(t, theme.Spacing{Bottom: 1}, th.Margin, "theme untouched")

	_, err = doc.find("missing")
	assert.Error(t, err)
}

func TestDocumentMarkdownExpands(t *testing.T) {
	doc, err := parseDocument([]byte("screens:\n  - components:\n      - type: markdown\n        text: \"# Title\\n\\nBody text.\\n\"\n      - text: after\n"))
	require.NoError(t, err)
	b, err := doc.Screens[0].build(theme.DefaultTheme())
	require.NoError(t, err)
	cp := b.panel.(*panel.ContentPanel)
	require.Equal(t, 3, cp.Len())
	assert.IsType(t, &widgets.Label{}, cp.At(0))
	assert.Equal(t, "Body text.", cp.At(1).(*widgets.TextArea).Text())
	assert.Equal(t, "after", cp.At(2).(*widgets.TextArea).Text())
}

func TestParseKeys(t *testing.T) {
	keys, err := parseKeys(" down, Right ,,pagedown")
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, terminal.KeyDown, keys[0].Key)
	assert.Equal(t, terminal.KeyRight, keys[1].Key)
	assert.Equal(t, terminal.KeyPageDown, keys[2].Key)

	_, err = parseKeys("down,warp")
	assert.True(t, slateerrors.IsCode(err, slateerrors.ErrCodeInvalidInput))

	keys, err = parseKeys("")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestExitCodeForError(t *testing.T) {
	assert.Equal(t, exitOK, exitCodeForError(nil))
	assert.Equal(t, exitFailure, exitCodeForError(errors.New("boom")))
	assert.Equal(t, exitUsage, exitCodeForError(slateerrors.New(slateerrors.ErrCodeConfigInvalid, "bad")))
	assert.Equal(t, exitBackend, exitCodeForError(slateerrors.New(slateerrors.ErrCodeBackendInit, "no tty")))
	assert.Equal(t, 7, exitCodeForError(withExitCode(errors.New("x"), 7)))
	assert.Nil(t, withExitCode(nil, 3))
}

func TestRunHeadless(t *testing.T) {
	dir := isolate(t)
	doc := writeFile(t, dir, "doc.yaml", "screens:\n  - components:\n      - text: hello\n")

	var stdout, stderr bytes.Buffer
	opts := &options{docPath: doc, headless: true, headlessSet: true, width: 20, height: 4}
	require.NoError(t, run(context.Background(), opts, &stdout, &stderr))

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], " hello"), "got %q", lines[0])
	assert.Contains(t, stderr.String(), "session started")
	assert.Contains(t, stderr.String(), "session_id=")
}

func TestRunHeadlessDemo(t *testing.T) {
	isolate(t)

	var stdout bytes.Buffer
	opts := &options{headless: true, headlessSet: true}
	require.NoError(t, run(context.Background(), opts, &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "Slate")
	assert.Len(t, strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n"), defaultHeadlessHeight)

	stdout.Reset()
	opts = &options{headless: true, headlessSet: true, screen: "story", ticks: 5}
	require.NoError(t, run(context.Background(), opts, &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "Once upon a time")
}

func TestRunHeadlessPersistsGauge(t *testing.T) {
	dir := isolate(t)
	doc := writeFile(t, dir, "doc.yaml", `
screens:
  - panel: selection
    components:
      - type: gauge
        text: Speed
        lower: 0
        upper: 100
        steps: 10
        preference: animation.speed
`)
	db := filepath.Join(dir, "prefs.db")

	opts := &options{docPath: doc, headless: true, headlessSet: true, width: 30, height: 6, prefsPath: db, keys: "right,right"}
	require.NoError(t, run(context.Background(), opts, io.Discard, io.Discard))

	store, err := prefs.OpenSQLite(db)
	require.NoError(t, err)
	defer store.Close()
	v, ok, err := store.Get(context.Background(), prefs.KeyAnimationSpeed)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 20, v)

	// The stored value seeds the gauge on the next run.
	opts.keys = "right"
	require.NoError(t, run(context.Background(), opts, io.Discard, io.Discard))
	v, _, err = store.Get(context.Background(), prefs.KeyAnimationSpeed)
	require.NoError(t, err)
	assert.Equal(t, 30, v)
}

func TestRunRejectsBadInput(t *testing.T) {
	dir := isolate(t)

	err := run(context.Background(), &options{headless: true, headlessSet: true, docPath: filepath.Join(dir, "none.yaml")}, io.Discard, io.Discard)
	assert.Equal(t, exitUsage, exitCodeForError(err))

	err = run(context.Background(), &options{headless: true, headlessSet: true, screen: "nope"}, io.Discard, io.Discard)
	assert.Equal(t, exitUsage, exitCodeForError(err))

	err = run(context.Background(), &options{headless: true, headlessSet: true, keys: "warp"}, io.Discard, io.Discard)
	assert.Equal(t, exitUsage, exitCodeForError(err))

	cfg := writeFile(t, dir, "config.yaml", "animation:\n  speed: 500\n")
	err = run(context.Background(), &options{headless: true, headlessSet: true, configPath: cfg}, io.Discard, io.Discard)
	assert.True(t, slateerrors.IsCode(err, slateerrors.ErrCodeConfigInvalid))
}
