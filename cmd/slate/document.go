package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/slate/pkg/errors"
	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/markdown"
	"github.com/odvcencio/slate/pkg/ui/panel"
	"github.com/odvcencio/slate/pkg/ui/theme"
	"github.com/odvcencio/slate/pkg/ui/widgets"
)

// document is the YAML description of the screens to show.
type document struct {
	Screens []screenDoc `yaml:"screens"`
}

type screenDoc struct {
	Name       string         `yaml:"name"`
	Panel      string         `yaml:"panel"`
	Components []componentDoc `yaml:"components"`
}

type componentDoc struct {
	Type         string    `yaml:"type"`
	Text         string    `yaml:"text"`
	Hyphen       string    `yaml:"hyphen"`
	NoSpaceAbove bool      `yaml:"no_space_above"`
	Width        int       `yaml:"width"`
	Height       int       `yaml:"height"`
	Lower        int       `yaml:"lower"`
	Upper        int       `yaml:"upper"`
	Steps        int       `yaml:"steps"`
	Value        *int      `yaml:"value"`
	Preference   string    `yaml:"preference"`
	Style        *styleDoc `yaml:"style"`
}

// styleDoc overrides parts of the theme's component style.
type styleDoc struct {
	Padding    *int     `yaml:"padding"`
	Margin     []int    `yaml:"margin"`
	LineHeight *float64 `yaml:"line_height"`
	TextAlign  string   `yaml:"text_align"`
	Align      string   `yaml:"align"`
}

// Panel kinds.
const (
	panelContent   = "content"
	panelSelection = "selection"
	panelAnimated  = "animated"
)

func loadDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "reading document").
			WithContext("path", path)
	}
	return parseDocument(data)
}

func parseDocument(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigParse, "parsing document")
	}
	if len(doc.Screens) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no screens").
			WithRemediation("add a screens: list with at least one entry")
	}
	for i := range doc.Screens {
		if doc.Screens[i].Name == "" {
			doc.Screens[i].Name = fmt.Sprintf("screen-%d", i+1)
		}
	}
	return &doc, nil
}

// find returns the named screen, or the first when name is empty.
func (d *document) find(name string) (*screenDoc, error) {
	if name == "" {
		return &d.Screens[0], nil
	}
	for i := range d.Screens {
		if d.Screens[i].Name == name {
			return &d.Screens[i], nil
		}
	}
	return nil, errors.Newf(errors.ErrCodeInvalidInput, "no screen named %q", name)
}

// built is a panel plus the components that need wiring by the host.
type built struct {
	panel  panel.Panel
	gauges []*widgets.Gauge
}

func (s *screenDoc) build(th *theme.Theme) (*built, error) {
	out := &built{}
	comps := make([]component.Component, 0, len(s.Components))
	for i, cd := range s.Components {
		cs, err := cd.build(th)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "building component").
				WithContext("screen", s.Name).
				WithContext("index", i)
		}
		for _, c := range cs {
			if g, ok := c.(*widgets.Gauge); ok {
				out.gauges = append(out.gauges, g)
			}
		}
		comps = append(comps, cs...)
	}

	switch strings.ToLower(s.Panel) {
	case "", panelContent:
		out.panel = panel.NewContentPanel(comps...)
	case panelSelection:
		out.panel = panel.NewSelectionPanel(comps...)
	case panelAnimated:
		out.panel = panel.NewAnimatedPanel(comps...)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidInput, "unknown panel kind %q", s.Panel).
			WithRemediation("use content, selection or animated")
	}
	return out, nil
}

// build returns the components for one entry. Markdown entries expand to
// several.
func (cd componentDoc) build(th *theme.Theme) ([]component.Component, error) {
	st := cd.Style.resolve(th)
	if strings.EqualFold(cd.Type, "markdown") {
		return markdown.NewParser().Components([]byte(cd.Text), st), nil
	}
	c, err := cd.single(st)
	if err != nil {
		return nil, err
	}
	return []component.Component{c}, nil
}

func (cd componentDoc) single(st *theme.Style) (component.Component, error) {
	switch strings.ToLower(cd.Type) {
	case "text", "":
		var opts []widgets.TextOption
		if cd.Hyphen != "" {
			opts = append(opts, widgets.WithSyllableSeparator([]rune(cd.Hyphen)[0]))
		}
		if cd.NoSpaceAbove {
			opts = append(opts, widgets.WithoutSpaceAboveFirstLine())
		}
		return widgets.NewTextArea(cd.Text, st, opts...), nil
	case "highlight":
		var opts []widgets.TextOption
		if cd.Hyphen != "" {
			opts = append(opts, widgets.WithSyllableSeparator([]rune(cd.Hyphen)[0]))
		}
		return widgets.NewHighlightTextArea(cd.Text, st, opts...), nil
	case "title":
		return widgets.NewTitle(cd.Text, st), nil
	case "label":
		return widgets.NewLabel(cd.Text, st), nil
	case "image":
		if cd.Width <= 0 || cd.Height <= 0 {
			return nil, fmt.Errorf("image needs positive width and height, got %dx%d", cd.Width, cd.Height)
		}
		return widgets.NewImage(cd.Width, cd.Height, cd.Text, st), nil
	case "gauge":
		g := widgets.NewGauge(cd.Text, cd.Lower, cd.Upper, cd.Steps, st)
		if cd.Value != nil {
			g.SetValue(*cd.Value)
		}
		if cd.Preference != "" {
			g.BindPreference(cd.Preference)
		}
		return g, nil
	}
	return nil, fmt.Errorf("unknown component type %q", cd.Type)
}

// resolve returns nil when there is nothing to override so the component
// follows theme changes.
func (sd *styleDoc) resolve(th *theme.Theme) *theme.Style {
	if sd == nil {
		return nil
	}
	st := th.Style
	if sd.Padding != nil {
		st.Padding = *sd.Padding
	}
	// CSS order: one value for all sides, two for vertical and horizontal,
	// four for top, right, bottom, left.
	switch m := sd.Margin; len(m) {
	case 1:
		st.Margin = theme.Spacing{Top: m[0], Right: m[0], Bottom: m[0], Left: m[0]}
	case 2:
		st.Margin = theme.Spacing{Top: m[0], Right: m[1], Bottom: m[0], Left: m[1]}
	case 4:
		st.Margin = theme.Spacing{Top: m[0], Right: m[1], Bottom: m[2], Left: m[3]}
	}
	if sd.LineHeight != nil {
		st.LineHeight = *sd.LineHeight
	}
	if sd.TextAlign != "" {
		st.TextAlign = theme.ParseAnchor(strings.ToLower(sd.TextAlign))
	}
	if sd.Align != "" {
		st.Align = theme.ParseAnchor(strings.ToLower(sd.Align))
	}
	return &st
}
