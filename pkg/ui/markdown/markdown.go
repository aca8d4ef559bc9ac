// Package markdown turns a markdown document into slate components:
// headings become titles, paragraphs and list items become text areas and
// standalone images become image placeholders.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/theme"
	"github.com/odvcencio/slate/pkg/ui/widgets"
)

// Default image size when the image title carries none.
const (
	DefaultImageWidth  = 20
	DefaultImageHeight = 5
)

// Parser wraps goldmark for markdown parsing.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a new markdown parser with GitHub flavored extensions.
func NewParser() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Parse parses markdown source and returns the AST root.
func (p *Parser) Parse(source []byte) ast.Node {
	return p.md.Parser().Parse(text.NewReader(source))
}

// Components converts source to components sharing style. Unsupported
// blocks such as tables are skipped.
func (p *Parser) Components(source []byte, style *theme.Style) []component.Component {
	b := &builder{src: source, style: style}
	b.blocks(p.Parse(source))
	return b.out
}

type builder struct {
	src   []byte
	style *theme.Style
	out   []component.Component
}

func (b *builder) add(c component.Component) { b.out = append(b.out, c) }

func (b *builder) blocks(parent ast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *ast.Heading:
			b.add(widgets.NewTitle(inlineText(n, b.src), b.style))
		case *ast.Paragraph, *ast.TextBlock:
			if img, ok := soleImage(n); ok {
				b.add(b.image(img))
				continue
			}
			if s := inlineText(n, b.src); s != "" {
				b.add(widgets.NewTextArea(s, b.style))
			}
		case *ast.List:
			b.list(n)
		case *ast.FencedCodeBlock:
			b.add(widgets.NewTextArea(codeText(n, b.src), b.style, widgets.WithoutSpaceAboveFirstLine()))
		case *ast.CodeBlock:
			b.add(widgets.NewTextArea(codeText(n, b.src), b.style, widgets.WithoutSpaceAboveFirstLine()))
		case *ast.Blockquote:
			b.blocks(n)
		}
	}
}

func (b *builder) list(l *ast.List) {
	i := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "• "
		if l.IsOrdered() {
			bullet = fmt.Sprintf("%d. ", i)
			i++
		}
		b.add(widgets.NewTextArea(bullet+inlineText(item, b.src), b.style))
	}
}

// image sizes the placeholder from a "WxH" title, e.g.
// ![map](map.png "40x10").
func (b *builder) image(img *ast.Image) component.Component {
	w, h := DefaultImageWidth, DefaultImageHeight
	var tw, th int
	if _, err := fmt.Sscanf(string(img.Title), "%dx%d", &tw, &th); err == nil && tw > 0 && th > 0 {
		w, h = tw, th
	}
	return widgets.NewImage(w, h, inlineText(img, b.src), b.style)
}

func soleImage(n ast.Node) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}

// inlineText flattens the inline content of n. Soft breaks become spaces,
// hard breaks newlines.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.HardLineBreak() {
				sb.WriteByte('\n')
			} else if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func codeText(n ast.Node, src []byte) string {
	lines := n.Lines()
	var sb strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return strings.TrimRight(sb.String(), "\n")
}
