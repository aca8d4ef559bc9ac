package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/slate/pkg/ui/component"
	"github.com/odvcencio/slate/pkg/ui/runtime"
	"github.com/odvcencio/slate/pkg/ui/theme"
)

// Image is a fixed-size, indivisible block. Pixels are drawn by the host;
// on a terminal it renders as a shaded box with its alt text centered.
type Image struct {
	component.Block
	width, height int
	alt           string
}

// NewImage returns a width×height image block.
func NewImage(width, height int, alt string, style *theme.Style) *Image {
	img := &Image{width: max(width, 0), height: max(height, 0), alt: alt}
	img.Block = component.NewBlock(component.NewBase(style), func(*component.Context, int) runtime.Size {
		return runtime.Size{Width: img.width, Height: img.height}
	})
	return img
}

// Alt returns the alternative text.
func (img *Image) Alt() string { return img.alt }

func (img *Image) Render(rc runtime.RenderContext) {
	if rc.Buffer == nil {
		return
	}
	st := rc.Theme.Resolve(img.Style())
	area := runtime.Rect{
		X:      rc.Bounds.X + st.Align.Offset(rc.Bounds.Width, img.width),
		Y:      rc.Bounds.Y,
		Width:  img.width,
		Height: img.height,
	}.Intersection(rc.Bounds)
	if area.Empty() {
		return
	}
	rc.Buffer.Fill(area, '░', st.Text)

	label := runewidth.Truncate(img.alt, area.Width, "")
	if label == "" {
		return
	}
	x := area.X + theme.AnchorCenter.Offset(area.Width, runewidth.StringWidth(label))
	rc.Buffer.SetString(x, area.Y+area.Height/2, label, st.Text)
}
