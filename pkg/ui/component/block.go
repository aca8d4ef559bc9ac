package component

import "github.com/odvcencio/slate/pkg/ui/runtime"

// MeasureFunc computes a content size for a layout width.
type MeasureFunc func(ctx *Context, width int) runtime.Size

// Block is an indivisible component: it is either shown whole or not at all.
type Block struct {
	Base
	measure MeasureFunc
}

// NewBlock returns a Block sized by measure.
func NewBlock(base Base, measure MeasureFunc) Block {
	return Block{Base: base, measure: measure}
}

func (b *Block) PreferredSize(ctx *Context, width int) runtime.Size {
	return b.CachedSize(width, func() runtime.Size {
		if b.measure == nil {
			return runtime.Size{}
		}
		st := ctx.StyleOf(b)
		return b.measure(ctx, InnerWidth(st, width))
	})
}

func (b *Block) CanRenderInto(ctx *Context, width, height int) bool {
	return b.PreferredSize(ctx, width).FitsWithin(width, height)
}

func (b *Block) CalculateVisibleHeight(ctx *Context, width, _ int) int {
	return b.PreferredSize(ctx, width).Height
}
