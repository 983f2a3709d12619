package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// writer accumulates the first write error so component bodies read as a
// straight sequence of writes.
type writer struct {
	w   io.Writer
	err error
}

func (b *writer) raw(parts ...string) {
	for _, p := range parts {
		if b.err != nil {
			return
		}
		_, b.err = io.WriteString(b.w, p)
	}
}

func (b *writer) text(s string) {
	b.raw(templ.EscapeString(s))
}

func (b *writer) render(ctx context.Context, c templ.Component) {
	if b.err != nil || c == nil {
		return
	}
	b.err = c.Render(ctx, b.w)
}

// component adapts a body function into a templ.Component.
func component(fn func(ctx context.Context, b *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &writer{w: w}
		fn(ctx, b)
		return b.err
	})
}
