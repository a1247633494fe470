/*
Package stack builds errors that carry deep call stacks made of many
distinct frames. Loggers that render or cache stack traces per frame
behave very differently with such errors than with a flat error created
at the call site, so benchmarks use them as a realistic payload.
*/
package stack

import (
	errs "github.com/bdlm/errors"

	"github.com/mkenney/log-bench/internal/codes"
)

/*
Layer is a single call in a synthesized chain. Implementations call the
next layer and return its failure unchanged.
*/
type Layer interface {
	Invoke() error
}

// LayerFunc adapts an ordinary function to the Layer interface.
type LayerFunc func() error

// Invoke calls f().
func (f LayerFunc) Invoke() error {
	return f()
}

// terminal is the innermost layer of a synthesized chain.
type terminal struct {
	msg string
}

//go:noinline
func (t *terminal) Invoke() error {
	return newThrowable(t.msg, 0)
}

/*
Build wraps inner in depth forwarding layers. Layer i is of shape
i mod shapes, so the chain cycles through the first shapes declared
layer types. The returned Layer is the outermost one.
*/
func Build(inner Layer, depth, shapes int) (Layer, error) {
	if depth < 1 {
		return nil, errs.New(codes.ErrInvalidDepth, "stack depth must be at least 1")
	}
	if shapes < 1 || shapes > NumShapes {
		return nil, errs.New(codes.ErrShapeUnavailable, shapeRangeMsg(shapes))
	}
	if nil == inner {
		return nil, errs.New(codes.ErrUnspecified, "nil inner layer")
	}

	layer := inner
	for i := 0; i < depth; i++ {
		layer = registry[i%shapes](layer)
	}
	return layer, nil
}
