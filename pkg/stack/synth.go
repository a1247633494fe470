package stack

import (
	"fmt"

	errs "github.com/bdlm/errors"

	"github.com/mkenney/log-bench/internal/codes"
)

const (
	// Message is the message of every synthesized throwable.
	Message = "Test Throwable"

	// DefaultDepth is the number of layers wrapped around the terminal
	// action by default.
	DefaultDepth = 31
)

/*
Synthesize builds a chain of depth layers cycling through the first
shapes declared layer types, invokes it, and returns the failure raised
by the terminal action. The throwable's Frames hold exactly depth
entries, innermost first.

A setup error is returned, and no throwable, if the requested shapes are
not declared or the captured stack does not contain every layer.
*/
func Synthesize(depth, shapes int) (*Throwable, error) {
	chain, err := Build(&terminal{msg: Message}, depth, shapes)
	if nil != err {
		return nil, err
	}

	t, ok := chain.Invoke().(*Throwable)
	if !ok || nil == t {
		return nil, errs.New(codes.ErrStackNotRaised, "layer chain did not fail with a throwable")
	}
	if len(t.frames) != depth {
		return nil, errs.New(codes.ErrStackNotRaised, fmt.Sprintf("captured %d layer frames, want %d", len(t.frames), depth))
	}
	return t, nil
}

// MustSynthesize is like Synthesize but panics if the stack cannot be
// built. It simplifies safe initialization of package level fixtures.
func MustSynthesize(depth, shapes int) *Throwable {
	t, err := Synthesize(depth, shapes)
	if nil != err {
		panic(err)
	}
	return t
}

// Simple returns a throwable created directly by the caller, with no
// layer frames.
func Simple(msg string) *Throwable {
	return newThrowable(msg, 1)
}

func shapeRangeMsg(shapes int) string {
	return fmt.Sprintf("%d layer shapes requested, %d declared", shapes, NumShapes)
}
