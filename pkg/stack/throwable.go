package stack

import (
	"fmt"
	"io"
	"runtime"
)

// Frame describes one layer of a synthesized stack.
type Frame struct {
	// Shape is the index of the declared layer type.
	Shape int
	// Type is the declared layer type name.
	Type     string
	Function string
	File     string
	Line     int
}

// String returns the frame formatted as "function(file:line)".
func (f Frame) String() string {
	return fmt.Sprintf("%s(%s:%d)", f.Function, f.File, f.Line)
}

/*
Throwable is an error carrying the call stack captured where it was
raised. It is never modified after construction and is safe to share
between goroutines.
*/
type Throwable struct {
	msg    string
	pcs    []uintptr
	frames []Frame
}

func newThrowable(msg string, skip int) *Throwable {
	pcs := callers(3 + skip)
	return &Throwable{
		msg:    msg,
		pcs:    pcs,
		frames: layerFrames(pcs),
	}
}

// Error returns the throwable message.
func (t *Throwable) Error() string { return t.msg }

// Message returns the throwable message.
func (t *Throwable) Message() string { return t.msg }

// Depth returns the number of layer frames.
func (t *Throwable) Depth() int { return len(t.frames) }

// Frames returns the layer frames, innermost first.
func (t *Throwable) Frames() []Frame {
	frames := make([]Frame, len(t.frames))
	copy(frames, t.frames)
	return frames
}

// Shapes returns the shape index of each layer frame, innermost first.
func (t *Throwable) Shapes() []int {
	shapes := make([]int, len(t.frames))
	for i, f := range t.frames {
		shapes[i] = f.Shape
	}
	return shapes
}

/*
Callers returns the program counters of the complete stack captured when
the throwable was raised, including frames outside the layer chain. The
result is suitable for runtime.CallersFrames.
*/
func (t *Throwable) Callers() []uintptr {
	pcs := make([]uintptr, len(t.pcs))
	copy(pcs, t.pcs)
	return pcs
}

/*
Format implements fmt.Formatter. The %+v and %-v verbs print the message
followed by the full stack trace, one "\tat function(file:line)" line per
frame; %v and %s print the message only.
*/
func (t *Throwable) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') || s.Flag('-') {
			io.WriteString(s, t.msg)
			t.writeTrace(s)
			return
		}
		io.WriteString(s, t.msg)
	case 's':
		io.WriteString(s, t.msg)
	case 'q':
		fmt.Fprintf(s, "%q", t.msg)
	}
}

func (t *Throwable) writeTrace(w io.Writer) {
	if 0 == len(t.pcs) {
		return
	}
	frames := runtime.CallersFrames(t.pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(w, "\n\tat %s(%s:%d)", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
}

// callers returns the program counters of the calling goroutine's stack,
// growing the buffer until the whole stack fits.
func callers(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	for {
		n := runtime.Callers(skip, pcs)
		if n < len(pcs) {
			return pcs[:n:n]
		}
		pcs = make([]uintptr, 2*len(pcs))
	}
}

func layerFrames(pcs []uintptr) []Frame {
	if 0 == len(pcs) {
		return nil
	}
	var frames []Frame
	iter := runtime.CallersFrames(pcs)
	for {
		f, more := iter.Next()
		if shape, ok := shapeByFunc[f.Function]; ok {
			frames = append(frames, Frame{
				Shape:    shape,
				Type:     shapeNames[shape],
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			})
		}
		if !more {
			break
		}
	}
	return frames
}
