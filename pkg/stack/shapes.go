package stack

import "reflect"

// NumShapes is the number of declared layer shapes.
const NumShapes = 31

/*
Every shape is a separately declared type so that each one contributes a
frame with its own function name. Generic instantiations would share a
single function per GC shape and collapse the stack into repeats.
*/

type layer0 struct{ next Layer }

//go:noinline
func (l *layer0) Invoke() error { return l.next.Invoke() }

type layer1 struct{ next Layer }

//go:noinline
func (l *layer1) Invoke() error { return l.next.Invoke() }

type layer2 struct{ next Layer }

//go:noinline
func (l *layer2) Invoke() error { return l.next.Invoke() }

type layer3 struct{ next Layer }

//go:noinline
func (l *layer3) Invoke() error { return l.next.Invoke() }

type layer4 struct{ next Layer }

//go:noinline
func (l *layer4) Invoke() error { return l.next.Invoke() }

type layer5 struct{ next Layer }

//go:noinline
func (l *layer5) Invoke() error { return l.next.Invoke() }

type layer6 struct{ next Layer }

//go:noinline
func (l *layer6) Invoke() error { return l.next.Invoke() }

type layer7 struct{ next Layer }

//go:noinline
func (l *layer7) Invoke() error { return l.next.Invoke() }

type layer8 struct{ next Layer }

//go:noinline
func (l *layer8) Invoke() error { return l.next.Invoke() }

type layer9 struct{ next Layer }

//go:noinline
func (l *layer9) Invoke() error { return l.next.Invoke() }

type layer10 struct{ next Layer }

//go:noinline
func (l *layer10) Invoke() error { return l.next.Invoke() }

type layer11 struct{ next Layer }

//go:noinline
func (l *layer11) Invoke() error { return l.next.Invoke() }

type layer12 struct{ next Layer }

//go:noinline
func (l *layer12) Invoke() error { return l.next.Invoke() }

type layer13 struct{ next Layer }

//go:noinline
func (l *layer13) Invoke() error { return l.next.Invoke() }

type layer14 struct{ next Layer }

//go:noinline
func (l *layer14) Invoke() error { return l.next.Invoke() }

type layer15 struct{ next Layer }

//go:noinline
func (l *layer15) Invoke() error { return l.next.Invoke() }

type layer16 struct{ next Layer }

//go:noinline
func (l *layer16) Invoke() error { return l.next.Invoke() }

type layer17 struct{ next Layer }

//go:noinline
func (l *layer17) Invoke() error { return l.next.Invoke() }

type layer18 struct{ next Layer }

//go:noinline
func (l *layer18) Invoke() error { return l.next.Invoke() }

type layer19 struct{ next Layer }

//go:noinline
func (l *layer19) Invoke() error { return l.next.Invoke() }

type layer20 struct{ next Layer }

//go:noinline
func (l *layer20) Invoke() error { return l.next.Invoke() }

type layer21 struct{ next Layer }

//go:noinline
func (l *layer21) Invoke() error { return l.next.Invoke() }

type layer22 struct{ next Layer }

//go:noinline
func (l *layer22) Invoke() error { return l.next.Invoke() }

type layer23 struct{ next Layer }

//go:noinline
func (l *layer23) Invoke() error { return l.next.Invoke() }

type layer24 struct{ next Layer }

//go:noinline
func (l *layer24) Invoke() error { return l.next.Invoke() }

type layer25 struct{ next Layer }

//go:noinline
func (l *layer25) Invoke() error { return l.next.Invoke() }

type layer26 struct{ next Layer }

//go:noinline
func (l *layer26) Invoke() error { return l.next.Invoke() }

type layer27 struct{ next Layer }

//go:noinline
func (l *layer27) Invoke() error { return l.next.Invoke() }

type layer28 struct{ next Layer }

//go:noinline
func (l *layer28) Invoke() error { return l.next.Invoke() }

type layer29 struct{ next Layer }

//go:noinline
func (l *layer29) Invoke() error { return l.next.Invoke() }

type layer30 struct{ next Layer }

//go:noinline
func (l *layer30) Invoke() error { return l.next.Invoke() }

var registry = [NumShapes]func(next Layer) Layer{
	func(next Layer) Layer { return &layer0{next} },
	func(next Layer) Layer { return &layer1{next} },
	func(next Layer) Layer { return &layer2{next} },
	func(next Layer) Layer { return &layer3{next} },
	func(next Layer) Layer { return &layer4{next} },
	func(next Layer) Layer { return &layer5{next} },
	func(next Layer) Layer { return &layer6{next} },
	func(next Layer) Layer { return &layer7{next} },
	func(next Layer) Layer { return &layer8{next} },
	func(next Layer) Layer { return &layer9{next} },
	func(next Layer) Layer { return &layer10{next} },
	func(next Layer) Layer { return &layer11{next} },
	func(next Layer) Layer { return &layer12{next} },
	func(next Layer) Layer { return &layer13{next} },
	func(next Layer) Layer { return &layer14{next} },
	func(next Layer) Layer { return &layer15{next} },
	func(next Layer) Layer { return &layer16{next} },
	func(next Layer) Layer { return &layer17{next} },
	func(next Layer) Layer { return &layer18{next} },
	func(next Layer) Layer { return &layer19{next} },
	func(next Layer) Layer { return &layer20{next} },
	func(next Layer) Layer { return &layer21{next} },
	func(next Layer) Layer { return &layer22{next} },
	func(next Layer) Layer { return &layer23{next} },
	func(next Layer) Layer { return &layer24{next} },
	func(next Layer) Layer { return &layer25{next} },
	func(next Layer) Layer { return &layer26{next} },
	func(next Layer) Layer { return &layer27{next} },
	func(next Layer) Layer { return &layer28{next} },
	func(next Layer) Layer { return &layer29{next} },
	func(next Layer) Layer { return &layer30{next} },
}

var (
	shapeNames  [NumShapes]string
	shapeByFunc = make(map[string]int, NumShapes)
)

func init() {
	pkg := reflect.TypeOf(terminal{}).PkgPath()
	for i, wrap := range registry {
		name := reflect.TypeOf(wrap(nil)).Elem().Name()
		shapeNames[i] = name
		shapeByFunc[pkg+".(*"+name+").Invoke"] = i
	}
}

// ShapeName returns the declared type name of shape i, or an empty
// string if i is not a declared shape.
func ShapeName(i int) string {
	if i < 0 || i >= NumShapes {
		return ""
	}
	return shapeNames[i]
}
