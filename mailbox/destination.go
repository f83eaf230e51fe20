package mailbox

import "fmt"

type destinationKind uint8

const (
	destinationUnset destinationKind = iota
	destinationHandle
	destinationName
)

// Destination identifies the mailbox a sink delivers to: unset, a direct
// handle, or a logical name resolved through a Registry at delivery time.
// The zero value is unset and never resolves.
type Destination struct {
	kind   destinationKind
	handle *Mailbox
	name   string
}

func Unset() Destination {
	return Destination{}
}

func Handle(m *Mailbox) Destination {
	if m == nil {
		return Destination{}
	}
	return Destination{kind: destinationHandle, handle: m}
}

func Name(n string) Destination {
	if n == "" {
		return Destination{}
	}
	return Destination{kind: destinationName, name: n}
}

func (d Destination) IsUnset() bool {
	return d.kind == destinationUnset
}

func (d Destination) String() string {
	switch d.kind {
	case destinationHandle:
		return fmt.Sprintf("handle(%p)", d.handle)
	case destinationName:
		return "name(" + d.name + ")"
	default:
		return "unset"
	}
}

// Resolve returns the live mailbox for d. A handle destination is checked
// for liveness directly; a named destination is looked up in reg first. An
// unregistered name counts as not live.
func (d Destination) Resolve(reg Registry) (*Mailbox, bool) {
	switch d.kind {
	case destinationHandle:
		if d.handle.Alive() {
			return d.handle, true
		}
	case destinationName:
		if reg == nil {
			return nil, false
		}
		if m, ok := reg.Resolve(d.name); ok && m.Alive() {
			return m, true
		}
	}
	return nil, false
}
