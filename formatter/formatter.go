package formatter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/web3tea/logrelay/models"
)

// Func rewrites a log message before delivery. Returning an error drops the
// record.
type Func func(level models.Level, message string, ts time.Time, md models.Metadata) (string, error)

// FormatError wraps whatever went wrong inside a formatter invocation,
// including recovered panics. It never escapes the sink; its only visible
// effect is a dropped record.
type FormatError struct {
	Cause error
}

func (e *FormatError) Error() string {
	return "format: " + e.Cause.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

type kind uint8

const (
	kindNone kind = iota
	kindDirect
	kindRef
)

// Formatter is a tagged reference to a message formatter: either a function
// value or a (module, function) pair resolved through the package registry
// at call time. The zero value is "no formatter" and passes messages
// through unchanged.
type Formatter struct {
	kind     kind
	fn       Func
	module   string
	function string
}

func Direct(fn Func) Formatter {
	if fn == nil {
		return Formatter{}
	}
	return Formatter{kind: kindDirect, fn: fn}
}

func Ref(module, function string) Formatter {
	return Formatter{kind: kindRef, module: module, function: function}
}

// ParseRef parses a "module:function" reference string.
func ParseRef(s string) (Formatter, error) {
	module, function, ok := strings.Cut(s, ":")
	if !ok || module == "" || function == "" {
		return Formatter{}, fmt.Errorf("invalid formatter reference: %q", s)
	}
	return Ref(module, function), nil
}

func (f Formatter) IsZero() bool {
	return f.kind == kindNone
}

func (f Formatter) String() string {
	switch f.kind {
	case kindDirect:
		return "direct"
	case kindRef:
		return f.module + ":" + f.function
	default:
		return "none"
	}
}

var (
	mu      sync.RWMutex
	modules = map[string]map[string]Func{}
)

// Register installs fn under a (module, function) name so configuration can
// refer to it by string. Re-registering replaces the previous function.
func Register(module, function string, fn Func) {
	mu.Lock()
	defer mu.Unlock()

	fns, ok := modules[module]
	if !ok {
		fns = map[string]Func{}
		modules[module] = fns
	}
	fns[function] = fn
}

func lookup(module, function string) (Func, bool) {
	mu.RLock()
	defer mu.RUnlock()

	fn, ok := modules[module][function]
	return fn, ok
}

// Format runs the configured formatter over the record fields. A panic
// inside the formatter, an error return, or an unresolvable reference all
// convert to *FormatError; nothing propagates to the caller. With no
// formatter configured the message is returned as-is.
func (f Formatter) Format(level models.Level, message string, ts time.Time, md models.Metadata) (out string, err error) {
	var fn Func
	switch f.kind {
	case kindNone:
		return message, nil
	case kindDirect:
		fn = f.fn
	case kindRef:
		var ok bool
		fn, ok = lookup(f.module, f.function)
		if !ok {
			return "", &FormatError{Cause: fmt.Errorf("formatter %s:%s is not registered", f.module, f.function)}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &FormatError{Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	out, ferr := fn(level, message, ts, md)
	if ferr != nil {
		return "", &FormatError{Cause: ferr}
	}
	return out, nil
}
