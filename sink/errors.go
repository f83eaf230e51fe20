package sink

import "fmt"

// ConfigError reports a missing required field or a wrongly shaped value in
// the merged option map. It is the only error class that escapes the sink:
// per-event failures are absorbed by Handle.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sink config: %s: %s", e.Field, e.Reason)
}
