package models

import "fmt"

// Level 表示日志记录的严重级别
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

var levelNames = [...]string{
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarning: "warning",
	LevelError:   "error",
}

func (l Level) String() string {
	if !l.Valid() {
		return fmt.Sprintf("level(%d)", int8(l))
	}
	return levelNames[l]
}

func (l Level) Valid() bool {
	return l >= LevelDebug && l <= LevelError
}

func ParseLevel(s string) (Level, error) {
	for lv, name := range levelNames {
		if s == name {
			return Level(lv), nil
		}
	}
	// common alias
	if s == "warn" {
		return LevelWarning, nil
	}
	return LevelDebug, fmt.Errorf("unknown level: %q", s)
}

// ShouldLog reports whether a record at level passes a sink configured with
// threshold. Equal severity always passes.
func ShouldLog(level, threshold Level) bool {
	return level >= threshold
}
