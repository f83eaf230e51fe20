package log

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}

func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// Logger is a named zerolog wrapper. It satisfies sink.Logger.
type Logger struct {
	logger zerolog.Logger
	name   string
}

func NewLogger(name string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("logger", name).
		Caller().
		Logger()

	return &Logger{
		logger: logger,
		name:   name,
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logger.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}

var defaultLogger = NewLogger("default", nil)

func caller(event *zerolog.Event) *zerolog.Event {
	_, file, line, ok := runtime.Caller(2)
	if ok {
		event = event.Str("caller", filepath.Base(file)+":"+strconv.Itoa(line))
	}
	return event
}

func Debugf(format string, args ...any) {
	caller(defaultLogger.logger.Debug()).Msgf(format, args...)
}

func Infof(format string, args ...any) {
	caller(defaultLogger.logger.Info()).Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	caller(defaultLogger.logger.Warn()).Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	caller(defaultLogger.logger.Error()).Msgf(format, args...)
}

func Fatalf(format string, args ...any) {
	// zerolog calls os.Exit(1) once the event is logged
	caller(defaultLogger.logger.Fatal()).Msgf(format, args...)
}
