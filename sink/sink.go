package sink

import (
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/web3tea/logrelay/formatter"
	"github.com/web3tea/logrelay/mailbox"
	"github.com/web3tea/logrelay/models"
	"github.com/web3tea/logrelay/settings"
)

// Logger is the minimal logging surface the sink needs for its own
// diagnostics. Dropped events are logged at debug only; the relay contract
// is a silent drop.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (l *noopLogger) Debugf(format string, args ...any) {}
func (l *noopLogger) Infof(format string, args ...any)  {}
func (l *noopLogger) Warnf(format string, args ...any)  {}
func (l *noopLogger) Errorf(format string, args ...any) {}

// Config is the complete state of a sink. Reconfigure replaces it
// wholesale; nothing mutates it in place, so an in-flight Handle never
// observes a partial update.
type Config struct {
	// Name is the sink's identity, fixed at Init. Identity is never
	// configurable: the "name" option key is overwritten on every merge.
	Name string

	// Level is the minimum severity a record needs to be relayed.
	Level models.Level

	// Destination is where deliveries go. Unset suppresses all delivery.
	Destination mailbox.Destination

	// ExtraMetadata is stamped onto every delivery. On key collision it
	// overrides the record's own metadata; operator-configured context wins
	// over whatever the emitter supplied.
	ExtraMetadata models.Metadata

	// Formatter optionally rewrites the message before delivery. Zero value
	// passes messages through unchanged.
	Formatter formatter.Formatter

	// Node names the logical node this sink serves. Records from other
	// nodes are ignored. Empty means the local node.
	Node string
}

// Sink is a filter-and-forward stage between a host dispatcher and a
// destination mailbox. The host serializes Handle calls; Reconfigure may
// come from an operator goroutine, so the config lives behind an atomic
// pointer.
type Sink struct {
	store    settings.Store
	registry mailbox.Registry
	logger   Logger
	cfg      atomic.Pointer[Config]
}

// Init creates a sink named name. Persisted settings for the name are
// loaded first, opts merged on top, and the merged result persisted back
// before the config is built. A nil store falls back to an in-memory one; a
// nil logger to a noop one.
func Init(name string, opts Options, store settings.Store, registry mailbox.Registry, logger Logger) (*Sink, error) {
	if name == "" {
		return nil, &ConfigError{Field: optName, Reason: "required"}
	}
	if store == nil {
		store = settings.NewMemoryStore()
	}
	if logger == nil {
		logger = &noopLogger{}
	}

	s := &Sink{
		store:    store,
		registry: registry,
		logger:   logger,
	}
	cfg, err := s.configure(name, opts)
	if err != nil {
		return nil, err
	}
	s.cfg.Store(cfg)

	logger.Debugf("sink %s: initialized with destination %s", name, cfg.Destination)
	return s, nil
}

// Reconfigure merges opts over the currently persisted settings, persists
// the result, and atomically swaps in the new config. On error the previous
// config stays in effect.
func (s *Sink) Reconfigure(opts Options) error {
	cur := s.cfg.Load()
	cfg, err := s.configure(cur.Name, opts)
	if err != nil {
		return err
	}
	s.cfg.Store(cfg)

	s.logger.Debugf("sink %s: reconfigured, level=%s destination=%s", cfg.Name, cfg.Level, cfg.Destination)
	return nil
}

func (s *Sink) configure(name string, opts Options) (*Config, error) {
	persisted, err := s.store.Get(name)
	if err != nil {
		return nil, fmt.Errorf("load settings for %q: %w", name, err)
	}

	merged := lo.Assign(persisted, map[string]any(opts))
	// identity is never configurable
	merged[optName] = name

	if err := s.store.Put(name, merged); err != nil {
		return nil, fmt.Errorf("persist settings for %q: %w", name, err)
	}
	return buildConfig(merged)
}

// Name returns the sink's immutable identity.
func (s *Sink) Name() string {
	return s.cfg.Load().Name
}

// Config returns a copy of the current configuration.
func (s *Sink) Config() Config {
	return *s.cfg.Load()
}

// Handle processes one inbound event from the host dispatcher: a
// models.Record or a models.Flush token. It reports whether a message was
// handed to the destination and never fails the caller; every per-event
// problem (wrong node, level below threshold, dead destination, formatter
// failure, saturated queue) drops the event.
func (s *Sink) Handle(ev any) bool {
	switch ev := ev.(type) {
	case models.Flush:
		return s.handleFlush(ev)
	case models.Record:
		return s.handleRecord(ev)
	default:
		s.logger.Debugf("sink %s: ignoring event of type %T", s.Name(), ev)
		return false
	}
}

func (s *Sink) handleFlush(tok models.Flush) bool {
	cfg := s.cfg.Load()

	dest, ok := cfg.Destination.Resolve(s.registry)
	if !ok {
		return false
	}
	return dest.Send(tok)
}

func (s *Sink) handleRecord(rec models.Record) bool {
	cfg := s.cfg.Load()

	if rec.Node != cfg.Node {
		// emitted on another node; the sink over there relays it
		return false
	}
	if cfg.Destination.IsUnset() {
		return false
	}
	if !models.ShouldLog(rec.Level, cfg.Level) {
		return false
	}
	dest, ok := cfg.Destination.Resolve(s.registry)
	if !ok {
		return false
	}

	md := rec.Metadata.Merge(cfg.ExtraMetadata)
	msg, err := cfg.Formatter.Format(rec.Level, rec.Message, rec.Timestamp, md)
	if err != nil {
		s.logger.Debugf("sink %s: dropping record from %s: %v", cfg.Name, rec.Source, err)
		return false
	}

	return dest.Send(models.Delivery{
		Level:     rec.Level,
		Message:   msg,
		Timestamp: rec.Timestamp,
		Metadata:  md,
	})
}
