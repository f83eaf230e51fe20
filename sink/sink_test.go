package sink_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/web3tea/logrelay/formatter"
	"github.com/web3tea/logrelay/mailbox"
	"github.com/web3tea/logrelay/models"
	"github.com/web3tea/logrelay/settings"
	"github.com/web3tea/logrelay/sink"
)

var ts = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func record(level models.Level, message string) models.Record {
	return models.Record{
		Level:     level,
		Source:    "logger",
		Message:   message,
		Timestamp: ts,
	}
}

func TestSinkSuite(t *testing.T) {
	suite.Run(t, new(sinkSuite))
}

type sinkSuite struct {
	suite.Suite

	store    *settings.MemoryStore
	registry *mailbox.MapRegistry
	mbox     *mailbox.Mailbox
}

func (s *sinkSuite) SetupTest() {
	s.store = settings.NewMemoryStore()
	s.registry = mailbox.NewMapRegistry()
	s.mbox = mailbox.New(16)
	s.registry.Register("console", s.mbox)
}

func (s *sinkSuite) R() *require.Assertions {
	return s.Require()
}

func (s *sinkSuite) newSink(opts sink.Options) *sink.Sink {
	sk, err := sink.Init("relay", opts, s.store, s.registry, nil)
	s.R().NoError(err)
	return sk
}

func (s *sinkSuite) receive() models.Delivery {
	msg, ok := s.mbox.TryReceive()
	s.R().True(ok, "expected a delivery")
	d, ok := msg.(models.Delivery)
	s.R().True(ok, "expected models.Delivery, got %T", msg)
	return d
}

func (s *sinkSuite) TestInitPersistsMergedSettings() {
	s.R().NoError(s.store.Put("relay", map[string]any{
		"level":  "warning",
		"custom": "kept",
	}))

	sk := s.newSink(sink.Options{"level": "error", "destination": "console"})

	cfg := sk.Config()
	s.Equal("relay", cfg.Name)
	s.Equal(models.LevelError, cfg.Level, "options override persisted settings")

	persisted, err := s.store.Get("relay")
	s.R().NoError(err)
	s.Equal("relay", persisted["name"])
	s.Equal("error", persisted["level"])
	s.Equal("kept", persisted["custom"], "unknown keys round-trip")
}

func (s *sinkSuite) TestInitForcesName() {
	sk := s.newSink(sink.Options{"name": "impostor", "destination": "console"})
	s.Equal("relay", sk.Name())

	persisted, err := s.store.Get("relay")
	s.R().NoError(err)
	s.Equal("relay", persisted["name"])
}

func (s *sinkSuite) TestInitRequiresName() {
	_, err := sink.Init("", nil, s.store, s.registry, nil)

	var cerr *sink.ConfigError
	s.R().ErrorAs(err, &cerr)
	s.Equal("name", cerr.Field)
}

func (s *sinkSuite) TestInitRejectsWrongShapes() {
	for _, opts := range []sink.Options{
		{"level": 3.14},
		{"level": "loud"},
		{"destination": 42},
		{"metadata": "region=us"},
		{"formatter": 1},
		{"formatter": "not-a-ref"},
		{"node": 7},
	} {
		_, err := sink.Init("relay", opts, s.store, s.registry, nil)
		var cerr *sink.ConfigError
		s.R().ErrorAs(err, &cerr, "options %v", opts)
	}
}

func (s *sinkSuite) TestReconfigureEmptyIsIdempotent() {
	sk := s.newSink(sink.Options{"level": "warning", "destination": "console"})
	before := sk.Config()

	s.R().NoError(sk.Reconfigure(nil))

	s.Equal(before, sk.Config())
}

func (s *sinkSuite) TestReconfigureMatchesSingleMergedInit() {
	opts := sink.Options{"level": "info", "destination": "console"}
	opts2 := sink.Options{"level": "error", "metadata": map[string]any{"region": "us"}}

	sk := s.newSink(opts)
	s.R().NoError(sk.Reconfigure(opts2))

	merged := sink.Options{
		"level":       "error",
		"destination": "console",
		"metadata":    map[string]any{"region": "us"},
	}
	other, err := sink.Init("relay2", merged, s.store, s.registry, nil)
	s.R().NoError(err)

	got, want := sk.Config(), other.Config()
	want.Name = "relay"
	s.Equal(want, got)
}

func (s *sinkSuite) TestReconfigureKeepsOldConfigOnError() {
	sk := s.newSink(sink.Options{"level": "warning", "destination": "console"})
	before := sk.Config()

	err := sk.Reconfigure(sink.Options{"level": "loud"})

	var cerr *sink.ConfigError
	s.R().ErrorAs(err, &cerr)
	s.Equal(before, sk.Config())
}

func (s *sinkSuite) TestDeliverScenario() {
	sk := s.newSink(sink.Options{"level": "info", "destination": "console"})

	s.True(sk.Handle(record(models.LevelWarning, "disk full")))

	d := s.receive()
	s.Equal(models.Delivery{
		Level:     models.LevelWarning,
		Message:   "disk full",
		Timestamp: ts,
		Metadata:  nil,
	}, d)
}

func (s *sinkSuite) TestLevelBelowThresholdDropped() {
	sk := s.newSink(sink.Options{"level": "error", "destination": "console"})

	s.False(sk.Handle(record(models.LevelWarning, "disk full")))
	s.Equal(0, s.mbox.Len())
}

func (s *sinkSuite) TestUnsetDestinationNeverDelivers() {
	sk := s.newSink(sink.Options{"level": "debug"})
	before := sk.Config()

	s.False(sk.Handle(record(models.LevelError, "disk full")))
	s.False(sk.Handle(models.Flush{}))

	s.Equal(0, s.mbox.Len())
	s.Equal(before, sk.Config(), "handling never mutates state")
}

func (s *sinkSuite) TestDeadDestinationDropped() {
	sk := s.newSink(sink.Options{"level": "debug", "destination": "console"})
	s.mbox.Close()
	before := sk.Config()

	s.False(sk.Handle(record(models.LevelError, "disk full")))
	s.Equal(before, sk.Config())
}

func (s *sinkSuite) TestUnregisteredNameDropped() {
	sk := s.newSink(sink.Options{"level": "debug", "destination": "nowhere"})

	s.False(sk.Handle(record(models.LevelError, "disk full")))
}

func (s *sinkSuite) TestDirectHandleDestination() {
	direct := mailbox.New(4)
	sk := s.newSink(sink.Options{"level": "debug", "destination": direct})

	s.True(sk.Handle(record(models.LevelInfo, "hello")))
	s.Equal(1, direct.Len())
}

func (s *sinkSuite) TestForeignNodeIgnored() {
	sk := s.newSink(sink.Options{"level": "debug", "destination": "console"})

	rec := record(models.LevelError, "disk full")
	rec.Node = "replica@remote"

	s.False(sk.Handle(rec))
	s.Equal(0, s.mbox.Len())
}

func (s *sinkSuite) TestConfiguredNodeAccepted() {
	sk := s.newSink(sink.Options{"level": "debug", "destination": "console", "node": "replica@remote"})

	rec := record(models.LevelInfo, "hello")
	rec.Node = "replica@remote"
	s.True(sk.Handle(rec))

	s.False(sk.Handle(record(models.LevelInfo, "local record")))
}

func (s *sinkSuite) TestExtraMetadataOverridesEventMetadata() {
	sk := s.newSink(sink.Options{
		"level":       "debug",
		"destination": "console",
		"metadata":    map[string]any{"region": "us"},
	})

	rec := record(models.LevelInfo, "hello")
	rec.Metadata = models.Metadata{
		{Key: "region", Value: "eu"},
		{Key: "req", Value: 1},
	}
	s.True(sk.Handle(rec))

	d := s.receive()
	s.Equal(models.Metadata{
		{Key: "region", Value: "us"},
		{Key: "req", Value: 1},
	}, d.Metadata)
}

func (s *sinkSuite) TestThrowingFormatterDropsEvent() {
	boom := formatter.Direct(func(models.Level, string, time.Time, models.Metadata) (string, error) {
		panic("boom")
	})
	sk := s.newSink(sink.Options{"level": "debug", "destination": "console", "formatter": boom})
	before := sk.Config()

	s.R().NotPanics(func() {
		s.False(sk.Handle(record(models.LevelError, "disk full")))
	})
	s.Equal(0, s.mbox.Len())
	s.Equal(before, sk.Config())
}

func (s *sinkSuite) TestFormatterRewritesMessage() {
	upcase := func(level models.Level, message string, ts time.Time, md models.Metadata) (string, error) {
		return level.String() + ": " + message, nil
	}
	sk := s.newSink(sink.Options{"level": "debug", "destination": "console", "formatter": upcase})

	s.True(sk.Handle(record(models.LevelWarning, "disk full")))
	s.Equal("warning: disk full", s.receive().Message)
}

func (s *sinkSuite) TestRegisteredFormatterByRef() {
	formatter.Register("sinktest", "tag", func(level models.Level, message string, ts time.Time, md models.Metadata) (string, error) {
		return "[relay] " + message, nil
	})
	sk := s.newSink(sink.Options{"level": "debug", "destination": "console", "formatter": "sinktest:tag"})

	s.True(sk.Handle(record(models.LevelInfo, "hello")))
	s.Equal("[relay] hello", s.receive().Message)
}

func (s *sinkSuite) TestFlushForwardedWhenLive() {
	sk := s.newSink(sink.Options{"destination": "console"})

	s.True(sk.Handle(models.Flush{}))

	msg, ok := s.mbox.TryReceive()
	s.R().True(ok)
	s.IsType(models.Flush{}, msg)
}

func (s *sinkSuite) TestFlushDeadDestinationNoop() {
	sk := s.newSink(sink.Options{"destination": "console"})
	s.mbox.Close()

	s.False(sk.Handle(models.Flush{}))
}

func (s *sinkSuite) TestUnknownEventIgnored() {
	sk := s.newSink(sink.Options{"destination": "console"})

	s.False(sk.Handle("not an event"))
	s.Equal(0, s.mbox.Len())
}

func TestInitRestoresPersistedSettings(t *testing.T) {
	store := settings.NewMemoryStore()
	registry := mailbox.NewMapRegistry()
	mbox := mailbox.New(4)
	registry.Register("console", mbox)

	_, err := sink.Init("relay", sink.Options{"level": "warning", "destination": "console"}, store, registry, nil)
	require.NoError(t, err)

	// a fresh sink with no options picks up what the first one persisted,
	// as after a host restart
	sk, err := sink.Init("relay", nil, store, registry, nil)
	require.NoError(t, err)

	cfg := sk.Config()
	assert.Equal(t, models.LevelWarning, cfg.Level)
	assert.True(t, sk.Handle(models.Record{Level: models.LevelError, Message: "m", Timestamp: ts}))
}

func TestInitRestoresTypedLevelFromFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	// a typed level persists as a plain integer in the TOML document
	_, err := sink.Init("relay", sink.Options{"level": models.LevelWarning}, settings.NewFileStore(path), nil, nil)
	require.NoError(t, err)

	// a fresh store after a host restart must re-init from its own output
	sk, err := sink.Init("relay", nil, settings.NewFileStore(path), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.LevelWarning, sk.Config().Level)
}

func TestInitAcceptsNumericLevels(t *testing.T) {
	// int64 is what TOML decodes, float64 what JSON decodes
	for _, level := range []any{int64(models.LevelWarning), float64(models.LevelWarning)} {
		sk, err := sink.Init("relay", sink.Options{"level": level}, nil, nil, nil)
		require.NoError(t, err, "level %T", level)
		assert.Equal(t, models.LevelWarning, sk.Config().Level)
	}

	for _, level := range []any{int64(99), float64(-1)} {
		_, err := sink.Init("relay", sink.Options{"level": level}, nil, nil, nil)
		var cerr *sink.ConfigError
		require.ErrorAs(t, err, &cerr, "level %v", level)
	}
}

func TestInitNilStoreDefaultsToMemory(t *testing.T) {
	sk, err := sink.Init("relay", sink.Options{"level": "info"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.LevelInfo, sk.Config().Level)
}
