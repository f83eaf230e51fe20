package sink

import (
	"fmt"
	"time"

	"github.com/web3tea/logrelay/formatter"
	"github.com/web3tea/logrelay/mailbox"
	"github.com/web3tea/logrelay/models"
)

// Options is a raw option map, merged on top of the persisted settings for
// the sink's name. Later keys override. Unknown keys round-trip through the
// settings store untouched; config construction ignores them.
type Options map[string]any

const (
	optName        = "name"
	optLevel       = "level"
	optDestination = "destination"
	optMetadata    = "metadata"
	optFormatter   = "formatter"
	optNode        = "node"
)

func levelFromNumber(v any) (models.Level, bool) {
	switch n := v.(type) {
	case int:
		return models.Level(n), true
	case int8:
		return models.Level(n), true
	case int64:
		return models.Level(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return models.Level(n), true
	default:
		return 0, false
	}
}

// buildConfig constructs a Config from a merged option map by strict field
// population. Wrong shapes for known keys fail with *ConfigError.
func buildConfig(values map[string]any) (*Config, error) {
	name, _ := values[optName].(string)
	if name == "" {
		return nil, &ConfigError{Field: optName, Reason: "required"}
	}
	cfg := &Config{Name: name, Level: models.LevelDebug}

	if v, ok := values[optLevel]; ok {
		switch lv := v.(type) {
		case models.Level:
			if !lv.Valid() {
				return nil, &ConfigError{Field: optLevel, Reason: fmt.Sprintf("invalid level %d", lv)}
			}
			cfg.Level = lv
		case string:
			parsed, err := models.ParseLevel(lv)
			if err != nil {
				return nil, &ConfigError{Field: optLevel, Reason: err.Error()}
			}
			cfg.Level = parsed
		default:
			// durable stores round-trip a typed level as a plain number:
			// int64 from TOML, float64 from JSON
			parsed, ok := levelFromNumber(v)
			if !ok {
				return nil, &ConfigError{Field: optLevel, Reason: fmt.Sprintf("unsupported type %T", v)}
			}
			if !parsed.Valid() {
				return nil, &ConfigError{Field: optLevel, Reason: fmt.Sprintf("invalid level %d", parsed)}
			}
			cfg.Level = parsed
		}
	}

	if v, ok := values[optDestination]; ok {
		switch d := v.(type) {
		case mailbox.Destination:
			cfg.Destination = d
		case *mailbox.Mailbox:
			cfg.Destination = mailbox.Handle(d)
		case string:
			cfg.Destination = mailbox.Name(d)
		case nil:
			cfg.Destination = mailbox.Unset()
		default:
			return nil, &ConfigError{Field: optDestination, Reason: fmt.Sprintf("unsupported type %T", v)}
		}
	}

	if v, ok := values[optMetadata]; ok {
		switch md := v.(type) {
		case models.Metadata:
			cfg.ExtraMetadata = md.Clone()
		case map[string]any:
			cfg.ExtraMetadata = models.MetadataFromMap(md)
		case nil:
		default:
			return nil, &ConfigError{Field: optMetadata, Reason: fmt.Sprintf("unsupported type %T", v)}
		}
	}

	if v, ok := values[optFormatter]; ok {
		switch fm := v.(type) {
		case formatter.Formatter:
			cfg.Formatter = fm
		case formatter.Func:
			cfg.Formatter = formatter.Direct(fm)
		case func(models.Level, string, time.Time, models.Metadata) (string, error):
			cfg.Formatter = formatter.Direct(fm)
		case string:
			ref, err := formatter.ParseRef(fm)
			if err != nil {
				return nil, &ConfigError{Field: optFormatter, Reason: err.Error()}
			}
			cfg.Formatter = ref
		case nil:
		default:
			return nil, &ConfigError{Field: optFormatter, Reason: fmt.Sprintf("unsupported type %T", v)}
		}
	}

	if v, ok := values[optNode]; ok {
		node, ok := v.(string)
		if !ok {
			return nil, &ConfigError{Field: optNode, Reason: fmt.Sprintf("unsupported type %T", v)}
		}
		cfg.Node = node
	}

	return cfg, nil
}
