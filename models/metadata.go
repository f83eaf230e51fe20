package models

import (
	"sort"

	"github.com/samber/lo"
)

// Field 是元数据中的单个键值对
type Field struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Metadata 是保持插入顺序的键值映射
type Metadata []Field

// MetadataFromMap builds a Metadata from an unordered map. Keys are sorted so
// the result is deterministic.
func MetadataFromMap(m map[string]any) Metadata {
	keys := lo.Keys(m)
	sort.Strings(keys)

	md := make(Metadata, 0, len(keys))
	for _, k := range keys {
		md = append(md, Field{Key: k, Value: m[k]})
	}
	return md
}

func (m Metadata) Get(key string) (any, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

func (m Metadata) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	copy(out, m)
	return out
}

// Map flattens the metadata into an unordered map, last write wins.
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m))
	for _, f := range m {
		out[f.Key] = f.Value
	}
	return out
}

// Merge returns a new Metadata with overrides applied on top of m. Keys
// already present in m are replaced in place, keeping their position; keys
// only present in overrides are appended in their own order. Neither input
// is modified.
func (m Metadata) Merge(overrides Metadata) Metadata {
	out := m.Clone()
	for _, f := range overrides {
		replaced := false
		for i := range out {
			if out[i].Key == f.Key {
				out[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	return out
}
