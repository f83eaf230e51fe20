package settings

import (
	"maps"
	"sync"
)

// Store 定义配置持久化接口
type Store interface {
	// Get 获取某个 sink 的已持久化配置，键不存在时返回空映射
	Get(key string) (map[string]any, error)

	// Put 持久化合并后的配置
	Put(key string, values map[string]any) error

	// Close 关闭存储
	Close() error
}

// MemoryStore keeps settings in process memory. Unlike the durable stores
// it holds arbitrary values, mailbox handles included, which makes it the
// default for tests and single-process hosts.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]any),
	}
}

func (s *MemoryStore) Get(key string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.data[key]
	if !ok {
		return map[string]any{}, nil
	}
	return maps.Clone(values), nil
}

func (s *MemoryStore) Put(key string, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = maps.Clone(values)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
