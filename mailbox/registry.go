package mailbox

import "sync"

// Registry resolves logical destination names to mailboxes. Resolution
// happens at delivery time, so a name can be registered, replaced, or
// unregistered while a sink keeps pointing at it.
type Registry interface {
	Resolve(name string) (*Mailbox, bool)
}

// MapRegistry 是基于内存映射的进程注册表
type MapRegistry struct {
	mu    sync.RWMutex
	names map[string]*Mailbox
}

func NewMapRegistry() *MapRegistry {
	return &MapRegistry{
		names: make(map[string]*Mailbox),
	}
}

// Register binds name to m, replacing any previous binding.
func (r *MapRegistry) Register(name string, m *Mailbox) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.names[name] = m
}

func (r *MapRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.names, name)
}

// Resolve returns the mailbox bound to name. Liveness is the caller's
// concern; an entry is returned even if its mailbox has been closed.
func (r *MapRegistry) Resolve(name string) (*Mailbox, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.names[name]
	return m, ok
}

var _ Registry = (*MapRegistry)(nil)
