package contacts

import (
	"context"
	"sync"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

// MemoryRegister keeps contacts in a map guarded by a mutex.
type MemoryRegister struct {
	mu     sync.RWMutex
	byID   map[string][]entity.Contact
	closed bool
}

func NewMemoryRegister() *MemoryRegister {
	return &MemoryRegister{byID: make(map[string][]entity.Contact)}
}

func (m *MemoryRegister) Add(_ context.Context, c entity.Contact) error {
	c = Normalize(c)
	if err := Validate(c); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.byID[c.CustomerID] = append(m.byID[c.CustomerID], c)
	return nil
}

func (m *MemoryRegister) List(_ context.Context, customerID string) ([]entity.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	src := m.byID[customerID]
	out := make([]entity.Contact, len(src))
	copy(out, src)
	return out, nil
}

func (m *MemoryRegister) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.byID = nil
	return nil
}
