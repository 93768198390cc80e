package store

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Memory is the in-process store backend used by tests and the simulator.
type Memory struct {
	mu       sync.RWMutex
	accounts map[solana.PublicKey][]byte
	closed   bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[solana.PublicKey][]byte)}
}

func (m *Memory) Begin() Txn {
	return &memoryTxn{store: m, writes: make(map[solana.PublicKey][]byte)}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.accounts = nil
	return nil
}

// memoryTxn buffers writes in an overlay; a nil overlay value is a pending
// delete. Nothing touches the base map until Commit.
type memoryTxn struct {
	store  *Memory
	writes map[solana.PublicKey][]byte
	done   bool
}

func (t *memoryTxn) Get(key solana.PublicKey) ([]byte, bool, error) {
	if v, ok := t.writes[key]; ok {
		if v == nil {
			return nil, false, nil
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, true, nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	if t.store.closed {
		return nil, false, ErrClosed
	}
	v, ok := t.store.accounts[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (t *memoryTxn) Has(key solana.PublicKey) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

func (t *memoryTxn) Set(key solana.PublicKey, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	t.writes[key] = v
	return nil
}

func (t *memoryTxn) Delete(key solana.PublicKey) error {
	t.writes[key] = nil
	return nil
}

func (t *memoryTxn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.closed {
		return ErrClosed
	}
	for key, v := range t.writes {
		if v == nil {
			delete(t.store.accounts, key)
		} else {
			t.store.accounts[key] = v
		}
	}
	return nil
}

func (t *memoryTxn) Discard() {
	t.done = true
	t.writes = nil
}
