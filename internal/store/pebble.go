package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/gagliardetto/solana-go"
)

// Pebble is the persistent store backend. An indexed pebble batch backs each
// transaction, so reads see the transaction's own writes and Commit applies
// the whole batch atomically with a sync to disk.
type Pebble struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a pebble-backed store at path.
func OpenPebble(path string) (*Pebble, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble store: %w", err)
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Begin() Txn {
	return &pebbleTxn{batch: p.db.NewIndexedBatch()}
}

func (p *Pebble) Close() error {
	return p.db.Close()
}

type pebbleTxn struct {
	batch *pebble.Batch
	done  bool
}

func (t *pebbleTxn) Get(key solana.PublicKey) ([]byte, bool, error) {
	v, closer, err := t.batch.Get(key.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pebble get: %w", err)
	}
	out := make([]byte, len(v))
	copy(out, v)
	if err := closer.Close(); err != nil {
		return nil, false, fmt.Errorf("pebble get close: %w", err)
	}
	return out, true, nil
}

func (t *pebbleTxn) Has(key solana.PublicKey) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

func (t *pebbleTxn) Set(key solana.PublicKey, value []byte) error {
	return t.batch.Set(key.Bytes(), value, nil)
}

func (t *pebbleTxn) Delete(key solana.PublicKey) error {
	return t.batch.Delete(key.Bytes(), nil)
}

func (t *pebbleTxn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("pebble commit: %w", err)
	}
	return t.batch.Close()
}

func (t *pebbleTxn) Discard() {
	if t.done {
		return
	}
	t.done = true
	_ = t.batch.Close()
}
