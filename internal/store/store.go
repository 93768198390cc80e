// Package store provides the account storage the engine executes against:
// a flat keyspace of 32-byte account addresses with transactional writes.
// One engine operation runs inside one Txn; either every write in the
// transaction commits or none of them do.
package store

import (
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Store opens transactions over the account keyspace.
type Store interface {
	// Begin starts a transaction. Reads through a transaction observe the
	// committed state plus the transaction's own earlier writes.
	Begin() Txn
	Close() error
}

// Txn is a single all-or-nothing unit of account reads and writes.
// A Txn that is discarded (or simply dropped) has no effect.
type Txn interface {
	Get(key solana.PublicKey) ([]byte, bool, error)
	Has(key solana.PublicKey) (bool, error)
	Set(key solana.PublicKey, value []byte) error
	Delete(key solana.PublicKey) error
	Commit() error
	Discard()
}
