// Package ledger models the pieces of the execution environment the engine
// consumes: lamport balances, rent on account allocation, and the
// mint/burn/transfer token primitive at the declared 6-digit precision.
// Every function operates inside a caller-supplied store transaction, so a
// sequence of ledger mutations commits or vanishes as one unit.
package ledger

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/store"
)

var (
	ErrAccountExists        = errors.New("ledger: account already exists")
	ErrAccountNotFound      = errors.New("ledger: account not found")
	ErrInsufficientLamports = errors.New("ledger: insufficient lamports")
	ErrInsufficientTokens   = errors.New("ledger: insufficient token balance")
	ErrNotMintAuthority     = errors.New("ledger: caller is not the mint authority")
	ErrNotAccountOwner      = errors.New("ledger: caller does not own the account")
	ErrNonEmptyAccount      = errors.New("ledger: token account balance must be zero to close")
)

// Account is the storage envelope every address resolves to.
type Account struct {
	Lamports uint64
	Owner    solana.PublicKey
	Data     []byte
}

// RentExemptMinimum is the lamport balance an account of the given data size
// must hold to exist; it is reclaimed when the account closes.
func RentExemptMinimum(dataLen int) uint64 {
	const (
		storageOverhead   = 128
		lamportsPerByte   = 3480
		rentExemptionMult = 2
	)
	return uint64(storageOverhead+dataLen) * lamportsPerByte * rentExemptionMult
}

func encodeAccount(a *Account) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(a); err != nil {
		return nil, fmt.Errorf("encode account envelope: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeAccount(data []byte) (*Account, error) {
	var a Account
	if err := bin.NewBorshDecoder(data).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode account envelope: %w", err)
	}
	return &a, nil
}

// Get loads the account at addr, reporting whether it exists.
func Get(txn store.Txn, addr solana.PublicKey) (*Account, bool, error) {
	raw, ok, err := txn.Get(addr)
	if err != nil || !ok {
		return nil, false, err
	}
	a, err := decodeAccount(raw)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// Put writes the account at addr unconditionally.
func Put(txn store.Txn, addr solana.PublicKey, a *Account) error {
	raw, err := encodeAccount(a)
	if err != nil {
		return err
	}
	return txn.Set(addr, raw)
}

// Create allocates a fresh account owned by owner with the given data,
// charging the rent-exempt minimum to payer.
func Create(txn store.Txn, payer, addr, owner solana.PublicKey, data []byte) error {
	if ok, err := txn.Has(addr); err != nil {
		return err
	} else if ok {
		return ErrAccountExists
	}
	rent := RentExemptMinimum(len(data))
	if err := debit(txn, payer, rent); err != nil {
		return err
	}
	return Put(txn, addr, &Account{Lamports: rent, Owner: owner, Data: data})
}

// Close deletes the account at addr and credits its full lamport balance,
// rent included, to dest.
func Close(txn store.Txn, addr, dest solana.PublicKey) error {
	a, ok, err := Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	if err := credit(txn, dest, a.Lamports); err != nil {
		return err
	}
	return txn.Delete(addr)
}

// Lamports returns the lamport balance at addr; a missing account is zero.
func Lamports(txn store.Txn, addr solana.PublicKey) (uint64, error) {
	a, ok, err := Get(txn, addr)
	if err != nil || !ok {
		return 0, err
	}
	return a.Lamports, nil
}

// Transfer moves lamports between accounts. The destination springs into
// existence as an empty system account if needed, as on Solana.
func Transfer(txn store.Txn, from, to solana.PublicKey, lamports uint64) error {
	if lamports == 0 {
		return nil
	}
	if err := debit(txn, from, lamports); err != nil {
		return err
	}
	return credit(txn, to, lamports)
}

// Fund credits lamports out of thin air. Simulation and test setup only.
func Fund(txn store.Txn, addr solana.PublicKey, lamports uint64) error {
	return credit(txn, addr, lamports)
}

func debit(txn store.Txn, addr solana.PublicKey, lamports uint64) error {
	a, ok, err := Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if a.Lamports < lamports {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientLamports, addr, a.Lamports, lamports)
	}
	a.Lamports -= lamports
	return Put(txn, addr, a)
}

func credit(txn store.Txn, addr solana.PublicKey, lamports uint64) error {
	a, ok, err := Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		a = &Account{Owner: solana.SystemProgramID}
	}
	a.Lamports += lamports
	return Put(txn, addr, a)
}
