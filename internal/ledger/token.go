package ledger

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/state"
	"github.com/rovshanmuradov/solana-launchpad/internal/store"
)

// CreateMint allocates a mint record with the given authority and decimals.
func CreateMint(txn store.Txn, payer, addr, authority solana.PublicKey, decimals uint8) error {
	m := &state.Mint{MintAuthority: authority, Decimals: decimals}
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return Create(txn, payer, addr, solana.TokenProgramID, data)
}

// GetMint loads the mint record at addr.
func GetMint(txn store.Txn, addr solana.PublicKey) (*state.Mint, error) {
	a, ok, err := Get(txn, addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: mint %s", ErrAccountNotFound, addr)
	}
	var m state.Mint
	if err := m.Unmarshal(a.Data); err != nil {
		return nil, err
	}
	return &m, nil
}

func putMint(txn store.Txn, addr solana.PublicKey, m *state.Mint) error {
	a, ok, err := Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: mint %s", ErrAccountNotFound, addr)
	}
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	a.Data = data
	return Put(txn, addr, a)
}

// SetMintAuthority reassigns minting rights; only the current authority may.
func SetMintAuthority(txn store.Txn, mintAddr, current, next solana.PublicKey) error {
	m, err := GetMint(txn, mintAddr)
	if err != nil {
		return err
	}
	if !m.MintAuthority.Equals(current) {
		return ErrNotMintAuthority
	}
	m.MintAuthority = next
	return putMint(txn, mintAddr, m)
}

// CreateTokenAccount allocates an empty token account for mint owned by owner.
func CreateTokenAccount(txn store.Txn, payer, addr, mint, owner solana.PublicKey) error {
	ta := &state.TokenAccount{Mint: mint, Owner: owner}
	data, err := ta.Marshal()
	if err != nil {
		return err
	}
	return Create(txn, payer, addr, solana.TokenProgramID, data)
}

// EnsureAssociatedTokenAccount returns owner's associated token account for
// mint, creating it at payer's expense when it does not exist yet.
func EnsureAssociatedTokenAccount(txn store.Txn, payer, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, err := state.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	ok, err := txn.Has(addr)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !ok {
		if err := CreateTokenAccount(txn, payer, addr, mint, owner); err != nil {
			return solana.PublicKey{}, err
		}
	}
	return addr, nil
}

// GetTokenAccount loads the token account record at addr.
func GetTokenAccount(txn store.Txn, addr solana.PublicKey) (*state.TokenAccount, error) {
	a, ok, err := Get(txn, addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: token account %s", ErrAccountNotFound, addr)
	}
	var ta state.TokenAccount
	if err := ta.Unmarshal(a.Data); err != nil {
		return nil, err
	}
	return &ta, nil
}

func putTokenAccount(txn store.Txn, addr solana.PublicKey, ta *state.TokenAccount) error {
	a, ok, err := Get(txn, addr)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: token account %s", ErrAccountNotFound, addr)
	}
	data, err := ta.Marshal()
	if err != nil {
		return err
	}
	a.Data = data
	return Put(txn, addr, a)
}

// TokenBalance returns the balance of the token account at addr; a missing
// account reads as zero.
func TokenBalance(txn store.Txn, addr solana.PublicKey) (uint64, error) {
	a, ok, err := Get(txn, addr)
	if err != nil || !ok {
		return 0, err
	}
	var ta state.TokenAccount
	if err := ta.Unmarshal(a.Data); err != nil {
		return 0, err
	}
	return ta.Amount, nil
}

// MintTo mints amount into dest. authority must hold the mint's authority.
func MintTo(txn store.Txn, mintAddr, authority, dest solana.PublicKey, amount uint64) error {
	m, err := GetMint(txn, mintAddr)
	if err != nil {
		return err
	}
	if !m.MintAuthority.Equals(authority) {
		return ErrNotMintAuthority
	}
	ta, err := GetTokenAccount(txn, dest)
	if err != nil {
		return err
	}
	m.Supply += amount
	ta.Amount += amount
	if err := putMint(txn, mintAddr, m); err != nil {
		return err
	}
	return putTokenAccount(txn, dest, ta)
}

// Burn destroys amount held in src. authority must own the token account.
func Burn(txn store.Txn, mintAddr, authority, src solana.PublicKey, amount uint64) error {
	m, err := GetMint(txn, mintAddr)
	if err != nil {
		return err
	}
	ta, err := GetTokenAccount(txn, src)
	if err != nil {
		return err
	}
	if !ta.Owner.Equals(authority) {
		return ErrNotAccountOwner
	}
	if ta.Amount < amount {
		return fmt.Errorf("%w: %s has %d, burning %d", ErrInsufficientTokens, src, ta.Amount, amount)
	}
	ta.Amount -= amount
	m.Supply -= amount
	if err := putMint(txn, mintAddr, m); err != nil {
		return err
	}
	return putTokenAccount(txn, src, ta)
}

// TransferTokens moves amount from src to dest. authority must own src.
func TransferTokens(txn store.Txn, authority, src, dest solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return nil
	}
	from, err := GetTokenAccount(txn, src)
	if err != nil {
		return err
	}
	if !from.Owner.Equals(authority) {
		return ErrNotAccountOwner
	}
	if from.Amount < amount {
		return fmt.Errorf("%w: %s has %d, sending %d", ErrInsufficientTokens, src, from.Amount, amount)
	}
	to, err := GetTokenAccount(txn, dest)
	if err != nil {
		return err
	}
	if !to.Mint.Equals(from.Mint) {
		return fmt.Errorf("ledger: token account mint mismatch: %s vs %s", from.Mint, to.Mint)
	}
	from.Amount -= amount
	to.Amount += amount
	if err := putTokenAccount(txn, src, from); err != nil {
		return err
	}
	return putTokenAccount(txn, dest, to)
}

// CloseTokenAccount deletes an emptied token account, reclaiming its rent to
// dest. authority must own the account.
func CloseTokenAccount(txn store.Txn, authority, addr, dest solana.PublicKey) error {
	ta, err := GetTokenAccount(txn, addr)
	if err != nil {
		return err
	}
	if !ta.Owner.Equals(authority) {
		return ErrNotAccountOwner
	}
	if ta.Amount != 0 {
		return fmt.Errorf("%w: %s holds %d", ErrNonEmptyAccount, addr, ta.Amount)
	}
	return Close(txn, addr, dest)
}
