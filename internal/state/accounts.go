// Package state defines the launchpad account records and their wire
// encoding. Records are borsh-encoded behind an 8-byte discriminator so a
// raw account blob is self-describing, the same framing Anchor programs use.
package state

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ProtocolConfig is the process-wide singleton governing every curve.
type ProtocolConfig struct {
	GovernanceAuthority solana.PublicKey
	Treasury            solana.PublicKey
	CreationFeeLamports uint64
	TradeFeeBps         uint64
	CreatorShareBps     uint64
	MigrationThreshold  uint64
	IsPaused            bool
}

// BondingCurve is the per-token trading state machine record.
type BondingCurve struct {
	Creator              solana.PublicKey
	TokenMint            solana.PublicKey
	TokenVault           solana.PublicKey
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	RealSolReserves      uint64
	CreatorFeesOwed      uint64
	IsCompleted          bool
	DexPool              solana.PublicKey
}

// DexPool receives a curve's liquidity at migration. Written exactly once.
type DexPool struct {
	TokenMint     solana.PublicKey
	TokenVault    solana.PublicKey
	SolVault      solana.PublicKey
	LpMint        solana.PublicKey
	LpVault       solana.PublicKey
	SolReserves   uint64
	TokenReserves uint64
	LpMinted      uint64
	LpBurned      uint64
}

// TokenAccount holds a balance of one mint for one owner.
type TokenAccount struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

// Mint describes an issued token. MintAuthority is the only identity allowed
// to mint further supply; for curve tokens it is the curve PDA.
type Mint struct {
	MintAuthority solana.PublicKey
	Supply        uint64
	Decimals      uint8
}

// discriminator derives the Anchor-style 8-byte account tag.
func discriminator(name string) []byte {
	h := sha256.Sum256([]byte("account:" + name))
	return h[:8]
}

var (
	discProtocolConfig = discriminator("ProtocolConfig")
	discBondingCurve   = discriminator("BondingCurve")
	discDexPool        = discriminator("DexPool")
	discTokenAccount   = discriminator("TokenAccount")
	discMint           = discriminator("Mint")
)

func marshal(disc []byte, v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(disc)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("borsh encode: %w", err)
	}
	return buf.Bytes(), nil
}

func unmarshal(disc, data []byte, v interface{}) error {
	if len(data) < 8 || !bytes.Equal(data[:8], disc) {
		return fmt.Errorf("account discriminator mismatch")
	}
	if err := bin.NewBorshDecoder(data[8:]).Decode(v); err != nil {
		return fmt.Errorf("borsh decode: %w", err)
	}
	return nil
}

func (c *ProtocolConfig) Marshal() ([]byte, error) { return marshal(discProtocolConfig, c) }
func (c *ProtocolConfig) Unmarshal(data []byte) error {
	return unmarshal(discProtocolConfig, data, c)
}

func (b *BondingCurve) Marshal() ([]byte, error)    { return marshal(discBondingCurve, b) }
func (b *BondingCurve) Unmarshal(data []byte) error { return unmarshal(discBondingCurve, data, b) }

func (p *DexPool) Marshal() ([]byte, error)    { return marshal(discDexPool, p) }
func (p *DexPool) Unmarshal(data []byte) error { return unmarshal(discDexPool, data, p) }

func (t *TokenAccount) Marshal() ([]byte, error)    { return marshal(discTokenAccount, t) }
func (t *TokenAccount) Unmarshal(data []byte) error { return unmarshal(discTokenAccount, data, t) }

func (m *Mint) Marshal() ([]byte, error)    { return marshal(discMint, m) }
func (m *Mint) Unmarshal(data []byte) error { return unmarshal(discMint, data, m) }
