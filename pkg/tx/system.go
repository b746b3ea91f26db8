package tx

import (
	"encoding/binary"

	"solana-core-go/pkg/ed25519"
)

// Well-known program ids
var (
	// SystemProgramID is 11111111111111111111111111111111 (32 zero bytes)
	SystemProgramID = ed25519.PublicKey{}

	// TokenProgramID is TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
	TokenProgramID = mustPublicKey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// AssociatedTokenProgramID is ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
	AssociatedTokenProgramID = mustPublicKey("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// MemoProgramID is MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr
	MemoProgramID = mustPublicKey("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

// System program instruction indices (little-endian u32 discriminators)
const (
	sysCreateAccount uint32 = 0
	sysTransfer      uint32 = 2
)

func mustPublicKey(s string) ed25519.PublicKey {
	pub, err := ed25519.PublicKeyFromBase58(s)
	if err != nil {
		panic("tx: bad program id constant: " + s)
	}
	return pub
}

// AddTransfer appends a system-program lamport transfer from one account to
// another. The sender must sign.
func (t *Transaction) AddTransfer(from, to ed25519.PublicKey, lamports uint64) error {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], sysTransfer)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	accounts := []AccountMeta{
		{Pubkey: from, IsSigner: true, IsWritable: true},
		{Pubkey: to, IsSigner: false, IsWritable: true},
	}
	return t.AddInstruction(SystemProgramID, accounts, data)
}

// AddCreateAccount appends a system-program account creation funded by from.
// Both the funder and the new account must sign.
func (t *Transaction) AddCreateAccount(from, newAccount ed25519.PublicKey, lamports, space uint64, owner ed25519.PublicKey) error {
	data := make([]byte, 52)
	binary.LittleEndian.PutUint32(data[0:4], sysCreateAccount)
	binary.LittleEndian.PutUint64(data[4:12], lamports)
	binary.LittleEndian.PutUint64(data[12:20], space)
	copy(data[20:52], owner[:])

	accounts := []AccountMeta{
		{Pubkey: from, IsSigner: true, IsWritable: true},
		{Pubkey: newAccount, IsSigner: true, IsWritable: true},
	}
	return t.AddInstruction(SystemProgramID, accounts, data)
}

// AddMemo appends a memo-program instruction carrying an arbitrary UTF-8
// note. The memo program takes no accounts.
func (t *Transaction) AddMemo(memo string) error {
	return t.AddInstruction(MemoProgramID, nil, []byte(memo))
}
