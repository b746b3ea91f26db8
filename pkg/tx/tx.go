// Package tx implements the Solana legacy transaction model: instruction
// accumulation, account deduplication and ordering, the compact wire
// serializer, multi-signer assembly, and program derived address lookup.
//
// A Transaction is built up from a fee payer, a recent blockhash and a
// bounded list of instructions, compiled into a deduplicated account table,
// signed by each required signer, and serialized to the byte layout that
// validators decode.
package tx

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/mr-tron/base58"

	"solana-core-go/pkg/ed25519"
)

const (
	// BlockhashSize is the size of a recent blockhash in bytes
	BlockhashSize = 32

	// MaxInstructions bounds the instruction list
	MaxInstructions = 10

	// MaxAccounts bounds the compiled account table
	MaxAccounts = 20

	// MaxSigners bounds the number of required signers
	MaxSigners = 4

	// MaxInstructionData bounds a single instruction's opaque payload
	MaxInstructionData = 256

	// MaxTransactionSize is the wire-size cap for a serialized transaction,
	// matching the network's packet limit
	MaxTransactionSize = 1232
)

var (
	// ErrLimitExceeded indicates a bounded collection reached capacity
	ErrLimitExceeded = errors.New("tx: limit exceeded")

	// ErrBuildError indicates a precondition violation while building or
	// signing (missing fee payer or blockhash, unknown signer, ...)
	ErrBuildError = errors.New("tx: build error")

	// ErrNotSigned indicates serialization of an incompletely signed
	// transaction
	ErrNotSigned = errors.New("tx: transaction not fully signed")
)

// Blockhash is an opaque 32-byte recent blockhash obtained from the network.
type Blockhash [BlockhashSize]byte

// BlockhashFromBase58 decodes a base58 blockhash as returned by RPC nodes
func BlockhashFromBase58(s string) (Blockhash, error) {
	var bh Blockhash
	decoded, err := base58.Decode(s)
	if err != nil {
		return bh, fmt.Errorf("%w: invalid base58 blockhash: %v", ErrBuildError, err)
	}
	if len(decoded) != BlockhashSize {
		return bh, fmt.Errorf("%w: blockhash must be %d bytes, got %d",
			ErrBuildError, BlockhashSize, len(decoded))
	}
	copy(bh[:], decoded)
	return bh, nil
}

// String returns the base58 representation of the blockhash
func (bh Blockhash) String() string {
	return base58.Encode(bh[:])
}

// AccountMeta describes one account referenced by an instruction
type AccountMeta struct {
	Pubkey     ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is a program invocation: the target program, the accounts it
// touches, and an opaque data payload.
type Instruction struct {
	ProgramID ed25519.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// compiledAccount is a deduplicated account table entry. Flags merge via
// logical OR when the same pubkey appears with different roles.
type compiledAccount struct {
	pubkey     ed25519.PublicKey
	isSigner   bool
	isWritable bool
}

func (a compiledAccount) priority() int {
	p := 0
	if a.isSigner {
		p += 2
	}
	if a.isWritable {
		p++
	}
	return p
}

// Transaction accumulates instructions and produces the signed wire form.
// It is not safe for concurrent mutation; use external synchronization when
// sharing one across goroutines.
type Transaction struct {
	feePayer     ed25519.PublicKey
	hasFeePayer  bool
	blockhash    Blockhash
	hasBlockhash bool
	instructions []Instruction

	// compiled account table, recomputed lazily and cached until the fee
	// payer, blockhash or instruction set changes
	compiled        []compiledAccount
	requiredSigners int
	compiledValid   bool

	signatures []ed25519.Signature
	sigPresent []bool
}

// NewTransaction creates an empty transaction
func NewTransaction() *Transaction {
	return &Transaction{}
}

// SetFeePayer sets the fee-paying account. The fee payer is always the first
// compiled account and is forced signer+writable.
func (t *Transaction) SetFeePayer(pubkey ed25519.PublicKey) {
	t.feePayer = pubkey
	t.hasFeePayer = true
	t.invalidate()
}

// SetRecentBlockhash sets the blockhash binding the transaction to a recent
// slot. Changing it invalidates any signatures already collected.
func (t *Transaction) SetRecentBlockhash(bh Blockhash) {
	t.blockhash = bh
	t.hasBlockhash = true
	t.invalidate()
}

// AddInstruction appends an instruction. Account metas and data are copied,
// so the caller may reuse its slices.
func (t *Transaction) AddInstruction(programID ed25519.PublicKey, accounts []AccountMeta, data []byte) error {
	if len(t.instructions) >= MaxInstructions {
		return fmt.Errorf("%w: at most %d instructions", ErrLimitExceeded, MaxInstructions)
	}
	if len(accounts) > MaxAccounts {
		return fmt.Errorf("%w: at most %d accounts per instruction", ErrLimitExceeded, MaxAccounts)
	}
	if len(data) > MaxInstructionData {
		return fmt.Errorf("%w: instruction data limited to %d bytes", ErrLimitExceeded, MaxInstructionData)
	}

	ix := Instruction{
		ProgramID: programID,
		Accounts:  append([]AccountMeta(nil), accounts...),
		Data:      append([]byte(nil), data...),
	}
	t.instructions = append(t.instructions, ix)
	t.invalidate()
	return nil
}

// invalidate drops the compiled account cache and any collected signatures
func (t *Transaction) invalidate() {
	t.compiled = nil
	t.requiredSigners = 0
	t.compiledValid = false
	t.signatures = nil
	t.sigPresent = nil
}

// mergeAccount folds one account reference into the table, OR-merging flags
// for a pubkey seen before
func mergeAccount(table []compiledAccount, pubkey ed25519.PublicKey, isSigner, isWritable bool) ([]compiledAccount, error) {
	for i := range table {
		if table[i].pubkey == pubkey {
			table[i].isSigner = table[i].isSigner || isSigner
			table[i].isWritable = table[i].isWritable || isWritable
			return table, nil
		}
	}
	if len(table) >= MaxAccounts {
		return nil, fmt.Errorf("%w: at most %d accounts per transaction", ErrLimitExceeded, MaxAccounts)
	}
	return append(table, compiledAccount{
		pubkey:     pubkey,
		isSigner:   isSigner,
		isWritable: isWritable,
	}), nil
}

// compile builds the deduplicated account table: fee payer first, then every
// instruction's account metas and program id, ordered by descending
// (is_signer, is_writable) priority with first-seen order breaking ties.
func (t *Transaction) compile() error {
	if t.compiledValid {
		return nil
	}

	var table []compiledAccount
	var err error

	if t.hasFeePayer {
		table, err = mergeAccount(table, t.feePayer, true, true)
		if err != nil {
			return err
		}
	}

	for i := range t.instructions {
		ix := &t.instructions[i]
		for _, meta := range ix.Accounts {
			table, err = mergeAccount(table, meta.Pubkey, meta.IsSigner, meta.IsWritable)
			if err != nil {
				return err
			}
		}
		// program ids go in last: read-only, non-signer
		table, err = mergeAccount(table, ix.ProgramID, false, false)
		if err != nil {
			return err
		}
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].priority() > table[j].priority()
	})

	signers := 0
	for _, acc := range table {
		if acc.isSigner {
			signers++
		}
	}
	if signers > MaxSigners {
		return fmt.Errorf("%w: at most %d signers", ErrLimitExceeded, MaxSigners)
	}

	t.compiled = table
	t.requiredSigners = signers
	t.signatures = make([]ed25519.Signature, signers)
	t.sigPresent = make([]bool, signers)
	t.compiledValid = true
	return nil
}

func (t *Transaction) accountIndex(pubkey ed25519.PublicKey) int {
	for i := range t.compiled {
		if t.compiled[i].pubkey == pubkey {
			return i
		}
	}
	return -1
}

// SerializeMessage emits the signable message: the header triple, the
// compact-length account table, the blockhash, and the compact-length
// instruction array.
func (t *Transaction) SerializeMessage() ([]byte, error) {
	if !t.hasBlockhash {
		return nil, fmt.Errorf("%w: recent blockhash not set", ErrBuildError)
	}
	if err := t.compile(); err != nil {
		return nil, err
	}

	var readonlySigned, readonlyUnsigned byte
	for _, acc := range t.compiled {
		if !acc.isWritable {
			if acc.isSigner {
				readonlySigned++
			} else {
				readonlyUnsigned++
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(t.requiredSigners))
	buf.WriteByte(readonlySigned)
	buf.WriteByte(readonlyUnsigned)

	buf.Write(AppendCompactU16(nil, uint16(len(t.compiled))))
	for _, acc := range t.compiled {
		buf.Write(acc.pubkey[:])
	}

	buf.Write(t.blockhash[:])

	buf.Write(AppendCompactU16(nil, uint16(len(t.instructions))))
	for i := range t.instructions {
		ix := &t.instructions[i]

		progIdx := t.accountIndex(ix.ProgramID)
		if progIdx < 0 {
			return nil, fmt.Errorf("%w: program id missing from account table", ErrBuildError)
		}
		buf.WriteByte(byte(progIdx))

		buf.Write(AppendCompactU16(nil, uint16(len(ix.Accounts))))
		for _, meta := range ix.Accounts {
			accIdx := t.accountIndex(meta.Pubkey)
			if accIdx < 0 {
				return nil, fmt.Errorf("%w: account missing from account table", ErrBuildError)
			}
			buf.WriteByte(byte(accIdx))
		}

		buf.Write(AppendCompactU16(nil, uint16(len(ix.Data))))
		buf.Write(ix.Data)
	}

	return buf.Bytes(), nil
}

// Sign signs the current message with keypair and stores the signature in the
// matching required-signer slot. It may be called repeatedly with different
// keypairs in any order; the transaction becomes signed once every slot is
// filled.
func (t *Transaction) Sign(keypair *ed25519.Keypair) error {
	if !keypair.Initialized() {
		return ed25519.ErrNotInitialized
	}
	if !t.hasFeePayer {
		return fmt.Errorf("%w: fee payer not set", ErrBuildError)
	}
	if !t.hasBlockhash {
		return fmt.Errorf("%w: recent blockhash not set", ErrBuildError)
	}

	message, err := t.SerializeMessage()
	if err != nil {
		return err
	}

	slot := -1
	for i := 0; i < t.requiredSigners; i++ {
		if t.compiled[i].pubkey == keypair.PublicKey {
			slot = i
			break
		}
	}
	if slot < 0 {
		return fmt.Errorf("%w: %s is not a required signer", ErrBuildError, keypair.Address())
	}

	sig, err := keypair.Sign(message)
	if err != nil {
		return err
	}
	t.signatures[slot] = sig
	t.sigPresent[slot] = true
	return nil
}

// Signed reports whether every required signer slot holds a signature
func (t *Transaction) Signed() bool {
	if !t.compiledValid || t.requiredSigners == 0 {
		return false
	}
	for _, present := range t.sigPresent {
		if !present {
			return false
		}
	}
	return true
}

// Serialize emits the final wire form: a compact-length signature array in
// signer-slot order followed by the serialized message. It fails with
// ErrNotSigned until every required signer has signed.
func (t *Transaction) Serialize() ([]byte, error) {
	if !t.Signed() {
		return nil, ErrNotSigned
	}

	message, err := t.SerializeMessage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(AppendCompactU16(nil, uint16(t.requiredSigners)))
	for i := 0; i < t.requiredSigners; i++ {
		buf.Write(t.signatures[i].Bytes())
	}
	buf.Write(message)

	if buf.Len() > MaxTransactionSize {
		return nil, fmt.Errorf("%w: serialized transaction is %d bytes, max %d",
			ErrLimitExceeded, buf.Len(), MaxTransactionSize)
	}
	return buf.Bytes(), nil
}

// SignatureAt returns the signature stored in signer slot i
func (t *Transaction) SignatureAt(i int) (ed25519.Signature, error) {
	if i < 0 || i >= len(t.signatures) || !t.sigPresent[i] {
		return ed25519.Signature{}, fmt.Errorf("%w: no signature in slot %d", ErrBuildError, i)
	}
	return t.signatures[i], nil
}

// InstructionCount returns the number of accumulated instructions
func (t *Transaction) InstructionCount() int {
	return len(t.instructions)
}

// AccountCount returns the size of the compiled account table
func (t *Transaction) AccountCount() (int, error) {
	if err := t.compile(); err != nil {
		return 0, err
	}
	return len(t.compiled), nil
}

// RequiredSigners returns the number of distinct signer slots
func (t *Transaction) RequiredSigners() (int, error) {
	if err := t.compile(); err != nil {
		return 0, err
	}
	return t.requiredSigners, nil
}
