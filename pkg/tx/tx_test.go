package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-core-go/pkg/ed25519"
)

func testKeypair(t *testing.T) *ed25519.Keypair {
	t.Helper()
	kp, err := ed25519.GenerateKeypair()
	require.NoError(t, err)
	return kp
}

func testPubkey(t *testing.T) ed25519.PublicKey {
	t.Helper()
	return testKeypair(t).PublicKey
}

func testBlockhash() Blockhash {
	var bh Blockhash
	for i := range bh {
		bh[i] = byte(i + 1)
	}
	return bh
}

func TestBlockhashBase58RoundTrip(t *testing.T) {
	bh := testBlockhash()
	decoded, err := BlockhashFromBase58(bh.String())
	require.NoError(t, err)
	assert.Equal(t, bh, decoded)

	_, err = BlockhashFromBase58("tooshort")
	assert.ErrorIs(t, err, ErrBuildError)

	_, err = BlockhashFromBase58("0not-base58!")
	assert.ErrorIs(t, err, ErrBuildError)
}

func TestAccountOrdering(t *testing.T) {
	feePayer := testPubkey(t)
	signerRO := testPubkey(t)   // signer, read-only
	writable := testPubkey(t)   // non-signer, writable
	readonly := testPubkey(t)   // non-signer, read-only
	program := testPubkey(t)

	txn := NewTransaction()
	txn.SetFeePayer(feePayer)
	txn.SetRecentBlockhash(testBlockhash())

	// deliberately scrambled relative to the required wire order
	err := txn.AddInstruction(program, []AccountMeta{
		{Pubkey: readonly},
		{Pubkey: writable, IsWritable: true},
		{Pubkey: signerRO, IsSigner: true},
	}, []byte{1})
	require.NoError(t, err)

	require.NoError(t, txn.compile())

	want := []ed25519.PublicKey{feePayer, signerRO, writable, readonly, program}
	require.Len(t, txn.compiled, len(want))
	for i, pub := range want {
		assert.Equal(t, pub, txn.compiled[i].pubkey, "table position %d", i)
	}

	signers, err := txn.RequiredSigners()
	require.NoError(t, err)
	assert.Equal(t, 2, signers)
}

func TestAccountDeduplication(t *testing.T) {
	feePayer := testPubkey(t)
	shared := testPubkey(t)
	program := testPubkey(t)

	txn := NewTransaction()
	txn.SetFeePayer(feePayer)
	txn.SetRecentBlockhash(testBlockhash())

	// shared appears read-only in one instruction, writable in another;
	// flags must merge
	require.NoError(t, txn.AddInstruction(program, []AccountMeta{
		{Pubkey: shared},
	}, nil))
	require.NoError(t, txn.AddInstruction(program, []AccountMeta{
		{Pubkey: shared, IsWritable: true},
	}, nil))

	count, err := txn.AccountCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count) // feePayer, shared, program

	idx := txn.accountIndex(shared)
	require.GreaterOrEqual(t, idx, 0)
	assert.True(t, txn.compiled[idx].isWritable)
	assert.False(t, txn.compiled[idx].isSigner)
}

func TestFeePayerMergedWithInstructionAccount(t *testing.T) {
	payer := testKeypair(t)
	recipient := testPubkey(t)

	txn := NewTransaction()
	txn.SetFeePayer(payer.PublicKey)
	txn.SetRecentBlockhash(testBlockhash())
	require.NoError(t, txn.AddTransfer(payer.PublicKey, recipient, 1_000_000))

	count, err := txn.AccountCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count) // payer, recipient, system program

	signers, err := txn.RequiredSigners()
	require.NoError(t, err)
	assert.Equal(t, 1, signers)
	assert.Equal(t, payer.PublicKey, txn.compiled[0].pubkey)
}

func TestSerializeMessageLayout(t *testing.T) {
	payer := testKeypair(t)
	recipient := testPubkey(t)
	bh := testBlockhash()

	txn := NewTransaction()
	txn.SetFeePayer(payer.PublicKey)
	txn.SetRecentBlockhash(bh)
	require.NoError(t, txn.AddTransfer(payer.PublicKey, recipient, 42))

	msg, err := txn.SerializeMessage()
	require.NoError(t, err)

	// header: 1 required signer, 0 read-only signed, 1 read-only unsigned
	// (the system program)
	require.Greater(t, len(msg), 3)
	assert.Equal(t, byte(1), msg[0])
	assert.Equal(t, byte(0), msg[1])
	assert.Equal(t, byte(1), msg[2])

	off := 3
	numAccounts, n, err := DecodeCompactU16(msg[off:])
	require.NoError(t, err)
	assert.Equal(t, uint16(3), numAccounts)
	off += n

	assert.Equal(t, payer.PublicKey[:], msg[off:off+32])
	assert.Equal(t, recipient[:], msg[off+32:off+64])
	assert.Equal(t, SystemProgramID[:], msg[off+64:off+96])
	off += 96

	assert.Equal(t, bh[:], msg[off:off+BlockhashSize])
	off += BlockhashSize

	numIx, n, err := DecodeCompactU16(msg[off:])
	require.NoError(t, err)
	assert.Equal(t, uint16(1), numIx)
	off += n

	assert.Equal(t, byte(2), msg[off], "program id index")
	off++

	numIxAccounts, n, err := DecodeCompactU16(msg[off:])
	require.NoError(t, err)
	assert.Equal(t, uint16(2), numIxAccounts)
	off += n
	assert.Equal(t, byte(0), msg[off], "sender index")
	assert.Equal(t, byte(1), msg[off+1], "recipient index")
	off += 2

	dataLen, n, err := DecodeCompactU16(msg[off:])
	require.NoError(t, err)
	assert.Equal(t, uint16(12), dataLen)
	off += n

	// u32 transfer discriminator then u64 lamports, little-endian
	assert.Equal(t, []byte{2, 0, 0, 0}, msg[off:off+4])
	assert.Equal(t, []byte{42, 0, 0, 0, 0, 0, 0, 0}, msg[off+4:off+12])
	off += 12

	assert.Equal(t, len(msg), off, "no trailing bytes")
}

func TestSerializeMessageRequiresBlockhash(t *testing.T) {
	txn := NewTransaction()
	txn.SetFeePayer(testPubkey(t))
	_, err := txn.SerializeMessage()
	assert.ErrorIs(t, err, ErrBuildError)
}

func TestSignAndSerialize(t *testing.T) {
	payer := testKeypair(t)
	recipient := testPubkey(t)

	txn := NewTransaction()
	txn.SetFeePayer(payer.PublicKey)
	txn.SetRecentBlockhash(testBlockhash())
	require.NoError(t, txn.AddTransfer(payer.PublicKey, recipient, 1))

	_, err := txn.Serialize()
	assert.ErrorIs(t, err, ErrNotSigned)
	assert.False(t, txn.Signed())

	require.NoError(t, txn.Sign(payer))
	assert.True(t, txn.Signed())

	wire, err := txn.Serialize()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(wire), MaxTransactionSize)

	// wire = compact sig count || signatures || message
	numSigs, n, err := DecodeCompactU16(wire)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), numSigs)

	var sig ed25519.Signature
	copy(sig[:], wire[n:n+ed25519.SignatureSize])

	msg, err := txn.SerializeMessage()
	require.NoError(t, err)
	assert.Equal(t, msg, wire[n+ed25519.SignatureSize:])
	assert.NoError(t, ed25519.Verify(msg, sig, payer.PublicKey))

	stored, err := txn.SignatureAt(0)
	require.NoError(t, err)
	assert.Equal(t, sig, stored)
}

func TestMultiSigner(t *testing.T) {
	payer := testKeypair(t)
	other := testKeypair(t)

	txn := NewTransaction()
	txn.SetFeePayer(payer.PublicKey)
	txn.SetRecentBlockhash(testBlockhash())
	require.NoError(t, txn.AddCreateAccount(
		payer.PublicKey, other.PublicKey, 2_000_000, 165, TokenProgramID))

	signers, err := txn.RequiredSigners()
	require.NoError(t, err)
	require.Equal(t, 2, signers)

	// order of signing does not matter, and one signature is not enough
	require.NoError(t, txn.Sign(other))
	assert.False(t, txn.Signed())
	_, err = txn.Serialize()
	assert.ErrorIs(t, err, ErrNotSigned)

	require.NoError(t, txn.Sign(payer))
	assert.True(t, txn.Signed())

	msg, err := txn.SerializeMessage()
	require.NoError(t, err)
	sig0, err := txn.SignatureAt(0)
	require.NoError(t, err)
	sig1, err := txn.SignatureAt(1)
	require.NoError(t, err)
	assert.NoError(t, ed25519.Verify(msg, sig0, payer.PublicKey))
	assert.NoError(t, ed25519.Verify(msg, sig1, other.PublicKey))
}

func TestSignRejectsNonSigner(t *testing.T) {
	payer := testKeypair(t)
	stranger := testKeypair(t)

	txn := NewTransaction()
	txn.SetFeePayer(payer.PublicKey)
	txn.SetRecentBlockhash(testBlockhash())
	require.NoError(t, txn.AddTransfer(payer.PublicKey, testPubkey(t), 1))

	err := txn.Sign(stranger)
	assert.ErrorIs(t, err, ErrBuildError)
}

func TestSignRequiresFeePayerAndBlockhash(t *testing.T) {
	payer := testKeypair(t)

	txn := NewTransaction()
	assert.ErrorIs(t, txn.Sign(payer), ErrBuildError)

	txn.SetFeePayer(payer.PublicKey)
	assert.ErrorIs(t, txn.Sign(payer), ErrBuildError)

	var cleared ed25519.Keypair
	assert.ErrorIs(t, txn.Sign(&cleared), ed25519.ErrNotInitialized)
}

func TestMutationInvalidatesSignatures(t *testing.T) {
	payer := testKeypair(t)

	txn := NewTransaction()
	txn.SetFeePayer(payer.PublicKey)
	txn.SetRecentBlockhash(testBlockhash())
	require.NoError(t, txn.AddTransfer(payer.PublicKey, testPubkey(t), 1))
	require.NoError(t, txn.Sign(payer))
	require.True(t, txn.Signed())

	// a new blockhash changes the message, so old signatures must be dropped
	var newer Blockhash
	newer[0] = 0xFF
	txn.SetRecentBlockhash(newer)
	assert.False(t, txn.Signed())
	_, err := txn.Serialize()
	assert.ErrorIs(t, err, ErrNotSigned)

	// same for appending an instruction after re-signing
	require.NoError(t, txn.Sign(payer))
	require.True(t, txn.Signed())
	require.NoError(t, txn.AddMemo("hello"))
	assert.False(t, txn.Signed())
}

func TestInstructionLimit(t *testing.T) {
	program := testPubkey(t)
	txn := NewTransaction()
	for i := 0; i < MaxInstructions; i++ {
		require.NoError(t, txn.AddInstruction(program, nil, []byte{byte(i)}))
	}
	err := txn.AddInstruction(program, nil, nil)
	assert.ErrorIs(t, err, ErrLimitExceeded)
	assert.Equal(t, MaxInstructions, txn.InstructionCount())
}

func TestInstructionDataLimit(t *testing.T) {
	txn := NewTransaction()
	assert.NoError(t, txn.AddInstruction(testPubkey(t), nil, make([]byte, MaxInstructionData)))
	err := txn.AddInstruction(testPubkey(t), nil, make([]byte, MaxInstructionData+1))
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestAccountTableLimit(t *testing.T) {
	txn := NewTransaction()
	txn.SetFeePayer(testPubkey(t))
	txn.SetRecentBlockhash(testBlockhash())

	// 20 distinct instruction accounts plus the fee payer overflow the table
	metas := make([]AccountMeta, MaxAccounts)
	for i := range metas {
		metas[i] = AccountMeta{Pubkey: testPubkey(t)}
	}
	require.NoError(t, txn.AddInstruction(testPubkey(t), metas, nil))

	_, err := txn.AccountCount()
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestSignerLimit(t *testing.T) {
	txn := NewTransaction()
	txn.SetFeePayer(testPubkey(t))
	txn.SetRecentBlockhash(testBlockhash())

	metas := make([]AccountMeta, MaxSigners)
	for i := range metas {
		metas[i] = AccountMeta{Pubkey: testPubkey(t), IsSigner: true}
	}
	require.NoError(t, txn.AddInstruction(testPubkey(t), metas, nil))

	// fee payer plus MaxSigners distinct signing accounts
	_, err := txn.RequiredSigners()
	assert.ErrorIs(t, err, ErrLimitExceeded)
}

func TestAddInstructionCopiesArguments(t *testing.T) {
	txn := NewTransaction()
	txn.SetFeePayer(testPubkey(t))
	txn.SetRecentBlockhash(testBlockhash())

	data := []byte{1, 2, 3}
	metas := []AccountMeta{{Pubkey: testPubkey(t), IsWritable: true}}
	require.NoError(t, txn.AddInstruction(testPubkey(t), metas, data))

	msgBefore, err := txn.SerializeMessage()
	require.NoError(t, err)

	// caller mutations after the fact must not leak into the transaction
	data[0] = 0xFF
	metas[0].IsSigner = true

	msgAfter, err := txn.SerializeMessage()
	require.NoError(t, err)
	assert.Equal(t, msgBefore, msgAfter)
}

func TestAddMemo(t *testing.T) {
	payer := testKeypair(t)

	txn := NewTransaction()
	txn.SetFeePayer(payer.PublicKey)
	txn.SetRecentBlockhash(testBlockhash())
	require.NoError(t, txn.AddTransfer(payer.PublicKey, testPubkey(t), 1))
	require.NoError(t, txn.AddMemo("order 66"))

	count, err := txn.AccountCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count) // payer, recipient, system program, memo program

	require.NoError(t, txn.Sign(payer))
	wire, err := txn.Serialize()
	require.NoError(t, err)
	assert.Contains(t, string(wire), "order 66")
}
