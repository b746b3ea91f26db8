// Package mnemonic implements BIP39 mnemonic phrases for Solana wallets:
// entropy-to-word mapping with checksum, validation, PBKDF2 seed stretching,
// and keypair derivation compatible with the default path used by Phantom
// and Solflare.
//
// Phrases use the standard sorted 2048-word English dictionary; a word's
// position in the table is its 11-bit value.
package mnemonic

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"

	"solana-core-go/pkg/ed25519"
)

const (
	// Words12 and Words24 are the supported phrase lengths
	Words12 = 12
	Words24 = 24

	// Entropy12Size and Entropy24Size are the entropy sizes (bytes) backing
	// the two phrase lengths
	Entropy12Size = 16
	Entropy24Size = 32

	// SeedSize is the size of the PBKDF2-stretched seed in bytes
	SeedSize = 64

	// pbkdf2Iterations is fixed by BIP39
	pbkdf2Iterations = 2048

	saltPrefix = "mnemonic"
)

var (
	// ErrInvalidEntropy indicates an unsupported entropy length
	ErrInvalidEntropy = errors.New("mnemonic: entropy must be 16 or 32 bytes")

	// ErrInvalidMnemonic indicates a wordlist or checksum failure
	ErrInvalidMnemonic = errors.New("mnemonic: invalid mnemonic")
)

// Generate creates a new mnemonic of 12 or 24 words from fresh random
// entropy.
func Generate(wordCount int) (string, error) {
	var entropyLen int
	switch wordCount {
	case Words12:
		entropyLen = Entropy12Size
	case Words24:
		entropyLen = Entropy24Size
	default:
		return "", fmt.Errorf("%w: word count must be %d or %d, got %d",
			ed25519.ErrInvalidInput, Words12, Words24, wordCount)
	}

	entropy := make([]byte, entropyLen)
	if err := ed25519.RandomBytes(entropy); err != nil {
		return "", err
	}
	defer ed25519.Wipe(entropy)

	return FromEntropy(entropy)
}

// FromEntropy maps entropy to its mnemonic phrase. The SHA-256 checksum
// (entropy_bits/32 leading bits) is appended to the entropy and the result is
// split into 11-bit dictionary indices.
func FromEntropy(entropy []byte) (string, error) {
	if len(entropy) != Entropy12Size && len(entropy) != Entropy24Size {
		return "", fmt.Errorf("%w: got %d bytes", ErrInvalidEntropy, len(entropy))
	}

	hash := sha256.Sum256(entropy)

	// entropy || checksum, checksum_bits = entropy_bits/32 (4 or 8), so the
	// checksum always fits a single appended byte
	data := make([]byte, len(entropy)+1)
	copy(data, entropy)
	if len(entropy) == Entropy12Size {
		data[len(entropy)] = hash[0] & 0xF0
	} else {
		data[len(entropy)] = hash[0]
	}

	wordCount := (len(entropy)*8 + len(entropy)/4) / 11

	var sb strings.Builder
	var acc uint32
	accBits := 0
	written := 0
	for _, b := range data {
		acc = acc<<8 | uint32(b)
		accBits += 8
		for accBits >= 11 && written < wordCount {
			accBits -= 11
			idx := (acc >> accBits) & 0x7FF
			if written > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(wordlists.English[idx])
			written++
		}
	}

	ed25519.Wipe(data)
	ed25519.Wipe(hash[:])
	return sb.String(), nil
}

// Validate checks a mnemonic phrase: word count, dictionary membership of
// every word, and the embedded checksum. It returns nil for a valid phrase
// and ErrInvalidMnemonic otherwise.
func Validate(mnemonic string) error {
	entropy, err := EntropyFromMnemonic(mnemonic)
	if err != nil {
		return err
	}
	ed25519.Wipe(entropy)
	return nil
}

// EntropyFromMnemonic reconstructs the original entropy from a mnemonic
// phrase, verifying the checksum along the way.
func EntropyFromMnemonic(mnemonic string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	if len(words) != Words12 && len(words) != Words24 {
		return nil, fmt.Errorf("%w: expected %d or %d words, got %d",
			ErrInvalidMnemonic, Words12, Words24, len(words))
	}

	// Repack the 11-bit word indices into bytes
	var acc uint32
	accBits := 0
	data := make([]byte, 0, Entropy24Size+1)
	for _, word := range words {
		idx, ok := wordIndex(word)
		if !ok {
			return nil, fmt.Errorf("%w: unknown word %q", ErrInvalidMnemonic, word)
		}
		acc = acc<<11 | uint32(idx)
		accBits += 11
		for accBits >= 8 {
			accBits -= 8
			data = append(data, byte(acc>>accBits))
		}
	}
	if accBits > 0 {
		data = append(data, byte(acc<<(8-accBits)))
	}

	entropyLen := len(words) * 4 / 3
	entropy := make([]byte, entropyLen)
	copy(entropy, data[:entropyLen])

	hash := sha256.Sum256(entropy)
	var want, got byte
	if entropyLen == Entropy12Size {
		want = hash[0] & 0xF0
		got = data[entropyLen] & 0xF0
	} else {
		want = hash[0]
		got = data[entropyLen]
	}
	ed25519.Wipe(data)
	ed25519.Wipe(hash[:])

	if want != got {
		ed25519.Wipe(entropy)
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidMnemonic)
	}
	return entropy, nil
}

// ToSeed stretches a validated mnemonic into a 64-byte seed using
// PBKDF2-HMAC-SHA512 with 2048 iterations and salt "mnemonic" || passphrase.
// The caller owns the returned seed and should wipe it after use.
func ToSeed(mnemonic, passphrase string) ([]byte, error) {
	if err := Validate(mnemonic); err != nil {
		return nil, err
	}

	salt := make([]byte, 0, len(saltPrefix)+len(passphrase))
	salt = append(salt, saltPrefix...)
	salt = append(salt, passphrase...)

	seed := pbkdf2.Key([]byte(mnemonic), salt, pbkdf2Iterations, SeedSize, sha512.New)

	ed25519.Wipe(salt)
	return seed, nil
}

// NewKeypairFromMnemonic derives an Ed25519 keypair from a mnemonic. The
// first 32 bytes of the stretched seed become the Ed25519 seed; this is the
// single-path derivation used by common Solana wallets at their default path,
// not full hierarchical derivation.
func NewKeypairFromMnemonic(mnemonic, passphrase string) (*ed25519.Keypair, error) {
	seed, err := ToSeed(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer ed25519.Wipe(seed)

	return ed25519.NewKeypairFromSeed(seed[:ed25519.SeedSize])
}

// WordAt returns the dictionary word at index, or "" when out of range
func WordAt(index int) string {
	if index < 0 || index >= len(wordlists.English) {
		return ""
	}
	return wordlists.English[index]
}

// WordCount returns the number of whitespace-separated words in a phrase
func WordCount(mnemonic string) int {
	return len(strings.Fields(mnemonic))
}

// wordIndex binary-searches the sorted dictionary. The table position of a
// word is its canonical 11-bit value.
func wordIndex(word string) (int, bool) {
	i := sort.SearchStrings(wordlists.English, word)
	if i < len(wordlists.English) && wordlists.English[i] == word {
		return i, true
	}
	return 0, false
}
