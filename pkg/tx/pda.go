package tx

import (
	"crypto/sha256"
	"fmt"

	"solana-core-go/pkg/ed25519"
)

const (
	// pdaMarker terminates every PDA hash preimage
	pdaMarker = "ProgramDerivedAddress"

	// maxSeeds and maxSeedLen mirror the runtime's PDA seed limits
	maxSeeds   = 16
	maxSeedLen = 32
)

// FindProgramAddress derives the program derived address for seeds and a
// program id. Bump candidates are tried from 255 down to 0; the first
// candidate hash that does not decode as an Ed25519 curve point is the PDA.
// Exhausting all 256 bumps is vanishingly unlikely and reported as a crypto
// failure.
func FindProgramAddress(seeds [][]byte, programID ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	var pda ed25519.PublicKey

	if len(seeds) > maxSeeds {
		return pda, 0, fmt.Errorf("%w: at most %d seeds", ed25519.ErrInvalidInput, maxSeeds)
	}
	for _, seed := range seeds {
		if len(seed) > maxSeedLen {
			return pda, 0, fmt.Errorf("%w: seed longer than %d bytes", ed25519.ErrInvalidInput, maxSeedLen)
		}
	}

	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(bump)})
		h.Write(programID[:])
		h.Write([]byte(pdaMarker))
		candidate := h.Sum(nil)

		if !ed25519.IsOnCurve(candidate) {
			copy(pda[:], candidate)
			return pda, uint8(bump), nil
		}
	}

	return pda, 0, fmt.Errorf("%w: no off-curve address for seeds", ed25519.ErrCryptoFailure)
}

// FindAssociatedTokenAddress derives the associated token account for a
// wallet and mint, using the standard [wallet, token program, mint] seeds
// under the associated token program.
func FindAssociatedTokenAddress(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	seeds := [][]byte{
		wallet[:],
		TokenProgramID[:],
		mint[:],
	}
	return FindProgramAddress(seeds, AssociatedTokenProgramID)
}
