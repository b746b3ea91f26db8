// Package wallet wraps a keypair with its lifecycle: creation from a
// mnemonic, private key or fresh entropy, transaction signing, and teardown
// that wipes key material.
package wallet

import (
	"fmt"

	"solana-core-go/internal/config"
	"solana-core-go/internal/logger"
	"solana-core-go/pkg/ed25519"
	"solana-core-go/pkg/mnemonic"
	"solana-core-go/pkg/tx"

	"github.com/sirupsen/logrus"
)

// Wallet represents a Solana wallet
type Wallet struct {
	keypair *ed25519.Keypair
	logger  *logger.Logger
	config  *config.Config

	// Mnemonic holds the recovery phrase for freshly generated wallets so the
	// caller can display it once; empty for restored wallets. Cleared by Close.
	Mnemonic string
}

// NewWallet creates a wallet from the configured source: a mnemonic if set,
// otherwise a base58 private key, otherwise a freshly generated mnemonic of
// the configured word count.
func NewWallet(cfg *config.Config, log *logger.Logger) (*Wallet, error) {
	var (
		kp     *ed25519.Keypair
		phrase string
		source string
		err    error
	)

	switch {
	case cfg.Wallet.Mnemonic != "":
		source = "mnemonic"
		kp, err = mnemonic.NewKeypairFromMnemonic(cfg.Wallet.Mnemonic, cfg.Wallet.Passphrase)
	case cfg.Wallet.PrivateKey != "":
		source = "private_key"
		kp, err = ed25519.NewKeypairFromBase58(cfg.Wallet.PrivateKey)
	default:
		source = "generated"
		phrase, err = mnemonic.Generate(cfg.Wallet.Words)
		if err == nil {
			kp, err = mnemonic.NewKeypairFromMnemonic(phrase, cfg.Wallet.Passphrase)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	wallet := &Wallet{
		keypair:  kp,
		logger:   log,
		config:   cfg,
		Mnemonic: phrase,
	}

	log.WithFields(logrus.Fields{
		"public_key": wallet.Address(),
		"source":     source,
		"network":    cfg.Network,
		"rpc":        config.GetRPCEndpoint(cfg.Network),
	}).Info("Wallet initialized")

	return wallet, nil
}

// Keypair returns the wallet's keypair for signing transactions
func (w *Wallet) Keypair() *ed25519.Keypair {
	return w.keypair
}

// PublicKey returns the wallet's public key
func (w *Wallet) PublicKey() ed25519.PublicKey {
	return w.keypair.PublicKey
}

// Address returns the wallet's public key as base58 string
func (w *Wallet) Address() string {
	return w.keypair.Address()
}

// SignTransaction signs a built transaction with the wallet's keypair
func (w *Wallet) SignTransaction(transaction *tx.Transaction) error {
	if err := transaction.Sign(w.keypair); err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"public_key": w.Address(),
		"signed":     transaction.Signed(),
	}).Debug("Transaction signed")

	return nil
}

// SignMessage signs an arbitrary message with the wallet's keypair
func (w *Wallet) SignMessage(message []byte) (ed25519.Signature, error) {
	sig, err := w.keypair.Sign(message)
	if err != nil {
		return sig, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}

// Close wipes the wallet's key material and recovery phrase
func (w *Wallet) Close() {
	w.keypair.Clear()
	w.Mnemonic = ""
	w.logger.Debug("Wallet closed")
}
