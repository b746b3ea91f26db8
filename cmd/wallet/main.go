package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"

	"solana-core-go/internal/config"
	"solana-core-go/internal/logger"
	"solana-core-go/internal/wallet"
	"solana-core-go/pkg/ed25519"
	"solana-core-go/pkg/tx"
)

const Version = "1.0.0"

// CLI flags
var (
	configFile = flag.String("config", "", "Path to config file")
	logLevel   = flag.String("log-level", "", "Log level (debug/info/warn/error)")

	words         = flag.Int("words", 0, "Mnemonic word count for a new wallet (12 or 24)")
	restorePhrase = flag.String("mnemonic", "", "Restore wallet from mnemonic phrase")
	showMnemonic  = flag.Bool("show-mnemonic", false, "Print the recovery phrase of a freshly generated wallet")

	transferTo = flag.String("transfer-to", "", "Build a transfer to this base58 address")
	lamports   = flag.Uint64("lamports", 0, "Transfer amount in lamports")
	solAmount  = flag.Float64("sol", 0, "Transfer amount in SOL (alternative to -lamports)")
	blockhash  = flag.String("blockhash", "", "Recent blockhash (base58) for the transfer")
	memo       = flag.String("memo", "", "Attach a memo to the transfer")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// CLI flags override config
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *words != 0 {
		cfg.Wallet.Words = *words
	}
	if *restorePhrase != "" {
		cfg.Wallet.Mnemonic = *restorePhrase
	}

	appLogger, err := logger.NewLogger(logger.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	w, err := wallet.NewWallet(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to create wallet")
	}
	defer w.Close()

	fmt.Printf("Address: %s\n", w.Address())
	if *showMnemonic && w.Mnemonic != "" {
		fmt.Printf("Recovery phrase: %s\n", w.Mnemonic)
		fmt.Println("Write these words down and store them safely. Never share them.")
	}

	if *transferTo != "" {
		if err := buildTransfer(w, appLogger); err != nil {
			appLogger.WithError(err).Fatal("Failed to build transfer")
		}
	}
}

// buildTransfer assembles, signs and prints an offline transfer transaction.
// Submission is up to the caller; this tool has no network access.
func buildTransfer(w *wallet.Wallet, appLogger *logger.Logger) error {
	if *blockhash == "" {
		return fmt.Errorf("a recent -blockhash is required to build a transfer")
	}
	amount := *lamports
	if amount == 0 && *solAmount > 0 {
		amount = config.ConvertSOLToLamports(*solAmount)
	}
	if amount == 0 {
		return fmt.Errorf("a nonzero -lamports or -sol amount is required")
	}

	to, err := ed25519.PublicKeyFromBase58(*transferTo)
	if err != nil {
		return fmt.Errorf("invalid destination address: %w", err)
	}
	bh, err := tx.BlockhashFromBase58(*blockhash)
	if err != nil {
		return err
	}

	transaction := tx.NewTransaction()
	transaction.SetFeePayer(w.PublicKey())
	transaction.SetRecentBlockhash(bh)
	if err := transaction.AddTransfer(w.PublicKey(), to, amount); err != nil {
		return err
	}
	if *memo != "" {
		if err := transaction.AddMemo(*memo); err != nil {
			return err
		}
	}

	if err := w.SignTransaction(transaction); err != nil {
		return err
	}

	raw, err := transaction.Serialize()
	if err != nil {
		return err
	}

	sig, err := transaction.SignatureAt(0)
	if err != nil {
		return err
	}

	appLogger.WithFields(map[string]interface{}{
		"bytes":      len(raw),
		"amount_sol": config.ConvertLamportsToSOL(amount),
	}).Info("Transaction built")
	fmt.Printf("Signature: %s\n", sig.String())
	fmt.Printf("Transaction (base64): %s\n", base64.StdEncoding.EncodeToString(raw))
	return nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "solana-core wallet v%s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
}
