package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Network settings (informational; the wallet tool itself is offline)
	Network string `mapstructure:"network" yaml:"network"`

	// Wallet settings
	Wallet WalletConfig `mapstructure:"wallet" yaml:"wallet"`

	// Logging settings
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// WalletConfig contains wallet-related settings
type WalletConfig struct {
	// Mnemonic word count for newly generated wallets (12 or 24)
	Words int `mapstructure:"words" yaml:"words"`

	// Optional BIP39 passphrase applied during seed stretching
	Passphrase string `mapstructure:"passphrase" yaml:"passphrase"`

	// Base58 private key for restoring an existing wallet
	PrivateKey string `mapstructure:"private_key" yaml:"private_key"`

	// Mnemonic phrase for restoring an existing wallet
	Mnemonic string `mapstructure:"mnemonic" yaml:"mnemonic"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	setDefaults()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("wallet")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("$HOME/.solana-core")
	}

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("SOLCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue with defaults and env vars
	}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("network", "mainnet")
	viper.SetDefault("wallet.words", 24)
	viper.SetDefault("wallet.passphrase", "")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

func bindEnvVariables() {
	// Bind the sensitive values explicitly so they can come from the
	// environment without appearing in a config file
	_ = viper.BindEnv("wallet.private_key", "SOLCORE_WALLET_PRIVATE_KEY")
	_ = viper.BindEnv("wallet.mnemonic", "SOLCORE_WALLET_MNEMONIC")
	_ = viper.BindEnv("wallet.passphrase", "SOLCORE_WALLET_PASSPHRASE")
}

func validateConfig(config *Config) error {
	if config.Wallet.Words != 12 && config.Wallet.Words != 24 {
		return fmt.Errorf("wallet.words must be 12 or 24, got %d", config.Wallet.Words)
	}

	validNetwork := false
	for _, n := range SupportedNetworks {
		if config.Network == n {
			validNetwork = true
			break
		}
	}
	if !validNetwork {
		return fmt.Errorf("unknown network %q, supported: %s",
			config.Network, strings.Join(SupportedNetworks, ", "))
	}

	if config.Wallet.PrivateKey != "" && config.Wallet.Mnemonic != "" {
		return fmt.Errorf("set wallet.private_key or wallet.mnemonic, not both")
	}

	return nil
}
