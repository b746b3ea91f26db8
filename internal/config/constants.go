package config

// Solana network endpoints
const (
	SolanaMainnetRPC = "https://api.mainnet-beta.solana.com"
	SolanaDevnetRPC  = "https://api.devnet.solana.com"
	SolanaTestnetRPC = "https://api.testnet.solana.com"

	// LamportsPerSol is the number of lamports in one SOL
	LamportsPerSol = 1_000_000_000
)

// SupportedNetworks lists the network names accepted in configuration
var SupportedNetworks = []string{"mainnet", "devnet", "testnet"}

// GetRPCEndpoint returns the RPC endpoint for a network
func GetRPCEndpoint(network string) string {
	switch network {
	case "devnet":
		return SolanaDevnetRPC
	case "testnet":
		return SolanaTestnetRPC
	default:
		return SolanaMainnetRPC
	}
}

// ConvertSOLToLamports converts SOL to lamports
func ConvertSOLToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSol)
}

// ConvertLamportsToSOL converts lamports to SOL
func ConvertLamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
