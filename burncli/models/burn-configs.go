package models

import "github.com/gagliardetto/solana-go"

const (
	LamportsPerSOL = 1_000_000_000
	// BatchSize is the number of accounts burned and closed per transaction.
	BatchSize = 12
	// MaxTransactionSize is the Solana packet limit for a serialized transaction.
	MaxTransactionSize = 1232
	DefaultRPC         = "https://solana-rpc.publicnode.com"
	SessionRoot        = "burn-sessions"
)

const (
	EncodingJSONParsed = "jsonParsed"
	EncodingBase64Zstd = "base64+zstd"
)

var (
	SystemTokenProgram = solana.TokenProgramID
)
