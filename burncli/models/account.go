package models

import (
	"github.com/gagliardetto/solana-go"
)

// TokenAccount is one SPL token account held by the wallet, together with its
// selection state.
type TokenAccount struct {
	Address   solana.PublicKey
	Mint      solana.PublicKey
	Balance   uint64
	UiBalance string
	Lamports  uint64
	Selected  bool
}

// RawTokenAccount is the shape handed over by a token account source before
// it has been validated.
type RawTokenAccount struct {
	Address  string
	Mint     string
	Amount   string
	UiAmount string
	Lamports uint64
}

// WalletInfo is the header information shown for the signing wallet.
type WalletInfo struct {
	Owner    solana.PublicKey
	Lamports uint64
}
