package sol

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Signer is the signing identity of a session. Key material never leaves it.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(payload []byte) (solana.Signature, error)
}

// Keypair holds the wallet's private key.
type Keypair struct {
	key solana.PrivateKey
}

// KeypairFromBase58 decodes a 64-byte base58 secret key as exported by
// Phantom or solana-keygen.
func KeypairFromBase58(secret string) (*Keypair, error) {
	raw, err := base58.Decode(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("failed to create keypair: expected %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	seeded := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !seeded.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(raw[ed25519.SeedSize:])) {
		return nil, fmt.Errorf("failed to create keypair: public key does not match secret")
	}
	return &Keypair{key: solana.PrivateKey(raw)}, nil
}

func (k *Keypair) PublicKey() solana.PublicKey { return k.key.PublicKey() }

func (k *Keypair) Sign(payload []byte) (solana.Signature, error) {
	return k.key.Sign(payload)
}
