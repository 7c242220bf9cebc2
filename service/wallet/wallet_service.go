package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"

	"interest/core"
	"interest/pkg/layout"
)

// Wallet file keystore signer. The keystore is a JSON array of the 64
// raw private key bytes, the same format the ledger's CLI tooling
// writes.
type Wallet struct {
	key     ed25519.PrivateKey
	address string
}

// New load a keystore file
func New(keystorePath string) (core.IWallet, error) {
	raw, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, err
	}

	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return nil, fmt.Errorf("wallet: malformed keystore: %w", err)
	}

	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("wallet: keystore must hold %d bytes", ed25519.PrivateKeySize)
	}

	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("wallet: keystore byte %d out of range", i)
		}
		key[i] = byte(v)
	}

	var pub layout.PubKey
	copy(pub[:], key.Public().(ed25519.PublicKey))

	return &Wallet{key: key, address: pub.String()}, nil
}

// Address base58 public key
func (w *Wallet) Address() string {
	return w.address
}

// Sign sign a message
func (w *Wallet) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(w.key, message), nil
}
