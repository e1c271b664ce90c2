package mvx

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
)

// Signer signs transactions on behalf of one account.
type Signer interface {
	Address() Address
	Sign(message []byte) ([]byte, error)
}

// Ed25519Signer is an in-memory signer backed by an ed25519 seed.
type Ed25519Signer struct {
	key  ed25519.PrivateKey
	addr Address
}

// NewEd25519SignerFromHex creates a signer from a hex-encoded 32-byte seed.
// A 64-byte seed||pubkey encoding is accepted as well.
func NewEd25519SignerFromHex(secret string) (*Ed25519Signer, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(secret), "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode signer key: %w", err)
	}
	switch len(raw) {
	case ed25519.SeedSize, ed25519.PrivateKeySize:
	default:
		return nil, fmt.Errorf("invalid signer key length %d", len(raw))
	}

	key := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	addr, err := AddressFromPublicKey(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{key: key, addr: addr}, nil
}

func (s *Ed25519Signer) Address() Address { return s.addr }

func (s *Ed25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.key, message), nil
}

// SignTransaction sets tx.Signature to the signer's signature over tx.SigningBytes.
func SignTransaction(s Signer, tx *Transaction) error {
	msg, err := tx.SigningBytes()
	if err != nil {
		return err
	}
	sig, err := s.Sign(msg)
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	tx.Signature = hex.EncodeToString(sig)
	return nil
}
