// Package validate implements the request field rules shared by every
// endpoint. Each helper returns nil or a *FieldError naming the field.
package validate

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Byte lengths of the encoded key material.
const (
	PublicKeyLength = ed25519.PublicKeySize  // 32
	SecretKeyLength = ed25519.PrivateKeySize // 64
	SignatureLength = ed25519.SignatureSize  // 64
)

// NotEmpty rejects empty and whitespace-only strings.
func NotEmpty(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fieldErr(field, ErrInvalidField, fmt.Sprintf("%s cannot be empty", field))
	}
	return nil
}

// Amount rejects zero amounts.
func Amount(value uint64, field string) error {
	if value == 0 {
		return fieldErr(field, ErrInvalidField, fmt.Sprintf("%s must be greater than 0", field))
	}
	return nil
}

// Required rejects a field absent from the request and returns its value.
func Required[T any](value *T, field string) (T, error) {
	if value == nil {
		var zero T
		return zero, fieldErr(field, ErrInvalidField, fmt.Sprintf("%s is required", field))
	}
	return *value, nil
}

// PublicKey parses a base58 address of exactly 32 bytes. Program-derived
// addresses are accepted, so the bytes need not lie on the curve.
func PublicKey(value, field string) (solana.PublicKey, error) {
	if err := NotEmpty(value, field); err != nil {
		return solana.PublicKey{}, err
	}
	raw, err := base58.Decode(value)
	if err != nil || len(raw) != PublicKeyLength {
		return solana.PublicKey{}, fieldErr(field, ErrInvalidEncoding, fmt.Sprintf(
			"Invalid public key format for %s: '%s'. Expected a base58 encoded string.", field, value))
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// SignerKey is PublicKey restricted to points on the Ed25519 curve, i.e.
// keys that can have produced a signature.
func SignerKey(value, field string) (solana.PublicKey, error) {
	pub, err := PublicKey(value, field)
	if err != nil {
		return pub, err
	}
	if !pub.IsOnCurve() {
		return solana.PublicKey{}, fieldErr(field, ErrInvalidEncoding, fmt.Sprintf(
			"Invalid public key for %s: '%s' is not an Ed25519 public key.", field, value))
	}
	return pub, nil
}

// SecretKey parses a base58 64-byte secret key (seed||public key) and
// checks that the public half matches the seed.
func SecretKey(value, field string) (solana.PrivateKey, error) {
	if err := NotEmpty(value, field); err != nil {
		return nil, err
	}
	raw, err := base58.Decode(value)
	if err != nil {
		return nil, fieldErr(field, ErrInvalidEncoding,
			"Invalid secret key format. Expected a base58 encoded string.")
	}
	if len(raw) != SecretKeyLength {
		return nil, fieldErr(field, ErrInvalidEncoding, fmt.Sprintf(
			"Invalid secret key length: expected %d bytes, got %d", SecretKeyLength, len(raw)))
	}
	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		return nil, fieldErr(field, ErrInvalidEncoding,
			"Failed to create keypair from secret key: public key does not match seed")
	}
	return solana.PrivateKey(raw), nil
}

// Signature parses a standard base64 Ed25519 signature.
func Signature(value, field string) (solana.Signature, error) {
	if err := NotEmpty(value, field); err != nil {
		return solana.Signature{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return solana.Signature{}, fieldErr(field, ErrInvalidEncoding, "Invalid signature format")
	}
	if len(raw) != SignatureLength {
		return solana.Signature{}, fieldErr(field, ErrInvalidEncoding, fmt.Sprintf(
			"Invalid signature: expected %d bytes, got %d", SignatureLength, len(raw)))
	}
	var sig solana.Signature
	copy(sig[:], raw)
	return sig, nil
}
