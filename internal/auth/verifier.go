package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Header names carrying the interaction signature.
const (
	SignatureHeader = "X-Signature-Ed25519"
	TimestampHeader = "X-Signature-Timestamp"
)

var (
	ErrMissingHeader       = errors.New("signature header is required")
	ErrMalformedSignature  = errors.New("malformed signature")
	ErrInvalidBodyEncoding = errors.New("request body is not valid text")
	ErrVerificationFailed  = errors.New("signature verification failed")
)

// IsAuthError reports whether err is one of the request authentication failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingHeader) ||
		errors.Is(err, ErrMalformedSignature) ||
		errors.Is(err, ErrInvalidBodyEncoding) ||
		errors.Is(err, ErrVerificationFailed)
}

// Verifier checks Ed25519 interaction signatures against a fixed public key.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	publicKey ed25519.PublicKey
}

// NewVerifier parses a hex-encoded Ed25519 public key.
func NewVerifier(hexKey string) (*Verifier, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, errors.New("public key is empty")
	}
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decoding public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Verifier{publicKey: ed25519.PublicKey(raw)}, nil
}

// Verify authenticates an interaction request. The signed message is the
// timestamp header value immediately followed by the raw body.
func (v *Verifier) Verify(headers http.Header, body []byte) error {
	signature := headers.Get(SignatureHeader)
	if signature == "" {
		return fmt.Errorf("%w: %s", ErrMissingHeader, SignatureHeader)
	}
	timestamp := headers.Get(TimestampHeader)
	if timestamp == "" {
		return fmt.Errorf("%w: %s", ErrMissingHeader, TimestampHeader)
	}

	sig, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrMalformedSignature, ed25519.SignatureSize, len(sig))
	}

	if !utf8.Valid(body) {
		return ErrInvalidBodyEncoding
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	if !ed25519.Verify(v.publicKey, message, sig) {
		return ErrVerificationFailed
	}
	return nil
}
