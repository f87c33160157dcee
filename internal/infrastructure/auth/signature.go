package auth

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"integrationhub/internal/shared/logger"
)

// SignatureVerifier checks RSA PKCS#1 v1.5 SHA-256 signatures over raw webhook bodies.
// The key is parsed once; a verifier with an unusable key rejects everything.
type SignatureVerifier struct {
	key    *rsa.PublicKey
	logger logger.Interface
}

// NewSignatureVerifier parses pemKey, falling back to DefaultWebhookPublicKey when empty.
// Escaped newlines ("\n" as two characters) are accepted, since keys often come from env vars.
func NewSignatureVerifier(pemKey string, log logger.Interface) *SignatureVerifier {
	if strings.TrimSpace(pemKey) == "" {
		pemKey = DefaultWebhookPublicKey
	}

	key, err := ParseRSAPublicKey(pemKey)
	if err != nil {
		log.Warnw("webhook public key is unusable, all signatures will be rejected", "error", err)
	}
	return &SignatureVerifier{key: key, logger: log}
}

// ParseRSAPublicKey accepts PKIX ("PUBLIC KEY") and PKCS#1 ("RSA PUBLIC KEY") PEM blocks.
func ParseRSAPublicKey(pemKey string) (*rsa.PublicKey, error) {
	pemKey = strings.ReplaceAll(strings.TrimSpace(pemKey), `\n`, "\n")
	block, _ := pem.Decode([]byte(pemKey))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if pub, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		rsaKey, ok := pub.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("unsupported public key type %T", pub)
		}
		return rsaKey, nil
	}

	rsaKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	return rsaKey, nil
}

// Verify reports whether signatureBase64 is a valid signature of rawBody. It never panics;
// every failure is a plain false.
func (v *SignatureVerifier) Verify(rawBody []byte, signatureBase64 string) bool {
	if v == nil || v.key == nil {
		return false
	}

	sig, ok := decodeSignature(signatureBase64)
	if !ok {
		return false
	}

	digest := sha256.Sum256(rawBody)
	return rsa.VerifyPKCS1v15(v.key, crypto.SHA256, digest[:], sig) == nil
}

func decodeSignature(s string) ([]byte, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if sig, err := base64.StdEncoding.DecodeString(s); err == nil {
		return sig, true
	}
	if sig, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return sig, true
	}
	return nil, false
}
