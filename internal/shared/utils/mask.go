package utils

import "strings"

// MaskSecret hides all but the last four characters of a credential.
// Example: "sk_live_abcdef1234" -> "****1234"
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// MaskPEM keeps only the armor line of a PEM block.
func MaskPEM(pem string) string {
	if pem == "" {
		return ""
	}
	if first, _, ok := strings.Cut(strings.TrimSpace(pem), "\n"); ok {
		return first + " ****"
	}
	return "****"
}
