package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// IntegrationIdentityKey digests the four identity columns into the fixed-width
// value that carries the integrations unique index. Each part is length-prefixed so
// that no two distinct tuples share an encoding.
func IntegrationIdentityKey(provider, locationID, companyID, userID string) string {
	return digest(provider, locationID, companyID, userID)
}

// WebhookKey digests a delivery id into the fixed-width dedup column.
func WebhookKey(webhookID string) string {
	return digest(webhookID)
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strconv.Itoa(len(p))))
		h.Write([]byte{':'})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
