package handlers

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"integrationhub/internal/infrastructure/database"
	"integrationhub/internal/infrastructure/migration"
	"integrationhub/internal/shared/config"
)

func newTestStore(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := database.Open(&config.DatabaseConfig{Driver: config.DriverSQLite, Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(gdb) })

	manager, err := migration.NewManager(config.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, manager.Migrate(context.Background(), gdb))
	return gdb
}

func newSigningKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	return priv, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func signBody(t *testing.T, priv *rsa.PrivateKey, body []byte) string {
	t.Helper()
	digest := sha256.Sum256(body)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}
