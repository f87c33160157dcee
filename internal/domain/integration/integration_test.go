package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntegration(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		rec, err := NewIntegration(Key{Provider: ProviderWafeq, LocationID: "loc1"}, Tokens{AccessToken: StringPtr("at")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "loc1", rec.LocationID)
		assert.Equal(t, "", rec.CompanyID)
		assert.NotNil(t, rec.Meta)
		assert.Equal(t, "at", *rec.AccessToken)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewIntegration(Key{Provider: "quickbooks"}, Tokens{}, nil)
		assert.Error(t, err)
	})
}

func TestIntegration_RevocableToken(t *testing.T) {
	tests := []struct {
		name    string
		access  *string
		refresh *string
		want    string
	}{
		{"refresh preferred", StringPtr("at"), StringPtr("rt"), "rt"},
		{"access fallback", StringPtr("at"), nil, "at"},
		{"empty refresh ignored", StringPtr("at"), new(string), "at"},
		{"none", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Integration{AccessToken: tt.access, RefreshToken: tt.refresh}
			assert.Equal(t, tt.want, rec.RevocableToken())
		})
	}
}

func TestIntegration_Revoke(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	rec := &Integration{
		Key:          Key{Provider: ProviderWafeq, LocationID: "loc1"},
		AccessToken:  StringPtr("at"),
		RefreshToken: StringPtr("rt"),
		ExpiresAt:    &expires,
		Meta:         map[string]interface{}{"state": "abc"},
	}
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	rec.Revoke(at)

	assert.Nil(t, rec.AccessToken)
	assert.Nil(t, rec.RefreshToken)
	assert.Nil(t, rec.ExpiresAt)
	assert.Equal(t, "abc", rec.Meta["state"])
	assert.Equal(t, "2024-05-01T10:00:00.000Z", rec.Meta["revokedAt"])
	assert.Equal(t, at, rec.UpdatedAt)
	assert.True(t, rec.IsRevoked())
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Equal(t, "x", *StringPtr("x"))
}
