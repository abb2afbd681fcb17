package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProviderValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProviderConfig
	}{
		{"missing client id", ProviderConfig{ClientSecret: "s", RedirectURL: "r", DiscoveryURL: "d"}},
		{"missing client secret", ProviderConfig{ClientID: "c", RedirectURL: "r", DiscoveryURL: "d"}},
		{"missing redirect url", ProviderConfig{ClientID: "c", ClientSecret: "s", DiscoveryURL: "d"}},
		{"missing discovery url", ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestIDTokenClaimsToIdentity(t *testing.T) {
	identity := idTokenClaims{Email: "x@example.com", Name: "Example User"}.toIdentity()
	assert.Equal(t, "x@example.com", identity.Email)
	assert.Equal(t, "Example User", identity.Name)

	// Name assembled from given/family name when the composite claim is absent.
	identity = idTokenClaims{Email: "y@example.com", GivenName: "Ada", FamilyName: "Lovelace"}.toIdentity()
	assert.Equal(t, "Ada Lovelace", identity.Name)

	// Missing claims stay empty for the provisioning precondition to catch.
	identity = idTokenClaims{}.toIdentity()
	assert.Empty(t, identity.Email)
	assert.Empty(t, identity.Name)
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken(32)
	assert.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := randomToken(32)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)

	empty, err := randomToken(0)
	assert.NoError(t, err)
	assert.Empty(t, empty)
}
