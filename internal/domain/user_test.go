package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGrants(t *testing.T) {
	tests := []struct {
		name   string
		scopes string
		want   []string
	}{
		{"empty", "", []string{}},
		{"single pair", "acme regular", []string{"acme regular"}},
		{"superuser standalone", "superuser", []string{"superuser"}},
		{"superuser then pair", "superuser acme admin", []string{"superuser", "acme admin"}},
		{"two pairs", "acme regular bravo admin", []string{"acme regular", "bravo admin"}},
		{"trailing unpaired token", "acme regular bravo", []string{"acme regular", "bravo"}},
		{"extra whitespace", "  acme   regular ", []string{"acme regular"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Scopes: tt.scopes}
			assert.Equal(t, tt.want, u.Grants())
		})
	}
}

func TestHasGrant(t *testing.T) {
	tests := []struct {
		name     string
		scopes   string
		required string
		want     bool
	}{
		{"exact match", "acme regular", "acme regular", true},
		{"no match", "acme regular", "bravo regular", false},
		{"admin does not literally match regular", "acme admin", "acme regular", false},
		{"regular does not match admin", "acme regular", "acme admin", false},
		{"superuser matches anything", "superuser", "acme admin", true},
		{"superuser among pairs", "acme regular superuser", "bravo admin", true},
		{"empty requirement always passes", "", "", true},
		{"empty requirement with grants", "acme regular", "", true},
		{"unpaired token never satisfies a pair", "acme", "acme regular", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Scopes: tt.scopes}
			assert.Equal(t, tt.want, u.HasGrant(tt.required))
		})
	}
}

func TestAccessTokenExpired(t *testing.T) {
	now := time.Now()
	tok := &AccessToken{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, tok.Expired(now))
	assert.True(t, tok.Expired(now.Add(2*time.Minute)))
}

func TestVolumeTypeCascades(t *testing.T) {
	assert.True(t, VolumeTypeSingle.CascadesToStories())
	assert.True(t, VolumeTypeAnthology.CascadesToStories())
	assert.False(t, VolumeTypeCollection.CascadesToStories())
	assert.False(t, VolumeTypeNone.CascadesToStories())

	assert.True(t, VolumeTypeAnthology.Valid())
	assert.False(t, VolumeType("omnibus").Valid())
}
