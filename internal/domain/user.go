package domain

import (
	"slices"
	"strings"
	"time"
)

// Scope role tokens used in permission strings.
const (
	// ScopeSuperuser grants every permission in the system.
	ScopeSuperuser = "superuser"
	// RoleRegular is the base role within a library scope.
	RoleRegular = "regular"
	// RoleAdmin subsumes the regular role within a library scope.
	RoleAdmin = "admin"
)

// User is an authenticated account. Scopes is the raw granted-scope string:
// space-separated tokens, e.g. "superuser" or "acme regular bravo admin".
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Scopes       string `json:"scopes"`
	Active       bool   `json:"active"`
	Verbosity    int    `json:"verbosity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Grants parses the user's granted-scope string into individual grants.
// "superuser" stands alone; every other token pairs with the next one as a
// "<scope> <role>" grant. A trailing unpaired token is kept as-is so a
// malformed grant never satisfies a well-formed requirement by accident.
func (u *User) Grants() []string {
	fields := strings.Fields(u.Scopes)
	grants := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		if fields[i] == ScopeSuperuser {
			grants = append(grants, ScopeSuperuser)
			continue
		}
		if i+1 < len(fields) {
			grants = append(grants, fields[i]+" "+fields[i+1])
			i++
		} else {
			grants = append(grants, fields[i])
		}
	}
	return grants
}

// HasGrant reports whether the user's scope string satisfies the required
// permission string. An empty requirement is satisfied by any user, and a
// superuser grant satisfies every requirement.
func (u *User) HasGrant(required string) bool {
	if required == "" {
		return true
	}
	grants := u.Grants()
	if slices.Contains(grants, ScopeSuperuser) {
		return true
	}
	return slices.Contains(grants, required)
}

// AccessToken is a bearer credential tied to a user. The token value is the
// wire token; it is stored verbatim so it can be looked up and revoked.
type AccessToken struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Scopes    string    `json:"scopes"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token is past its expiry at the given time.
func (t *AccessToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// RefreshToken is an opaque credential used to obtain a fresh access token.
// It is linked to the access token it was issued alongside; revoking the
// access token cascades to it.
type RefreshToken struct {
	Token       string    `json:"token"`
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}
