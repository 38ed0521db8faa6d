package ports

import (
	"context"
	"time"
)

// AuthSubject identifies who a token pair is issued for.
type AuthSubject struct {
	UserID  string
	RoleIDs []string
}

// AuthTokens is the result of a token issuance: one access/refresh pair
// sharing a single token id (jti).
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	// AccessTokenID is the jti embedded in both tokens; it is the key used
	// for blacklisting.
	AccessTokenID    string
	ExpiresAt        time.Time
	RefreshExpiresAt time.Time
}

// Claims is the decoded, signature-verified view of a token.
type Claims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Roles     []string
}

// JwtIssuer mints signed access/refresh token pairs. The issuance instant is
// passed explicitly so tests stay deterministic.
type JwtIssuer interface {
	IssueTokens(subject AuthSubject, now time.Time) (AuthTokens, error)
}

// JwtValidator verifies token signatures and lifetimes and returns the
// decoded claims. Malformed, expired or mistyped tokens fail with
// domain.ErrInvalidCredentials.
type JwtValidator interface {
	ValidateAccessToken(token string) (Claims, error)
	ValidateRefreshToken(token string) (Claims, error)
}

// TokenBlacklist is a write-once-per-id revocation record keyed by jti.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// Blacklist marks the jti as revoked until expiresAt. Idempotent under
	// concurrent and duplicate calls.
	Blacklist(ctx context.Context, jti string, expiresAt time.Time) error
}

// RefreshTokenStore tracks outstanding refresh tokens per user.
//
// Implementations must make Revoke of a named token atomic with respect to
// concurrent calls for the same token: exactly one caller observes
// removed == true, which is what guarantees at most one successful rotation
// per refresh token.
type RefreshTokenStore interface {
	Store(ctx context.Context, userID, token string, expiresAt time.Time) error
	IsValid(ctx context.Context, userID, token string) (bool, error)
	// Revoke removes the given token; an empty token revokes every token
	// owned by the user. removed reports whether anything was deleted.
	Revoke(ctx context.Context, userID, token string) (removed bool, err error)
}
