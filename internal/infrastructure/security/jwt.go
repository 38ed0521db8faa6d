package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aegisid/identity-service/internal/core/domain"
	"github.com/aegisid/identity-service/internal/core/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// JwtManager mints and verifies HS256-signed token pairs. It implements both
// ports.JwtIssuer and ports.JwtValidator.
//
// Both tokens of a pair carry the same jti, so blacklisting the jti seen on
// either token kills the whole session.
type JwtManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJwtManager(secret string, accessTTL, refreshTTL time.Duration) *JwtManager {
	return &JwtManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type tokenClaims struct {
	TokenType string   `json:"typ"`
	Roles     []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// IssueTokens mints an access/refresh pair sharing one freshly generated jti.
func (m *JwtManager) IssueTokens(subject ports.AuthSubject, now time.Time) (ports.AuthTokens, error) {
	jti := uuid.NewString()
	accessExp := now.Add(m.accessTTL)
	refreshExp := now.Add(m.refreshTTL)

	access, err := m.sign(subject, jti, tokenTypeAccess, now, accessExp)
	if err != nil {
		return ports.AuthTokens{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := m.sign(subject, jti, tokenTypeRefresh, now, refreshExp)
	if err != nil {
		return ports.AuthTokens{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return ports.AuthTokens{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessTokenID:    jti,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *JwtManager) sign(subject ports.AuthSubject, jti, typ string, now, exp time.Time) (string, error) {
	claims := tokenClaims{
		TokenType: typ,
		Roles:     subject.RoleIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateAccessToken verifies signature, lifetime and the "access" type.
func (m *JwtManager) ValidateAccessToken(token string) (ports.Claims, error) {
	return m.validate(token, tokenTypeAccess)
}

// ValidateRefreshToken verifies signature, lifetime and the "refresh" type.
func (m *JwtManager) ValidateRefreshToken(token string) (ports.Claims, error) {
	return m.validate(token, tokenTypeRefresh)
}

func (m *JwtManager) validate(token, wantType string) (ports.Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ports.Claims{}, domain.ErrInvalidCredentials
	}
	// An access token presented on the refresh path (or vice versa) is a
	// credential misuse, not a malformed request.
	if claims.TokenType != wantType {
		return ports.Claims{}, domain.ErrInvalidCredentials
	}
	if claims.Subject == "" || claims.ID == "" {
		return ports.Claims{}, domain.ErrInvalidCredentials
	}

	out := ports.Claims{
		UserID:  claims.Subject,
		TokenID: claims.ID,
		Roles:   claims.Roles,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
