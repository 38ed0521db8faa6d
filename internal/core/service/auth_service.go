package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aegisid/identity-service/internal/core/domain"
	"github.com/aegisid/identity-service/internal/core/policy"
	"github.com/aegisid/identity-service/internal/core/ports"
)

// AuthService implements the session-lifecycle use cases: registration,
// login, refresh-token rotation and logout. It is stateless and safe for
// concurrent use; all mutable state lives behind the injected ports.
type AuthService struct {
	users     ports.UserRepository
	policy    *policy.Validator
	hasher    domain.PasswordHasher
	issuer    ports.JwtIssuer
	validator ports.JwtValidator
	blacklist ports.TokenBlacklist
	rtStore   ports.RefreshTokenStore
	limiter   ports.RateLimiter
	events    ports.EventPublisher
	clock     ports.Clock
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	passwordPolicy *policy.Validator,
	hasher domain.PasswordHasher,
	issuer ports.JwtIssuer,
	validator ports.JwtValidator,
	blacklist ports.TokenBlacklist,
	rtStore ports.RefreshTokenStore,
	limiter ports.RateLimiter,
	events ports.EventPublisher,
	clock ports.Clock,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		policy:    passwordPolicy,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
		blacklist: blacklist,
		rtStore:   rtStore,
		limiter:   limiter,
		events:    events,
		clock:     clock,
		log:       log,
	}
}

// Register creates a new account and returns a DTO carrying only the id and
// email, never the hash.
func (s *AuthService) Register(ctx context.Context, email, password string) (ports.UserResult, error) {
	// 1. Policy chain first: collects every violation, not just the first.
	if err := s.policy.Validate(password); err != nil {
		return ports.UserResult{}, err
	}

	// 2. Value objects fail fast on malformed input.
	em, err := domain.NewEmail(email)
	if err != nil {
		return ports.UserResult{}, err
	}
	plain, err := domain.NewPlainPassword(password)
	if err != nil {
		return ports.UserResult{}, err
	}

	// 3. Uniqueness.
	taken, err := s.users.ExistsByEmail(ctx, em)
	if err != nil {
		return ports.UserResult{}, fmt.Errorf("register: %w", err)
	}
	if taken {
		return ports.UserResult{}, domain.ErrEmailAlreadyRegistered
	}

	// 4. Aggregate creation (hashing happens inside the aggregate).
	user, err := domain.Register(em, plain, s.hasher, s.clock.Now())
	if err != nil {
		return ports.UserResult{}, fmt.Errorf("register: %w", err)
	}

	if err := s.users.Save(ctx, user); err != nil {
		return ports.UserResult{}, fmt.Errorf("register: %w", err)
	}

	s.publish(user.PullEvents())

	s.log.Info().Str("user_id", user.ID().String()).Msg("user registered")

	return ports.UserResult{ID: user.ID().String(), Email: em.String()}, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password fail with the same error; failures never reset the
// rate-limit counter.
func (s *AuthService) Login(ctx context.Context, email, password string) (ports.AuthTokens, error) {
	// The quota check runs before any credential lookup so a flood of
	// attempts cannot be used to probe which emails exist.
	if err := s.limiter.CheckLoginAllowed(ctx, email); err != nil {
		return ports.AuthTokens{}, err
	}

	em, err := domain.NewEmail(email)
	if err != nil {
		return ports.AuthTokens{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, em)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return ports.AuthTokens{}, domain.ErrInvalidCredentials
		}
		return ports.AuthTokens{}, fmt.Errorf("login: %w", err)
	}

	plain, err := domain.NewPlainPassword(password)
	if err != nil {
		return ports.AuthTokens{}, domain.ErrInvalidCredentials
	}
	if !s.hasher.Match(plain, user.PasswordHash()) {
		return ports.AuthTokens{}, domain.ErrInvalidCredentials
	}

	if !user.IsActive() {
		return ports.AuthTokens{}, domain.ErrUserInactive
	}

	subject := ports.AuthSubject{UserID: user.ID().String(), RoleIDs: user.RoleIDs()}
	tokens, err := s.issuer.IssueTokens(subject, s.clock.Now())
	if err != nil {
		return ports.AuthTokens{}, fmt.Errorf("login: issue tokens: %w", err)
	}

	// Defensive check against token-id reuse.
	revoked, err := s.blacklist.IsBlacklisted(ctx, tokens.AccessTokenID)
	if err != nil {
		return ports.AuthTokens{}, fmt.Errorf("login: blacklist check: %w", err)
	}
	if revoked {
		return ports.AuthTokens{}, domain.ErrInvalidCredentials
	}

	if err := s.rtStore.Store(ctx, subject.UserID, tokens.RefreshToken, tokens.RefreshExpiresAt); err != nil {
		return ports.AuthTokens{}, fmt.Errorf("login: store refresh token: %w", err)
	}

	if err := s.limiter.RecordSuccessfulLogin(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login attempt counter")
	}

	s.log.Info().Str("user_id", subject.UserID).Msg("login succeeded")

	return tokens, nil
}

// Refresh rotates a refresh token: at most one rotation can succeed per
// token, concurrent attempts included.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (ports.AuthTokens, error) {
	claims, err := s.validator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ports.AuthTokens{}, domain.ErrInvalidCredentials
	}

	// Replay guard: a token that was already rotated or revoked is dead.
	valid, err := s.rtStore.IsValid(ctx, claims.UserID, refreshToken)
	if err != nil {
		return ports.AuthTokens{}, fmt.Errorf("refresh: %w", err)
	}
	if !valid {
		return ports.AuthTokens{}, domain.ErrInvalidCredentials
	}

	subject := ports.AuthSubject{UserID: claims.UserID, RoleIDs: claims.Roles}
	tokens, err := s.issuer.IssueTokens(subject, s.clock.Now())
	if err != nil {
		return ports.AuthTokens{}, fmt.Errorf("refresh: issue tokens: %w", err)
	}

	// The store deletes atomically; exactly one concurrent rotation sees
	// removed == true, every other caller loses and fails.
	removed, err := s.rtStore.Revoke(ctx, claims.UserID, refreshToken)
	if err != nil {
		return ports.AuthTokens{}, fmt.Errorf("refresh: revoke: %w", err)
	}
	if !removed {
		return ports.AuthTokens{}, domain.ErrInvalidCredentials
	}

	if err := s.rtStore.Store(ctx, claims.UserID, tokens.RefreshToken, tokens.RefreshExpiresAt); err != nil {
		return ports.AuthTokens{}, fmt.Errorf("refresh: store: %w", err)
	}

	// Kill any access token still outstanding for the rotated session.
	if err := s.blacklist.Blacklist(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return ports.AuthTokens{}, fmt.Errorf("refresh: blacklist: %w", err)
	}

	s.log.Info().Str("user_id", claims.UserID).Msg("refresh token rotated")

	return tokens, nil
}

// Logout blacklists the access token's jti and revokes every refresh token
// the user owns. Once the access token validates, logout cannot fail on a
// "nothing to revoke" path; repeating it is a no-op success.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.validator.ValidateAccessToken(accessToken)
	if err != nil {
		return domain.ErrInvalidCredentials
	}

	if err := s.blacklist.Blacklist(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: blacklist: %w", err)
	}

	if _, err := s.rtStore.Revoke(ctx, claims.UserID, ""); err != nil {
		return fmt.Errorf("logout: revoke refresh tokens: %w", err)
	}

	s.log.Info().Str("user_id", claims.UserID).Msg("logout completed")

	return nil
}

// publish delivers drained events; delivery failures are logged, never
// fatal to the use case.
func (s *AuthService) publish(events []domain.Event) {
	for _, e := range events {
		if err := s.events.Publish(e); err != nil {
			s.log.Warn().Err(err).Str("event", e.Name()).Msg("failed to publish domain event")
		}
	}
}
