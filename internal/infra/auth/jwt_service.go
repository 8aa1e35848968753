// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// It holds one independent HS256 secret per role plus a dedicated reset secret.
type jwtService struct {
	secrets     map[entity.Role]string // Signing secret per token audience.
	resetSecret string                 // Secret for password-reset tokens.
	accessTTL   time.Duration          // Default token lifetime.
	rememberTTL time.Duration          // Lifetime when "remember me" is set.
	resetTTL    time.Duration          // Lifetime of password-reset tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.User == "" || cfg.SecretKey.Admin == "" || cfg.SecretKey.SalesAdmin == "" || cfg.SecretKey.Reset == "" {
		return nil, errors.New("jwt secrets must be provided for every audience")
	}

	return &jwtService{
		secrets: map[entity.Role]string{
			entity.RoleUser:       cfg.SecretKey.User,
			entity.RoleAdmin:      cfg.SecretKey.Admin,
			entity.RoleSalesAdmin: cfg.SecretKey.SalesAdmin,
		},
		resetSecret: cfg.SecretKey.Reset,
		accessTTL:   cfg.Auth.AccessTTL,
		rememberTTL: cfg.Auth.RememberTTL,
		resetTTL:    cfg.Auth.ResetTTL,
	}, nil
}

// Issue creates a credential signed with the secret of the given role.
func (s *jwtService) Issue(userID uuid.UUID, email string, role entity.Role, remember bool) (string, error) {
	secret, ok := s.secrets[role]
	if !ok {
		return "", errors.Errorf("no signing secret for role %q", role)
	}

	ttl := s.accessTTL
	if remember {
		ttl = s.rememberTTL
	}

	return s.generateToken(userID, email, role, ttl, secret)
}

// IssueResetToken creates a very-short-lived password-reset credential.
func (s *jwtService) IssueResetToken(userID uuid.UUID, email string) (string, error) {
	return s.generateToken(userID, email, entity.RoleUser, s.resetTTL, s.resetSecret)
}

// VerifyAny tries the token against each secret of the chain in order and
// succeeds on the first match. The role is inferred from which secret
// validated the signature, not from the payload tag, so precedence between
// secrets is exactly the chain order.
func (s *jwtService) VerifyAny(tokenString string, chain service.SecretChain) (*service.TokenClaims, error) {
	for _, role := range chain {
		secret, ok := s.secrets[role]
		if !ok {
			continue
		}

		claims, err := s.parseToken(tokenString, secret)
		if err != nil {
			continue
		}

		claims.Role = role

		return claims, nil
	}

	return nil, errors.New("token did not validate against any applicable secret")
}

// VerifyResetToken validates a password-reset credential.
func (s *jwtService) VerifyResetToken(tokenString string) (*service.TokenClaims, error) {
	claims, err := s.parseToken(tokenString, s.resetSecret)
	if err != nil {
		return nil, errors.Wrap(err, "invalid reset token")
	}

	return claims, nil
}

// generateToken is a private helper to create a JWT with specific claims.
func (s *jwtService) generateToken(userID uuid.UUID, email string, role entity.Role, ttl time.Duration, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.String(),            // Subject (who the token is for)
		"email": email,                      // Contact handle
		"role":  role.String(),              // Role tag
		"iat":   time.Now().Unix(),          // Issued At
		"exp":   time.Now().Add(ttl).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// parseToken validates signature and expiry against one secret and extracts claims.
func (s *jwtService) parseToken(tokenString, secret string) (*service.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims format")
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, errors.New("subject missing from token")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.Wrap(err, "invalid subject in token")
	}

	email, _ := mapClaims["email"].(string)

	return &service.TokenClaims{
		UserID: userID,
		Email:  email,
	}, nil
}
