package service

import (
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenClaims is the verified payload of a storefront credential.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   entity.Role
}

// SecretChain is an ordered list of roles whose secrets are tried during
// verification. Order defines precedence: verification succeeds on the first
// secret that validates the token, so a token that could (in theory) validate
// against more than one secret is resolved deterministically.
type SecretChain []entity.Role

// Named verification chains per endpoint category.
var (
	// ChainStorefront guards general authenticated endpoints: any of the
	// three audiences may call them, plain users first.
	ChainStorefront = SecretChain{entity.RoleUser, entity.RoleAdmin, entity.RoleSalesAdmin}

	// ChainBackOffice guards product-manager endpoints.
	ChainBackOffice = SecretChain{entity.RoleAdmin, entity.RoleSalesAdmin}

	// ChainSales guards pricing, discount and refund-decision endpoints.
	// Sales admins take precedence, admins are accepted as a fallback.
	ChainSales = SecretChain{entity.RoleSalesAdmin, entity.RoleAdmin}
)

// TokenService issues and verifies signed, time-limited, role-scoped
// credentials. Each role signs with its own independent secret.
type TokenService interface {
	// Issue creates a credential signed with the secret of the given role.
	// The TTL is short by default and extended when remember is set.
	Issue(userID uuid.UUID, email string, role entity.Role, remember bool) (string, error)

	// IssueResetToken creates a very-short-lived password-reset credential
	// signed with the dedicated reset secret. Single-use is enforced by the
	// caller via a stored-token comparison, not by this service.
	IssueResetToken(userID uuid.UUID, email string) (string, error)

	// VerifyAny tries the token against each secret of the chain in order
	// and returns the claims of the first match. All failing -> error.
	VerifyAny(token string, chain SecretChain) (*TokenClaims, error)

	// VerifyResetToken validates a password-reset credential.
	VerifyResetToken(token string) (*TokenClaims, error)
}
