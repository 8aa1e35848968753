package middleware

import (
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// Context keys set by the authentication middleware for handlers to read.
const (
	ContextKeyUserID = "userID"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
)

// AuthMiddleware guards endpoint groups with role-scoped token verification.
// Each group picks a secret chain; the chain decides which audiences may pass
// and in which precedence order their secrets are tried.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// AuthenticateWith returns a middleware that validates the bearer token
// against the given chain. A missing or malformed Authorization header is a
// 401; a present token that no secret of the chain validates is a 403.
func (m *AuthMiddleware) AuthenticateWith(chain service.SecretChain) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return response.Unauthorized(c, "TOKEN_MISSING", "Authorization header is missing")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return response.Unauthorized(c, "TOKEN_MISSING", "Invalid token format, must be Bearer token")
			}

			claims, err := m.tokenSvc.VerifyAny(tokenString, chain)
			if err != nil {
				return response.Forbidden(c, "TOKEN_INVALID", "Invalid or expired token")
			}

			// Set the verified identity on the context for handlers to use.
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Email)
			c.Set(ContextKeyRole, claims.Role)

			// Mirror it into the request context so the usecase layer can
			// enrich its request-scoped logs.
			ctx := c.Request().Context()
			if logger := deliverycontext.GetLogger(ctx); logger != nil {
				ctx = deliverycontext.WithLogger(ctx, logger.With("userID", claims.UserID.String()))
				c.SetRequest(c.Request().WithContext(ctx))
			}

			return next(c)
		}
	}
}
