package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/auth"
	"github.com/worldpop/worldpop-api/models"
	"github.com/worldpop/worldpop-api/utils"
)

// TokenDecoder validates a session token string and returns its claims.
type TokenDecoder interface {
	Decode(token string) (*auth.Claims, error)
}

// AuthMiddleware gates requests on token validity and role. Routes that are
// public simply never mount it; for every other route it runs before the
// handler and terminates rejected requests itself.
type AuthMiddleware struct {
	decoder    TokenDecoder
	cookieName string
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(decoder TokenDecoder, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		decoder:    decoder,
		cookieName: cookieName,
		logger:     logger,
	}
}

// RequireAuth rejects requests without a valid, unexpired token and populates
// the principal context for downstream handlers. Absent, malformed, and
// expired tokens are all reported as 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			m.logger.Warn("missing token", zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
			return
		}

		claims, err := m.decoder.Decode(token)
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			_ = utils.WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		principal := &Principal{
			Username: claims.Subject,
			Role:     claims.Role,
		}
		ctx := WithPrincipal(r.Context(), principal)

		m.logger.Debug("authentication successful",
			zap.String("username", principal.Username),
			zap.String("role", string(principal.Role)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated requests whose principal does not hold
// the required role. Mount after RequireAuth.
func (m *AuthMiddleware) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				m.logger.Error("principal not found in context", zap.String("path", r.URL.Path))
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if principal.Role != role {
				m.logger.Warn("insufficient permissions",
					zap.String("username", principal.Username),
					zap.String("required_role", string(role)),
					zap.String("role", string(principal.Role)))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the bearer token from the Authorization header or the
// session cookie. The header takes precedence when both are present.
func (m *AuthMiddleware) extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
