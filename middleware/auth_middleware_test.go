package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/auth"
	"github.com/worldpop/worldpop-api/models"
)

const testCookieName = "jwt"

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *auth.TokenCodec) {
	t.Helper()
	codec := auth.NewTokenCodec([]byte("test-secret"), time.Hour)
	return NewAuthMiddleware(codec, testCookieName, zap.NewNop()), codec
}

func mintToken(t *testing.T, codec *auth.TokenCodec, username string, role models.Role) string {
	t.Helper()
	token, err := codec.Encode(username, role, time.Now())
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token in Authorization header allows request", func(t *testing.T) {
		m, codec := newTestMiddleware(t)
		token := mintToken(t, codec, "alice", models.RoleUser)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			require.NotNil(t, principal)
			assert.Equal(t, "alice", principal.Username)
			assert.Equal(t, models.RoleUser, principal.Role)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid token in cookie allows request", func(t *testing.T) {
		m, codec := newTestMiddleware(t)
		token := mintToken(t, codec, "bob", models.RoleAdmin)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			require.NotNil(t, principal)
			assert.Equal(t, "bob", principal.Username)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("header takes precedence over cookie", func(t *testing.T) {
		m, codec := newTestMiddleware(t)
		headerToken := mintToken(t, codec, "header-user", models.RoleUser)
		cookieToken := mintToken(t, codec, "cookie-user", models.RoleUser)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			require.NotNil(t, principal)
			assert.Equal(t, "header-user", principal.Username)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+headerToken)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookieToken})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		m, _ := newTestMiddleware(t)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed authorization header returns 401", func(t *testing.T) {
		m, _ := newTestMiddleware(t)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "NotBearer")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered token returns 401", func(t *testing.T) {
		m, codec := newTestMiddleware(t)
		token := mintToken(t, codec, "alice", models.RoleUser)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token returns 401", func(t *testing.T) {
		m, _ := newTestMiddleware(t)
		expiredCodec := auth.NewTokenCodec([]byte("test-secret"), time.Hour)
		token, err := expiredCodec.Encode("alice", models.RoleUser, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("admin token reaches admin route", func(t *testing.T) {
		m, codec := newTestMiddleware(t)
		token := mintToken(t, codec, "root", models.RoleAdmin)

		handler := m.RequireAuth(m.RequireRole(models.RoleAdmin)(okHandler))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid user token is forbidden on admin route", func(t *testing.T) {
		m, codec := newTestMiddleware(t)
		token := mintToken(t, codec, "alice", models.RoleUser)

		handler := m.RequireAuth(m.RequireRole(models.RoleAdmin)(okHandler))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing principal returns 401", func(t *testing.T) {
		m, _ := newTestMiddleware(t)

		// RequireRole mounted without RequireAuth in front.
		handler := m.RequireRole(models.RoleAdmin)(okHandler)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
