package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfcarvalho/go-blog-backend/config"
)

// signTestToken mints a token as the service would, but with a controllable
// issue time so expiry boundaries can be exercised.
func signTestToken(t *testing.T, cfg config.JWTConfig, userID string, issuedAt time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(cfg.TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.SecretKey))
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	logger := slog.Default()
	jwtCfg := testJWTConfig()
	middleware := Authenticate(logger, jwtCfg)

	// The wrapped handler records whether it ran and what identity it saw.
	var handlerRan bool
	var seenUserID string
	protected := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
		seenUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	run := func(authHeader string) *httptest.ResponseRecorder {
		handlerRan = false
		seenUserID = ""
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		return w
	}

	t.Run("ValidToken", func(t *testing.T) {
		token := signTestToken(t, jwtCfg, "user-1", time.Now())

		w := run("Bearer " + token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handlerRan)
		assert.Equal(t, "user-1", seenUserID)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		w := run("")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handlerRan)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		for _, header := range []string{"Bearer", "Token abc", "Bearer a b", "bearer"} {
			w := run(header)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
			assert.False(t, handlerRan, "header %q", header)
		}
	})

	t.Run("GarbageToken", func(t *testing.T) {
		w := run("Bearer not.a.jwt")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handlerRan)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		foreignCfg := jwtCfg
		foreignCfg.SecretKey = "some-other-secret"
		token := signTestToken(t, foreignCfg, "user-1", time.Now())

		w := run("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handlerRan)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		foreignCfg := jwtCfg
		foreignCfg.Issuer = "some-other-issuer"
		token := signTestToken(t, foreignCfg, "user-1", time.Now())

		w := run("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handlerRan)
	})

	t.Run("NoneSigningMethod", func(t *testing.T) {
		claims := Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{jwtCfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		w := run("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handlerRan)
	})

	t.Run("AcceptedJustBeforeExpiry", func(t *testing.T) {
		// Issued 59 minutes ago with a 1 hour TTL: still valid.
		token := signTestToken(t, jwtCfg, "user-1", time.Now().Add(-59*time.Minute))

		w := run("Bearer " + token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handlerRan)
	})

	t.Run("RejectedJustAfterExpiry", func(t *testing.T) {
		// Issued 61 minutes ago with a 1 hour TTL: expired a minute ago.
		token := signTestToken(t, jwtCfg, "user-1", time.Now().Add(-61*time.Minute))

		w := run("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, handlerRan)
	})
}

func TestAuthenticatePanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() {
		Authenticate(slog.Default(), config.JWTConfig{})
	})
}
