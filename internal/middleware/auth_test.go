package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	codec := auth.NewJWTCodec(guardTestSecret, time.Hour)

	newHandler := func(t *testing.T, onCall func(r *http.Request)) http.Handler {
		m := NewAuthMiddleware(codec)
		return m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if onCall != nil {
				onCall(r)
			}
			w.WriteHeader(http.StatusOK)
		}))
	}

	t.Run("allows request with valid cookie and sets identity", func(t *testing.T) {
		token, err := codec.Sign(auth.Identity{ID: "adm-1", Name: "Admin", Email: "admin@fitplan.test"})
		require.NoError(t, err)

		handler := newHandler(t, func(r *http.Request) {
			identity := GetIdentity(r.Context())
			require.NotNil(t, identity)
			assert.Equal(t, "adm-1", identity.ID)
			assert.Equal(t, "admin@fitplan.test", identity.Email)
		})

		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects request without cookie", func(t *testing.T) {
		handler := newHandler(t, func(r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects request with invalid cookie", func(t *testing.T) {
		handler := newHandler(t, func(r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: "garbage"})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects request with expired cookie", func(t *testing.T) {
		expired := auth.NewJWTCodec(guardTestSecret, -time.Minute)
		token, err := expired.Sign(auth.Identity{ID: "adm-1"})
		require.NoError(t, err)

		handler := newHandler(t, func(r *http.Request) {
			t.Fatal("handler should not be called")
		})

		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("GetIdentity returns nil on plain context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		assert.Nil(t, GetIdentity(req.Context()))
	})
}
