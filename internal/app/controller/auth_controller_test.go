package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ikkim/consultation-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AccessTokenCookie {
			return cookie
		}
	}
	return nil
}

func TestAuthController_SignUp(t *testing.T) {
	env := setupControllerTest(t, nil)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success",
			body:           map[string]string{"email": "new@example.com", "password": "secret1", "password_confirm": "secret1"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Password mismatch",
			body:           map[string]string{"email": "a@example.com", "password": "secret1", "password_confirm": "secret2"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "AUTH_PASSWORD_MISMATCH",
		},
		{
			name:           "Password too short",
			body:           map[string]string{"email": "b@example.com", "password": "abc", "password_confirm": "abc"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_TOO_SHORT",
		},
		{
			name:           "Duplicate email",
			body:           map[string]string{"email": "staff@example.com", "password": "secret1", "password_confirm": "secret1"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "AUTH_EMAIL_EXISTS",
		},
		{
			name:           "Invalid email",
			body:           map[string]string{"email": "staff", "password": "secret1", "password_confirm": "secret1"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/auth/signup", tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			response := decodeJSON(t, w)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, response["error"])
				assert.Nil(t, sessionCookie(w))
				return
			}

			data := response["data"].(map[string]interface{})
			assert.NotEmpty(t, data["access_token"])
			user := data["user"].(map[string]interface{})
			assert.Equal(t, tt.body["email"], user["email"])
			assert.NotContains(t, user, "password_hash")

			cookie := sessionCookie(w)
			require.NotNil(t, cookie)
			assert.Equal(t, data["access_token"], cookie.Value)
			assert.True(t, cookie.HttpOnly)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	env := setupControllerTest(t, nil)

	t.Run("Success", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "staff@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotNil(t, sessionCookie(w))
	})

	t.Run("Wrong password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "staff@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "AUTH_INVALID_CREDENTIALS", decodeJSON(t, w)["error"])
	})

	t.Run("Unknown email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_MeAndLogout(t *testing.T) {
	env := setupControllerTest(t, nil)

	w := env.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decodeJSON(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "staff@example.com", user["email"])

	t.Run("Me without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Me with cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: env.token})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Logout clears cookie", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/logout", nil)
		require.Equal(t, http.StatusOK, w.Code)

		cookie := sessionCookie(w)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	})

	t.Run("Logout without session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
