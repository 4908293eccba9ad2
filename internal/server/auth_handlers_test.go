package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           map[string]string{"username": "alice", "password": "S3curePass!"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Optional email accepted",
			body:           map[string]string{"username": "bob", "email": "bob@example.com", "password": "S3curePass!"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Short password",
			body:           map[string]string{"username": "carol", "password": "short"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid username",
			body:           map[string]string{"username": "a!", "password": "S3curePass!"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid email",
			body:           map[string]string{"username": "dave", "email": "nope", "password": "S3curePass!"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing password",
			body:           map[string]string{"username": "erin"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Duplicate username",
			body:           map[string]string{"username": "alice", "password": "S3curePass!"},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, tt.expectedStatus, status, "body: %v", body)

			if tt.expectedStatus == http.StatusCreated {
				assert.NotEmpty(t, body["token"])
				user := body["user"].(map[string]any)
				assert.Equal(t, tt.body["username"], user["username"])
				assert.NotContains(t, user, "password")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	registered := registerUser(t, app, "alice", "S3curePass!")

	t.Run("Success reuses the registration token", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "S3curePass!",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, registered, body["token"])
		assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
	})

	t.Run("Wrong password", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "alice",
			"password": "WrongPass!",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid username or password.", body["error"])
	})

	t.Run("Unknown user gets the same message", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "ghost",
			"password": "S3curePass!",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid username or password.", body["error"])
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "alice", "S3curePass!")

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logged out", body["detail"])

	// The revoked token no longer authenticates.
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Logging back in issues a fresh credential.
	status, loginBody := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "S3curePass!",
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, token, loginBody["token"])
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)
	token := registerUser(t, app, "alice", "S3curePass!")

	// Recipe creation requires auth but does not consume the token,
	// unlike logout.
	payload := `{"title":"Toast","ingredients":"bread","steps":"toast it"}`

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{"Bearer scheme", "Bearer " + token, http.StatusCreated},
		{"Token scheme", "Token " + token, http.StatusCreated},
		{"Missing header", "", http.StatusUnauthorized},
		{"Unknown key", "Bearer deadbeefdeadbeefdeadbeefdeadbeefdeadbeef", http.StatusUnauthorized},
		{"Malformed header", "Bearer", http.StatusUnauthorized},
		{"Wrong scheme", "Basic " + token, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/recipes", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
