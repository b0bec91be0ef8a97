package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trustbuild-shell/internal/core/domain"
)

func newTestAPI(t *testing.T, handler http.Handler) (*APIService, *fakeCreds, *fakeProfiles) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := &fakeCreds{}
	profiles := &fakeProfiles{}
	session := NewSessionService(creds, profiles)
	api := NewAPIService(server.URL, 5*time.Second, creds, profiles, session)
	return api, creds, profiles
}

func loginBody(role domain.Role) string {
	body, _ := json.Marshal(map[string]interface{}{
		"status": "success",
		"token":  "tok1",
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"id":       "u1",
				"name":     "Jo Builder",
				"email":    "jo@trustbuild.uk",
				"role":     string(role),
				"isActive": true,
			},
		},
	})
	return string(body)
}

func TestLoginStoresTokenAndProfile(t *testing.T) {
	api, creds, profiles := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var input LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		require.Equal(t, "jo@trustbuild.uk", input.Email)

		w.Write([]byte(loginBody(domain.RoleContractor)))
	}))

	result, err := api.Login(context.Background(), LoginInput{Email: "jo@trustbuild.uk", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "tok1", result.Token)
	assert.Equal(t, domain.RoleContractor, result.User.Role)
	assert.Equal(t, "tok1", creds.GetToken())

	stored := profiles.GetProfile(context.Background())
	require.NotNil(t, stored)
	assert.Equal(t, domain.RoleContractor, stored.Role)
}

func TestLoginRejectsNonContractor(t *testing.T) {
	api, creds, profiles := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(loginBody(domain.RoleCustomer)))
	}))

	_, err := api.Login(context.Background(), LoginInput{Email: "jo@trustbuild.uk", Password: "pw"})
	require.ErrorIs(t, err, domain.ErrContractorsOnly)
	assert.Contains(t, err.Error(), "only available for contractors")

	// Login succeeded at the transport level but the session must be gone
	assert.Empty(t, creds.GetToken())
	assert.Nil(t, profiles.GetProfile(context.Background()))
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	api, creds, profiles := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired"}`))
	}))

	require.NoError(t, creds.SetToken("stale"))
	require.NoError(t, profiles.SetProfile(context.Background(), contractorProfile()))

	_, err := api.GetMe(context.Background())
	require.Error(t, err)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Token expired", apiErr.Message)

	// Cleared before the error reached the caller
	assert.Empty(t, creds.GetToken())
	assert.Nil(t, profiles.GetProfile(context.Background()))
}

func TestErrorMessageFromServerBody(t *testing.T) {
	api, _, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Email already registered"}`))
	}))

	_, err := api.Login(context.Background(), LoginInput{Email: "jo@trustbuild.uk", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Email already registered", ErrorMessage(err))
}

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	api, creds, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"user":{"id":"u1","role":"CONTRACTOR"}}}`))
	}))

	require.NoError(t, creds.SetToken("tok1"))
	_, err := api.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok1", gotAuth)
}

func TestLogoutClearsLocallyEvenWhenBackendFails(t *testing.T) {
	api, creds, profiles := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	}))

	require.NoError(t, creds.SetToken("tok"))
	require.NoError(t, profiles.SetProfile(context.Background(), contractorProfile()))

	api.Logout(context.Background())

	assert.Empty(t, creds.GetToken())
	assert.Nil(t, profiles.GetProfile(context.Background()))
}

func TestRefreshTokenStoresNewToken(t *testing.T) {
	api, creds, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/refresh", r.URL.Path)
		w.Write([]byte(`{"data":{"token":"tok2"}}`))
	}))

	require.NoError(t, creds.SetToken("tok1"))

	refreshed, err := api.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok2", refreshed)
	assert.Equal(t, "tok2", creds.GetToken())
}

func TestRefreshFailureIsFatalToSession(t *testing.T) {
	api, creds, profiles := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"refresh denied"}`))
	}))

	require.NoError(t, creds.SetToken("tok"))
	require.NoError(t, profiles.SetProfile(context.Background(), contractorProfile()))

	_, err := api.RefreshToken(context.Background())
	require.Error(t, err)

	assert.Empty(t, creds.GetToken())
	assert.Nil(t, profiles.GetProfile(context.Background()))
}

func TestRefreshTokenWriteFailureClearsSession(t *testing.T) {
	api, creds, profiles := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"token":"tok2"}}`))
	}))

	require.NoError(t, creds.SetToken("stale"))
	require.NoError(t, profiles.SetProfile(context.Background(), contractorProfile()))
	creds.failWrites = true

	_, err := api.RefreshToken(context.Background())
	require.ErrorIs(t, err, domain.ErrTokenWriteFailed)

	// The stale session must not survive a failed refresh
	assert.Empty(t, creds.GetToken())
	assert.Nil(t, profiles.GetProfile(context.Background()))
}

func TestHealth(t *testing.T) {
	api, _, _ := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	assert.True(t, api.Health(context.Background()))
}

func TestErrorMessageMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"contractors only", domain.ErrContractorsOnly, "This app is only available for contractors. Please use the web app."},
		{"401 without body message", domain.NewAPIError(401, ""), "Invalid email or password"},
		{"403", domain.NewAPIError(403, ""), "Access denied"},
		{"404", domain.NewAPIError(404, ""), "Resource not found"},
		{"500", domain.NewAPIError(500, ""), "Server error. Please try again later."},
		{"server message wins", domain.NewAPIError(400, "Bad input"), "Bad input"},
		{"storage write", domain.ErrProfileWriteFailed, "Failed to store user data"},
		{"transport", errors.New("dial tcp: connection refused"), "Network error. Please check your internet connection."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}
