package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"trustbuild-shell/internal/core/domain"
)

// LoginInput represents login credentials
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult represents a successful login
type LoginResult struct {
	User  *domain.Profile
	Token string
}

// loginResponse matches POST /api/auth/login
type loginResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Data   struct {
		User *domain.Profile `json:"user"`
	} `json:"data"`
}

// refreshResponse matches POST /api/auth/refresh
type refreshResponse struct {
	Data struct {
		Token string `json:"token"`
	} `json:"data"`
}

// userResponse matches GET /api/users/me
type userResponse struct {
	Data struct {
		User *domain.Profile `json:"user"`
	} `json:"data"`
}

// errorResponse is the backend's error body shape
type errorResponse struct {
	Message string `json:"message"`
}

// APIService issues authenticated calls against the TrustBuild backend.
// Any 401 response clears the local session before the error propagates.
type APIService struct {
	baseURL  string
	client   *http.Client
	creds    CredentialStore
	profiles ProfileStore
	session  *SessionService
}

// NewAPIService creates a new API service
func NewAPIService(baseURL string, timeout time.Duration, creds CredentialStore, profiles ProfileStore, session *SessionService) *APIService {
	return &APIService{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		creds:    creds,
		profiles: profiles,
		session:  session,
	}
}

// request performs an authenticated JSON request and returns the raw body
func (s *APIService) request(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	// 1. Encode request body
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	// 2. Merge headers: JSON content type, bearer token when present,
	// correlation and device IDs
	req.Header.Set("Content-Type", "application/json")
	if token := s.creds.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())
	if deviceID := s.profiles.DeviceID(ctx, uuid.NewString); deviceID != "" {
		req.Header.Set("X-Device-ID", deviceID)
	}

	// 3. Send request
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// 4. Map non-success statuses to APIError; 401 wipes the session first
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorResponse
		_ = json.Unmarshal(raw, &errBody)

		apiErr := domain.NewAPIError(resp.StatusCode, errBody.Message)
		if resp.StatusCode == http.StatusUnauthorized {
			log.Println("⚠️ Received 401, clearing session")
			s.session.ClearAuth(ctx)
		}
		return nil, apiErr
	}

	return raw, nil
}

// Login authenticates against the backend and establishes the local session.
// A successful HTTP login by a non-contractor account is rejected at the
// authorization-policy level: the session is cleared and ErrContractorsOnly
// is returned.
func (s *APIService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	// 1. Post credentials
	raw, err := s.request(ctx, http.MethodPost, "/api/auth/login", input)
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.Data.User == nil {
		return nil, domain.NewAPIError(http.StatusOK, "Unexpected login response")
	}

	// 2. Store token and profile
	if err := s.creds.SetToken(resp.Token); err != nil {
		return nil, err
	}
	if err := s.profiles.SetProfile(ctx, resp.Data.User); err != nil {
		return nil, err
	}

	// 3. Enforce the contractor-only policy
	if !resp.Data.User.IsContractor() {
		s.session.ClearAuth(ctx)
		return nil, domain.ErrContractorsOnly
	}

	log.Printf("✅ Contractor logged in: %s", resp.Data.User.Email)

	return &LoginResult{
		User:  resp.Data.User,
		Token: resp.Token,
	}, nil
}

// Logout calls the backend best-effort and always clears the local session,
// so local state never contradicts "logged out"
func (s *APIService) Logout(ctx context.Context) {
	if _, err := s.request(ctx, http.MethodPost, "/api/auth/logout", nil); err != nil {
		log.Printf("⚠️ Logout API error: %v", err)
	}
	s.session.ClearAuth(ctx)
	log.Println("✅ User logged out")
}

// RefreshToken exchanges the session for a fresh access token. A refresh
// failure is fatal to the session: the session is cleared and the error
// propagates.
func (s *APIService) RefreshToken(ctx context.Context) (string, error) {
	raw, err := s.request(ctx, http.MethodPost, "/api/auth/refresh", nil)
	if err != nil {
		s.session.ClearAuth(ctx)
		return "", err
	}

	var resp refreshResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.session.ClearAuth(ctx)
		return "", err
	}
	if resp.Data.Token == "" {
		s.session.ClearAuth(ctx)
		return "", domain.NewAPIError(http.StatusOK, "Unexpected refresh response")
	}

	if err := s.creds.SetToken(resp.Data.Token); err != nil {
		s.session.ClearAuth(ctx)
		return "", err
	}

	log.Println("✅ Access token refreshed")
	return resp.Data.Token, nil
}

// GetMe fetches the current user profile and refreshes the local copy
func (s *APIService) GetMe(ctx context.Context) (*domain.Profile, error) {
	raw, err := s.request(ctx, http.MethodGet, "/api/users/me", nil)
	if err != nil {
		return nil, err
	}

	var resp userResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Data.User == nil {
		return nil, domain.NewAPIError(http.StatusOK, "Unexpected user response")
	}

	if err := s.profiles.SetProfile(ctx, resp.Data.User); err != nil {
		return nil, err
	}
	return resp.Data.User, nil
}

// Health checks backend reachability
func (s *APIService) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// ErrorMessage maps an error to a user-facing message
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, domain.ErrContractorsOnly) {
		return domain.ErrContractorsOnly.Error()
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" && apiErr.Message != "An error occurred" {
			return apiErr.Message
		}
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return "Invalid email or password"
		case http.StatusForbidden:
			return "Access denied"
		case http.StatusNotFound:
			return "Resource not found"
		case http.StatusInternalServerError:
			return "Server error. Please try again later."
		}
		return "An unexpected error occurred"
	}

	// Storage write failures carry their fixed messages
	if errors.Is(err, domain.ErrTokenWriteFailed) ||
		errors.Is(err, domain.ErrRefreshTokenWriteFailed) ||
		errors.Is(err, domain.ErrProfileWriteFailed) {
		return err.Error()
	}

	// Anything else is a transport-level failure
	return "Network error. Please check your internet connection."
}
