package services

import (
	"context"

	"trustbuild-shell/internal/core/domain"
)

// Note: SessionService implementation is in session_service.go
// Note: APIService implementation is in api_service.go

// CredentialStore defines the secure storage for tokens.
// Reads never fail; absent values are empty strings. Deletes are best-effort.
type CredentialStore interface {
	SetToken(token string) error
	GetToken() string
	RemoveToken()
	SetRefreshToken(token string) error
	GetRefreshToken() string
	RemoveRefreshToken()
}

// ProfileStore defines the general storage for the non-sensitive profile blob
type ProfileStore interface {
	SetProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context) *domain.Profile
	RemoveProfile(ctx context.Context)
	DeviceID(ctx context.Context, generate func() string) string
}
