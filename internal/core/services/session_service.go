package services

import (
	"context"
	"log"
	"sync"

	"trustbuild-shell/internal/core/domain"
)

// SessionService composes the credential and profile stores into
// session-level operations
type SessionService struct {
	creds    CredentialStore
	profiles ProfileStore
}

// NewSessionService creates a new session service
func NewSessionService(creds CredentialStore, profiles ProfileStore) *SessionService {
	return &SessionService{
		creds:    creds,
		profiles: profiles,
	}
}

// ClearAuth wipes the whole session: token, refresh token and profile are
// removed concurrently, best-effort. It returns only once all three removals
// have settled; individual failures are already swallowed by the stores.
func (s *SessionService) ClearAuth(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		s.creds.RemoveToken()
	}()
	go func() {
		defer wg.Done()
		s.creds.RemoveRefreshToken()
	}()
	go func() {
		defer wg.Done()
		s.profiles.RemoveProfile(ctx)
	}()

	wg.Wait()
	log.Println("✅ Session cleared")
}

// IsAuthenticated reports token presence only. The role is deliberately not
// checked here: this gates the login screen, while role gating happens at
// the dashboard boundary (see IsContractor).
func (s *SessionService) IsAuthenticated(ctx context.Context) bool {
	return s.creds.GetToken() != ""
}

// IsContractor reports whether a profile is present and belongs to a
// contractor account
func (s *SessionService) IsContractor(ctx context.Context) bool {
	return s.profiles.GetProfile(ctx).IsContractor()
}

// Session loads the current session, fetching token and profile concurrently
func (s *SessionService) Session(ctx context.Context) domain.Session {
	var (
		wg      sync.WaitGroup
		session domain.Session
	)
	wg.Add(2)

	go func() {
		defer wg.Done()
		session.AccessToken = s.creds.GetToken()
	}()
	go func() {
		defer wg.Done()
		session.Profile = s.profiles.GetProfile(ctx)
	}()

	wg.Wait()
	return session
}
