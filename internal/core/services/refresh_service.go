package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"trustbuild-shell/internal/pkg/token"
)

// RefreshService proactively refreshes the access token in the background so
// the dashboard rarely hits a 401 mid-session. A refresh failure clears the
// session (see APIService.RefreshToken); the session gate then routes the
// user back to login on the next navigation.
type RefreshService struct {
	api     *APIService
	session *SessionService
	window  time.Duration
	cron    *cron.Cron
}

// NewRefreshService creates the token refresh job
func NewRefreshService(api *APIService, session *SessionService) *RefreshService {
	return &RefreshService{
		api:     api,
		session: session,
		window:  2 * time.Minute,
		cron:    cron.New(),
	}
}

// Start schedules the refresh job with the given cron spec
func (s *RefreshService) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("🚀 Token refresh job scheduled [%s]", spec)
	return nil
}

// Stop halts the scheduler
func (s *RefreshService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Token refresh job stopped")
}

// run refreshes the token when it is about to expire
func (s *RefreshService) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	current := s.session.Session(ctx).AccessToken
	if current == "" {
		return
	}
	if !token.ExpiresWithin(current, s.window) {
		return
	}

	if _, err := s.api.RefreshToken(ctx); err != nil {
		log.Printf("⚠️ Background token refresh failed: %v", err)
	}
}
