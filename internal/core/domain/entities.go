package domain

import "time"

// Role represents a TrustBuild user role
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleContractor Role = "CONTRACTOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Profile represents the user profile returned by the TrustBuild backend.
// Stored locally as an opaque JSON blob; interpreted only by consumers.
type Profile struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       Role        `json:"role"`
	IsActive   bool        `json:"isActive"`
	CreatedAt  time.Time   `json:"createdAt"`
	Contractor *Contractor `json:"contractor,omitempty"`
}

// Contractor holds the contractor extension of a profile
type Contractor struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"userId"`
	BusinessName       string  `json:"businessName,omitempty"`
	Description        string  `json:"description,omitempty"`
	Status             string  `json:"status"`
	Tier               string  `json:"tier"`
	CreditsBalance     float64 `json:"creditsBalance"`
	WeeklyCreditsLimit float64 `json:"weeklyCreditsLimit"`
	JobsCompleted      int     `json:"jobsCompleted"`
	AverageRating      float64 `json:"averageRating"`
	ReviewCount        int     `json:"reviewCount"`
}

// IsContractor reports whether the profile belongs to a contractor account
func (p *Profile) IsContractor() bool {
	return p != nil && p.Role == RoleContractor
}

// Session is the combination of access token, refresh token and cached
// profile identifying a logged-in contractor. A session is authenticated iff
// the access token is present; it is usable for the dashboard only when the
// profile is also present and the role is CONTRACTOR.
type Session struct {
	AccessToken  string
	RefreshToken string
	Profile      *Profile
}

// Authenticated reports token presence only. Role is deliberately not
// checked here; role gating happens at the dashboard boundary.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// UsableForDashboard reports whether the session may reach the embedded
// contractor dashboard.
func (s Session) UsableForDashboard() bool {
	return s.AccessToken != "" && s.Profile.IsContractor()
}

// NetworkState is the ephemeral connectivity signal. Recomputed on every
// connectivity event; never persisted.
type NetworkState struct {
	IsConnected         bool
	IsInternetReachable bool
}

// IsOnline derives the single boolean the UI cares about
func (n NetworkState) IsOnline() bool {
	return n.IsConnected && n.IsInternetReachable
}
