// Package session holds the authenticated user's context: who they are, which
// roles and stage profile the backend granted them, and the bearer token used
// on API calls. The context is an explicit value passed to the components that
// need it; it is populated at login, persisted locally so it survives process
// restarts, and cleared at logout.
package session

import (
	"time"

	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// Session is the client-side view of one authenticated user.
type Session struct {
	Username         string
	Token            string
	Roles            []string
	StageProfile     string
	Location         string
	AssociatedFarmID string
}

// FromAuthResponse builds a Session from a successful login or registration.
func FromAuthResponse(resp *models.AuthResponse) *Session {
	return &Session{
		Username:         resp.Username,
		Token:            resp.Token,
		Roles:            append([]string(nil), resp.Roles...),
		StageProfile:     resp.StageProfile,
		Location:         resp.Location,
		AssociatedFarmID: resp.AssociatedFarmID,
	}
}

// HasRole reports whether the session carries the given role tag.
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the session carries the administrative role.
func (s *Session) IsAdmin() bool {
	return s.HasRole(models.RoleAdmin)
}

// TokenExpired reports whether the session's JWT has an exp claim in the past.
// The signature is not verified; only the backend can do that, the client just
// avoids presenting a token it already knows is dead. Tokens without a
// readable exp claim are treated as live and left for the backend to judge.
func (s *Session) TokenExpired(now time.Time) bool {
	if s.Token == "" {
		return true
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
