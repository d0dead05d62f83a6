package session

import (
	"edumaster/web/internal/models"
)

type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
	PhaseAuthFailed
	PhaseRefreshing
)

var phaseNames = map[Phase]string{
	PhaseAnonymous:      "anonymous",
	PhaseAuthenticating: "authenticating",
	PhaseAuthenticated:  "authenticated",
	PhaseAuthFailed:     "auth_failed",
	PhaseRefreshing:     "refreshing",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// State is the session snapshot. Tokens are never serialized.
//
// IsAuthenticated == (User != nil && AccessToken != "") holds after every
// transition.
type State struct {
	Phase           Phase        `json:"phase"`
	User            *models.User `json:"user"`
	AccessToken     string       `json:"-"`
	RefreshToken    string       `json:"-"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsLoading       bool         `json:"isLoading"`
	Error           string       `json:"error,omitempty"`
}

// Initial is the empty state every process starts from.
func Initial() State {
	return State{Phase: PhaseAnonymous}
}

// clone detaches the user so callers cannot reach the stored state.
func (s State) clone() State {
	if s.User != nil {
		user := s.User.Clone()
		s.User = &user
	}
	return s
}

func (s State) Tokens() models.TokenPair {
	return models.TokenPair{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken}
}

// Role returns the current user's role or "" when anonymous.
func (s State) Role() models.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// HasRole is true only for an authenticated user whose role is in roles. An
// empty roles list never matches.
func HasRole(s State, roles ...models.Role) bool {
	if !s.IsAuthenticated || s.User == nil {
		return false
	}
	for _, role := range roles {
		if s.User.Role == role {
			return true
		}
	}
	return false
}
