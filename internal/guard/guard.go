// Package guard decides what a navigation request renders given the current
// session: a loading placeholder, a redirect to login, an access-denied view or
// the page itself.
package guard

import (
	"net/url"
	"strings"

	"edumaster/web/internal/models"
	"edumaster/web/internal/session"
)

type Kind int

const (
	Render Kind = iota
	Loading
	Redirect
	Denied
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Denied:
		return "denied"
	default:
		return "render"
	}
}

type Decision struct {
	Kind Kind
	// Location and From are set for Redirect.
	Location string
	From     string
	// Required and Actual are set for Denied.
	Required []models.Role
	Actual   models.Role
}

const LoadingMessage = "Checking authentication..."

// Decide evaluates, in order: an in-flight auth check, a missing session, a
// role mismatch. An empty required set admits any authenticated user.
func Decide(s session.State, target string, loginPath string, required ...models.Role) Decision {
	if s.IsLoading && (s.Phase == session.PhaseAuthenticating || s.Phase == session.PhaseRefreshing) {
		return Decision{Kind: Loading}
	}

	if !s.IsAuthenticated {
		return Decision{
			Kind:     Redirect,
			Location: loginPath + "?from=" + url.QueryEscape(target),
			From:     target,
		}
	}

	if len(required) > 0 && !session.HasRole(s, required...) {
		return Decision{
			Kind:     Denied,
			Required: append([]models.Role(nil), required...),
			Actual:   s.Role(),
		}
	}

	return Decision{Kind: Render}
}

// DeniedView is the body of the access-denied page.
type DeniedView struct {
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Required []models.Role `json:"requiredRoles"`
	Actual   models.Role   `json:"userRole"`
	Lines    []string      `json:"lines"`
}

func (d Decision) DeniedView() DeniedView {
	names := make([]string, len(d.Required))
	for i, role := range d.Required {
		names[i] = string(role)
	}

	return DeniedView{
		Title:    "Access Denied",
		Message:  "You don't have permission to access this page.",
		Required: d.Required,
		Actual:   d.Actual,
		Lines: []string{
			"Required roles: " + strings.Join(names, ", "),
			"Your role: " + string(d.Actual),
		},
	}
}

// LandingFor is where a freshly authenticated user is sent.
func LandingFor(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "/admin"
	case models.RoleInstructor:
		return "/instructor"
	default:
		return "/dashboard"
	}
}

// LogoutLanding is the anonymous view shown after logout.
const LogoutLanding = "/"
