package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edumaster/web/internal/guard"
	"edumaster/web/internal/models"
	"edumaster/web/internal/session"
)

const (
	guardOutcomeKey = "guard_outcome"
	sessionStateKey = "session_state"
)

// SessionReader is the read side of the session the guard needs.
type SessionReader interface {
	State() session.State
}

// RequireSession gates a page on the current session. Loading answers 202,
// a missing session 303 to loginPath, a role mismatch 403 with the
// access-denied view. Rendered requests carry the evaluated state.
func RequireSession(sessions SessionReader, loginPath string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := sessions.State()
		decision := guard.Decide(state, c.Request.URL.RequestURI(), loginPath, roles...)
		c.Set(guardOutcomeKey, decision.Kind.String())

		switch decision.Kind {
		case guard.Loading:
			c.AbortWithStatusJSON(http.StatusAccepted, gin.H{
				"status":  "loading",
				"message": guard.LoadingMessage,
			})
		case guard.Redirect:
			c.Header("Location", decision.Location)
			c.AbortWithStatusJSON(http.StatusSeeOther, gin.H{
				"redirect": loginPath,
				"from":     decision.From,
			})
		case guard.Denied:
			c.AbortWithStatusJSON(http.StatusForbidden, decision.DeniedView())
		default:
			c.Set(sessionStateKey, state)
			c.Next()
		}
	}
}

// SessionState returns the state the guard admitted the request with.
func SessionState(c *gin.Context) (session.State, bool) {
	v, ok := c.Get(sessionStateKey)
	if !ok {
		return session.State{}, false
	}
	state, ok := v.(session.State)
	return state, ok
}
