package session

// Reduce applies a to s. It has no side effects and never mutates s.User in
// place.
func Reduce(s State, a Action) State {
	if Stale(s, a) {
		return s
	}

	switch a := a.(type) {
	case AuthPending:
		s.Phase = PhaseAuthenticating
		s.IsLoading = true
		s.Error = ""
		return s

	case AuthFulfilled:
		user := a.Response.User().Clone()
		return settle(State{
			Phase:        PhaseAuthenticated,
			User:         &user,
			AccessToken:  a.Response.AccessToken,
			RefreshToken: a.Response.RefreshToken,
		})

	case AuthRejected:
		message := a.Message
		if message == "" {
			message = a.Op.fallbackMessage()
		}
		return State{Phase: PhaseAuthFailed, Error: message}

	case RefreshPending:
		s.Phase = PhaseRefreshing
		s.IsLoading = true
		return s

	case RefreshFulfilled:
		s.AccessToken = a.Tokens.AccessToken
		s.RefreshToken = a.Tokens.RefreshToken
		if a.Bootstrap && s.User == nil && a.User != nil {
			user := a.User.Clone()
			s.User = &user
		}
		s.IsLoading = false
		s.Phase = PhaseAuthenticated
		return settle(s)

	case RefreshRejected, Cleared:
		return Initial()

	case Restored:
		user := a.User.Clone()
		return settle(State{
			Phase:        PhaseAuthenticated,
			User:         &user,
			AccessToken:  a.Tokens.AccessToken,
			RefreshToken: a.Tokens.RefreshToken,
		})

	case ErrorCleared:
		if s.Error == "" {
			return s
		}
		s.Error = ""
		if s.Phase == PhaseAuthFailed {
			s.Phase = PhaseAnonymous
		}
		return s

	case UserUpdated:
		if !s.IsAuthenticated || s.User == nil {
			return s
		}
		user := s.User.Apply(a.Patch)
		s.User = &user
		return s
	}
	return s
}

// Stale reports whether a is a refresh outcome that no longer belongs to s: a
// refresh result only settles a session that is still refreshing, so one that
// lands after logout or a new login is dropped.
func Stale(s State, a Action) bool {
	switch a.(type) {
	case RefreshFulfilled, RefreshRejected:
		return s.Phase != PhaseRefreshing
	}
	return false
}

// settle enforces the authentication invariant. A state that claims to be
// authenticated without both a user and an access token collapses to the
// initial state.
func settle(s State) State {
	s.IsAuthenticated = s.User != nil && s.AccessToken != ""
	if s.Phase == PhaseAuthenticated && !s.IsAuthenticated {
		return Initial()
	}
	return s
}
