package session

import "edumaster/web/internal/models"

// Action is a named transition input. The set is closed.
type Action interface {
	action()
}

// Op distinguishes login from registration; both share one transition shape.
type Op string

const (
	OpLogin    Op = "login"
	OpRegister Op = "register"
	OpRefresh  Op = "refresh"
)

func (o Op) fallbackMessage() string {
	switch o {
	case OpRegister:
		return "Registration failed"
	case OpRefresh:
		return "Token refresh failed"
	default:
		return "Login failed"
	}
}

type AuthPending struct {
	Op Op
}

type AuthFulfilled struct {
	Op       Op
	Response models.AuthResponse
}

type AuthRejected struct {
	Op      Op
	Message string
}

type RefreshPending struct{}

// RefreshFulfilled replaces the tokens. User is only consulted on the
// cold-start path, marked by Bootstrap, when the state has no user yet.
type RefreshFulfilled struct {
	Tokens    models.TokenPair
	User      *models.User
	Bootstrap bool
}

type RefreshRejected struct {
	Message string
}

// Restored installs an identity rebuilt from persisted tokens at startup.
type Restored struct {
	User   models.User
	Tokens models.TokenPair
}

type Cleared struct{}

type ErrorCleared struct{}

type UserUpdated struct {
	Patch models.UserPatch
}

func (AuthPending) action()      {}
func (AuthFulfilled) action()    {}
func (AuthRejected) action()     {}
func (RefreshPending) action()   {}
func (RefreshFulfilled) action() {}
func (RefreshRejected) action()  {}
func (Restored) action()         {}
func (Cleared) action()          {}
func (ErrorCleared) action()     {}
func (UserUpdated) action()      {}
