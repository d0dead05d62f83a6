package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
	"edumaster/web/internal/tokens"
)

// AuthAPI is the backend surface the session needs.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
}

var (
	errMissingAccessToken = errors.New("backend response carried no access token")
	errNoRefreshToken     = errors.New("no refresh token available")
	errIdentityLost       = errors.New("identity could not be derived from the refreshed token")
	errRefreshSuperseded  = errors.New("session changed while the refresh was in flight")
)

// Error is returned by failed session operations after the state has already
// settled. Message is the text stored in State.Error.
type Error struct {
	Op      Op
	Message string
	Err     error
}

func (e *Error) Error() string {
	return string(e.Op) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Service struct {
	store     *Store
	api       AuthAPI
	tokens    tokens.Store
	validator tokens.Validator
	log       zerolog.Logger

	// commitMu keeps a terminal transition and the matching token persistence
	// in one step, so the persisted pair always reflects the last settled state.
	commitMu sync.Mutex
}

func NewService(store *Store, api AuthAPI, tokenStore tokens.Store, validator tokens.Validator, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		api:       api,
		tokens:    tokenStore,
		validator: validator,
		log:       log.With().Str("component", "session").Logger(),
	}
}

func (s *Service) State() State {
	return s.store.Snapshot()
}

func (s *Service) Subscribe(fn func(State)) func() {
	return s.store.Subscribe(fn)
}

// Login authenticates with the backend. On success it returns the user whose
// role drives the caller's landing page.
func (s *Service) Login(ctx context.Context, creds models.LoginRequest) (models.User, error) {
	return s.authenticate(ctx, OpLogin, func(ctx context.Context) (models.AuthResponse, error) {
		return s.api.Login(ctx, creds)
	})
}

func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return s.authenticate(ctx, OpRegister, func(ctx context.Context) (models.AuthResponse, error) {
		return s.api.Register(ctx, req)
	})
}

func (s *Service) authenticate(ctx context.Context, op Op, call func(context.Context) (models.AuthResponse, error)) (models.User, error) {
	s.store.Dispatch(AuthPending{Op: op})

	resp, err := call(ctx)
	if err == nil && resp.AccessToken == "" {
		err = errMissingAccessToken
	}
	if err != nil {
		message := apiclient.MessageOf(err, op.fallbackMessage())
		s.commit(ctx, AuthRejected{Op: op, Message: message})
		s.log.Warn().Err(err).Str("op", string(op)).Msg("authentication failed")
		return models.User{}, &Error{Op: op, Message: message, Err: err}
	}

	next, _ := s.commit(ctx, AuthFulfilled{Op: op, Response: resp})
	s.log.Info().Str("op", string(op)).Int64("user_id", resp.ID).Str("role", string(resp.Role)).Msg("authenticated")
	if next.User == nil {
		return resp.User(), nil
	}
	return *next.User, nil
}

// Refresh exchanges the refresh token for a new pair. Any failure tears the
// session down; there is no retry.
func (s *Service) Refresh(ctx context.Context) error {
	refreshToken := s.store.Snapshot().RefreshToken
	if refreshToken == "" {
		if pair, err := s.tokens.Load(ctx); err == nil {
			refreshToken = pair.RefreshToken
		}
	}
	return s.refreshWith(ctx, refreshToken, false)
}

// refreshWith runs one refresh round trip. Only the cold-start path may take
// the identity from the new access token; a result that arrives after the
// session has left the refreshing phase is dropped.
func (s *Service) refreshWith(ctx context.Context, refreshToken string, bootstrap bool) error {
	s.store.Dispatch(RefreshPending{})

	if refreshToken == "" {
		return s.refreshFailed(ctx, errNoRefreshToken)
	}

	pair, err := s.api.Refresh(ctx, refreshToken)
	if err == nil && pair.AccessToken == "" {
		err = errMissingAccessToken
	}
	if err != nil {
		return s.refreshFailed(ctx, err)
	}

	var user *models.User
	if bootstrap {
		if claims, err := tokens.Decode(pair.AccessToken); err == nil {
			if identity, ok := claims.Identity(); ok {
				user = &identity
			}
		}
	}

	next, applied := s.commit(ctx, RefreshFulfilled{Tokens: pair, User: user, Bootstrap: bootstrap})
	if !applied {
		s.log.Info().Str("phase", next.Phase.String()).Msg("late refresh result dropped")
		return &Error{Op: OpRefresh, Message: OpRefresh.fallbackMessage(), Err: errRefreshSuperseded}
	}
	if !next.IsAuthenticated {
		s.log.Warn().Msg("refreshed token carries no identity, session cleared")
		return &Error{Op: OpRefresh, Message: OpRefresh.fallbackMessage(), Err: errIdentityLost}
	}
	s.log.Debug().Msg("tokens refreshed")
	return nil
}

func (s *Service) refreshFailed(ctx context.Context, err error) error {
	message := apiclient.MessageOf(err, OpRefresh.fallbackMessage())
	if _, applied := s.commit(ctx, RefreshRejected{Message: message}); !applied {
		s.log.Info().Err(err).Msg("late refresh failure dropped")
	} else {
		s.log.Warn().Err(err).Msg("token refresh failed, session cleared")
	}
	return &Error{Op: OpRefresh, Message: message, Err: err}
}

// RefreshIfExpiring refreshes when the access token has less than ahead of
// usable lifetime left. Anonymous sessions and tokens without an expiry are
// left alone.
func (s *Service) RefreshIfExpiring(ctx context.Context, ahead time.Duration) error {
	state := s.store.Snapshot()
	if !state.IsAuthenticated || state.IsLoading {
		return nil
	}

	remaining, err := s.validator.Remaining(state.AccessToken)
	if errors.Is(err, tokens.ErrNoExpiry) {
		return nil
	}
	if err == nil && remaining > ahead {
		return nil
	}
	return s.Refresh(ctx)
}

// Logout always succeeds: the local session and the persisted tokens are
// erased whether or not the backend is reachable.
func (s *Service) Logout(ctx context.Context) {
	s.commit(ctx, Cleared{})
	s.log.Info().Msg("logged out")
}

func (s *Service) ClearError() {
	s.store.Dispatch(ErrorCleared{})
}

func (s *Service) UpdateUser(patch models.UserPatch) State {
	return s.store.Dispatch(UserUpdated{Patch: patch})
}

// CheckEmail reports whether email is still available for registration.
func (s *Service) CheckEmail(ctx context.Context, email string) (bool, error) {
	return s.api.CheckEmail(ctx, email)
}

// Bootstrap rehydrates the session from persisted tokens at process start.
//
// A usable access token whose claims carry a user id and role restores the
// session directly. Otherwise a stored refresh token is exchanged and the new
// access token must carry that identity. Anything else clears the persisted
// tokens and leaves the session anonymous.
func (s *Service) Bootstrap(ctx context.Context) error {
	pair, err := s.tokens.Load(ctx)
	if err != nil {
		if !errors.Is(err, tokens.ErrNotFound) {
			s.log.Warn().Err(err).Msg("load persisted tokens failed")
		}
		return nil
	}

	if s.validator.Usable(pair.AccessToken) {
		claims, err := tokens.Decode(pair.AccessToken)
		if err == nil {
			if user, ok := claims.Identity(); ok {
				s.commit(ctx, Restored{User: user, Tokens: pair})
				s.log.Info().Int64("user_id", user.ID).Msg("session restored from persisted token")
				return nil
			}
		}
	}

	if pair.RefreshToken != "" {
		return s.refreshWith(ctx, pair.RefreshToken, true)
	}

	s.commit(ctx, Cleared{})
	return nil
}

func (s *Service) HasRole(roles ...models.Role) bool {
	return HasRole(s.store.Snapshot(), roles...)
}

func (s *Service) IsStudent() bool {
	return s.HasRole(models.RoleStudent)
}

func (s *Service) IsInstructor() bool {
	return s.HasRole(models.RoleInstructor)
}

func (s *Service) IsAdmin() bool {
	return s.HasRole(models.RoleAdmin)
}

func (s *Service) CanAccessInstructorFeatures() bool {
	return s.HasRole(models.RoleInstructor, models.RoleAdmin)
}

func (s *Service) CanAccessAdminFeatures() bool {
	return s.HasRole(models.RoleAdmin)
}

// commit dispatches a settling action and then writes or erases the persisted
// pair to match the resulting state. An action the store drops as stale
// touches nothing and reports false.
func (s *Service) commit(ctx context.Context, a Action) (State, bool) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	next, applied := s.store.apply(a)
	if !applied {
		return next, false
	}

	// Persistence must not be cut short by a caller that has gone away.
	ctx = context.WithoutCancel(ctx)
	if next.IsAuthenticated {
		if err := s.tokens.Save(ctx, next.Tokens()); err != nil {
			s.log.Error().Err(err).Msg("persist tokens failed")
		}
		return next, true
	}
	if err := s.tokens.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("erase persisted tokens failed")
	}
	return next, true
}
