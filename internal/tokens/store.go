// Package tokens persists the access/refresh bearer pair outside the session
// state so the API client can read it without depending on the session layer.
package tokens

import (
	"context"
	"errors"

	"edumaster/web/internal/models"
)

const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

var ErrNotFound = errors.New("tokens: not found")

// Reader is the read side used by the API client.
type Reader interface {
	AccessToken(ctx context.Context) (string, error)
}

// Store is the persistence port. Only the session service writes to it.
type Store interface {
	Reader
	Load(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}
