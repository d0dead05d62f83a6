package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	Role            Role   `json:"role,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Bio             string `json:"bio,omitempty"`
}

// AuthResponse is the data payload of login, register and refresh. Refresh only
// fills the token fields.
type AuthResponse struct {
	AccessToken       string  `json:"accessToken"`
	RefreshToken      string  `json:"refreshToken"`
	TokenType         string  `json:"tokenType,omitempty"`
	ID                int64   `json:"id"`
	Email             string  `json:"email"`
	FirstName         string  `json:"firstName"`
	LastName          string  `json:"lastName"`
	Role              Role    `json:"role"`
	IsVerified        bool    `json:"isVerified"`
	IsActive          bool    `json:"isActive"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
}

func (r AuthResponse) User() User {
	return User{
		ID:                r.ID,
		Email:             r.Email,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		Role:              r.Role,
		IsVerified:        r.IsVerified,
		IsActive:          r.IsActive,
		ProfilePictureURL: r.ProfilePictureURL,
	}
}

func (r AuthResponse) Tokens() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (p TokenPair) Empty() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}
