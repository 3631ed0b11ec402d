package model

import "time"

// User is the identity provider's view of an account
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone,omitempty"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
}

// Session is an issued access/refresh token pair
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// AuthResult is returned by signup and login
type AuthResult struct {
	Status  string   `json:"status"`
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// UserResult is returned by profile updates
type UserResult struct {
	Status string `json:"status"`
	User   *User  `json:"user"`
}

// UserAttributes is the body of an identity provider user update
type UserAttributes struct {
	Email    *string        `json:"email,omitempty"`
	Password *string        `json:"password,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}
