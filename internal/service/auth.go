package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staybook/internal/apperror"
	"staybook/internal/model"
	"staybook/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

const statusSuccess = "success"

// AuthService wraps the identity provider for the auth routes and verifies
// bearer tokens for protected routes.
type AuthService struct {
	idp       IdentityProvider
	jwtSecret []byte
}

// NewAuthService creates a new auth service. With a non-empty jwtSecret
// tokens are verified locally, otherwise each check asks the provider.
func NewAuthService(idp IdentityProvider, jwtSecret string) *AuthService {
	s := &AuthService{idp: idp}
	if jwtSecret != "" {
		s.jwtSecret = []byte(jwtSecret)
	}
	return s
}

// Signup creates the account and signs in with the same credentials
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResult, error) {
	metadata := map[string]any{
		"fullName": req.FullName,
		"phone":    req.Phone,
	}
	if _, err := s.idp.SignUp(ctx, req.Email, req.Password, metadata); err != nil {
		return nil, apperror.Upstream(err)
	}

	utils.Logger.WithField("email", req.Email).Info("User signed up")

	return s.Login(ctx, model.LoginRequest{Email: req.Email, Password: req.Password})
}

// Login exchanges credentials for a session
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	session, err := s.idp.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, apperror.Upstream(err)
	}
	return &model.AuthResult{Status: statusSuccess, User: session.User, Session: session}, nil
}

// SubmitKYC stores identity document details in the caller's metadata
func (s *AuthService) SubmitKYC(ctx context.Context, accessToken string, req model.KYCRequest) (*model.UserResult, error) {
	return s.update(ctx, accessToken, model.UserAttributes{
		Data: map[string]any{
			"idType":   req.IDType,
			"idNumber": req.IDNumber,
			"address":  req.Address,
		},
	})
}

// UpdateUser changes the caller's email, password or metadata
func (s *AuthService) UpdateUser(ctx context.Context, accessToken string, req model.UpdateUserRequest) (*model.UserResult, error) {
	if req.Email == nil && req.Password == nil && req.UserMetadata == nil {
		return nil, apperror.InvalidInput("Nothing to update")
	}
	return s.update(ctx, accessToken, model.UserAttributes{
		Email:    req.Email,
		Password: req.Password,
		Data:     req.UserMetadata,
	})
}

func (s *AuthService) update(ctx context.Context, accessToken string, attrs model.UserAttributes) (*model.UserResult, error) {
	user, err := s.idp.UpdateUser(ctx, accessToken, attrs)
	if err != nil {
		return nil, apperror.Upstream(err)
	}
	return &model.UserResult{Status: statusSuccess, User: user}, nil
}

// VerifyToken resolves a bearer token to its user. Any failure is
// reported as Unauthenticated.
func (s *AuthService) VerifyToken(ctx context.Context, accessToken string) (*model.User, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, apperror.Unauthenticated("Missing authorization header", nil)
	}

	if s.jwtSecret != nil {
		user, err := s.verifyLocally(accessToken)
		if err != nil {
			return nil, apperror.Unauthenticated("Invalid or expired token", err)
		}
		return user, nil
	}

	user, err := s.idp.GetUser(ctx, accessToken)
	if err != nil || user == nil || user.ID == "" {
		return nil, apperror.Unauthenticated("Invalid or expired token", err)
	}
	return user, nil
}

// supabaseClaims is the subset of a Supabase access token we read
type supabaseClaims struct {
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

func (s *AuthService) verifyLocally(tokenString string) (*model.User, error) {
	claims := &supabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("missing subject claim")
	}

	return &model.User{
		ID:           sub,
		Email:        claims.Email,
		Phone:        claims.Phone,
		Role:         claims.Role,
		UserMetadata: claims.UserMetadata,
	}, nil
}
