package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"staybook/internal/model"
)

// FakeCompleter replies with Reply or Err and records each call
type FakeCompleter struct {
	mu    sync.Mutex
	Reply string
	Err   error
	calls []string
}

// Complete implements the language model interface
func (f *FakeCompleter) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, userText)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	return f.Reply, nil
}

// Calls returns the user texts sent so far
func (f *FakeCompleter) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// FakeIdentity is an identity provider keyed by email, issuing "token-<id>" access tokens
type FakeIdentity struct {
	mu        sync.Mutex
	users     map[string]*model.User // by email
	passwords map[string]string
	tokens    map[string]*model.User
	nextID    int

	// Err, when set, fails every call
	Err error
}

// NewFakeIdentity returns an empty provider
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{
		users:     map[string]*model.User{},
		passwords: map[string]string{},
		tokens:    map[string]*model.User{},
	}
}

// AddUser registers a user and returns its access token
func (f *FakeIdentity) AddUser(email, password string) (*model.User, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(email, password, nil)
}

func (f *FakeIdentity) addLocked(email, password string, metadata map[string]any) (*model.User, string) {
	f.nextID++
	user := &model.User{ID: fmt.Sprintf("user-%d", f.nextID), Email: email, UserMetadata: metadata}
	token := "token-" + user.ID
	f.users[email] = user
	f.passwords[email] = password
	f.tokens[token] = user
	return user, token
}

// SignUp implements IdentityProvider
func (f *FakeIdentity) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if _, exists := f.users[email]; exists {
		return nil, errors.New("User already registered")
	}
	user, _ := f.addLocked(email, password, metadata)
	return user, nil
}

// SignIn implements IdentityProvider
func (f *FakeIdentity) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	user, ok := f.users[email]
	if !ok || f.passwords[email] != password {
		return nil, errors.New("Invalid login credentials")
	}
	return &model.Session{
		AccessToken: "token-" + user.ID,
		TokenType:   "bearer",
		ExpiresIn:   3600,
		User:        user,
	}, nil
}

// GetUser implements IdentityProvider
func (f *FakeIdentity) GetUser(ctx context.Context, accessToken string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	user, ok := f.tokens[accessToken]
	if !ok {
		return nil, errors.New("invalid JWT")
	}
	return user, nil
}

// UpdateUser implements IdentityProvider
func (f *FakeIdentity) UpdateUser(ctx context.Context, accessToken string, attrs model.UserAttributes) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	user, ok := f.tokens[accessToken]
	if !ok {
		return nil, errors.New("invalid JWT")
	}
	if attrs.Email != nil {
		f.passwords[*attrs.Email] = f.passwords[user.Email]
		delete(f.users, user.Email)
		user.Email = *attrs.Email
		f.users[user.Email] = user
	}
	if attrs.Password != nil {
		f.passwords[user.Email] = *attrs.Password
	}
	if attrs.Data != nil {
		if user.UserMetadata == nil {
			user.UserMetadata = map[string]any{}
		}
		for k, v := range attrs.Data {
			user.UserMetadata[k] = v
		}
	}
	return user, nil
}
