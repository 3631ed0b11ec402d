package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"staybook/internal/config"
	"staybook/internal/model"
)

// IdentityProvider is the hosted account service
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	GetUser(ctx context.Context, accessToken string) (*model.User, error)
	UpdateUser(ctx context.Context, accessToken string, attrs model.UserAttributes) (*model.User, error)
}

// ProviderError is a non-2xx reply from the identity provider
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// GoTrueClient talks to a Supabase GoTrue auth server over REST
type GoTrueClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGoTrueClient creates a client for cfg.URL
func NewGoTrueClient(cfg *config.SupabaseConfig) *GoTrueClient {
	return &GoTrueClient{
		baseURL: strings.TrimRight(cfg.URL, "/") + "/auth/v1",
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// SignUp registers a new account. Metadata is stored as user_metadata.
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*model.User, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	// The server answers with a bare user when confirmation is pending and
	// with a session wrapping the user otherwise.
	var resp struct {
		model.User
		Wrapped *model.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &resp); err != nil {
		return nil, err
	}
	if resp.Wrapped != nil {
		return resp.Wrapped, nil
	}
	return &resp.User, nil
}

// SignIn exchanges a password for a session
func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var session model.Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUser resolves an access token to its user
func (c *GoTrueClient) GetUser(ctx context.Context, accessToken string) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes the token owner's email, password or metadata
func (c *GoTrueClient) UpdateUser(ctx context.Context, accessToken string, attrs model.UserAttributes) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/user", accessToken, attrs, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *GoTrueClient) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProviderError{StatusCode: resp.StatusCode, Message: providerMessage(respBody, resp.StatusCode)}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode auth response: %w", err)
		}
	}
	return nil
}

// providerMessage picks the human-readable message out of a GoTrue error body
func providerMessage(body []byte, status int) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil {
		for _, m := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("auth server returned status %d", status)
}
