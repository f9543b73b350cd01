package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// ErrInvalidToken is returned when the auth service does not accept a token.
var ErrInvalidToken = errors.New("invalid token")

const userPath = "/auth/v1/user"

// GoTrueClient resolves tokens against a GoTrue-compatible auth service.
type GoTrueClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a GoTrueClient.
type Option func(*GoTrueClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GoTrueClient) {
		g.httpClient = c
	}
}

// NewGoTrueClient creates a client for the auth service at baseURL. apiKey is
// sent as the apikey header required by the gateway in front of it.
func NewGoTrueClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *GoTrueClient {
	c := &GoTrueClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Resolve returns the user that token belongs to.
func (c *GoTrueClient) Resolve(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userPath, nil)
	if err != nil {
		return Identity{}, errors.Wrap(err, "build user request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, errors.Wrap(err, "fetch user")
	}
	defer func() {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return Identity{}, errors.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Identity{}, errors.Wrap(err, "decode user")
	}
	if user.ID == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: user.ID, Email: user.Email}, nil
}
