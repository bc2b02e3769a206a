// Package auth is the authentication boundary. The scene service does not
// manage sessions itself; it asks an external identity service whether a
// bearer token is valid and what role it carries.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Decision is the outcome of a gateway check: pass/fail plus the redirect
// target the UI should navigate to on failure.
type Decision struct {
	Allow    bool   `json:"allow" doc:"Whether the token is accepted"`
	Role     string `json:"role,omitempty" doc:"Role attached to the token"`
	Redirect string `json:"redirect,omitempty" doc:"Where to send a rejected caller"`
}

// Gateway validates bearer tokens.
type Gateway interface {
	Check(ctx context.Context, token string) (Decision, error)
}

const loginRedirect = "/login"

// Client checks tokens against the identity service's role endpoint.
type Client struct {
	base   string
	client *http.Client
}

// NewClient creates a gateway client for the given identity service base URL.
func NewClient(base string) *Client {
	return &Client{
		base:   base,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Check calls GET {base}/user/check_role with the bearer token. A missing
// or rejected token yields a deny decision pointing at the login page; only
// transport failures surface as errors.
func (c *Client) Check(ctx context.Context, token string) (Decision, error) {
	if token == "" {
		return Decision{Redirect: loginRedirect}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/user/check_role", nil)
	if err != nil {
		return Decision{}, fmt.Errorf("building role check request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return Decision{}, fmt.Errorf("checking role: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Decision{Redirect: loginRedirect}, nil
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Decision{}, fmt.Errorf("decoding role check response: %w", err)
	}

	return Decision{Allow: true, Role: body.Role}, nil
}
