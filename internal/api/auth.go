package api

import "context"

// credentials is the body shape shared by register and login.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account. Registration does not establish a
// session; callers log in separately with the same credentials.
func (c *Client) Register(ctx context.Context, email, password string) (*RegisterUserResponse, error) {
	var out RegisterUserResponse
	if err := c.do(ctx, "POST", "/auth/register", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a bearer token. The caller is responsible
// for storing the token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, "POST", "/auth/login", credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the current user for the held credential.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, "GET", "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health checks service reachability and reports its version.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, "GET", "/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
