package api

import (
	"context"
	"fmt"
	"net/url"
)

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var u User
	if err := c.postJSON(ctx, "/users/register", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for a bearer token. The backend expects an
// OAuth2 password form, so the email travels as "username".
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp LoginResponse
	if err := c.postForm(ctx, "/users/login", form, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login: response carried no access token")
	}
	return &resp, nil
}

// Me returns the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all accounts (admin only).
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// PromoteUser changes a user's role (admin only). The backend accepts
// student→teacher and teacher→admin.
func (c *Client) PromoteUser(ctx context.Context, id ID, newRole string) (*User, error) {
	path := fmt.Sprintf("/users/%s/promote?new_role=%s", id, url.QueryEscape(newRole))
	var u User
	if err := c.postJSON(ctx, path, map[string]string{"new_role": newRole}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// AdminDashboard returns aggregate counts for the admin view.
func (c *Client) AdminDashboard(ctx context.Context) (Stats, error) {
	var s Stats
	if err := c.getJSON(ctx, "/users/admin/dashboard", &s); err != nil {
		return nil, err
	}
	return s, nil
}
