package supabase

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
	"webstarter-backend/internal/config"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// Session is the slice of the GoTrue session this service consumes:
// a bearer token and the identity it belongs to.
type Session struct {
	AccessToken string
	Email       string
}

// SignIn authenticates an email/password pair against Supabase Auth.
// Whether the identity may use admin workflows is a separate check
// against admin_users.
func (c *Client) SignIn(email, password string) (*Session, error) {
	session, err := c.Supabase.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	return &Session{
		AccessToken: session.AccessToken,
		Email:       session.User.Email,
	}, nil
}
