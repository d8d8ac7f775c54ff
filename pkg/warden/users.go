package warden

import (
	"context"

	"github.com/pkg/errors"
)

// userService implements the UserService interface
type userService struct {
	client *Client
}

// Login exchanges credentials for a bearer token. The resulting session is
// installed on the client so subsequent calls are authenticated.
func (s *userService) Login(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	var result struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}

	if err := s.client.transport.Login(ctx, "/users/login", body, &result); err != nil {
		return nil, errors.Wrap(err, "login failed")
	}

	if result.Token == "" {
		return nil, ErrLoginFailed
	}

	session := &Session{
		Token: result.Token,
		Email: email,
	}
	if result.User != nil {
		session.UserID = result.User.ID
	}

	s.client.SetSession(session)

	return session, nil
}
