package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/taskday/internal/kv"
)

// CurrentUser returns the signed-in user, or nil when logged out.
// A corrupt session slot reads as logged out.
func (g *Gate) CurrentUser() (*User, error) {
	var user User
	found, err := g.kv.Get(SessionKey, &user)
	if errors.Is(err, kv.ErrCorruptValue) {
		g.logger.Warn("ignoring unreadable session", "key", SessionKey, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !found || user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// RequireUser returns the signed-in user or ErrNotSignedIn.
func (g *Gate) RequireUser() (*User, error) {
	user, err := g.CurrentUser()
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotSignedIn
	}
	return user, nil
}

// Login starts a session for the user whose email and password match
// exactly. Any existing session is replaced.
func (g *Gate) Login(email, password string) (*User, error) {
	email = strings.TrimSpace(email)

	users, err := g.readUsers()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.Email == email && user.Password == password {
			if err := g.startSession(user); err != nil {
				return nil, err
			}
			return &user, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// Register appends a new user and signs them in.
func (g *Gate) Register(input RegisterInput) (*User, error) {
	user := User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Password:  input.Password,
	}

	fields := []struct {
		name  string
		value string
	}{
		{"firstName", user.FirstName},
		{"lastName", user.LastName},
		{"email", user.Email},
		{"password", strings.TrimSpace(user.Password)},
	}
	for _, field := range fields {
		if field.value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}

	err := g.kv.Update(UsersKey, func(get kv.Getter) (any, error) {
		users, err := g.decodeUsers(get)
		if err != nil {
			return nil, err
		}
		for _, existing := range users {
			if existing.Email == user.Email {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, user.Email)
			}
		}

		user.ID = g.newID()
		return append(users, user), nil
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("write users: %w", err)
	}
	if err := g.startSession(user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears the session slot. Logging out twice is not an error.
func (g *Gate) Logout() error {
	if err := g.kv.Remove(SessionKey); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
