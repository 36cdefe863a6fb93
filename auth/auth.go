// Package auth is the credential store and session gate in front of the
// task list. Users and the current session live in the same kv.Store as
// the tasks, under the "users" and "auth_user" keys.
//
// Passwords are stored as given. There is no hashing.
package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/amonks/taskday/internal/kv"
	"github.com/amonks/taskday/internal/logging"
)

const (
	// UsersKey holds the JSON array of registered users.
	UsersKey = "users"

	// SessionKey holds the signed-in user. Absent means logged out.
	SessionKey = "auth_user"
)

// User is a registered account.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// DisplayName returns "First Last".
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// RegisterInput holds the registration form fields.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Options configures a Gate.
type Options struct {
	// NewID generates user IDs. Defaults to uuid.NewString.
	NewID func() string

	// Logger receives warnings about unreadable stored data.
	Logger *slog.Logger
}

// Gate reads and writes users and the session slot.
type Gate struct {
	kv     kv.Store
	newID  func() string
	logger *slog.Logger
}

// New returns a Gate over store.
func New(store kv.Store, opts Options) (*Gate, error) {
	if store == nil {
		return nil, errors.New("open auth gate: nil kv store")
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &Gate{
		kv:     store,
		newID:  newID,
		logger: logging.OrDiscard(opts.Logger),
	}, nil
}

func (g *Gate) readUsers() ([]User, error) {
	return g.decodeUsers(func(dst any) (bool, error) {
		return g.kv.Get(UsersKey, dst)
	})
}

// decodeUsers reads the user list through get. Corrupt data reads as empty.
func (g *Gate) decodeUsers(get kv.Getter) ([]User, error) {
	var users []User
	_, err := get(&users)
	if errors.Is(err, kv.ErrCorruptValue) {
		g.logger.Warn("ignoring unreadable user list", "key", UsersKey, "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	return users, nil
}

func (g *Gate) startSession(user User) error {
	if err := g.kv.Set(SessionKey, user); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	g.logger.Debug("session started", "user", user.ID)
	return nil
}
