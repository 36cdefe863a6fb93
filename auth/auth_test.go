package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/taskday/internal/kv"
)

func newTestGate(t *testing.T) (*Gate, *kv.MemoryStore) {
	t.Helper()

	mem := kv.NewMemoryStore()
	next := 0
	gate, err := New(mem, Options{NewID: func() string {
		next++
		return fmt.Sprintf("user-%d", next)
	}})
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	return gate, mem
}

func ada() RegisterInput {
	return RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "engine"}
}

func TestNewRejectsNilStore(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestNewDefaultsToUUID(t *testing.T) {
	gate, err := New(kv.NewMemoryStore(), Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	user, err := gate.Register(ada())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(user.ID) != 36 || strings.Count(user.ID, "-") != 4 {
		t.Fatalf("expected uuid id, got %q", user.ID)
	}
}

func TestCurrentUserLoggedOut(t *testing.T) {
	gate, _ := newTestGate(t)

	user, err := gate.CurrentUser()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user, got %+v", user)
	}
	if _, err := gate.RequireUser(); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestRegisterStartsSession(t *testing.T) {
	gate, _ := newTestGate(t)

	input := ada()
	input.Email = "  ada@example.com "
	user, err := gate.Register(input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != "user-1" || user.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	current, err := gate.RequireUser()
	if err != nil {
		t.Fatalf("require user: %v", err)
	}
	if current.ID != user.ID || current.DisplayName() != "Ada Lovelace" {
		t.Fatalf("unexpected session user %+v", current)
	}
}

func TestRegisterMissingField(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*RegisterInput)
	}{
		{"firstName", func(in *RegisterInput) { in.FirstName = " " }},
		{"lastName", func(in *RegisterInput) { in.LastName = "" }},
		{"email", func(in *RegisterInput) { in.Email = "" }},
		{"password", func(in *RegisterInput) { in.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			gate, mem := newTestGate(t)
			input := ada()
			tt.mutate(&input)

			_, err := gate.Register(input)
			if !errors.Is(err, ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Fatalf("expected error to name %s, got %v", tt.field, err)
			}
			if mem.Writes() != 0 {
				t.Fatalf("expected no writes, got %d", mem.Writes())
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	gate, mem := newTestGate(t)
	if _, err := gate.Register(ada()); err != nil {
		t.Fatalf("register: %v", err)
	}
	writes := mem.Writes()

	dup := ada()
	dup.FirstName = "Other"
	if _, err := gate.Register(dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if mem.Writes() != writes {
		t.Fatalf("expected no writes")
	}
}

func TestLoginLogout(t *testing.T) {
	gate, _ := newTestGate(t)
	registered, err := gate.Register(ada())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := gate.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if user, _ := gate.CurrentUser(); user != nil {
		t.Fatalf("expected logged out, got %+v", user)
	}

	if _, err := gate.Login("ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := gate.Login("nobody@example.com", "engine"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	user, err := gate.Login(" ada@example.com", "engine")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected %s, got %s", registered.ID, user.ID)
	}

	if err := gate.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := gate.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestLoginReplacesSession(t *testing.T) {
	gate, _ := newTestGate(t)
	if _, err := gate.Register(ada()); err != nil {
		t.Fatalf("register: %v", err)
	}
	grace := RegisterInput{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Password: "cobol"}
	if _, err := gate.Register(grace); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := gate.Login("ada@example.com", "engine"); err != nil {
		t.Fatalf("login: %v", err)
	}
	current, err := gate.RequireUser()
	if err != nil {
		t.Fatalf("require: %v", err)
	}
	if current.Email != "ada@example.com" {
		t.Fatalf("expected ada's session, got %s", current.Email)
	}
}

func TestCorruptStateFailsClosed(t *testing.T) {
	gate, mem := newTestGate(t)
	mem.SetRaw(SessionKey, []byte("nope"))
	mem.SetRaw(UsersKey, []byte("[{"))

	user, err := gate.CurrentUser()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user != nil {
		t.Fatalf("expected logged out, got %+v", user)
	}

	if _, err := gate.Login("ada@example.com", "engine"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUsersPersistInFileStore(t *testing.T) {
	dir := t.TempDir()
	gate, err := New(kv.NewFileStore(dir, nil), Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := gate.Register(ada()); err != nil {
		t.Fatalf("register: %v", err)
	}

	reopened, err := New(kv.NewFileStore(dir, nil), Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	user, err := reopened.RequireUser()
	if err != nil {
		t.Fatalf("require: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestConcurrentRegistrationsKeepEveryUser(t *testing.T) {
	dir := t.TempDir()

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gate, err := New(kv.NewFileStore(dir, nil), Options{})
			if err != nil {
				t.Errorf("new gate: %v", err)
				return
			}
			input := ada()
			input.Email = fmt.Sprintf("user%d@example.com", i)
			if _, err := gate.Register(input); err != nil {
				t.Errorf("register %s: %v", input.Email, err)
			}
		}(i)
	}
	wg.Wait()

	var users []User
	if _, err := kv.NewFileStore(dir, nil).Get(UsersKey, &users); err != nil {
		t.Fatalf("read users: %v", err)
	}
	if len(users) != 6 {
		t.Fatalf("expected 6 users, got %d", len(users))
	}
}

func TestConcurrentDuplicateRegistrationKeepsOne(t *testing.T) {
	gate, _ := newTestGate(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var duplicates int
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gate.Register(ada())
			if errors.Is(err, ErrDuplicateEmail) {
				mu.Lock()
				duplicates++
				mu.Unlock()
			} else if err != nil {
				t.Errorf("register: %v", err)
			}
		}()
	}
	wg.Wait()

	if duplicates != 3 {
		t.Fatalf("expected 3 duplicate errors, got %d", duplicates)
	}
}
