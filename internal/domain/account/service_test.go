package account

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

type memoryRepo struct {
	mu     sync.Mutex
	users  map[int64]*User
	byMail map[string]int64
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:  make(map[int64]*User),
		byMail: make(map[string]int64),
		nextID: 1,
	}
}

func (r *memoryRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byMail[u.Email]; taken {
		return ErrEmailTaken
	}
	u.ID = r.nextID
	r.nextID++
	u.RegistrationTime = time.Now()
	copyUser := *u
	r.users[u.ID] = &copyUser
	r.byMail[u.Email] = u.ID
	return nil
}

func (r *memoryRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byMail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copyUser := *r.users[id]
	return &copyUser, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copyUser := *u
	return &copyUser, nil
}

// List mirrors the SQL ordering: last_login DESC NULLS LAST, then id.
func (r *memoryRepo) List(ctx context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]User, 0, len(r.users))
	for _, u := range r.users {
		res = append(res, *u)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i].LastLogin, res[j].LastLogin
		switch {
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

func (r *memoryRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	t := at
	u.LastLogin = &t
	return nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			u.Status = status
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			delete(r.users, id)
			delete(r.byMail, u.Email)
			n++
		}
	}
	return n, nil
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, 10)
	ctx := context.Background()

	u, err := svc.Register(ctx, "John", "john@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Status != StatusActive {
		t.Fatalf("expected status active, got %s", u.Status)
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Fatalf("password should be hashed")
	}
	if u.LastLogin != nil {
		t.Fatalf("last login should be nil before first login")
	}

	logged, err := svc.Login(ctx, "john@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != u.ID {
		t.Fatalf("login returned wrong user: got %d want %d", logged.ID, u.ID)
	}
	if logged.LastLogin == nil {
		t.Fatalf("last login should be set after login")
	}
}

func TestRegisterEmptyPassword(t *testing.T) {
	svc := NewService(newMemoryRepo(), 10)
	ctx := context.Background()

	for _, pw := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Register(ctx, "John", "john@example.com", pw); !errors.Is(err, ErrEmptyPassword) {
			t.Fatalf("expected ErrEmptyPassword for %q, got %v", pw, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, 10)
	ctx := context.Background()

	first, err := svc.Register(ctx, "John", "john@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Register(ctx, "Johnny", "john@example.com", "other")
	if !errors.Is(err, ErrRegistrationFailed) {
		t.Fatalf("expected ErrRegistrationFailed, got %v", err)
	}

	// First registration must be untouched.
	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("first user gone: %v", err)
	}
	if got.Name != "John" {
		t.Fatalf("first registration mutated: %+v", got)
	}
}

func TestLoginEnumerationResistance(t *testing.T) {
	svc := NewService(newMemoryRepo(), 10)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "John", "john@example.com", "s3cret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, errWrongPw := svc.Login(ctx, "john@example.com", "wrong")
	_, errNoUser := svc.Login(ctx, "ghost@example.com", "whatever")

	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", errNoUser)
	}
}

func TestLoginBlockedAccount(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, 10)
	ctx := context.Background()

	u, err := svc.Register(ctx, "John", "john@example.com", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := svc.UpdateStatus(ctx, 99, []int64{u.ID}, StatusBlocked); err != nil {
		t.Fatalf("update status: %v", err)
	}

	if _, err := svc.Login(ctx, "john@example.com", "s3cret"); !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, 10)
	ctx := context.Background()

	actor, _ := svc.Register(ctx, "Admin", "admin@example.com", "pass")
	other, _ := svc.Register(ctx, "Other", "other@example.com", "pass")

	if _, _, err := svc.UpdateStatus(ctx, actor.ID, nil, StatusBlocked); !errors.Is(err, ErrEmptyIDList) {
		t.Fatalf("expected ErrEmptyIDList, got %v", err)
	}
	if _, _, err := svc.UpdateStatus(ctx, actor.ID, []int64{other.ID}, "suspended"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// Unknown ids are skipped, not an error.
	updated, selfBlocked, err := svc.UpdateStatus(ctx, actor.ID, []int64{other.ID, 9999}, StatusBlocked)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected 1 updated, got %d", updated)
	}
	if selfBlocked {
		t.Fatalf("selfBlocked should be false when actor not in set")
	}

	_, selfBlocked, err = svc.UpdateStatus(ctx, actor.ID, []int64{actor.ID, other.ID}, StatusBlocked)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !selfBlocked {
		t.Fatalf("selfBlocked should be true when actor blocks itself")
	}

	// Re-activating yourself is not a self-block.
	_, selfBlocked, err = svc.UpdateStatus(ctx, actor.ID, []int64{actor.ID}, StatusActive)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if selfBlocked {
		t.Fatalf("selfBlocked should be false for status active")
	}
}

func TestDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, 10)
	ctx := context.Background()

	actor, _ := svc.Register(ctx, "Admin", "admin@example.com", "pass")
	other, _ := svc.Register(ctx, "Other", "other@example.com", "pass")

	if _, _, err := svc.Delete(ctx, actor.ID, nil); !errors.Is(err, ErrEmptyIDList) {
		t.Fatalf("expected ErrEmptyIDList, got %v", err)
	}

	if _, _, err := svc.Delete(ctx, actor.ID, []int64{9999}); !errors.Is(err, ErrNoUsersMatched) {
		t.Fatalf("expected ErrNoUsersMatched, got %v", err)
	}

	deleted, selfDeleted, err := svc.Delete(ctx, actor.ID, []int64{actor.ID, other.ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}
	if !selfDeleted {
		t.Fatalf("selfDeleted should be true when actor in set")
	}

	if _, err := svc.GetByID(ctx, actor.ID); err == nil {
		t.Fatalf("deleted user still present")
	}
}

func TestListOrdering(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, 10)
	ctx := context.Background()

	never1, _ := svc.Register(ctx, "Never1", "n1@example.com", "pass")
	old, _ := svc.Register(ctx, "Old", "old@example.com", "pass")
	recent, _ := svc.Register(ctx, "Recent", "recent@example.com", "pass")
	never2, _ := svc.Register(ctx, "Never2", "n2@example.com", "pass")

	base := time.Now()
	if err := repo.UpdateLastLogin(ctx, old.ID, base.Add(-time.Hour)); err != nil {
		t.Fatalf("seed last login: %v", err)
	}
	if err := repo.UpdateLastLogin(ctx, recent.ID, base); err != nil {
		t.Fatalf("seed last login: %v", err)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 4 {
		t.Fatalf("expected 4 users, got %d", len(users))
	}

	wantOrder := []int64{recent.ID, old.ID, never1.ID, never2.ID}
	for i, want := range wantOrder {
		if users[i].ID != want {
			t.Fatalf("position %d: got user %d want %d", i, users[i].ID, want)
		}
	}
	for _, u := range users[:2] {
		if u.LastLogin == nil {
			t.Fatalf("logged-in users should come first")
		}
	}
	for _, u := range users[2:] {
		if u.LastLogin != nil {
			t.Fatalf("never-logged-in users should come last")
		}
	}
}

type failingRepo struct {
	*memoryRepo
	getErr error
}

func (r *failingRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return nil, r.getErr
}

func TestLoginStoreFailure(t *testing.T) {
	outage := errors.New("connection refused")
	repo := &failingRepo{memoryRepo: newMemoryRepo(), getErr: outage}
	svc := NewService(repo, 10)

	_, err := svc.Login(context.Background(), "john@example.com", "s3cret")
	if err == nil {
		t.Fatalf("expected error for store outage")
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("store outage must not look like bad credentials: %v", err)
	}
	if !errors.Is(err, outage) {
		t.Fatalf("expected the outage to propagate, got %v", err)
	}
}
