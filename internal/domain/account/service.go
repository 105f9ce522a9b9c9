package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmptyIDList        = errors.New("user id list cannot be empty")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrNoUsersMatched     = errors.New("no matching users")
)

type Service struct {
	repo       Repository
	bcryptCost int
}

func NewService(repo Repository, bcryptCost int) *Service {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	if strings.TrimSpace(password) == "" {
		return nil, ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Status:       StatusActive,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		// Duplicate email is deliberately not distinguished to the client,
		// only in the wrapped detail for logs.
		return nil, fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	return u, nil
}

// Login verifies credentials and records the login time. An unknown email and
// a wrong password collapse to the same error; a blocked account is reported
// as soon as the row is found.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Only an absent row looks like bad credentials; a store failure
		// stays a server error.
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.Status == StatusBlocked {
		return nil, ErrAccountBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, err
	}
	u.LastLogin = &now

	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus sets status on every listed user in one statement. Unknown ids
// are skipped silently. selfBlocked reports whether the acting user just
// blocked itself.
func (s *Service) UpdateStatus(ctx context.Context, actorID int64, ids []int64, status string) (updated int64, selfBlocked bool, err error) {
	if len(ids) == 0 {
		return 0, false, ErrEmptyIDList
	}
	if status != StatusActive && status != StatusBlocked {
		return 0, false, ErrInvalidStatus
	}

	updated, err = s.repo.UpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, false, err
	}

	selfBlocked = status == StatusBlocked && containsID(ids, actorID)
	return updated, selfBlocked, nil
}

// Delete removes every listed user in one statement. Unlike UpdateStatus, a
// delete that matches nothing is an error.
func (s *Service) Delete(ctx context.Context, actorID int64, ids []int64) (deleted int64, selfDeleted bool, err error) {
	if len(ids) == 0 {
		return 0, false, ErrEmptyIDList
	}

	deleted, err = s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, false, err
	}
	if deleted == 0 {
		return 0, false, ErrNoUsersMatched
	}

	return deleted, containsID(ids, actorID), nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
