package account

import (
	"context"
	"time"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

type User struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Status           string     `json:"status"`
	RegistrationTime time.Time  `json:"registration_time"`
	LastLogin        *time.Time `json:"last_login"`
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
}
