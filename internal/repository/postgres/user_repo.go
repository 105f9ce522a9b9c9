package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"account-service/internal/domain/account"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *account.User) error {
	query := `
        INSERT INTO users (name, email, password_hash, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, registration_time
    `
	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Status).
		Scan(&u.ID, &u.RegistrationTime)
	if err != nil {
		if isUniqueViolation(err) {
			return account.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*account.User, error) {
	query := `
        SELECT id, name, email, password_hash, status, registration_time, last_login
        FROM users WHERE email = $1
    `
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*account.User, error) {
	query := `
        SELECT id, name, email, password_hash, status, registration_time, last_login
        FROM users WHERE id = $1
    `
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepo) List(ctx context.Context) ([]account.User, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, email, password_hash, status, registration_time, last_login
        FROM users ORDER BY last_login DESC NULLS LAST, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []account.User
	for rows.Next() {
		var u account.User
		var lastLogin sql.NullTime
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &u.RegistrationTime, &lastLogin); err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			u.LastLogin = &t
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	return err
}

func (r *UserRepo) UpdateStatus(ctx context.Context, ids []int64, status string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET status = $1 WHERE id = ANY($2)`, status, ids)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepo) scanUser(row *sql.Row) (*account.User, error) {
	u := &account.User{}
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Status, &u.RegistrationTime, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrUserNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
