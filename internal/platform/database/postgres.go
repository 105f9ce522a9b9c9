package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"account-service/internal/retry"
)

func NewPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	// Wait for the database to come up, common when starting alongside it.
	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err = retry.Do(connectCtx, 5, 500*time.Millisecond, func() error {
		pingCtx, pingCancel := context.WithTimeout(connectCtx, 2*time.Second)
		defer pingCancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
