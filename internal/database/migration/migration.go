package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"userapi/internal/model"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         BIGINT PRIMARY KEY CHECK (id > 0),
  first_name TEXT   NOT NULL,
  last_name  TEXT   NOT NULL,
  role       TEXT   NULL
);`,
	},
	{
		Name: "create_index_users_last_name",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_last_name ON users (last_name);`,
	},
}

const (
	sentinelQuery = "SELECT to_regclass('public.users') IS NOT NULL"
	seededQuery   = "SELECT EXISTS (SELECT 1 FROM users)"
)

const insertUser = `INSERT INTO users (id, first_name, last_name, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`

// EnsureMigrated creates the 'users' table and seeds it with users unless it
// already holds rows. Schema and seed run in one transaction, so a failed seed
// leaves no empty table behind; an empty table left by an earlier run is
// seeded again.
func EnsureMigrated(ctx context.Context, db *sql.DB, l *zap.Logger, users []model.User) error {
	start := time.Now()
	l = l.With(zap.String("component", "database"))

	l.Info("db_migration_check", zap.String("status", "starting"))

	seeded, err := isSeeded(ctx, db)
	if err != nil {
		l.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return err
	}

	if seeded {
		l.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "users already seeded, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	l.Info("db_migration_start", zap.String("status", "in_progress"))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}

	if err := apply(ctx, tx, l, users); err != nil {
		_ = tx.Rollback()
		l.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	l.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int("seeded_users", len(users)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}

// isSeeded reports whether the users table exists and has at least one row.
func isSeeded(ctx context.Context, db *sql.DB) (bool, error) {
	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if !exists {
		return false, nil
	}

	var hasRows bool
	if err := db.QueryRowContext(ctx, seededQuery).Scan(&hasRows); err != nil {
		return false, fmt.Errorf("failed to check seeded rows: %w", err)
	}
	return hasRows, nil
}

func apply(ctx context.Context, tx *sql.Tx, l *zap.Logger, users []model.User) error {
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		l.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	for _, u := range users {
		var role sql.NullString
		if u.Role != nil {
			role = sql.NullString{String: *u.Role, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, insertUser, u.ID, u.FirstName, u.LastName, role); err != nil {
			return fmt.Errorf("migration step seed_users failed: insert user %d: %w", u.ID, err)
		}
	}
	return nil
}
