package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"userapi/internal/model"
	"userapi/internal/repository"
)

// UserPostgres reads the user seed from the users table.
// It uses parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sqlx.DB
}

// NewUserPostgres wraps an opened pgx connection pool.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: sqlx.NewDb(db, "pgx")}
}

var _ repository.UserSource = (*UserPostgres)(nil)

type userRow struct {
	ID        int64          `db:"id"`
	FirstName string         `db:"first_name"`
	LastName  string         `db:"last_name"`
	Role      sql.NullString `db:"role"`
}

func (r userRow) toModel() model.User {
	u := model.User{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
	if r.Role.Valid {
		role := r.Role.String
		u.Role = &role
	}
	return u
}

// LoadUsers returns every row ordered by id.
func (r *UserPostgres) LoadUsers(ctx context.Context) ([]model.User, error) {
	const q = `
		SELECT id, first_name, last_name, role
		FROM users
		ORDER BY id
	`
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}
