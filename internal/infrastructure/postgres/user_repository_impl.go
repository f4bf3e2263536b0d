package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/booking-api/internal/domain/entity"
	"github.com/oksasatya/booking-api/internal/domain/repository"
)

const uniqueViolation = "23505"

const userColumns = `id, email, name, password_hash, role, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Role == "" {
		u.Role = entity.RoleUser
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Name, u.Password, string(u.Role))

	return translate(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $1, name = $2, password_hash = $3, role = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`, u.Email, u.Name, u.Password, string(u.Role), u.ID)

	return translate(row.Scan(&u.UpdatedAt))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, hash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Password, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	u.Role = entity.Role(role)
	return u, nil
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return repository.ErrNotFound
	case isUniqueViolation(err):
		return repository.ErrDuplicateEmail
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ repository.UserRepository = (*UserRepository)(nil)
