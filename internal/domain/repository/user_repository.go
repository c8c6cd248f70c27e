package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"taskboard/internal/common"
	"taskboard/internal/domain/model"
)

// UserProfileUpdate carries the self-service profile fields. Nil means the
// field was not supplied.
type UserProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// UserAdminUpdate carries the fields an admin may change on any account.
type UserAdminUpdate struct {
	FirstName *string
	LastName  *string
	Role      *string
	IsActive  *bool
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int, error)
	UpdateProfile(ctx context.Context, id int64, upd UserProfileUpdate) (*model.User, error)
	Update(ctx context.Context, id int64, upd UserAdminUpdate) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, email, password, first_name, last_name, role, is_active, created_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (email, password, first_name, last_name, role)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, is_active, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.HashedPassword, user.FirstName, user.LastName, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Create: %w", common.TranslateDBError(err))
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email), "FindByEmail")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgUserRepository) scanUser(row *sql.Row, op string) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.FirstName, &user.LastName,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}

func (r *pgUserRepository) List(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List count: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List query: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.FirstName, &u.LastName,
			&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgUserRepository.List scan: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgUserRepository.List rows.Err: %w", err)
	}
	return users, total, nil
}

// UpdateProfile applies the supplied name fields in one fixed statement;
// COALESCE keeps the current value where the field was not sent.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, id int64, upd UserProfileUpdate) (*model.User, error) {
	query := `UPDATE users SET
	            first_name = COALESCE($1, first_name),
	            last_name  = COALESCE($2, last_name),
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $3
	          RETURNING ` + userColumns
	return r.scanUser(r.db.QueryRowContext(ctx, query, upd.FirstName, upd.LastName, id), "UpdateProfile")
}

func (r *pgUserRepository) Update(ctx context.Context, id int64, upd UserAdminUpdate) (*model.User, error) {
	query := `UPDATE users SET
	            first_name = COALESCE($1, first_name),
	            last_name  = COALESCE($2, last_name),
	            role       = COALESCE($3, role),
	            is_active  = COALESCE($4, is_active),
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5
	          RETURNING ` + userColumns
	user, err := r.scanUser(r.db.QueryRowContext(ctx, query,
		upd.FirstName, upd.LastName, upd.Role, upd.IsActive, id), "Update")
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.TranslateDBError(err)
	}
	return user, err
}
