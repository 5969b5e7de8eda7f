package postgres

import (
	"context"
	"database/sql"

	"eventmanagement/internal/domain"
)

const userColumns = `id, name, email, password_hash, role, location, organization_name, bio, website,
		verification_status, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Location, &u.OrganizationName,
		&u.Bio, &u.Website, &u.VerificationStatus, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, location, organization_name, bio, website,
			verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.Location), u.OrganizationName, u.Bio, u.Website,
		string(u.VerificationStatus), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if pqCode(err) == codeUniqueViolation {
		return domain.ErrDuplicateEmail
	}
	return translate(err)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE lower(email) = lower($1)
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *userRepository) ListByRoleAndLocation(ctx context.Context, role domain.Role, location domain.Location) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND location = $2
		ORDER BY created_at ASC
	`
	return r.queryUsers(ctx, query, string(role), string(location))
}

func (r *userRepository) ListByRoleAndVerification(ctx context.Context, role domain.Role, status domain.VerificationStatus) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND verification_status = $2
		ORDER BY created_at ASC
	`
	return r.queryUsers(ctx, query, string(role), string(status))
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) UpdateVerificationStatus(ctx context.Context, id string, status domain.VerificationStatus) error {
	query := `
		UPDATE users
		SET verification_status = $1, updated_at = NOW()
		WHERE id = $2 AND role = 'organizer'
	`
	result, err := r.DB.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return translate(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
