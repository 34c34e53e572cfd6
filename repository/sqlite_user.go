package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/gallery/database"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
)

type sqliteUserRepo struct {
	db database.TxQuerier
}

// NewSQLiteUserRepo, UserRepository'nin SQLite implementasyonu.
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, display_name, password_hash, created_at)
		VALUES (`+newID+`, ?, ?, ?, ?)
		RETURNING id`,
		user.Username, user.DisplayName, user.PasswordHash, user.CreatedAt,
	).Scan(&user.ID)

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

const userColumns = `id, username, display_name, password_hash, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

func (r *sqliteUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return u, nil
}

func (r *sqliteUserRepo) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.display_name, u.created_at,
		       (SELECT COUNT(*) FROM follows WHERE followee_id = u.id),
		       (SELECT COUNT(*) FROM follows WHERE follower_id = u.id)
		FROM users u WHERE u.id = ?`, id,
	).Scan(&p.ID, &p.Username, &p.DisplayName, &p.CreatedAt, &p.FollowerCount, &p.FollowingCount)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return p, nil
}
