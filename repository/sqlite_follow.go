package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/akinalp/gallery/database"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
)

type sqliteFollowRepo struct {
	db database.TxQuerier
}

func NewSQLiteFollowRepo(db database.TxQuerier) FollowRepository {
	return &sqliteFollowRepo{db: db}
}

func (r *sqliteFollowRepo) Create(ctx context.Context, f *models.Follow) error {
	f.CreatedAt = now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO follows (id, follower_id, followee_id, created_at)
		VALUES (`+newID+`, ?, ?, ?)
		RETURNING id, (SELECT username FROM users WHERE id = ?)`,
		f.FollowerID, f.FolloweeID, f.CreatedAt, f.FollowerID,
	).Scan(&f.ID, &f.Username)

	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: already following", pkg.ErrAlreadyExists)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	case err != nil && strings.Contains(err.Error(), "CHECK constraint failed"):
		return fmt.Errorf("%w: cannot follow yourself", pkg.ErrBadRequest)
	case err != nil:
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

const followSelect = `
	SELECT f.id, f.follower_id, f.followee_id, u.username, f.created_at
	FROM follows f JOIN users u ON u.id = f.follower_id`

func scanFollow(row interface{ Scan(...any) error }) (*models.Follow, error) {
	f := &models.Follow{}
	if err := row.Scan(&f.ID, &f.FollowerID, &f.FolloweeID, &f.Username, &f.CreatedAt); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *sqliteFollowRepo) GetByPair(ctx context.Context, followerID, followeeID string) (*models.Follow, error) {
	f, err := scanFollow(r.db.QueryRowContext(ctx,
		followSelect+` WHERE f.follower_id = ? AND f.followee_id = ?`, followerID, followeeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get follow: %w", err)
	}
	return f, nil
}

func (r *sqliteFollowRepo) DeleteByPair(ctx context.Context, followerID, followeeID string) (*models.Follow, error) {
	f := &models.Follow{}
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM follows WHERE follower_id = ? AND followee_id = ?
		RETURNING id, follower_id, followee_id, created_at`, followerID, followeeID,
	).Scan(&f.ID, &f.FollowerID, &f.FolloweeID, &f.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete follow: %w", err)
	}
	return f, nil
}

func (r *sqliteFollowRepo) ListFollowers(ctx context.Context, followeeID string, req models.PageRequest) (Page[models.Follow], error) {
	clause, args := beforeClause("f", req)
	args = append([]any{followeeID}, args...)
	args = append(args, pageLimit(req))

	rows, err := r.db.QueryContext(ctx,
		followSelect+` WHERE f.followee_id = ?`+clause+` ORDER BY f.created_at DESC, f.id DESC LIMIT ?`,
		args...)
	if err != nil {
		return Page[models.Follow]{}, fmt.Errorf("failed to list followers: %w", err)
	}
	defer rows.Close()

	var out []models.Follow
	for rows.Next() {
		f, err := scanFollow(rows)
		if err != nil {
			return Page[models.Follow]{}, fmt.Errorf("failed to scan follow: %w", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return Page[models.Follow]{}, fmt.Errorf("failed to iterate followers: %w", err)
	}
	return trimPage(out, req), nil
}

func (r *sqliteFollowRepo) CountFollowers(ctx context.Context, followeeID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM follows WHERE followee_id = ?`, followeeID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return n, nil
}

func (r *sqliteFollowRepo) FollowingIDs(ctx context.Context, followerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY created_at, id`, followerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan following: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
