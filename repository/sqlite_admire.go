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

type sqliteAdmireRepo struct {
	db database.TxQuerier
}

func NewSQLiteAdmireRepo(db database.TxQuerier) AdmireRepository {
	return &sqliteAdmireRepo{db: db}
}

func (r *sqliteAdmireRepo) Create(ctx context.Context, admire *models.Admire) error {
	admire.CreatedAt = now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admires (id, post_id, user_id, created_at)
		VALUES (`+newID+`, ?, ?, ?)
		RETURNING id, (SELECT username FROM users WHERE id = ?)`,
		admire.PostID, admire.UserID, admire.CreatedAt, admire.UserID,
	).Scan(&admire.ID, &admire.Username)

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: post already admired", pkg.ErrAlreadyExists)
	}
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: post not found", pkg.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create admire: %w", err)
	}
	return nil
}

const admireSelect = `
	SELECT a.id, a.post_id, a.user_id, u.username, a.created_at
	FROM admires a JOIN users u ON u.id = a.user_id`

func scanAdmire(row interface{ Scan(...any) error }) (*models.Admire, error) {
	a := &models.Admire{}
	if err := row.Scan(&a.ID, &a.PostID, &a.UserID, &a.Username, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *sqliteAdmireRepo) GetByPair(ctx context.Context, postID, userID string) (*models.Admire, error) {
	a, err := scanAdmire(r.db.QueryRowContext(ctx,
		admireSelect+` WHERE a.post_id = ? AND a.user_id = ?`, postID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admire: %w", err)
	}
	return a, nil
}

func (r *sqliteAdmireRepo) DeleteByPair(ctx context.Context, postID, userID string) (*models.Admire, error) {
	a := &models.Admire{}
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM admires WHERE post_id = ? AND user_id = ?
		RETURNING id, post_id, user_id, created_at`, postID, userID,
	).Scan(&a.ID, &a.PostID, &a.UserID, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete admire: %w", err)
	}
	return a, nil
}

func (r *sqliteAdmireRepo) ListByPost(ctx context.Context, postID string, req models.PageRequest) (Page[models.Admire], error) {
	clause, args := beforeClause("a", req)
	args = append([]any{postID}, args...)
	args = append(args, pageLimit(req))

	rows, err := r.db.QueryContext(ctx,
		admireSelect+` WHERE a.post_id = ?`+clause+` ORDER BY a.created_at DESC, a.id DESC LIMIT ?`,
		args...)
	if err != nil {
		return Page[models.Admire]{}, fmt.Errorf("failed to list admires: %w", err)
	}
	defer rows.Close()

	var out []models.Admire
	for rows.Next() {
		a, err := scanAdmire(rows)
		if err != nil {
			return Page[models.Admire]{}, fmt.Errorf("failed to scan admire: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return Page[models.Admire]{}, fmt.Errorf("failed to iterate admires: %w", err)
	}
	return trimPage(out, req), nil
}

func (r *sqliteAdmireRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admires WHERE post_id = ?`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admires: %w", err)
	}
	return n, nil
}
