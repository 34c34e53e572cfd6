package repository

import (
	"context"
	"fmt"

	"github.com/akinalp/gallery/database"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
)

type sqliteCommentRepo struct {
	db database.TxQuerier
}

func NewSQLiteCommentRepo(db database.TxQuerier) CommentRepository {
	return &sqliteCommentRepo{db: db}
}

func (r *sqliteCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	c.CreatedAt = now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, body, created_at)
		VALUES (`+newID+`, ?, ?, ?, ?)
		RETURNING id, (SELECT username FROM users WHERE id = ?)`,
		c.PostID, c.UserID, c.Body, c.CreatedAt, c.UserID,
	).Scan(&c.ID, &c.Username)

	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: post not found", pkg.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *sqliteCommentRepo) ListByPost(ctx context.Context, postID string, req models.PageRequest) (Page[models.Comment], error) {
	clause, args := beforeClause("c", req)
	args = append([]any{postID}, args...)
	args = append(args, pageLimit(req))

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, u.username, c.body, c.created_at
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?`+clause+`
		ORDER BY c.created_at DESC, c.id DESC LIMIT ?`, args...)
	if err != nil {
		return Page[models.Comment]{}, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.Body, &c.CreatedAt); err != nil {
			return Page[models.Comment]{}, fmt.Errorf("failed to scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return Page[models.Comment]{}, fmt.Errorf("failed to iterate comments: %w", err)
	}
	return trimPage(out, req), nil
}

func (r *sqliteCommentRepo) CountByPost(ctx context.Context, postID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}
