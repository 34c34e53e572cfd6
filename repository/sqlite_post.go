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

type sqlitePostRepo struct {
	db database.TxQuerier
}

func NewSQLitePostRepo(db database.TxQuerier) PostRepository {
	return &sqlitePostRepo{db: db}
}

func (r *sqlitePostRepo) Create(ctx context.Context, post *models.Post) error {
	post.CreatedAt = now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO posts (id, author_id, caption, created_at)
		VALUES (`+newID+`, ?, ?, ?)
		RETURNING id`,
		post.AuthorID, post.Caption, post.CreatedAt,
	).Scan(&post.ID)

	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: author not found", pkg.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

const postSelect = `
	SELECT p.id, p.author_id, p.caption, p.created_at,
	       (SELECT COUNT(*) FROM admires WHERE post_id = p.id),
	       (SELECT COUNT(*) FROM comments WHERE post_id = p.id)
	FROM posts p`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	p := &models.Post{}
	if err := row.Scan(&p.ID, &p.AuthorID, &p.Caption, &p.CreatedAt, &p.AdmireCount, &p.CommentCount); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *sqlitePostRepo) GetByID(ctx context.Context, id, viewerID string) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if viewerID == "" {
		return post, nil
	}

	admire, err := NewSQLiteAdmireRepo(r.db).GetByPair(ctx, id, viewerID)
	switch {
	case errors.Is(err, pkg.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		post.ViewerAdmire = admire
	}
	return post, nil
}

func (r *sqlitePostRepo) ListByAuthor(ctx context.Context, authorID string, req models.PageRequest) (Page[models.Post], error) {
	clause, args := beforeClause("p", req)
	args = append([]any{authorID}, args...)
	args = append(args, pageLimit(req))

	rows, err := r.db.QueryContext(ctx,
		postSelect+` WHERE p.author_id = ?`+clause+` ORDER BY p.created_at DESC, p.id DESC LIMIT ?`,
		args...)
	if err != nil {
		return Page[models.Post]{}, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return Page[models.Post]{}, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return Page[models.Post]{}, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return trimPage(posts, req), nil
}

func (r *sqlitePostRepo) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = ?`, authorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}
