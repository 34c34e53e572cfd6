package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/akinalp/gallery/database"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
)

type fixture struct {
	users    UserRepository
	posts    PostRepository
	admires  AdmireRepository
	comments CommentRepository
	follows  FollowRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	return &fixture{
		users:    NewSQLiteUserRepo(db.Conn),
		posts:    NewSQLitePostRepo(db.Conn),
		admires:  NewSQLiteAdmireRepo(db.Conn),
		comments: NewSQLiteCommentRepo(db.Conn),
		follows:  NewSQLiteFollowRepo(db.Conn),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, PasswordHash: "x"}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func (f *fixture) post(t *testing.T, author string) *models.Post {
	t.Helper()
	p := &models.Post{AuthorID: author, Caption: "sunset"}
	if err := f.posts.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestUserUniqueUsername(t *testing.T) {
	f := newFixture(t)
	f.user(t, "ada")

	err := f.users.Create(context.Background(), &models.User{Username: "ADA", PasswordHash: "x"})
	assert.Equal(t, true, errors.Is(err, pkg.ErrAlreadyExists))

	_, err = f.users.GetByID(context.Background(), "missing")
	assert.Equal(t, true, errors.Is(err, pkg.ErrNotFound))
}

func TestAdmireUniquePerPair(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := f.user(t, "ada")
	post := f.post(t, ada.ID)

	a := &models.Admire{PostID: post.ID, UserID: ada.ID}
	assert.Equal(t, nil, f.admires.Create(ctx, a))
	assert.Equal(t, "ada", a.Username)
	assert.NotEqual(t, "", a.ID)

	err := f.admires.Create(ctx, &models.Admire{PostID: post.ID, UserID: ada.ID})
	assert.Equal(t, true, errors.Is(err, pkg.ErrAlreadyExists))

	got, err := f.posts.GetByID(ctx, post.ID, ada.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, got.AdmireCount)
	assert.Equal(t, a.ID, got.ViewerAdmire.ID)

	deleted, err := f.admires.DeleteByPair(ctx, post.ID, ada.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, a.ID, deleted.ID)

	_, err = f.admires.DeleteByPair(ctx, post.ID, ada.ID)
	assert.Equal(t, true, errors.Is(err, pkg.ErrNotFound))
}

func TestAdmireOnMissingPost(t *testing.T) {
	f := newFixture(t)
	ada := f.user(t, "ada")

	err := f.admires.Create(context.Background(), &models.Admire{PostID: "nope", UserID: ada.ID})
	assert.Equal(t, true, errors.Is(err, pkg.ErrNotFound))
}

func TestListAdmiresPagesWithCursor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.user(t, "author")
	post := f.post(t, author.ID)
	for _, name := range []string{"u1", "u2", "u3"} {
		u := f.user(t, name)
		if err := f.admires.Create(ctx, &models.Admire{PostID: post.ID, UserID: u.ID}); err != nil {
			t.Fatal(err)
		}
	}

	first, err := f.admires.ListByPost(ctx, post.ID, models.PageRequest{Limit: 2})
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(first.Items))
	assert.Equal(t, true, first.HasOlder)

	oldest := first.Items[0]
	cursor := &models.Cursor{CreatedAt: oldest.CreatedAt, ID: oldest.ID}
	second, err := f.admires.ListByPost(ctx, post.ID, models.PageRequest{Limit: 2, Before: cursor})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(second.Items))
	assert.Equal(t, false, second.HasOlder)

	seen := map[string]bool{}
	for _, a := range append(first.Items, second.Items...) {
		seen[a.ID] = true
	}
	assert.Equal(t, 3, len(seen))

	n, _ := f.admires.CountByPost(ctx, post.ID)
	assert.Equal(t, 3, n)
}

func TestFollowConstraints(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := f.user(t, "ada")
	bob := f.user(t, "bob")

	follow := &models.Follow{FollowerID: ada.ID, FolloweeID: bob.ID}
	assert.Equal(t, nil, f.follows.Create(ctx, follow))
	assert.Equal(t, "ada", follow.Username)

	err := f.follows.Create(ctx, &models.Follow{FollowerID: ada.ID, FolloweeID: bob.ID})
	assert.Equal(t, true, errors.Is(err, pkg.ErrAlreadyExists))

	err = f.follows.Create(ctx, &models.Follow{FollowerID: ada.ID, FolloweeID: ada.ID})
	assert.Equal(t, true, errors.Is(err, pkg.ErrBadRequest))

	profile, err := f.users.GetProfile(ctx, bob.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, profile.FollowerCount)

	ids, _ := f.follows.FollowingIDs(ctx, ada.ID)
	assert.Equal(t, []string{bob.ID}, ids)

	page, _ := f.follows.ListFollowers(ctx, bob.ID, models.PageRequest{})
	assert.Equal(t, 1, len(page.Items))

	_, err = f.follows.DeleteByPair(ctx, ada.ID, bob.ID)
	assert.Equal(t, nil, err)
	n, _ := f.follows.CountFollowers(ctx, bob.ID)
	assert.Equal(t, 0, n)
}

func TestCommentsListed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ada := f.user(t, "ada")
	post := f.post(t, ada.ID)

	c := &models.Comment{PostID: post.ID, UserID: ada.ID, Body: "nice"}
	assert.Equal(t, nil, f.comments.Create(ctx, c))

	page, err := f.comments.ListByPost(ctx, post.ID, models.PageRequest{Limit: 5})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(page.Items))
	assert.Equal(t, "nice", page.Items[0].Body)
	assert.Equal(t, "ada", page.Items[0].Username)
}
