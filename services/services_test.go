package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/gallery/database"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/pkg"
	"github.com/akinalp/gallery/pkg/cache"
	"github.com/akinalp/gallery/repository"
	"github.com/akinalp/gallery/ws"
)

type published struct {
	userID string // boşsa BroadcastToAll
	event  ws.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *fakePublisher) BroadcastToAll(event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{event: event})
}

func (p *fakePublisher) BroadcastToUser(userID string, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{userID: userID, event: event})
}

func (p *fakePublisher) ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event.Op)
	}
	return out
}

type fixture struct {
	auth     AuthService
	posts    PostService
	admires  AdmireService
	comments CommentService
	follows  FollowService
	pub      *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.MemoryPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	known := cache.New[string, struct{}](time.Minute, time.Minute)
	t.Cleanup(func() {
		known.Close()
		db.Close()
	})

	users := repository.NewSQLiteUserRepo(db.Conn)
	follows := repository.NewSQLiteFollowRepo(db.Conn)
	pub := &fakePublisher{}
	posts := NewPostService(repository.NewSQLitePostRepo(db.Conn), users, known)

	return &fixture{
		auth:     NewAuthService(users, follows, "test-secret", 60, bcrypt.MinCost),
		posts:    posts,
		admires:  NewAdmireService(repository.NewSQLiteAdmireRepo(db.Conn), posts, pub),
		comments: NewCommentService(repository.NewSQLiteCommentRepo(db.Conn), posts, pub),
		follows:  NewFollowService(db.Conn, follows, users, pub),
		pub:      pub,
	}
}

func (f *fixture) register(t *testing.T, username string) models.User {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), &models.CreateUserRequest{
		Username: username,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return resp.User
}

func TestRegisterLoginAndValidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.register(t, "ada")
	assert.Equal(t, "", user.PasswordHash)

	_, err := f.auth.Register(ctx, &models.CreateUserRequest{Username: "ADA", Password: "password123"})
	assert.Equal(t, true, errors.Is(err, pkg.ErrAlreadyExists))

	_, err = f.auth.Login(ctx, &models.LoginRequest{Username: "ada", Password: "wrong-password"})
	assert.Equal(t, true, errors.Is(err, pkg.ErrUnauthorized))

	_, err = f.auth.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "password123"})
	assert.Equal(t, true, errors.Is(err, pkg.ErrUnauthorized))

	resp, err := f.auth.Login(ctx, &models.LoginRequest{Username: "ada", Password: "password123"})
	assert.Equal(t, nil, err)

	claims, err := f.auth.ValidateAccessToken(resp.AccessToken)
	assert.Equal(t, nil, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)

	_, err = f.auth.ValidateAccessToken(resp.AccessToken + "x")
	assert.Equal(t, true, errors.Is(err, pkg.ErrUnauthorized))
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), &models.CreateUserRequest{Username: "a", Password: "password123"})
	assert.Equal(t, true, errors.Is(err, pkg.ErrBadRequest))
}

func TestAdmireVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "author")
	fan := f.register(t, "fan")

	post, err := f.posts.Create(ctx, author.ID, &models.CreatePostRequest{Caption: "sunset"})
	assert.Equal(t, nil, err)

	p, err := f.admires.Admire(ctx, post.ID, fan.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameAdmirePost, p.Typename)
	assert.Equal(t, "fan", p.Admire.Username)

	p, err = f.admires.Admire(ctx, post.ID, fan.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameAdmireExists, p.Typename)

	got, err := f.posts.Get(ctx, post.ID, fan.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, got.AdmireCount)
	assert.NotEqual(t, nil, got.ViewerAdmire)

	p, err = f.admires.Unadmire(ctx, post.ID, fan.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameUnadmirePost, p.Typename)
	assert.Equal(t, "fan", p.Admire.Username)

	p, err = f.admires.Unadmire(ctx, post.ID, fan.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameAdmireNotFound, p.Typename)

	assert.Equal(t, []string{ws.OpAdmireCreate, ws.OpAdmireDelete}, f.pub.ops())
}

func TestAdmireMissingPostIsAnError(t *testing.T) {
	f := newFixture(t)
	fan := f.register(t, "fan")

	_, err := f.admires.Admire(context.Background(), "missing", fan.ID)
	assert.Equal(t, true, errors.Is(err, pkg.ErrNotFound))

	_, err = f.admires.List(context.Background(), "missing", models.PageRequest{Limit: 5})
	assert.Equal(t, true, errors.Is(err, pkg.ErrNotFound))
}

func TestAdmireListPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "author")
	post, _ := f.posts.Create(ctx, author.ID, &models.CreatePostRequest{})

	for _, name := range []string{"fan_a", "fan_b", "fan_c"} {
		u := f.register(t, name)
		_, err := f.admires.Admire(ctx, post.ID, u.ID)
		assert.Equal(t, nil, err)
	}

	first, err := f.admires.List(ctx, post.ID, models.PageRequest{Limit: 2})
	assert.Equal(t, nil, err)
	assert.Equal(t, 3, first.PageInfo.Total)
	assert.Equal(t, 2, len(first.Edges))
	assert.Equal(t, true, first.PageInfo.HasPreviousPage)
	assert.NotEqual(t, "", first.PageInfo.StartCursor)

	cursor, err := models.DecodeCursor(first.PageInfo.StartCursor)
	assert.Equal(t, nil, err)
	rest, err := f.admires.List(ctx, post.ID, models.PageRequest{Limit: 2, Before: &cursor})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(rest.Edges))
	assert.Equal(t, false, rest.PageInfo.HasPreviousPage)

	seen := map[string]bool{}
	for _, a := range append(first.Edges, rest.Edges...) {
		seen[a.ID] = true
	}
	assert.Equal(t, 3, len(seen))
}

func TestCommentsCreateAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "author")
	post, _ := f.posts.Create(ctx, author.ID, &models.CreatePostRequest{})

	_, err := f.comments.Create(ctx, post.ID, author.ID, &models.CreateCommentRequest{Body: "   "})
	assert.Equal(t, true, errors.Is(err, pkg.ErrBadRequest))

	c, err := f.comments.Create(ctx, post.ID, author.ID, &models.CreateCommentRequest{Body: "first light"})
	assert.Equal(t, nil, err)
	assert.Equal(t, "author", c.Username)

	conn, err := f.comments.List(ctx, post.ID, models.PageRequest{Limit: 10})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, conn.PageInfo.Total)
	assert.Equal(t, "first light", conn.Edges[0].Body)
	assert.Equal(t, []string{ws.OpCommentCreate}, f.pub.ops())
}

func TestFollowVariantsAndMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	p, err := f.follows.Follow(ctx, a.ID, b.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameFollowUser, p.Typename)
	assert.Equal(t, "alice", p.Follow.Username)

	p, err = f.follows.Follow(ctx, a.ID, b.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameAlreadyFollowing, p.Typename)

	_, err = f.follows.Follow(ctx, a.ID, a.ID)
	assert.Equal(t, true, errors.Is(err, pkg.ErrBadRequest))

	me, err := f.auth.Me(ctx, a.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{b.ID}, me.Following)
	assert.Equal(t, 1, me.FollowingCount)

	followers, err := f.follows.ListFollowers(ctx, b.ID, models.PageRequest{Limit: 10})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, followers.PageInfo.Total)
	assert.Equal(t, a.ID, followers.Edges[0].FollowerID)

	p, err = f.follows.Unfollow(ctx, a.ID, b.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameUnfollowUser, p.Typename)

	p, err = f.follows.Unfollow(ctx, a.ID, b.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameNotFollowing, p.Typename)

	// Her kenar olayı iki uca gider.
	assert.Equal(t, []string{ws.OpFollowCreate, ws.OpFollowCreate, ws.OpFollowDelete, ws.OpFollowDelete}, f.pub.ops())
}

func TestBulkFollowIncludesExistingEdges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "alice")
	b := f.register(t, "bob")
	c := f.register(t, "carol")

	_, err := f.follows.Follow(ctx, a.ID, b.ID)
	assert.Equal(t, nil, err)

	p, err := f.follows.BulkFollow(ctx, a.ID, &models.BulkFollowRequest{UserIDs: []string{b.ID, c.ID, c.ID}})
	assert.Equal(t, nil, err)
	assert.Equal(t, models.TypenameFollowUsers, p.Typename)
	assert.Equal(t, 2, len(p.Follows))
	assert.Equal(t, b.ID, p.Follows[0].FolloweeID)
	assert.Equal(t, c.ID, p.Follows[1].FolloweeID)

	ids, err := f.follows.FollowingIDs(ctx, a.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(ids))
}

func TestBulkFollowRollsBackOnInvalidTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "alice")
	b := f.register(t, "bob")

	_, err := f.follows.BulkFollow(ctx, a.ID, &models.BulkFollowRequest{UserIDs: []string{b.ID, "ghost"}})
	assert.Equal(t, true, errors.Is(err, pkg.ErrNotFound))

	ids, err := f.follows.FollowingIDs(ctx, a.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(ids))
	assert.Equal(t, 0, len(f.pub.ops()))
}

func TestPostExistsUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.register(t, "author")

	post, err := f.posts.Create(ctx, author.ID, &models.CreatePostRequest{Caption: "x"})
	assert.Equal(t, nil, err)
	assert.Equal(t, nil, f.posts.Exists(ctx, post.ID))
	assert.Equal(t, true, errors.Is(f.posts.Exists(ctx, "nope"), pkg.ErrNotFound))

	list, err := f.posts.ListByAuthor(ctx, author.ID, models.PageRequest{Limit: 10})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, list.PageInfo.Total)
	assert.Equal(t, post.ID, list.Edges[0].ID)
}
