package services

import (
	"context"
	"strings"
	"testing"

	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/isdelr/devblogs-be/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*UserService, *EventService) {
	t.Helper()
	db := testutil.NewDB(t)
	events := NewEventService(db)
	return NewUserService(db, events, bcrypt.MinCost), events
}

func TestCreateUser(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, " A ", "A@X.com", "abcdef", "")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "A", user.Name)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.DefaultProfileImage, user.ProfileImage)
	assert.Empty(t, user.PasswordHash)
}

func TestCreateUser_PasswordOverBcryptLimit(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "A", "a@x.com", strings.Repeat("é", 40), "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.EnsureAdmin(ctx, "Root", "root@x.com", strings.Repeat("é", 40))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.GetUserByEmail(ctx, "a@x.com")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "A", "a@x.com", "abcdef", "")
	require.NoError(t, err)

	for _, email := range []string{"a@x.com", "A@X.COM", "  a@x.com "} {
		_, err = svc.CreateUser(ctx, "B", email, "ghijkl", "")
		assert.True(t, apperr.Is(err, apperr.KindConflict), "email %q: %v", email, err)
	}

	users, err := svc.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthenticateUser(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "A", "a@x.com", "abcdef", "")
	require.NoError(t, err)

	user, err := svc.AuthenticateUser(ctx, "A@x.com", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.AuthenticateUser(ctx, "a@x.com", "wrong-password")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = svc.AuthenticateUser(ctx, "nobody@x.com", "abcdef")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	a, err := svc.CreateUser(ctx, "A", "a@x.com", "abcdef", "")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "B", "b@x.com", "abcdef", "")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, a.ID, models.ProfileUpdate{Bio: testutil.Ptr("hello")})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "A", updated.Name, "untouched fields are kept")

	_, err = svc.UpdateProfile(ctx, a.ID, models.ProfileUpdate{Email: testutil.Ptr("B@x.com")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.UpdateProfile(ctx, "missing", models.ProfileUpdate{Bio: testutil.Ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateRole(t *testing.T) {
	svc, events := newUserService(t)
	ctx := context.Background()

	a, err := svc.CreateUser(ctx, "A", "a@x.com", "abcdef", "")
	require.NoError(t, err)

	updated, err := svc.UpdateRole(ctx, "root", a.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	_, err = svc.UpdateRole(ctx, "root", a.ID, models.Role("owner"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.UpdateRole(ctx, "root", "missing", models.RoleUser)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	recent, err := events.GetRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.NotEmpty(t, recent)
	assert.Equal(t, "admin.role.update", recent[0].Type)
	require.NotNil(t, recent[0].ActorID)
	assert.Equal(t, "root", *recent[0].ActorID)
}

func TestDeleteUser_RemovesOwnedResources(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserService(db, nil, bcrypt.MinCost)
	blogs := NewBlogService(db, nil)
	ctx := context.Background()

	a, err := users.CreateUser(ctx, "A", "a@x.com", "abcdef", "")
	require.NoError(t, err)
	blog, err := blogs.CreateBlog(ctx, models.Blog{UserID: a.ID, PublishedBy: a.Name, Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, a.ID, a.ID))

	_, err = users.GetUserByID(ctx, a.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = blogs.GetBlogByID(ctx, blog.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = users.DeleteUser(ctx, a.ID, a.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestEnsureAdmin(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "Root", "root@x.com", "rootpass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "Root", "root@x.com", "rootpass")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := svc.GetUserByEmail(ctx, "root@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}
