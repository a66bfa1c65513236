package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/events"
	"backoffice/internal/model"
	"backoffice/pkg/util"
)

type fakeUserStore struct {
	users  map[int]*model.User
	nextID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int]*model.User{}, nextID: 1}
}

func (f *fakeUserStore) Insert(_ context.Context, u *model.User) error {
	u.ID = f.nextID
	f.nextID++
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) FindByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) List(_ context.Context) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) UpdatePasswordHash(_ context.Context, id int, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int) error {
	delete(f.users, id)
	return nil
}

func TestAdminService_CreateUser(t *testing.T) {
	store := newFakeUserStore()
	pub := &fakePublisher{}
	svc := NewAdminService(store, pub, zap.NewNop())

	u, err := svc.CreateUser(context.Background(), 1, "ops@example.com", "s3cret-pass", "Ops", "staff")
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash, "password must be stored hashed")
	assert.True(t, util.CheckPassword("s3cret-pass", u.PasswordHash))
	assert.Equal(t, []string{events.UserCreated}, pub.published)
}

func TestAdminService_CreateUser_DuplicateEmail(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAdminService(store, &fakePublisher{}, zap.NewNop())

	_, err := svc.CreateUser(context.Background(), 1, "ops@example.com", "s3cret-pass", "Ops", "staff")
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), 1, "ops@example.com", "other-pass1", "Ops2", "staff")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAdminService_ResetPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAdminService(store, &fakePublisher{}, zap.NewNop())

	u, err := svc.CreateUser(context.Background(), 1, "ops@example.com", "old-password", "Ops", "staff")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), u.ID, "new-password"))

	stored := store.users[u.ID]
	assert.False(t, util.CheckPassword("old-password", stored.PasswordHash))
	assert.True(t, util.CheckPassword("new-password", stored.PasswordHash))
}

func TestAdminService_ResetPassword_UnknownUser(t *testing.T) {
	svc := NewAdminService(newFakeUserStore(), &fakePublisher{}, zap.NewNop())
	err := svc.ResetPassword(context.Background(), 42, "whatever-pass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminService_DeleteUser(t *testing.T) {
	store := newFakeUserStore()
	pub := &fakePublisher{}
	svc := NewAdminService(store, pub, zap.NewNop())

	u, err := svc.CreateUser(context.Background(), 1, "ops@example.com", "s3cret-pass", "Ops", "staff")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), 1, u.ID))
	assert.Empty(t, store.users)
	assert.Contains(t, pub.published, events.UserDeleted)

	err = svc.DeleteUser(context.Background(), 1, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Login(t *testing.T) {
	store := newFakeUserStore()
	admin := NewAdminService(store, &fakePublisher{}, zap.NewNop())
	auth := NewAuthService(store, "test-secret")

	_, err := admin.CreateUser(context.Background(), 1, "ops@example.com", "s3cret-pass", "Ops", "admin")
	require.NoError(t, err)

	token, err := auth.Login(context.Background(), "ops@example.com", "s3cret-pass")
	require.NoError(t, err)

	userID, role, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 1, userID)
	assert.Equal(t, "admin", role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	store := newFakeUserStore()
	admin := NewAdminService(store, &fakePublisher{}, zap.NewNop())
	auth := NewAuthService(store, "test-secret")

	_, err := admin.CreateUser(context.Background(), 1, "ops@example.com", "s3cret-pass", "Ops", "staff")
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), "ops@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
