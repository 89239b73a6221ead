package service

import (
	"context"
	"testing"

	"github.com/qrattend/attendance_service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users  map[int64]*model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*model.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetAll(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, user := range f.users {
		out = append(out, user)
	}
	return out, nil
}

func (f *fakeUserStore) GetByGroupID(ctx context.Context, groupID int64) ([]*model.User, error) {
	var out []*model.User
	for _, user := range f.users {
		if user.GroupID != nil && *user.GroupID == groupID {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	f.users[id].PasswordHash = passwordHash
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func TestRegister(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zap.NewNop())

	user := &model.User{Username: "ivanov", Role: model.RoleStudent, FirstName: "Иван", LastName: "Иванов"}
	require.NoError(t, svc.Register(context.Background(), user, "secret123"))

	saved := store.users[user.ID]
	require.NotNil(t, saved)
	assert.NotEqual(t, "secret123", saved.PasswordHash, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secret123")))
}

func TestRegisterUsernameTaken(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zap.NewNop())

	first := &model.User{Username: "ivanov", Role: model.RoleStudent}
	require.NoError(t, svc.Register(context.Background(), first, "secret123"))

	second := &model.User{Username: "ivanov", Role: model.RoleStudent}
	err := svc.Register(context.Background(), second, "secret456")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zap.NewNop())

	user := &model.User{Username: "ivanov", Role: model.RoleStudent}
	require.NoError(t, svc.Register(context.Background(), user, "secret123"))

	got, err := svc.Authenticate(context.Background(), "ivanov", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "ivanov", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zap.NewNop())

	user := &model.User{Username: "ivanov", Role: model.RoleStudent}
	require.NoError(t, svc.Register(context.Background(), user, "secret123"))
	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "newsecret"))

	_, err := svc.Authenticate(context.Background(), "ivanov", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ivanov", "newsecret")
	assert.NoError(t, err)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zap.NewNop())

	err := svc.Update(context.Background(), &model.User{ID: 42, Username: "ghost"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
