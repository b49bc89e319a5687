package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
)

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) CountAdmins(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == model.RoleAdmin {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) SetLastSeenAnnouncements(_ context.Context, id string, seenAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	u.LastSeenAnnouncements = &seenAt
	return nil
}

const testJWTSecret = "test-secret-do-not-use"

func registerReq(username string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse",
		Township: "Hlaing",
	}
}

func TestAuthService_Bootstrap(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testJWTSecret, time.Hour)
	ctx := context.Background()

	hasAdmin, err := svc.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)

	// No signup before the first admin exists.
	_, err = svc.Register(ctx, registerReq("early-bird"))
	assert.ErrorIs(t, err, ErrBootstrapRequired)

	resp, err := svc.CreateAdmin(ctx, registerReq("owner"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.Token)

	// Bootstrap is one-shot.
	_, err = svc.CreateAdmin(ctx, registerReq("second-owner"))
	assert.ErrorIs(t, err, ErrAdminExists)

	resp, err = svc.Register(ctx, registerReq("customer"))
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, resp.User.Role)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testJWTSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, registerReq("owner"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("customer"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerReq("customer"))
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testJWTSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, registerReq("owner"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "owner", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "owner", resp.User.Username)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "owner", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "ghost", Password: "correct horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_TokenClaims(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	resp, err := svc.CreateAdmin(context.Background(), registerReq("owner"))
	require.NoError(t, err)

	token, err := jwt.Parse(resp.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, resp.User.ID, claims["sub"])
	assert.Equal(t, "owner", claims["name"])
	assert.Equal(t, model.RoleAdmin, claims["role"])
}
