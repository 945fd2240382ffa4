package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/tutor_go_server/config"
	"github.com/qs3c/tutor_go_server/internal/model/dto"
	"github.com/qs3c/tutor_go_server/internal/repository"
	"github.com/qs3c/tutor_go_server/internal/testutil"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpireHours: 24,
		},
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	login, err := service.Login(&dto.LoginRequest{
		Email:    "new@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, "newuser", login.User.Username)
	assert.False(t, login.User.IsAdmin)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	_, err := service.Register(&dto.RegisterRequest{
		Username: "first",
		Email:    "dup@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "second",
		Email:    "dup@example.com",
		Password: "password123",
	})
	assert.Equal(t, ErrEmailExists, err)

	_, err = service.Register(&dto.RegisterRequest{
		Username: "first",
		Email:    "other@example.com",
		Password: "password123",
	})
	assert.Equal(t, ErrUsernameExists, err)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewAuthService(repository.NewUserRepository(db), testAuthConfig())

	_, err := service.Register(&dto.RegisterRequest{
		Username: "someone",
		Email:    "someone@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "someone@example.com",
		Password: "wrongpass",
	})
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestAuthService_GetProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	service := NewAuthService(repository.NewUserRepository(db), testAuthConfig())
	user := testutil.TestUser(t, db, testutil.WithAdmin())

	info, err := service.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, info.Username)
	assert.True(t, info.IsAdmin)

	_, err = service.GetProfile(99999)
	assert.Equal(t, ErrUserNotFound, err)
}
