package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/repositories"
	"maninews/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"
)

const testJWTSecret = "test_jwt_secret"

func activeUser() *models.User {
	return &models.User{
		ID:       "user-123",
		Username: "testuser",
		Email:    "test@example.com",
		Password: "hashed",
		Role:     models.RoleUser,
		IsActive: true,
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserStore), testJWTSecret, time.Hour)

	token, err := authService.GenerateToken("user-123")
	require.NoError(t, err)

	userID, err := authService.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Only the user id is encoded, under the userId claim.
	parsed, _, err := new(jwt.Parser).ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-123", claims["userId"])
	assert.Contains(t, claims, "exp")
	assert.NotContains(t, claims, "username")

	// Test wrong secret
	other := services.NewAuthService(new(MockUserStore), "another_secret", time.Hour)
	_, err = other.VerifyToken(token)
	assert.True(t, apperror.KindOf(err) == apperror.Forbidden)

	// Test expired token
	expired := services.NewAuthService(new(MockUserStore), testJWTSecret, -time.Hour)
	expiredToken, err := expired.GenerateToken("user-123")
	require.NoError(t, err)
	_, err = authService.VerifyToken(expiredToken)
	assert.EqualError(t, err, "Invalid or expired token")

	// Test malformed and unsigned tokens
	for _, bad := range []string{"", "invalid.token.string", "a.b"} {
		_, err = authService.VerifyToken(bad)
		assert.Error(t, err, "token %q", bad)
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, services.Claims{UserID: "user-123"})
	unsignedString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = authService.VerifyToken(unsignedString)
	assert.Error(t, err)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserStore)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	token, err := authService.GenerateToken("user-123")
	require.NoError(t, err)

	// Test active user
	mockRepo.On("GetUser", ctx, "user-123").Return(activeUser(), nil).Once()
	identity, err := authService.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: "user-123", Username: "testuser", Email: "test@example.com", Role: models.RoleUser}, *identity)

	// Test deactivated user
	inactive := activeUser()
	inactive.IsActive = false
	mockRepo.On("GetUser", ctx, "user-123").Return(inactive, nil).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	// Test deleted user
	mockRepo.On("GetUser", ctx, "user-123").Return(nil, apperror.NewNotFound("user not found")).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.EqualError(t, err, "User not found or inactive")

	// Test storage failure
	mockRepo.On("GetUser", ctx, "user-123").Return(nil, apperror.NewFault("get user", errors.New("connection refused"))).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.True(t, apperror.IsFault(err))

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserStore)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	user := activeUser()

	// Test successful login
	mockRepo.On("GetUserByUsername", ctx, "testuser").Return(user, nil).Once()
	mockRepo.On("VerifyPassword", "password123", "hashed").Return(true).Once()
	result, err := authService.Login(ctx, models.LoginInput{Username: "testuser", Password: "password123"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, user.Identity(), result.User)
	userID, err := authService.VerifyToken(result.Token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Test wrong password
	mockRepo.On("GetUserByUsername", ctx, "testuser").Return(user, nil).Once()
	mockRepo.On("VerifyPassword", "wrongpassword", "hashed").Return(false).Once()
	_, err = authService.Login(ctx, models.LoginInput{Username: "testuser", Password: "wrongpassword"})
	assert.EqualError(t, err, "Invalid credentials")

	// Test unknown user, same failure as a wrong password
	mockRepo.On("GetUserByUsername", ctx, "nonexistentuser").Return(nil, apperror.NewNotFound("user not found")).Once()
	_, err = authService.Login(ctx, models.LoginInput{Username: "nonexistentuser", Password: "password123"})
	assert.EqualError(t, err, "Invalid credentials")
	assert.Equal(t, apperror.Unauthorized, apperror.KindOf(err))

	// Test inactive account with the right password
	inactive := activeUser()
	inactive.IsActive = false
	mockRepo.On("GetUserByUsername", ctx, "testuser").Return(inactive, nil).Once()
	mockRepo.On("VerifyPassword", "password123", "hashed").Return(true).Once()
	_, err = authService.Login(ctx, models.LoginInput{Username: "testuser", Password: "password123"})
	assert.EqualError(t, err, "Account is inactive")

	mockRepo.AssertExpectations(t)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserStore)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	input := models.RegisterInput{Username: "testuser", Email: "test@example.com", Password: "password123"}

	// Test first account becomes admin
	mockRepo.On("HasAdmin", ctx).Return(false, nil).Once()
	mockRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleAdmin && u.IsActive && u.Password == "password123"
	})).Return(nil).Once()
	user, err := authService.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// Test later accounts are regular users
	mockRepo.On("HasAdmin", ctx).Return(true, nil).Once()
	mockRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleUser
	})).Return(nil).Once()
	user, err = authService.Register(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	// Test duplicate email
	mockRepo.On("HasAdmin", ctx).Return(true, nil).Once()
	mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(apperror.NewConflict("email already exists", nil)).Once()
	_, err = authService.Register(ctx, input)
	assert.True(t, apperror.IsConflict(err))

	mockRepo.AssertExpectations(t)
}

func TestAuthService_ConcurrentFirstRegistrations(t *testing.T) {
	store := repositories.NewMockStorage(repositories.Options{PasswordCost: bcrypt.MinCost, Locale: language.English})
	authService := services.NewAuthService(store, testJWTSecret, time.Hour)

	const registrations = 8
	var wg sync.WaitGroup
	for i := 0; i < registrations; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := authService.Register(context.Background(), models.RegisterInput{
				Username: fmt.Sprintf("user%d", i),
				Email:    fmt.Sprintf("user%d@example.com", i),
				Password: "password123",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	users, err := store.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, registrations)
	admins := 0
	for _, u := range users {
		if u.Role == models.RoleAdmin {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}

func TestAuthService_ProvisionAdmin(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMockStorage(repositories.Options{PasswordCost: bcrypt.MinCost, Locale: language.English})
	authService := services.NewAuthService(store, testJWTSecret, time.Hour)

	created, err := authService.ProvisionAdmin(ctx, "editor", "editor@example.com", "changeme123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = authService.ProvisionAdmin(ctx, "editor2", "editor2@example.com", "changeme123")
	require.NoError(t, err)
	assert.False(t, created)

	result, err := authService.Login(ctx, models.LoginInput{Username: "editor", Password: "changeme123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, result.User.Role)

	// Registration after provisioning only yields regular users.
	user, err := authService.Register(ctx, models.RegisterInput{Username: "reader", Email: "reader@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestAuthService_UpdateAndDeleteUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserStore)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour)
	admin := models.Identity{ID: "admin-1", Username: "admin", Role: models.RoleAdmin}

	demote := models.RoleUser
	_, err := authService.UpdateUser(ctx, admin, "admin-1", models.UserPatch{Role: &demote})
	assert.True(t, apperror.IsValidation(err))

	inactive := false
	_, err = authService.UpdateUser(ctx, admin, "admin-1", models.UserPatch{IsActive: &inactive})
	assert.True(t, apperror.IsValidation(err))

	_, err = authService.UpdateUser(ctx, admin, "user-123", models.UserPatch{})
	assert.True(t, apperror.IsValidation(err))

	err = authService.DeleteUser(ctx, admin, "admin-1")
	assert.True(t, apperror.IsValidation(err))

	patch := models.UserPatch{IsActive: &inactive}
	updated := activeUser()
	updated.IsActive = false
	mockRepo.On("UpdateUser", ctx, "user-123", patch).Return(updated, nil).Once()
	user, err := authService.UpdateUser(ctx, admin, "user-123", patch)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	mockRepo.On("DeleteUser", ctx, "user-123").Return(nil).Once()
	assert.NoError(t, authService.DeleteUser(ctx, admin, "user-123"))

	mockRepo.AssertExpectations(t)
}
