package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// UserStore is the slice of the storage engine the auth service needs.
type UserStore interface {
	repositories.UserRepository
	repositories.PasswordHasher
}

// Claims are the JWT claims issued at login. Only the user id is encoded.
type Claims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

var (
	errInvalidToken       = apperror.NewForbidden("Invalid or expired token")
	errUserUnavailable    = apperror.NewForbidden("User not found or inactive")
	errInvalidCredentials = apperror.NewUnauthorized("Invalid credentials")
	errAccountInactive    = apperror.NewUnauthorized("Account is inactive")
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	users      UserStore
	jwtSecret  []byte
	tokenDurat time.Duration

	// registerMu serializes the "any admin yet?" check with the insert so
	// two concurrent first registrations cannot both become admin.
	registerMu sync.Mutex
}

// NewAuthService creates a new AuthService. Tokens are valid for tokenTTL.
func NewAuthService(users UserStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
	}
}

// GenerateToken issues a signed token for userID.
func (s *AuthService) GenerateToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(s.tokenDurat).Unix(),
			IssuedAt:  now.Unix(),
		},
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken returns the user id carried by tokenString. Any expired,
// malformed or foreign token yields the same Forbidden error.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", errInvalidToken
	}
	return claims.UserID, nil
}

// Authenticate resolves a bearer token to the identity of an active user.
// The user is loaded on every call so deactivation takes effect at once.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.Identity, error) {
	userID, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUser(ctx, userID)
	if apperror.IsNotFound(err) {
		return nil, errUserUnavailable
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errUserUnavailable
	}

	identity := user.Identity()
	return &identity, nil
}

// Login checks the credentials and issues a token. Unknown usernames and
// wrong passwords fail with the same error.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (*models.LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, input.Username)
	if apperror.IsNotFound(err) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !s.users.VerifyPassword(input.Password, user.Password) {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, errAccountInactive
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, apperror.NewFault("login", err)
	}

	log.Printf("User %s logged in", user.Username)
	return &models.LoginResult{Success: true, Token: token, User: user.Identity()}, nil
}

// Register creates an active account. The account becomes admin when no
// admin exists yet, otherwise a regular user.
func (s *AuthService) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	hasAdmin, err := s.users.HasAdmin(ctx)
	if err != nil {
		return nil, err
	}

	role := models.RoleUser
	if !hasAdmin {
		role = models.RoleAdmin
	}
	return s.createUser(ctx, input.Username, input.Email, input.Password, role)
}

// ProvisionAdmin creates an admin account unless one already exists. It
// reports whether an account was created.
func (s *AuthService) ProvisionAdmin(ctx context.Context, username, email, password string) (bool, error) {
	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	hasAdmin, err := s.users.HasAdmin(ctx)
	if err != nil {
		return false, err
	}
	if hasAdmin {
		return false, nil
	}

	if _, err := s.createUser(ctx, username, email, password, models.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	user := &models.User{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
		IsActive: true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("Created user %s with role %s", user.Username, user.Role)
	return user, nil
}

// ListUsers returns every account.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

// UpdateUser applies patch on behalf of actor. Admins cannot demote or
// deactivate themselves.
func (s *AuthService) UpdateUser(ctx context.Context, actor models.Identity, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Empty() {
		return nil, apperror.NewValidation("no fields to update")
	}
	if actor.ID == id {
		if patch.Role != nil && *patch.Role != actor.Role {
			return nil, apperror.NewValidation("you cannot change your own role")
		}
		if patch.IsActive != nil && !*patch.IsActive {
			return nil, apperror.NewValidation("you cannot deactivate your own account")
		}
	}

	user, err := s.users.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	log.Printf("User %s updated by %s", user.Username, actor.Username)
	return user, nil
}

// DeleteUser removes an account on behalf of actor. Deleting a missing
// account succeeds; deleting one's own account does not.
func (s *AuthService) DeleteUser(ctx context.Context, actor models.Identity, id string) error {
	if actor.ID == id {
		return apperror.NewValidation("you cannot delete your own account")
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	log.Printf("User %s deleted by %s", id, actor.Username)
	return nil
}
