package repositories

import (
	"context"
	"fmt"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetUser retrieves a user by their ID.
func (r *GORMStorage) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, lookupError("user", fmt.Sprintf("get user %s", id), err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their username.
func (r *GORMStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, lookupError("user", fmt.Sprintf("get user by username %s", username), err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their email.
func (r *GORMStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, lookupError("user", fmt.Sprintf("get user by email %s", email), err)
	}
	return &user, nil
}

// ListUsers returns every user, oldest first.
func (r *GORMStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, translateError("list users", err)
	}
	return users, nil
}

// HasAdmin reports whether at least one admin account exists.
func (r *GORMStorage) HasAdmin(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return false, translateError("count admins", err)
	}
	return count > 0, nil
}

// CreateUser hashes the password and inserts the user.
func (r *GORMStorage) CreateUser(ctx context.Context, user *models.User) error {
	hashed, err := r.HashPassword(user.Password)
	if err != nil {
		return apperror.NewFault("create user", err)
	}

	row := *user
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Role == "" {
		row.Role = models.RoleUser
	}
	row.Password = hashed

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.User{}, "username already exists", "username = ?", row.Username); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.User{}, "email already exists", "email = ?", row.Email); err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return translateError("create user", err)
	}

	*user = row
	return nil
}

// UpdateUser applies patch to the user, re-hashing a new password.
func (r *GORMStorage) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Password != nil {
		hashed, err := r.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperror.NewFault("update user", err)
		}
		patch.Password = &hashed
	}

	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return lookupError("user", "update user", err)
		}
		if patch.Email != nil && *patch.Email != user.Email {
			if err := ensureUnique(tx, &models.User{}, "email already exists", "email = ? AND id <> ?", *patch.Email, id); err != nil {
				return err
			}
		}
		patch.Apply(&user)
		user.UpdatedAt = time.Now()
		return tx.Model(&user).Select("email", "password", "role", "is_active", "updated_at").Updates(&user).Error
	})
	if err != nil {
		return nil, translateError(fmt.Sprintf("update user %s", id), err)
	}
	return &user, nil
}

// DeleteUser removes the user. Missing users are not an error.
func (r *GORMStorage) DeleteUser(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return translateError(fmt.Sprintf("delete user %s", id), err)
	}
	return nil
}
