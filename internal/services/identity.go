package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/localnerve/reserva/internal/models"
	"github.com/localnerve/reserva/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupUser creates an identity record. It does not log the user in;
// registration and authentication are separate transitions.
func SignupUser(db *gorm.DB, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", types.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username %q is already taken", types.ErrValidation, username)
		}
		return nil, err
	}

	return &user, nil
}

// AuthenticateUser checks credentials against the users table. Unknown
// usernames and bad passwords are indistinguishable to the caller.
func AuthenticateUser(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrUnauthenticated
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, types.ErrUnauthenticated
	}

	return &user, nil
}

// UpdateProfile changes the username and/or free-form profile
// attributes of the requesting principal.
func UpdateProfile(db *gorm.DB, principal types.Principal, username string, profile []byte) (*models.User, error) {
	if !principal.Authenticated {
		return nil, types.ErrUnauthenticated
	}
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", types.ErrValidation)
	}

	var user models.User
	if err := db.Where("id = ?", principal.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}

	user.Username = username
	if profile != nil {
		user.Profile = models.JSON{JSON: profile}
	}

	if err := db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username %q is already taken", types.ErrValidation, username)
		}
		return nil, err
	}

	return &user, nil
}

// DeleteAccount removes the principal's identity record together with
// every order and phone row it owns, in one transaction. The explicit
// child deletes back up the schema-level ON DELETE CASCADE for drivers
// where AutoMigrate could not install the constraint.
func DeleteAccount(db *gorm.DB, logger *log.Logger, principal types.Principal) error {
	if !principal.Authenticated {
		return types.ErrUnauthenticated
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", principal.UserID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.NumberPhone{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		logger.Printf("Account deletion failed for user %s: %v", principal.UserID, err)
	}

	return err
}
