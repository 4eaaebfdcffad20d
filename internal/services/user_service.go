package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hoangtm/task-admin-api/internal/constants"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService handles the admin user management surface and profile updates.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListUsers returns a page of users with roles preloaded.
func (s *UserService) ListUsers(page, pageSize int) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetUser retrieves a single user with the role preloaded.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id, "Role", "Role.Permissions")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// AdminUpdateUserInput holds the fields an admin may change on an account.
type AdminUpdateUserInput struct {
	Email    *string
	RoleID   *uint64
	IsActive *bool
	Password *string
}

// AdminUpdateUser applies an admin-side update to an account.
func (s *UserService) AdminUpdateUser(id uint64, input AdminUpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if existing, err := s.userRepo.FindByEmail(email); err == nil && existing.ID != id {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = email
	}
	if input.RoleID != nil {
		user.RoleID = *input.RoleID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.GetUser(id)
}

// ProfileUpdateInput holds the self-service profile fields.
type ProfileUpdateInput struct {
	Bio             *string
	AvatarURL       *string
	Skills          *string
	SocialLinks     *string
	Preferences     *string
	TwoFactorMethod *models.TwoFactorMethod
}

// UpdateProfile applies a self-service update to the current user's profile.
func (s *UserService) UpdateProfile(id uint64, input ProfileUpdateInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Skills != nil {
		user.Skills = *input.Skills
	}
	if input.SocialLinks != nil {
		user.SocialLinks = *input.SocialLinks
	}
	if input.Preferences != nil {
		user.Preferences = *input.Preferences
	}
	if input.TwoFactorMethod != nil {
		switch *input.TwoFactorMethod {
		case models.TwoFactorNone, models.TwoFactorEmail:
			user.TwoFactorMethod = *input.TwoFactorMethod
		default:
			return nil, fmt.Errorf("unsupported two-factor method %q", *input.TwoFactorMethod)
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetUser(id)
}

// ChangePassword verifies the current password before setting a new one.
func (s *UserService) ChangePassword(id uint64, current, next string) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	if len(next) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
