package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lost_and_found_tool/blob"
	"lost_and_found_tool/db"
	"lost_and_found_tool/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService covers registration and the small user-management surface.
// Session issuance lives at the controller layer next to the cookie.
type UserService struct {
	repo  *db.Repo
	blobs blob.Store
	log   *zap.SugaredLogger

	// emails promoted to admin at registration, lowercased
	adminEmails []string
}

func NewUserService(repo *db.Repo, blobs blob.Store, log *zap.SugaredLogger, adminEmails []string) *UserService {
	lowered := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		if t := strings.ToLower(strings.TrimSpace(e)); t != "" {
			lowered = append(lowered, t)
		}
	}
	return &UserService{repo: repo, blobs: blobs, log: log, adminEmails: lowered}
}

type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Avatar     []byte
	AvatarName string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return nil, validationf("name is required")
	case strings.TrimSpace(in.Email) == "":
		return nil, validationf("email is required")
	case strings.TrimSpace(in.Phone) == "":
		return nil, validationf("phone is required")
	case len(in.Password) < 8:
		return nil, validationf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := models.RoleUser
	for _, admin := range s.adminEmails {
		if email == admin {
			role = models.RoleAdmin
		}
	}

	var avatarURL string
	if len(in.Avatar) > 0 {
		avatarURL, err = s.blobs.Put(ctx, in.AvatarName, in.Avatar)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpload, err)
		}
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         role,
		AvatarURL:    avatarURL,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, db.ErrDuplicateUser) {
			return nil, fmt.Errorf("%w: email or phone already registered", ErrValidation)
		}
		return nil, err
	}
	s.log.Infow("user registered", "user", u.ID, "role", u.Role)
	return u, nil
}

// Authenticate checks email+password and returns the user on success.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

type UpdateAccountInput struct {
	Name  *string
	Email *string
	Phone *string
}

// UpdateAccount lets a user edit their own contact details. Role and
// password are not reachable from here.
func (s *UserService) UpdateAccount(ctx context.Context, actor Principal, in UpdateAccountInput) (*models.User, error) {
	updates := map[string]any{}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationf("name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, validationf("email cannot be empty")
		}
		updates["email"] = email
	}
	if in.Phone != nil {
		if strings.TrimSpace(*in.Phone) == "" {
			return nil, validationf("phone cannot be empty")
		}
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}

	u, err := s.repo.UpdateUserFields(ctx, actor.ID, updates)
	if err != nil {
		if errors.Is(err, db.ErrDuplicateUser) {
			return nil, fmt.Errorf("%w: email or phone already registered", ErrValidation)
		}
		return nil, notFoundOr(err)
	}
	s.log.Infow("account updated", "user", actor.ID)
	return u, nil
}

// UpdateAvatar replaces the avatar image. The previous file is cleaned up
// best-effort after the new URL is stored.
func (s *UserService) UpdateAvatar(ctx context.Context, actor Principal, avatar []byte, avatarName string) (*models.User, error) {
	if len(avatar) == 0 {
		return nil, validationf("avatar image is required")
	}
	old, err := s.repo.FindUserByID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	url, err := s.blobs.Put(ctx, avatarName, avatar)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	u, err := s.repo.UpdateUserFields(ctx, actor.ID, map[string]any{"avatar_url": url})
	if err != nil {
		return nil, notFoundOr(err)
	}
	if old.AvatarURL != "" {
		if err := s.blobs.Remove(ctx, old.AvatarURL); err != nil {
			s.log.Warnw("avatar cleanup failed", "user", actor.ID, "url", old.AvatarURL, "error", err)
		}
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, actor Principal, q string, page, size int) (db.ListUsersResult, error) {
	if !actor.IsAdmin() {
		return db.ListUsersResult{}, ErrForbidden
	}
	return s.repo.ListUsers(ctx, q, page, size)
}

// DeleteUser is admin-only; admins cannot delete themselves or other admins.
func (s *UserService) DeleteUser(ctx context.Context, actor Principal, id string) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if actor.ID == id {
		return validationf("cannot delete yourself")
	}
	target, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	if target.Role == models.RoleAdmin {
		return ErrForbidden
	}
	if err := s.repo.DeleteUserByID(ctx, id); err != nil {
		return err
	}
	s.log.Infow("user deleted", "user", id, "by", actor.ID)
	return nil
}
