package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"catalogapi/internal/storage"
)

var ErrDuplicateUserEmail = errors.New("a user with that email already exists")

// UserInput is the platform-user create/update payload. Password is required
// on create and optional on update (empty keeps the current hash).
type UserInput struct {
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Role      model.Role `json:"role" validate:"required,oneof=administrator editor reader"`
	Active    *bool      `json:"active"`
	Password  string     `json:"password"`
}

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// UserService manages platform accounts.
type UserService interface {
	Create(ctx context.Context, in UserInput) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, limit, offset int) (*UserListResult, error)
	Update(ctx context.Context, id string, in UserInput) (*model.User, error)
	Delete(ctx context.Context, id string) error

	// UploadPhoto stores a profile photo under the private photos bucket.
	UploadPhoto(ctx context.Context, id string, r io.Reader, filename, contentType string, size int64) (*model.User, error)

	// PhotoURL returns a presigned URL for the stored profile photo.
	PhotoURL(ctx context.Context, id string) (string, error)
}

type userService struct {
	users  repository.UserRepository
	store  storage.Storage
	bucket string
	presignTTL time.Duration
}

// NewUserService constructs a UserService.
func NewUserService(users repository.UserRepository, store storage.Storage, bucket string, presignTTL time.Duration) UserService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &userService{users: users, store: store, bucket: bucket, presignTTL: presignTTL}
}

func (s *userService) checkEmail(ctx context.Context, email, excludeID string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return ErrDuplicateUserEmail
	}
	return nil
}

func (s *userService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if len(in.Password) < 8 {
		return nil, &ValidationError{Field: "Password", Message: "failed min validation"}
	}
	if err := s.checkEmail(ctx, in.Email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	u := &model.User{
		ID:           uuid.New().String(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         in.Role,
		Active:       active,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.users.Create(ctx, u)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateUserEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) (*UserListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.users.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *userService) Update(ctx context.Context, id string, in UserInput) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if in.Password != "" && len(in.Password) < 8 {
		return nil, &ValidationError{Field: "Password", Message: "failed min validation"}
	}
	if err := s.checkEmail(ctx, in.Email, id); err != nil {
		return nil, err
	}

	current.FirstName = in.FirstName
	current.LastName = in.LastName
	current.Email = in.Email
	current.Role = in.Role
	if in.Active != nil {
		current.Active = *in.Active
	}
	current.PasswordHash = ""
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		current.PasswordHash = hash
	}

	stored, err := s.users.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return stored, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if u.PhotoPath != "" {
		if err := s.store.Delete(ctx, s.bucket, u.PhotoPath); err != nil {
			return fmt.Errorf("delete photo: %w", err)
		}
	}
	return s.users.Delete(ctx, id)
}

func (s *userService) UploadPhoto(ctx context.Context, id string, r io.Reader, filename, contentType string, size int64) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	key := id + "/" + uuid.New().String() + filepath.Ext(filename)
	if _, err := s.store.Put(ctx, s.bucket, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	if err := s.users.SetPhotoPath(ctx, id, key); err != nil {
		if delErr := s.store.Delete(ctx, s.bucket, key); delErr != nil {
			return nil, fmt.Errorf("record photo failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("record photo failed: %w", err)
	}
	if u.PhotoPath != "" && u.PhotoPath != key {
		_ = s.store.Delete(ctx, s.bucket, u.PhotoPath)
	}
	u.PhotoPath = key
	return u, nil
}

func (s *userService) PhotoURL(ctx context.Context, id string) (string, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if u.PhotoPath == "" {
		return "", ErrNotFound
	}
	return s.store.PresignGet(ctx, s.bucket, u.PhotoPath, s.presignTTL)
}
