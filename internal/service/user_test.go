package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
	repoMocks "catalogapi/internal/repository/mocks"
	storeMocks "catalogapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(users *repoMocks.MockUserRepository, store *storeMocks.MockStorage) UserService {
	return NewUserService(users, store, "fotos", 15*time.Minute)
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		store := new(storeMocks.MockStorage)

		users.On("FindByEmail", ctx, "ana@ugto.mx").Return(nil, sql.ErrNoRows)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.PasswordHash != "" && u.PasswordHash != "hunter2hunter2" &&
				auth.CheckPassword(u.PasswordHash, "hunter2hunter2")
		})).Return(&model.User{ID: "gen-id"}, nil)

		_, err := newUserService(users, store).Create(ctx, UserInput{
			FirstName: "Ana",
			LastName:  "Ruiz",
			Email:     "ana@ugto.mx",
			Role:      model.RoleEditor,
			Password:  "hunter2hunter2",
		})
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("rejects short password", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		store := new(storeMocks.MockStorage)

		_, err := newUserService(users, store).Create(ctx, UserInput{
			FirstName: "Ana",
			LastName:  "Ruiz",
			Email:     "ana@ugto.mx",
			Role:      model.RoleEditor,
			Password:  "short",
		})
		ve, ok := AsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "Password", ve.Field)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		store := new(storeMocks.MockStorage)
		users.On("FindByEmail", ctx, "ana@ugto.mx").
			Return(&model.User{ID: "existing"}, nil)

		_, err := newUserService(users, store).Create(ctx, UserInput{
			FirstName: "Ana",
			LastName:  "Ruiz",
			Email:     "ana@ugto.mx",
			Role:      model.RoleEditor,
			Password:  "hunter2hunter2",
		})
		assert.ErrorIs(t, err, ErrDuplicateUserEmail)
	})
}

func TestUserService_Update_EmptyPasswordKeepsHash(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	store := new(storeMocks.MockStorage)

	users.On("FindByID", ctx, "u1").
		Return(&model.User{ID: "u1", Email: "ana@ugto.mx", PasswordHash: "$2a$10$old"}, nil)
	users.On("FindByEmail", ctx, "ana@ugto.mx").
		Return(&model.User{ID: "u1"}, nil)
	// An empty hash tells the store to keep the current one.
	users.On("Update", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.PasswordHash == ""
	})).Return(&model.User{ID: "u1"}, nil)

	_, err := newUserService(users, store).Update(ctx, "u1", UserInput{
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     "ana@ugto.mx",
		Role:      model.RoleEditor,
	})
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	account := &model.User{
		ID:           "u1",
		Email:        "ana@ugto.mx",
		Role:         model.RoleEditor,
		Active:       true,
		PasswordHash: hash,
	}

	t.Run("happy path", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		users.On("FindByEmail", ctx, "ana@ugto.mx").Return(account, nil)

		sess, err := NewSessionService(users, issuer).Login(ctx, LoginInput{
			Email:    "ana@ugto.mx",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)
		require.NotEmpty(t, sess.Token)

		claims, err := issuer.Parse(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, string(model.RoleEditor), claims.Role)
		caps := auth.FromStrings(claims.Capabilities)
		assert.True(t, caps.Has(auth.CapBooksWrite))
		assert.False(t, caps.Has(auth.CapUsersManage))
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		users.On("FindByEmail", ctx, "ana@ugto.mx").Return(account, nil)

		_, err := NewSessionService(users, issuer).Login(ctx, LoginInput{
			Email:    "ana@ugto.mx",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unknown email looks like bad credentials", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		users.On("FindByEmail", ctx, "who@ugto.mx").Return(nil, sql.ErrNoRows)

		_, err := NewSessionService(users, issuer).Login(ctx, LoginInput{
			Email:    "who@ugto.mx",
			Password: "hunter2hunter2",
		})
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := *account
		inactive.Active = false
		users := new(repoMocks.MockUserRepository)
		users.On("FindByEmail", ctx, "ana@ugto.mx").Return(&inactive, nil)

		_, err := NewSessionService(users, issuer).Login(ctx, LoginInput{
			Email:    "ana@ugto.mx",
			Password: "hunter2hunter2",
		})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}
