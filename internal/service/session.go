package service

import (
	"context"
	"database/sql"
	"errors"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrUserInactive   = errors.New("account is deactivated")
)

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session carries the issued token and the authenticated account.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// SessionService authenticates platform accounts and issues bearer tokens.
type SessionService interface {
	Login(ctx context.Context, in LoginInput) (*Session, error)
}

type sessionService struct {
	users  repository.UserRepository
	issuer *auth.TokenIssuer
}

// NewSessionService constructs a SessionService.
func NewSessionService(users repository.UserRepository, issuer *auth.TokenIssuer) SessionService {
	return &sessionService{users: users, issuer: issuer}
}

func (s *sessionService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrBadCredentials
	}
	if !u.Active {
		return nil, ErrUserInactive
	}
	token, err := s.issuer.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: u}, nil
}
