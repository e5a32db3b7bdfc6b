// Package user implements account registration and login.
package user

import (
	"context"
	"errors"

	"food-order-system/internal/apperr"
	"food-order-system/internal/auth"
	"food-order-system/internal/models"
	"food-order-system/internal/storage"
)

// AuthResponse is returned by register and login: the account plus a bearer
// token for subsequent requests.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type Service struct {
	store   storage.UserStore
	manager *auth.Manager
}

func NewService(store storage.UserStore, manager *auth.Manager) *Service {
	return &Service{
		store:   store,
		manager: manager,
	}
}

// Register creates an account and returns a fresh token. Usernames collide
// case-insensitively.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return AuthResponse{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return AuthResponse{}, err
	}

	created, err := s.store.CreateUser(ctx, models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Email:        req.Email,
	})
	if err != nil {
		return AuthResponse{}, err
	}

	return s.respondWithToken(created)
}

// Login verifies the credentials and returns a fresh token. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return AuthResponse{}, err
	}

	account, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return AuthResponse{}, apperr.ErrUnauthorized
		}
		return AuthResponse{}, err
	}

	if !auth.CheckPassword(account.PasswordHash, req.Password) {
		return AuthResponse{}, apperr.ErrUnauthorized
	}

	return s.respondWithToken(account)
}

func (s *Service) respondWithToken(account models.User) (AuthResponse, error) {
	token, err := s.manager.IssueToken(account.ID, account.Admin)
	if err != nil {
		return AuthResponse{}, err
	}
	return AuthResponse{User: account, Token: token}, nil
}
