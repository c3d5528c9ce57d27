package service

import (
	"context"
	"errors"
	"strings"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/repository"
	"nestio-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string, role domain.Role) (*domain.User, string, error) {
	verr := domain.NewValidationError()
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "is required")
	}
	if strings.TrimSpace(email) == "" {
		verr.Add("email", "is required")
	}
	if len(password) < 8 {
		verr.Add("password", "must be at least 8 characters")
	}
	// Admins are seeded out of band, never self-registered.
	if role != domain.RoleLandlord && role != domain.RoleTenant {
		verr.Add("role", "must be LANDLORD or TENANT")
	}
	if !verr.Empty() {
		return nil, "", verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	return user, token, err
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	return user, token, err
}
