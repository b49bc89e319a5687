package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/model"
	"github.com/kzl/storefront-api/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAdminExists rejects bootstrap once an admin account is present.
	ErrAdminExists = errors.New("admin account already exists")
	// ErrBootstrapRequired blocks normal signup until the first admin is
	// created; the shop is not open before that.
	ErrBootstrapRequired = errors.New("no admin account exists yet")
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSecret: []byte(jwtSecret), jwtExpiry: jwtExpiry}
}

func (s *AuthService) HasAdmin(ctx context.Context) (bool, error) {
	n, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return n > 0, nil
}

// CreateAdmin creates the first admin account. It is only available while no
// admin exists; afterwards admins are added through user management.
func (s *AuthService) CreateAdmin(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	hasAdmin, err := s.HasAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if hasAdmin {
		return nil, ErrAdminExists
	}
	return s.createAccount(ctx, req, model.RoleAdmin)
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	hasAdmin, err := s.HasAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !hasAdmin {
		return nil, ErrBootstrapRequired
	}
	return s.createAccount(ctx, req, model.RoleUser)
}

func (s *AuthService) createAccount(ctx context.Context, req dto.RegisterRequest, role string) (*dto.AuthResponse, error) {
	existing, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		Password:    string(hashed),
		Role:        role,
		ShopName:    req.ShopName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Location:    req.Location,
		Township:    req.Township,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

func (s *AuthService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Username,
		"role": user.Role,
		"exp":  time.Now().Add(s.jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		ShopName:    user.ShopName,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		Location:    user.Location,
		Township:    user.Township,
		LastSeenAnnouncements: user.LastSeenAnnouncements,
		CreatedAt:   user.CreatedAt,
	}
}
