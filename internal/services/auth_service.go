package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eshop/internal/models"
	"eshop/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Claim keys carried by issued tokens.
const (
	ClaimUserID  = "userId"
	ClaimIsAdmin = "isAdmin"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService issuing tokens valid for ttl.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: ttl,
	}
}

// RegisterUser creates a non-admin user from a public sign-up.
func (s *AuthService) RegisterUser(ctx context.Context, req models.UserRequest) (*models.User, error) {
	req.IsAdmin = false
	return createUser(ctx, s.userRepo, req)
}

// LoginUser authenticates a user by email and returns it with a signed token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		ClaimUserID:  user.ID,
		ClaimIsAdmin: user.IsAdmin,
		"exp":        now.Add(s.tokenDurat).Unix(),
		"iat":        now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.WithError(err).Debug("Token validation failed")
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// createUser hashes the password and stores a new user. The email must not
// be in use.
func createUser(ctx context.Context, repo repositories.UserRepository, req models.UserRequest) (*models.User, error) {
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}
	email := normalizeEmail(req.Email)
	if existing, err := repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("email '%s': %w", email, ErrEmailTaken)
	} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{PasswordHash: hash}
	applyUserRequest(user, req)
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("email '%s': %w", email, ErrEmailTaken)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

func applyUserRequest(user *models.User, req models.UserRequest) {
	user.Name = req.Name
	user.Email = normalizeEmail(req.Email)
	user.Phone = req.Phone
	user.IsAdmin = req.IsAdmin
	user.Street = req.Street
	user.Apartment = req.Apartment
	user.Zip = req.Zip
	user.City = req.City
	user.Country = req.Country
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
