package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkamau/tender-radar/internal/db"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")

	jwtSecretOnce    sync.Once
	jwtSecretRuntime []byte
	jwtSecretErr     error
)

const minPasswordLength = 8

func jwtSecretFromEnv() ([]byte, error) {
	jwtSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
		if secret != "" {
			jwtSecretRuntime = []byte(secret)
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			jwtSecretErr = fmt.Errorf("failed to generate JWT fallback secret: %w", err)
			return
		}

		jwtSecretRuntime = []byte(base64.RawURLEncoding.EncodeToString(buf))
		log.Print("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if jwtSecretErr != nil {
		return nil, jwtSecretErr
	}
	if len(jwtSecretRuntime) == 0 {
		return nil, errors.New("JWT secret unavailable")
	}

	return jwtSecretRuntime, nil
}

type Service struct {
	store *db.Store
}

func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("insert failed: %w", err)
	}

	token, err := generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCreds
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCreds
	}

	token, err := generateToken(user.ID)
	if err != nil {
		return nil, err
	}

	// Clear hash before returning
	user.PasswordHash = ""
	return &AuthResponse{Token: token, User: user}, nil
}

func generateToken(userID uuid.UUID) (string, error) {
	secretKey, err := jwtSecretFromEnv()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}
