package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username or password")
	ErrCredentialsRequired  = errors.New("username and password cannot be empty")
	ErrInvalidRole          = errors.New("role must be admin or member")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrJWTSecretMissing     = errors.New("JWT secret cannot be empty")
)

type AuthService interface {
	// Login verifies the credentials and returns the session with a signed token.
	Login(ctx context.Context, username, password string) (*domain.LoginSession, error)
	// ParseToken validates a token issued by Login and rebuilds its session.
	ParseToken(token string) (*domain.LoginSession, error)
	CreateUser(ctx context.Context, username, password string, role domain.Role, memberID *string) (*domain.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	jwtExpiration time.Duration // zero: tokens never expire
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) (AuthService, error) {
	if jwtSecret == "" {
		return nil, ErrJWTSecretMissing
	}
	if jwtExpiration < 0 {
		jwtExpiration = 0
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiration: jwtExpiration,
	}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.LoginSession, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if !passwordMatches(user.PasswordHash, password) {
		return nil, ErrAuthenticationFailed
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, ErrTokenGeneration
	}
	return domain.NewLoginSession(user, token), nil
}

func (s *authService) CreateUser(ctx context.Context, username, password string, role domain.Role, memberID *string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if memberID != nil && *memberID == "" {
		memberID = nil
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		MemberID:     memberID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// HashPassword returns the bcrypt hash stored for new users.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}

// LegacyPasswordHash is the unsalted SHA-256 hex digest found in imported user tables.
func LegacyPasswordHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func passwordMatches(stored, password string) bool {
	if isLegacyHash(stored) {
		want := LegacyPasswordHash(password)
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(want)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func isLegacyHash(stored string) bool {
	if len(stored) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(stored)
	return err == nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID   string      `json:"uid"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	MemberID string      `json:"mid,omitempty"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID,
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   "studio-tracker",
		},
	}
	if user.MemberID != nil {
		claims.MemberID = *user.MemberID
	}
	if s.jwtExpiration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.jwtExpiration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) ParseToken(tokenString string) (*domain.LoginSession, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return &domain.LoginSession{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		MemberID: claims.MemberID,
		Token:    tokenString,
	}, nil
}
