// Package auth handles accounts, passwords and bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"invoice-api/pkg/models"
)

var (
	// ErrUserExists means the username or email is already registered.
	ErrUserExists = errors.New("username or email already registered")
	// ErrInvalidCredentials covers both unknown user and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers expired, malformed and forged tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrResetTokenInvalid means the password reset token is unknown or expired.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
)

const (
	tokenTTL = 24 * time.Hour
	resetTTL = time.Hour
)

// Service handles registration, login and token verification
type Service struct {
	db     *gorm.DB
	secret []byte
}

// NewService creates a new auth service signing tokens with secret
func NewService(db *gorm.DB, secret string) *Service {
	return &Service{db: db, secret: []byte(secret)}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(username, email, password string) (models.User, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return models.User{}, fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		return models.User{}, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.User{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login checks the password for a username or email and returns a signed
// token. Unknown user and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(usernameOrEmail, password string) (string, error) {
	var user models.User
	err := s.db.Where("username = ? OR email = ?", usernameOrEmail, usernameOrEmail).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(user.ID)
}

// IssueToken signs an HS256 token carrying the user id as subject.
func (s *Service) IssueToken(userID uint) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the user id it was issued for.
// Token contents beyond the subject are never exposed to callers.
func (s *Service) ParseToken(tokenString string) (uint, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// ForgotPassword issues a reset token for the account behind email. Mail
// delivery is out of scope, so the token is logged for operators; unknown
// addresses are ignored silently so the endpoint can't be used to probe
// for accounts.
func (s *Service) ForgotPassword(email string) error {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	user.ResetToken = uuid.NewString()
	user.ResetTokenExpiry = time.Now().Add(resetTTL)
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	log.Printf("password reset token for %s: %s", email, user.ResetToken)
	return nil
}

// ResetPassword sets a new password for the account holding a live reset
// token and burns the token.
func (s *Service) ResetPassword(token, newPassword string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}
	var user models.User
	err := s.db.Where("reset_token = ?", token).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrResetTokenInvalid
	}
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if time.Now().After(user.ResetTokenExpiry) {
		return ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpiry = time.Time{}
	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// Middleware rejects requests without a valid Bearer token and stores the
// caller's user id on the context.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		userID, err := s.ParseToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
