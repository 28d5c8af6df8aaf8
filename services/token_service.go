package services

import (
	"errors"
	"time"

	"quizhub/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// AccessClaims is the payload of a short-lived access token. Access tokens
// are stateless: validity depends only on the signature and expiry, never on
// a store lookup.
type AccessClaims struct {
	UserID   uint        `json:"userId"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. Refresh tokens are also
// tracked as Session rows so they can be revoked and counted.
type RefreshClaims struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ClientMetadata records the requesting client for session audit purposes.
type ClientMetadata struct {
	UserAgent string
	IPAddress string
}

type TokenService struct {
	db            *gorm.DB
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(db *gorm.DB, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		db:            db,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}

func (s *TokenService) IssueRefreshToken(user *models.User) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

// RegisterSession appends a session row for the refresh token and prunes the
// oldest rows beyond the user's session cap. Insert and prune run in one
// transaction so concurrent logins cannot grow the list past the cap.
func (s *TokenService) RegisterSession(user *models.User, token string, meta ClientMetadata) error {
	maxSessions := user.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 2
	}

	session := models.Session{
		UserID:    user.ID,
		Token:     token,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		var sessions []models.Session
		if err := tx.Where("user_id = ?", user.ID).
			Order("created_at ASC, id ASC").
			Find(&sessions).Error; err != nil {
			return err
		}

		excess := len(sessions) - maxSessions
		if excess <= 0 {
			return nil
		}

		ids := make([]uint, 0, excess)
		for _, old := range sessions[:excess] {
			ids = append(ids, old.ID)
		}
		return tx.Delete(&models.Session{}, ids).Error
	})
}

// RevokeSession removes the session whose token exactly matches. An absent
// token is a no-op, not an error.
func (s *TokenService) RevokeSession(userID uint, token string) error {
	return s.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.Session{}).Error
}

// FindSession looks up the session row for a refresh token.
func (s *TokenService) FindSession(token string) (*models.Session, error) {
	var session models.Session
	err := s.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// VerifyAccessToken checks signature and expiry. Expired and invalid are
// distinguished so clients can attempt a silent refresh on expiry but must
// log out on a bad token.
func (s *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	err := s.parse(tokenString, claims, s.accessSecret)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks signature and expiry against the refresh secret.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	err := s.parse(tokenString, claims, s.refreshSecret)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
