package services

import (
	"errors"
	"strings"
	"time"

	"quizhub/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	db          *gorm.DB
	tokens      *TokenService
	maxSessions int
}

func NewAuthService(db *gorm.DB, tokens *TokenService, maxSessions int) *AuthService {
	if maxSessions <= 0 {
		maxSessions = 2
	}
	return &AuthService{db: db, tokens: tokens, maxSessions: maxSessions}
}

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPair is the outcome of a successful signup or login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Signup creates the user, issues both tokens and registers the first
// session. Emails are stored lowercase so lookups are case-insensitive.
func (s *AuthService) Signup(req *SignupRequest, meta ClientMetadata) (*models.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return nil, nil, errors.New("unknown role: " + req.Role)
	}

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := models.User{
		Username:    req.Username,
		Email:       email,
		Password:    string(hashed),
		Role:        role,
		MaxSessions: s.maxSessions,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(&user, meta)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Login verifies the credential and registers a new session, evicting the
// oldest one when the user is over their session cap. Unknown email and
// wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(req *LoginRequest, meta ClientMetadata) (*models.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(&user, meta)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Logout revokes the session matching the presented refresh token. A token
// with no matching session is a no-op.
func (s *AuthService) Logout(userID uint, refreshToken string) error {
	return s.tokens.RevokeSession(userID, refreshToken)
}

// Refresh mints a new access token from a valid refresh token. The token
// must verify and its session row must still exist and be unexpired, so a
// revoked or evicted session cannot refresh.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	session, err := s.tokens.FindSession(refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenInvalid
		}
		return "", err
	}
	if session.Expired(time.Now()) {
		return "", ErrTokenExpired
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenInvalid
		}
		return "", err
	}

	return s.tokens.IssueAccessToken(&user)
}

func (s *AuthService) issueTokens(user *models.User, meta ClientMetadata) (*TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.RegisterSession(user, refreshToken, meta); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
