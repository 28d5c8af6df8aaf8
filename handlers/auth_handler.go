package handlers

import (
	"errors"
	"log"
	"net/http"

	"quizhub/config"
	"quizhub/middleware"
	"quizhub/services"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// setRefreshTokenCookie stores the refresh token as an HTTP-only cookie on
// path "/". Outside development the cookie is Secure with SameSite=None so
// cross-origin clients can carry it.
func (h *AuthHandler) setRefreshTokenCookie(c *gin.Context, token string) {
	if h.cfg.IsDevelopment() {
		c.SetSameSite(http.SameSiteStrictMode)
	} else {
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(refreshCookieName, token, int(h.cfg.RefreshTokenTTL.Seconds()), "/", "", !h.cfg.IsDevelopment(), true)
}

func (h *AuthHandler) clearRefreshTokenCookie(c *gin.Context) {
	if h.cfg.IsDevelopment() {
		c.SetSameSite(http.SameSiteStrictMode)
	} else {
		c.SetSameSite(http.SameSiteNoneMode)
	}
	c.SetCookie(refreshCookieName, "", -1, "/", "", !h.cfg.IsDevelopment(), true)
}

func clientMetadata(c *gin.Context) services.ClientMetadata {
	return services.ClientMetadata{
		UserAgent: c.GetHeader("User-Agent"),
		IPAddress: c.ClientIP(),
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "missing required fields",
			"error":   err.Error(),
		})
		return
	}

	user, pair, err := h.authService.Signup(&req, clientMetadata(c))
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "user already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error creating user",
			"error":   err.Error(),
		})
		return
	}

	h.setRefreshTokenCookie(c, pair.RefreshToken)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"data": gin.H{
			"user": gin.H{
				"userId":   user.ID,
				"username": user.Username,
				"email":    user.Email,
				"role":     user.Role,
			},
			"accessToken": pair.AccessToken,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "missing required fields",
			"error":   err.Error(),
		})
		return
	}

	user, pair, err := h.authService.Login(&req, clientMetadata(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid email or password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Login failed",
			"error":   err.Error(),
		})
		return
	}

	h.setRefreshTokenCookie(c, pair.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User logged in successfully",
		"data": gin.H{
			"user": gin.H{
				"userId":   user.ID,
				"username": user.Username,
				"email":    user.Email,
				"role":     user.Role,
			},
			"accessToken": pair.AccessToken,
		},
	})
}

// Logout revokes the session matching the refresh cookie. The cookie is
// cleared even when revocation fails, so the client always ends up logged
// out locally.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authorization required",
		})
		return
	}

	if token, err := c.Cookie(refreshCookieName); err == nil && token != "" {
		if err := h.authService.Logout(claims.UserID, token); err != nil {
			log.Printf("failed to revoke session for user %d: %v", claims.UserID, err)
		}
	}

	h.clearRefreshTokenCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "logged out successfully",
	})
}

// Refresh mints a new access token from the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Refresh token required",
		})
		return
	}

	accessToken, err := h.authService.Refresh(token)
	if err != nil {
		h.clearRefreshTokenCookie(c)
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid refresh token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Token refreshed successfully",
		"data": gin.H{
			"accessToken": accessToken,
		},
	})
}

// CurrentUser echoes the identity decoded from the access token.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authorization required",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User retrieved successfully",
		"data": gin.H{
			"userId":   claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
			"role":     claims.Role,
		},
	})
}
