package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/middleware"
	"auctionhub/api/internal/service"
)

const refreshCookieName = "refreshToken"

func (h HandlerSet) refreshCookiePath() string {
	return "/api/v1/auth/refresh"
}

type registerRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Nickname string `json:"nickname" binding:"required"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		ID:       req.ID,
		Password: req.Password,
		Email:    req.Email,
		Nickname: req.Nickname,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err, "register failed")
		return
	}

	c.Status(http.StatusCreated)
}

func (h HandlerSet) VerifyEmail(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code parameter required"})
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), code); err != nil {
		h.respondError(c, err, "email verification failed")
		return
	}

	c.Status(http.StatusOK)
}

type loginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	ID          string `json:"id"`
	Nickname    string `json:"nickname"`
	AccessToken string `json:"accessToken"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	// The refresh token travels only as an HTTP-only cookie scoped to the
	// refresh endpoint; the access token goes in the body for bearer use.
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		refreshCookieName,
		result.RefreshToken,
		int(h.cfg.Security.JWTRefreshTTL.Seconds()),
		h.refreshCookiePath(),
		"",
		h.cfg.Environment == "production",
		true,
	)

	c.JSON(http.StatusOK, loginResponse{
		ID:          result.UserID,
		Nickname:    result.Nickname,
		AccessToken: result.AccessToken,
	})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil {
		appErr := apperrors.ErrRefreshTokenRequired
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}

	accessToken, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.respondError(c, err, "token refresh failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

func (h HandlerSet) Logout(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		h.respondError(c, err, "logout failed")
		return
	}

	c.SetCookie(refreshCookieName, "", -1, h.refreshCookiePath(), "", h.cfg.Environment == "production", true)
	c.Status(http.StatusNoContent)
}

// respondError maps typed errors to their status and hides everything else
// behind a generic body.
func (h HandlerSet) respondError(c *gin.Context, err error, logMsg string) {
	status := apperrors.Status(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(logMsg)
	} else {
		h.log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(logMsg)
	}
	c.JSON(status, gin.H{"error": apperrors.Message(err)})
}
