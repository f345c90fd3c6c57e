package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"auctionhub/api/internal/middleware"
)

func (h HandlerSet) CheckIDDuplication(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value query parameter required"})
		return
	}
	if err := h.authService.CheckIDAvailable(c.Request.Context(), value); err != nil {
		h.respondError(c, err, "id duplication check failed")
		return
	}
	c.Status(http.StatusOK)
}

func (h HandlerSet) CheckNicknameDuplication(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value query parameter required"})
		return
	}
	if err := h.authService.CheckNicknameAvailable(c.Request.Context(), value); err != nil {
		h.respondError(c, err, "nickname duplication check failed")
		return
	}
	c.Status(http.StatusOK)
}

func (h HandlerSet) CheckEmailDuplication(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value query parameter required"})
		return
	}
	if err := h.authService.CheckEmailAvailable(c.Request.Context(), value); err != nil {
		h.respondError(c, err, "email duplication check failed")
		return
	}
	c.Status(http.StatusOK)
}

func (h HandlerSet) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.respondError(c, err, "account deletion failed")
		return
	}

	c.SetCookie(refreshCookieName, "", -1, h.refreshCookiePath(), "", h.cfg.Environment == "production", true)
	c.Status(http.StatusNoContent)
}
