package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"messagewall/internal/common"
)

type registerReq struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}
	if req.Password != req.PasswordConfirm {
		writeError(c, fmt.Errorf("%w: passwords do not match", common.ErrValidation))
		return
	}

	rec, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, viewOf(rec))
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}

	rec, pair, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          viewOf(rec),
	})
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *Handler) refreshToken(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}

	pair, err := h.users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type logoutReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) logout(c *gin.Context) {
	var req logoutReq
	// Body is optional: logout without a refresh token still clears the
	// session state.
	_ = c.ShouldBindJSON(&req)

	if err := h.users.Logout(c.Request.Context(), MustUserID(c), req.RefreshToken); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	rec, err := h.users.GetByID(c.Request.Context(), MustUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, viewOf(rec))
}
