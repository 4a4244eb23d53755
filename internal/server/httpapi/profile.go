package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"messagewall/internal/common"
)

type profileReq struct {
	Name            string `json:"name"`
	AvatarURL       string `json:"avatar_url"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// updateProfile applies a partial identity update to the caller's own
// record. Name and avatar show on the wall cards, so the feed cache is
// dropped on success.
func (h *Handler) updateProfile(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}
	if req.Password != req.PasswordConfirm {
		writeError(c, fmt.Errorf("%w: passwords do not match", common.ErrValidation))
		return
	}

	rec, err := h.users.UpdateProfile(c.Request.Context(), MustUserID(c), req.Name, req.AvatarURL, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.InvalidateWall()
	c.JSON(http.StatusOK, viewOf(rec))
}
