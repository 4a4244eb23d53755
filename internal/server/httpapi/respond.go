package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"messagewall/internal/common"
	"messagewall/internal/server/records"
)

// recordView is the JSON shape of a record. The password hash never leaves
// the server.
type recordView struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Message      string    `json:"message,omitempty"`
	MessageImage string    `json:"message_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func viewOf(rec *records.Record) recordView {
	return recordView{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		AvatarURL:    rec.AvatarURL,
		Message:      rec.Message,
		MessageImage: rec.MessageImage,
		CreatedAt:    rec.CreatedAt,
	}
}

func viewsOf(recs []*records.Record) []recordView {
	views := make([]recordView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, viewOf(rec))
	}
	return views
}

// writeError maps sentinel errors to HTTP statuses. Internal failures get a
// generic body so storage details never reach the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, common.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "wrong email or password"})
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "session expired, log in again"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, common.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"message": "email is already registered"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}
