package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"messagewall/internal/common"
	"messagewall/internal/server/messages"
)

// upload accepts a multipart image and returns a URL for it. The size cap
// is checked against the part header before the file is read.
func (h *Handler) upload(c *gin.Context) {
	purpose := c.DefaultPostForm("purpose", messages.PurposeMessage)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return
	}
	if header.Size > common.MaxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": "image exceeds the 5MB limit"})
		return
	}

	file, err := header.Open()
	if err != nil {
		writeError(c, common.ErrUpload)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, common.MaxImageBytes+1))
	if err != nil {
		writeError(c, common.ErrUpload)
		return
	}

	url, err := h.messages.Upload(c.Request.Context(), purpose, header.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
