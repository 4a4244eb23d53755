package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messagewall/internal/listing"
	"messagewall/internal/server/messages"
)

// wall serves the feed split into the featured rotation and the paged grid.
// The optional width and page query parameters drive the grid layout: a
// viewport at or under the compact threshold gets the cumulative reveal
// view, wider ones get discrete pages.
func (h *Handler) wall(c *gin.Context) {
	items, err := h.feed.Get(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	featured, remainder := listing.Split(items)

	pager := listing.NewPager(len(remainder))
	if width, err := strconv.Atoi(c.Query("width")); err == nil {
		pager.SetCompact(listing.CompactForWidth(width))
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		pager.Goto(page)
	}
	// steps replays the sentinel triggers a compact client has seen, so the
	// revealed prefix survives the round trip. Reveal clamps at the total,
	// and the loop is bounded by the page count.
	if steps, err := strconv.Atoi(c.Query("steps")); err == nil {
		for i := 0; i < steps && i < pager.PageCount(); i++ {
			pager.Reveal()
		}
	}
	start, end := pager.Bounds()

	c.JSON(http.StatusOK, gin.H{
		"featured":  viewsOf(featured),
		"remainder": viewsOf(remainder),
		"carousel": gin.H{
			"index":       h.carouselIndex(len(featured)),
			"size":        len(featured),
			"interval_ms": listing.DefaultAdvanceInterval.Milliseconds(),
		},
		"grid": gin.H{
			"compact":    pager.Compact(),
			"page":       pager.Page(),
			"page_count": pager.PageCount(),
			"page_size":  listing.PageSize,
			"start":      start,
			"end":        end,
			"revealed":   pager.Revealed(),
			"at_end":     pager.AtEnd(),
		},
	})
}

type saveMessageReq struct {
	Name  string `json:"name"`
	Text  string `json:"text" binding:"required"`
	Image string `json:"image" binding:"required"`
}

// saveMessage writes the caller's single wall message in place.
func (h *Handler) saveMessage(c *gin.Context) {
	var req saveMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
		return
	}

	rec, err := h.messages.Save(c.Request.Context(), MustUserID(c), messages.SaveInput{
		Name:     req.Name,
		Text:     req.Text,
		ImageRef: req.Image,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.InvalidateWall()
	c.JSON(http.StatusOK, viewOf(rec))
}

// deleteMessage removes the caller's message from the wall by clearing its
// image reference.
func (h *Handler) deleteMessage(c *gin.Context) {
	if err := h.messages.Delete(c.Request.Context(), MustUserID(c)); err != nil {
		writeError(c, err)
		return
	}

	h.InvalidateWall()
	c.Status(http.StatusNoContent)
}
