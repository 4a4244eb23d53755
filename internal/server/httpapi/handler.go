// Package httpapi exposes the wall over HTTP: auth, profile, the message
// feed, and image uploads. Routing uses gin; error mapping is sentinel-based.
package httpapi

import (
	"context"
	"sync"
	"time"

	"messagewall/internal/listing"
	"messagewall/internal/logging"
	"messagewall/internal/server/config"
	"messagewall/internal/server/messages"
	"messagewall/internal/server/users"
)

type Handler struct {
	users     *users.Service
	messages  *messages.Service
	logger    logging.Logger
	jwtSecret []byte

	feed    *listing.Feed
	refresh *listing.Debouncer

	mu           sync.Mutex
	carousel     *listing.Carousel
	carouselSize int
}

func NewHandler(usersSvc *users.Service, messagesSvc *messages.Service, cfg *config.Config, logger logging.Logger) *Handler {
	return &Handler{
		users:     usersSvc,
		messages:  messagesSvc,
		logger:    logger.With("module", "httpapi"),
		jwtSecret: []byte(cfg.SecretKey),
		feed:      listing.NewFeed(messagesSvc.FetchRecent),
		refresh:   listing.NewDebouncer(listing.DefaultDebounce),
	}
}

// InvalidateWall drops the cached feed after a mutation and schedules a
// debounced re-fetch, so a burst of writes triggers one prewarm instead of
// one per request.
func (h *Handler) InvalidateWall() {
	h.feed.Invalidate()
	h.refresh.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := h.feed.Refresh(ctx); err != nil {
			h.logger.Warn(ctx, "feed prewarm failed", "error", err.Error())
		}
	})
}

// carouselIndex returns the current featured slide, recreating the rotation
// timer whenever the featured subset changes size.
func (h *Handler) carouselIndex(size int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.carousel == nil || h.carouselSize != size {
		if h.carousel != nil {
			h.carousel.Close()
		}
		h.carousel = listing.NewCarousel(size, listing.DefaultAdvanceInterval, nil)
		h.carouselSize = size
	}

	return h.carousel.Index()
}

// Close stops the carousel timer and any pending feed prewarm.
func (h *Handler) Close() {
	h.refresh.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.carousel != nil {
		h.carousel.Close()
		h.carousel = nil
	}
}
