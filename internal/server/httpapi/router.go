package httpapi

import "github.com/gin-gonic/gin"

// NewRouter wires every route. Mutation routes act only on the caller's own
// record, so ownership checks reduce to the bearer token.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.logger))

	api := r.Group("/api/v1")

	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.POST("/auth/refresh", h.refreshToken)
	api.GET("/messages", h.wall)

	authed := api.Group("")
	authed.Use(RequireAuth(h.jwtSecret))

	authed.GET("/auth/me", h.me)
	authed.POST("/auth/logout", h.logout)
	authed.PUT("/profile", h.updateProfile)
	authed.PUT("/messages", h.saveMessage)
	authed.DELETE("/messages", h.deleteMessage)
	authed.POST("/uploads", h.upload)

	return r
}
