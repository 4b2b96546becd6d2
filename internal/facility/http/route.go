package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/facilities")
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}
}
