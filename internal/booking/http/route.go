package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	g.GET("/dates", h.Dates)
	g.GET("/facilities/:id/availability", h.Availability)

	group := g.Group("/bookings")
	{
		group.GET("", h.ListByEmail)
		group.POST("", h.Create)
		group.POST("/:id/cancel", h.CancelByEmail)
		group.POST("/cancel-with-token", h.CancelByToken)
	}
}
