package routes

import (
	"github.com/gin-gonic/gin"

	"sprint-poker/controllers"
)

func RoomRoutes(r *gin.Engine, rc *controllers.RoomController) {
	r.GET("/api/rooms/:id", rc.GetRoom)
	r.POST("/api/rooms/:id/invites", rc.CreateInvite)
}
