package routes

import (
	"github.com/gin-gonic/gin"

	"sprint-poker/controllers"
)

func SprintRoutes(r *gin.Engine, sc *controllers.SprintController) {
	r.POST("/api/sprints", sc.CreateSprint)
	r.GET("/api/sprints", sc.ListSprints)
	r.GET("/api/sprints/:id", sc.GetSprint)
}
