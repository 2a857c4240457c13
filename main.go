package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sprint-poker/config"
	"sprint-poker/controllers"
	"sprint-poker/db"
	"sprint-poker/game"
	"sprint-poker/routes"
	"sprint-poker/session"
	"sprint-poker/tracker"
	"sprint-poker/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongodb connect failed", zap.Error(err))
	}
	defer client.Disconnect(ctx)
	database := client.Database(cfg.MongoDatabase)
	logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))

	sprints := db.NewSprintStore(database, logger.Named("db"))
	invites := session.NewManager(cfg.InviteSecret, cfg.InviteTTL)

	var estimates websocket.EstimateUpdater
	if cfg.JiraConfigured() {
		estimates = tracker.NewJiraClient(cfg.JiraBaseURL, cfg.JiraEmail, cfg.JiraAPIToken, cfg.JiraStoryPointsField, logger.Named("jira"))
	} else {
		logger.Warn("jira not configured, estimate write-back disabled")
	}

	hub := websocket.NewHub(logger.Named("hub"))
	go hub.Run(ctx)

	rooms := game.NewRegistry(cfg.GracePeriod, cfg.IdleTimeout, cfg.SweepInterval, logger.Named("rooms"))
	rooms.SetNotifier(hub)
	go rooms.Run(ctx)

	gateway := websocket.NewGateway(rooms, hub, sprints, estimates, invites, logger.Named("gateway"))

	r := gin.Default()
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(gateway, c.Writer, c.Request)
	})
	routes.SprintRoutes(r, controllers.NewSprintController(sprints))
	routes.RoomRoutes(r, controllers.NewRoomController(rooms, invites))
	r.GET("/healthz", controllers.NewHealthController(client).Healthz)

	logger.Info("server running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
