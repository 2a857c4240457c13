package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint-poker/db"
	"sprint-poker/models"
)

// SprintController handles HTTP requests for sprints and their tickets.
type SprintController struct {
	Store *db.SprintStore
}

func NewSprintController(store *db.SprintStore) *SprintController {
	return &SprintController{Store: store}
}

type createSprintRequest struct {
	Name    string          `json:"name" binding:"required"`
	Board   string          `json:"board"`
	Tickets []models.Ticket `json:"tickets"`
}

// CreateSprint stores a new sprint with its tickets.
func (sc *SprintController) CreateSprint(c *gin.Context) {
	var req createSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sprint := &models.Sprint{
		Name:    req.Name,
		Board:   req.Board,
		Tickets: req.Tickets,
	}
	if err := sc.Store.Create(c.Request.Context(), sprint); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create sprint"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sprint": sprint})
}

// GetSprint returns one sprint with its full voting history.
func (sc *SprintController) GetSprint(c *gin.Context) {
	sprint, err := sc.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if sprint == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sprint not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sprint": sprint})
}

// ListSprints returns all sprints.
func (sc *SprintController) ListSprints(c *gin.Context) {
	sprints, err := sc.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sprints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sprints": sprints})
}
