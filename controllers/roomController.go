package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sprint-poker/game"
	"sprint-poker/models"
	"sprint-poker/session"
)

// RoomController exposes read access to live rooms and invite issuance.
type RoomController struct {
	Rooms   *game.Registry
	Invites *session.Manager
}

func NewRoomController(rooms *game.Registry, invites *session.Manager) *RoomController {
	return &RoomController{Rooms: rooms, Invites: invites}
}

// GetRoom returns the public snapshot of a live room. Hidden votes are never
// part of the snapshot while the round is open.
func (rc *RoomController) GetRoom(c *gin.Context) {
	room, ok := rc.Rooms.Lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": game.ErrRoomNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room.Snapshot()})
}

type createInviteRequest struct {
	Role models.Role `json:"role" binding:"required,oneof=facilitator voter"`
}

// CreateInvite issues a signed invite token for a room.
func (rc *RoomController) CreateInvite(c *gin.Context) {
	var req createInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := rc.Invites.Issue(c.Param("id"), req.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue invite"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}
