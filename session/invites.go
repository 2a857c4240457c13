// Package session issues and validates room invite tokens. A token binds a
// room ID to the role the holder is granted on join.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sprint-poker/models"
)

// InviteClaims is the data carried inside an invite token.
type InviteClaims struct {
	RoomID string      `json:"room_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed invite for one room.
func (m *Manager) Issue(roomID string, role models.Role) (string, error) {
	now := time.Now()
	claims := &InviteClaims{
		RoomID: roomID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "sprint-poker",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate checks a token's signature and expiry and that it was issued for
// this room, returning the granted role.
func (m *Manager) Validate(roomID, tokenString string) (models.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &InviteClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid invite token: %w", err)
	}

	claims, ok := token.Claims.(*InviteClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrSignatureInvalid
	}
	if claims.RoomID != roomID {
		return "", fmt.Errorf("invite token issued for a different room")
	}
	return claims.Role, nil
}
