package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sprint-poker/models"
)

func TestManager_IssueAndValidate(t *testing.T) {
	req := require.New(t)
	mgr := NewManager("test-secret", time.Hour)
	roomID := uuid.NewString()

	token, err := mgr.Issue(roomID, models.RoleFacilitator)
	req.NoError(err)

	role, err := mgr.Validate(roomID, token)
	req.NoError(err)
	req.Equal(models.RoleFacilitator, role)
}

func TestManager_RejectsWrongRoom(t *testing.T) {
	req := require.New(t)
	mgr := NewManager("test-secret", time.Hour)

	token, err := mgr.Issue("room-a", models.RoleVoter)
	req.NoError(err)

	_, err = mgr.Validate("room-b", token)
	req.Error(err)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	mgr := NewManager("test-secret", -time.Minute)

	token, err := mgr.Issue("room-a", models.RoleVoter)
	req.NoError(err)

	_, err = mgr.Validate("room-a", token)
	req.Error(err)
}

func TestManager_RejectsForeignSignature(t *testing.T) {
	req := require.New(t)
	issuer := NewManager("secret-one", time.Hour)
	verifier := NewManager("secret-two", time.Hour)

	token, err := issuer.Issue("room-a", models.RoleVoter)
	req.NoError(err)

	_, err = verifier.Validate("room-a", token)
	req.Error(err)
}
