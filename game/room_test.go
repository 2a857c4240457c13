package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"sprint-poker/models"
)

func joinRoom(r *Room, userID, name string, role models.Role) models.RoomState {
	state, _ := r.Join(JoinRequest{
		UserID:       userID,
		ConnectionID: uuid.NewString(),
		Name:         name,
		Role:         role,
	})
	return state
}

func TestRoom_NonFacilitatorCannotRevealOrReset(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")
	joinRoom(room, "facilitator", "Dana", models.RoleFacilitator)
	joinRoom(room, "voter", "Sam", models.RoleVoter)

	before, err := room.SubmitVote("voter", "5")
	req.NoError(err)

	_, _, _, err = room.Reveal("voter")
	req.ErrorIs(err, ErrUnauthorized)

	_, err = room.Reset("voter")
	req.ErrorIs(err, ErrUnauthorized)

	_, err = room.StartItem("voter", "PROJ-9", "story")
	req.ErrorIs(err, ErrUnauthorized)

	// Room state unchanged by the rejected calls.
	after := room.Snapshot()
	req.Equal(before.RoundNumber, after.RoundNumber)
	req.Equal(before.VoteCount, after.VoteCount)
	req.False(after.Revealed)
}

func TestRoom_ResetIncrementsRoundAndClearsVotes(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")
	joinRoom(room, "facilitator", "Dana", models.RoleFacilitator)
	joinRoom(room, "voter", "Sam", models.RoleVoter)

	_, err := room.SubmitVote("voter", "8")
	req.NoError(err)
	_, _, fresh, err := room.Reveal("facilitator")
	req.NoError(err)
	req.True(fresh)

	state, err := room.Reset("facilitator")
	req.NoError(err)
	req.Equal(2, state.RoundNumber)
	req.Equal(0, state.VoteCount)
	req.False(state.Revealed)
	req.Nil(state.Result)

	// Participant connection state is untouched by a reset.
	req.Len(state.Participants, 2)
	for _, p := range state.Participants {
		req.True(p.Connected)
		req.False(p.HasVoted)
	}
}

func TestRoom_ReconnectWithinGraceKeepsVote(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")
	joinRoom(room, "facilitator", "Dana", models.RoleFacilitator)

	conn := uuid.NewString()
	room.Join(JoinRequest{UserID: "sam", ConnectionID: conn, Name: "Sam", Role: models.RoleVoter})
	_, err := room.SubmitVote("sam", "13")
	req.NoError(err)

	state, part := room.Disconnect(conn)
	req.NotNil(part)
	req.Equal("sam", part.UserID)
	req.Equal(1, state.VoteCount)

	// Reconnect with a new connection ID before the grace period elapses.
	state, rejoined := room.Join(JoinRequest{UserID: "sam", ConnectionID: uuid.NewString(), Name: "Sam", Role: models.RoleVoter})
	req.True(rejoined)
	req.Equal(1, state.VoteCount)

	result, _, _, err := room.Reveal("facilitator")
	req.NoError(err)
	req.Equal(map[string]string{"sam": "13"}, result.Votes)
}

func TestRoom_StaleConnectionCannotDisconnectReconnectedUser(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")

	oldConn := uuid.NewString()
	room.Join(JoinRequest{UserID: "sam", ConnectionID: oldConn, Name: "Sam", Role: models.RoleVoter})
	room.Join(JoinRequest{UserID: "sam", ConnectionID: uuid.NewString(), Name: "Sam", Role: models.RoleVoter})

	// The superseded socket closing must not mark the live session offline.
	_, part := room.Disconnect(oldConn)
	req.Nil(part)
	state := room.Snapshot()
	req.True(state.Participants[0].Connected)
}

func TestRoom_LeaveDropsOpenVoteButNotFrozenResult(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")
	joinRoom(room, "facilitator", "Dana", models.RoleFacilitator)
	joinRoom(room, "sam", "Sam", models.RoleVoter)

	_, err := room.SubmitVote("sam", "21")
	req.NoError(err)

	state, ok := room.Leave("sam")
	req.True(ok)
	req.Equal(0, state.VoteCount)

	// Now the frozen-result side: reveal, then leave.
	joinRoom(room, "lee", "Lee", models.RoleVoter)
	_, err = room.SubmitVote("lee", "3")
	req.NoError(err)
	result, _, _, err := room.Reveal("facilitator")
	req.NoError(err)

	room.Leave("lee")
	req.Equal(1, result.TotalVotes)
	req.Contains(result.Votes, "lee")
}

func TestRoom_StartItemScopesFreshRound(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")
	joinRoom(room, "facilitator", "Dana", models.RoleFacilitator)

	state, err := room.StartItem("facilitator", "PROJ-9", "story")
	req.NoError(err)
	req.Equal("PROJ-9", state.ItemKey)
	req.Equal(1, state.RoundNumber)

	_, err = room.SubmitVote("facilitator", "5")
	req.NoError(err)
	state, err = room.Reset("facilitator")
	req.NoError(err)
	req.Equal("PROJ-9", state.ItemKey)
	req.Equal(2, state.RoundNumber)

	state, err = room.StartItem("facilitator", "PROJ-10", "bug")
	req.NoError(err)
	req.Equal("PROJ-10", state.ItemKey)
	req.Equal(1, state.RoundNumber)
}

func TestRoom_RevealedRecordRequiresRevealedRound(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")
	joinRoom(room, "facilitator", "Dana", models.RoleFacilitator)

	_, _, err := room.RevealedRecord("facilitator")
	req.ErrorIs(err, ErrNotRevealed)

	_, err = room.SubmitVote("facilitator", "8")
	req.NoError(err)
	_, _, _, err = room.Reveal("facilitator")
	req.NoError(err)

	record, state, err := room.RevealedRecord("facilitator")
	req.NoError(err)
	req.Equal(state.RoundNumber, record.RoundNumber)
	req.Equal(8.0, record.Average)
}

func TestRoom_SweepRemovesOnlyGraceExpired(t *testing.T) {
	req := require.New(t)
	room := NewRoom("sprint-42")
	grace := 30 * time.Second

	conn := uuid.NewString()
	room.Join(JoinRequest{UserID: "sam", ConnectionID: conn, Name: "Sam", Role: models.RoleVoter})
	room.Disconnect(conn)

	expired, _, _ := room.SweepExpired(time.Now(), grace, time.Hour)
	req.Empty(expired)

	expired, state, _ := room.SweepExpired(time.Now().Add(grace+time.Second), grace, time.Hour)
	req.Len(expired, 1)
	req.Equal("sam", expired[0].UserID)
	req.Empty(state.Participants)
}
