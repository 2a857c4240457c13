package game

import (
	"maps"
	"time"

	"github.com/samber/lo"

	"sprint-poker/consensus"
	"sprint-poker/models"
)

// Round is one open-to-reveal voting cycle for a single work item. A round is
// either open (accepting votes) or revealed (frozen, read-only); reset is
// modeled by the owning Room replacing it with a fresh round.
//
// Round does no locking of its own; the owning Room serializes access.
type Round struct {
	ItemKey    string
	ItemType   string
	Number     int
	votes      map[string]string
	revealed   bool
	result     *models.VoteResult
	revealedAt time.Time
}

func NewRound(itemKey, itemType string, number int) *Round {
	return &Round{
		ItemKey:  itemKey,
		ItemType: itemType,
		Number:   number,
		votes:    make(map[string]string),
	}
}

// SubmitVote records a vote keyed by user, overwriting any prior vote from
// the same user. Votes after reveal are rejected with ErrRoundClosed and
// leave the frozen result untouched.
func (r *Round) SubmitVote(userID, value string) error {
	if r.revealed {
		return ErrRoundClosed
	}
	r.votes[userID] = value
	return nil
}

// RemoveVote drops a user's vote from a still-open round. Revealed rounds are
// immutable: a participant leaving after reveal never changes the result.
func (r *Round) RemoveVote(userID string) {
	if r.revealed {
		return
	}
	delete(r.votes, userID)
}

// Reveal freezes the round and computes its result over all submitted votes.
// Calling it again returns the already-frozen result without recomputation;
// the second return reports whether this call performed the transition.
func (r *Round) Reveal(participants int) (*models.VoteResult, bool) {
	if r.revealed {
		return r.result, false
	}
	values := lo.Values(r.votes)
	r.result = &models.VoteResult{
		Average:      consensus.Average(values),
		Agreement:    consensus.Agreement(values),
		Counts:       consensus.Distribution(values),
		Votes:        maps.Clone(r.votes),
		TotalVotes:   len(r.votes),
		Participants: participants,
	}
	r.revealed = true
	r.revealedAt = time.Now()
	return r.result, true
}

func (r *Round) Revealed() bool { return r.revealed }

// Result is nil until the round has been revealed.
func (r *Round) Result() *models.VoteResult { return r.result }

func (r *Round) VoteCount() int { return len(r.votes) }

func (r *Round) HasVoted(userID string) bool {
	_, ok := r.votes[userID]
	return ok
}

// Record converts a revealed round into its persistence form.
func (r *Round) Record() models.VotingRound {
	return models.VotingRound{
		RoundNumber: r.Number,
		Votes:       r.result.Votes,
		Average:     r.result.Average,
		Agreement:   r.result.Agreement,
		RevealedAt:  r.revealedAt,
	}
}
