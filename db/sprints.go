package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"sprint-poker/models"
)

// SprintStore persists sprints with their embedded tickets and each ticket's
// voting-round history.
type SprintStore struct {
	col *mongo.Collection
	log *zap.Logger
}

func NewSprintStore(database *mongo.Database, log *zap.Logger) *SprintStore {
	col := database.Collection("sprints")

	indexModel := mongo.IndexModel{
		Keys:    bson.M{"tickets.key": 1},
		Options: options.Index().SetSparse(true),
	}
	if _, err := col.Indexes().CreateOne(context.TODO(), indexModel); err != nil {
		log.Warn("failed to create ticket key index", zap.Error(err))
	}

	return &SprintStore{col: col, log: log}
}

func (s *SprintStore) Create(ctx context.Context, sprint *models.Sprint) error {
	sprint.CreatedAt = time.Now()
	if sprint.Tickets == nil {
		sprint.Tickets = []models.Ticket{}
	}
	res, err := s.col.InsertOne(ctx, sprint)
	if err != nil {
		return fmt.Errorf("insert sprint: %w", err)
	}
	sprint.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *SprintStore) Get(ctx context.Context, id string) (*models.Sprint, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid sprint id: %w", err)
	}
	var sprint models.Sprint
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&sprint)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sprint: %w", err)
	}
	return &sprint, nil
}

func (s *SprintStore) List(ctx context.Context) ([]models.Sprint, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	defer cursor.Close(ctx)

	var sprints []models.Sprint
	if err := cursor.All(ctx, &sprints); err != nil {
		return nil, fmt.Errorf("decode sprints: %w", err)
	}
	return sprints, nil
}

// AppendVotingRound pushes a revealed round onto a ticket's history. Always
// an append; earlier rounds are never rewritten.
func (s *SprintStore) AppendVotingRound(ctx context.Context, sprintID, itemKey string, round models.VotingRound) error {
	oid, err := primitive.ObjectIDFromHex(sprintID)
	if err != nil {
		return fmt.Errorf("invalid sprint id: %w", err)
	}

	filter := bson.M{"_id": oid, "tickets.key": itemKey}
	update := bson.M{"$push": bson.M{"tickets.$.votingRounds": round}}

	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("append voting round: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("ticket %s not found in sprint %s", itemKey, sprintID)
	}
	return nil
}

// SetTicketEstimate records the agreed value on the ticket and flags the
// matching round as written to the tracker.
func (s *SprintStore) SetTicketEstimate(ctx context.Context, sprintID, itemKey, value string, roundNumber int) error {
	oid, err := primitive.ObjectIDFromHex(sprintID)
	if err != nil {
		return fmt.Errorf("invalid sprint id: %w", err)
	}

	filter := bson.M{"_id": oid, "tickets.key": itemKey}
	update := bson.M{"$set": bson.M{
		"tickets.$.estimate":                               value,
		"tickets.$.votingRounds.$[round].finalValue":       value,
		"tickets.$.votingRounds.$[round].updatedInTracker": true,
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"round.roundNumber": roundNumber}},
	})

	res, err := s.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("set ticket estimate: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("ticket %s not found in sprint %s", itemKey, sprintID)
	}
	return nil
}
