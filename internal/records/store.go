package records

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"neurohub/backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

const opTimeout = 10 * time.Second

// UserRecord is the durable per-user document. The realtime tree holds the
// social surface (posts, presence, notifications); everything that must
// survive it lives here.
type UserRecord struct {
	UID            string        `bson:"_id" json:"uid"`
	Name           string        `bson:"name" json:"name"`
	Email          string        `bson:"email" json:"email"`
	DailyTasks     []models.Task `bson:"dailyTasks" json:"dailyTasks"`
	CompletedTasks []string      `bson:"completedTasks" json:"completedTasks"`
	// Enrolled course ids plus per-course completion percent (0-100).
	Enrolled          []string                 `bson:"enrolled" json:"enrolled"`
	Completion        map[string]int           `bson:"completion" json:"completion"`
	PredictedCategory string                   `bson:"predictedCategory,omitempty" json:"predictedCategory,omitempty"`
	Assessment        *models.AssessmentResult `bson:"assessment,omitempty" json:"assessment,omitempty"`
	UpdatedAt         int64                    `bson:"updatedAt" json:"updatedAt"`
}

// Store wraps the MongoDB collections backing user records, the game
// leaderboard and contact-form messages.
type Store struct {
	users       *mongo.Collection
	leaderboard *mongo.Collection
	messages    *mongo.Collection
	now         func() time.Time
}

func NewStore(client *mongo.Client, dbName string) *Store {
	db := client.Database(dbName)
	return &Store{
		users:       db.Collection("users"),
		leaderboard: db.Collection("leaderboard"),
		messages:    db.Collection("contactMessages"),
		now:         time.Now,
	}
}

// EnsureUser upserts the identity fields, creating the document with empty
// collections on first sight of the uid.
func (s *Store) EnsureUser(ctx context.Context, uid, name, email string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{
			"$set": bson.M{
				"name":      name,
				"email":     email,
				"updatedAt": s.now().UnixMilli(),
			},
			"$setOnInsert": bson.M{
				"dailyTasks":     []models.Task{},
				"completedTasks": []string{},
				"enrolled":       []string{},
				"completion":     map[string]int{},
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetUser loads the document for a uid.
func (s *Store) GetUser(ctx context.Context, uid string) (UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var rec UserRecord
	err := s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return UserRecord{}, ErrNotFound
	}
	if err != nil {
		return UserRecord{}, err
	}
	if rec.DailyTasks == nil {
		rec.DailyTasks = []models.Task{}
	}
	if rec.CompletedTasks == nil {
		rec.CompletedTasks = []string{}
	}
	return rec, nil
}

// SetTasks replaces the user's task list wholesale. Task edits always go
// through the full list so the stored array mirrors what the user sees.
func (s *Store) SetTasks(ctx context.Context, uid string, tasks []models.Task) error {
	return s.setField(ctx, uid, "dailyTasks", tasks)
}

// SetCompletedTasks replaces the set of completed task ids.
func (s *Store) SetCompletedTasks(ctx context.Context, uid string, ids []string) error {
	return s.setField(ctx, uid, "completedTasks", ids)
}

func (s *Store) setField(ctx context.Context, uid, field string, v interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{field: v, "updatedAt": s.now().UnixMilli()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkTaskScheduled flips the scheduled flag on one task in place, using a
// positional update so concurrent edits to other tasks are untouched.
func (s *Store) MarkTaskScheduled(ctx context.Context, uid, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid, "dailyTasks.id": taskID},
		bson.M{"$set": bson.M{"dailyTasks.$.scheduled": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UsersWithPendingReminders returns every user holding at least one task
// with a reminder that has not been scheduled yet.
func (s *Store) UsersWithPendingReminders(ctx context.Context) ([]UserRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.users.Find(ctx, bson.M{
		"dailyTasks": bson.M{"$elemMatch": bson.M{
			"scheduled":    false,
			"reminderTime": bson.M{"$ne": ""},
		}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []UserRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// SetAssessment stores the quiz outcome and the predicted category derived
// from it.
func (s *Store) SetAssessment(ctx context.Context, uid string, result models.AssessmentResult) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{
			"assessment":        result,
			"predictedCategory": result.Prediction,
			"updatedAt":         s.now().UnixMilli(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEnrollment replaces the enrolled set and the completion map as one
// write, mirroring how the original toggle worked.
func (s *Store) SetEnrollment(ctx context.Context, uid string, enrolled []string, completion map[string]int) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if enrolled == nil {
		enrolled = []string{}
	}
	if completion == nil {
		completion = map[string]int{}
	}
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$set": bson.M{
			"enrolled":   enrolled,
			"completion": completion,
			"updatedAt":  s.now().UnixMilli(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCourseProgress updates one course's completion percent in place.
func (s *Store) SetCourseProgress(ctx context.Context, uid, courseID string, percent int) error {
	return s.setField(ctx, uid, "completion."+courseID, percent)
}

// AppendScore records a finished game session on the leaderboard. Scores
// are append-only; rankings are computed at read time.
func (s *Store) AppendScore(ctx context.Context, entry models.LeaderboardEntry) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := s.leaderboard.InsertOne(ctx, entry)
	return err
}

// TopScores returns the best entries for one game, highest score first,
// ties broken by earlier timestamp.
func (s *Store) TopScores(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "timestamp", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := s.leaderboard.Find(ctx, bson.M{"gameId": gameID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.LeaderboardEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveContactMessage persists a landing-page form submission.
func (s *Store) SaveContactMessage(ctx context.Context, msg models.ContactMessage) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.messages.InsertOne(ctx, msg); err != nil {
		return err
	}
	log.Printf("[Records] Contact message stored for %s", msg.Email)
	return nil
}
