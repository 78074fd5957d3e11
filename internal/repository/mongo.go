package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/justsurfingit/jobhunter/internal/apperrors"
	"github.com/justsurfingit/jobhunter/internal/filter"
	"github.com/justsurfingit/jobhunter/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	colJobs            = "jobs"
	colUsers           = "users"
	colProcessedEmails = "processed_emails"
)

var _ Store = (*MongoStore)(nil)

// MongoStore keeps one document per job. ReplaceAll needs a replica set or a
// sharded cluster because it runs in a multi-document transaction.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore does not take ownership of client until Close is called.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

// Migrate creates the collection indexes.
func (s *MongoStore) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colJobs: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "date", Value: -1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "archived", Value: 1}}},
		},
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for col, idx := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func jobsFilter(ownerID string, c filter.Criteria) bson.M {
	f := bson.M{"owner_id": ownerID}
	if term := c.SearchTerm(); term != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		f["$or"] = bson.A{bson.M{"company": re}, bson.M{"title": re}}
	}
	if v := c.TrackValue(); v != "" {
		f["track"] = v
	}
	if v := c.StatusValue(); v != "" {
		f["status"] = v
	}
	if c.Archived != nil {
		f["archived"] = *c.Archived
	}
	return f
}

func (s *MongoStore) FindAll(ctx context.Context, ownerID string, c filter.Criteria) ([]models.Job, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(colJobs).Find(ctx, jobsFilter(ownerID, c), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []jobDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode jobs: %w", err)
	}
	jobs := make([]models.Job, 0, len(docs))
	for i := range docs {
		jobs = append(jobs, fromJobDocument(&docs[i]))
	}
	return jobs, nil
}

func (s *MongoStore) FindOne(ctx context.Context, ownerID, id string) (*models.Job, error) {
	var d jobDocument
	err := s.db.Collection(colJobs).FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&d)
	if isNoDocuments(err) {
		return nil, apperrors.NotFound("job", id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find job %s: %w", id, err)
	}
	job := fromJobDocument(&d)
	return &job, nil
}

func stampCreate(createdAt, updatedAt *time.Time) {
	t := time.Now().UTC()
	if createdAt.IsZero() {
		*createdAt = t
	}
	if updatedAt.IsZero() {
		*updatedAt = t
	}
}

func (s *MongoStore) Insert(ctx context.Context, job *models.Job) error {
	job.Normalize()
	stampCreate(&job.CreatedAt, &job.UpdatedAt)
	if _, err := s.db.Collection(colJobs).InsertOne(ctx, toJobDocument(job)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("job " + job.ID + " already exists")
		}
		return fmt.Errorf("mongo: insert job: %w", err)
	}
	return nil
}

func (s *MongoStore) Update(ctx context.Context, job *models.Job) error {
	job.Normalize()
	job.UpdatedAt = time.Now().UTC()
	res, err := s.db.Collection(colJobs).ReplaceOne(ctx, bson.M{"_id": job.ID, "owner_id": job.OwnerID}, toJobDocument(job))
	if err != nil {
		return fmt.Errorf("mongo: update job %s: %w", job.ID, err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("job", job.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.db.Collection(colJobs).DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("mongo: delete job %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("job", id)
	}
	return nil
}

func (s *MongoStore) ReplaceAll(ctx context.Context, ownerID string, jobs []models.Job) error {
	docs := make([]*jobDocument, 0, len(jobs))
	for i := range jobs {
		jobs[i].OwnerID = ownerID
		jobs[i].Normalize()
		stampCreate(&jobs[i].CreatedAt, &jobs[i].UpdatedAt)
		docs = append(docs, toJobDocument(&jobs[i]))
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo: start session: %w", err)
	}
	defer session.EndSession(ctx)

	col := s.db.Collection(colJobs)
	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		if _, err := col.DeleteMany(ctx, bson.M{"owner_id": ownerID}); err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			return nil, nil
		}
		return col.InsertMany(ctx, docs)
	})
	if err != nil {
		return fmt.Errorf("mongo: replace jobs: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, user *models.User) error {
	stampCreate(&user.CreatedAt, &user.UpdatedAt)
	if _, err := s.db.Collection(colUsers).InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("email already registered")
		}
		return fmt.Errorf("mongo: create user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findUser(ctx context.Context, f bson.M) (*models.User, error) {
	var d userDocument
	err := s.db.Collection(colUsers).FindOne(ctx, f).Decode(&d)
	if isNoDocuments(err) {
		return nil, apperrors.NotFound("user", "")
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find user: %w", err)
	}
	return fromUserDocument(&d), nil
}

func (s *MongoStore) SaveHistoryID(ctx context.Context, userID string, historyID uint64) error {
	res, err := s.db.Collection(colUsers).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"last_history_id": int64(historyID), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("mongo: save history id: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("user", userID)
	}
	return nil
}

func (s *MongoStore) IsProcessed(ctx context.Context, messageID string) (bool, error) {
	n, err := s.db.Collection(colProcessedEmails).CountDocuments(ctx, bson.M{"_id": messageID})
	if err != nil {
		return false, fmt.Errorf("mongo: check processed email: %w", err)
	}
	return n > 0, nil
}

func (s *MongoStore) MarkProcessed(ctx context.Context, messageID, ownerID string) error {
	_, err := s.db.Collection(colProcessedEmails).UpdateOne(ctx,
		bson.M{"_id": messageID},
		bson.M{"$setOnInsert": bson.M{"owner_id": ownerID, "created_at": time.Now().UTC()}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo: mark email processed: %w", err)
	}
	return nil
}
