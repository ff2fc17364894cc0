// Package mongostore stores diagnoses and profiles in MongoDB.
package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/career-diagnosis/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	DiagnosesCollection = "diagnoses"
	ProfilesCollection  = "user_profiles"
)

// Store is a MongoDB-backed diagnosis and profile store. IDs are ObjectID hex strings.
type Store struct {
	client    *mongo.Client
	diagnoses *mongo.Collection
	profiles  *mongo.Collection
}

// Connect opens a client for uri and verifies it with a ping
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return New(client, client.Database(database)), nil
}

// New wraps an existing client and database
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:    client,
		diagnoses: db.Collection(DiagnosesCollection),
		profiles:  db.Collection(ProfilesCollection),
	}
}

// EnsureIndexes creates the owner listing index
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.diagnoses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create diagnoses index: %w", err)
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// diagnosisDoc is the stored shape. Answers and result are kept as ordered
// documents so skill ratings keep their submitted order.
type diagnosisDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   string             `bson:"ownerId"`
	Answers   bson.D             `bson:"answers"`
	Result    bson.D             `bson:"result"`
	Memo      string             `bson:"memo"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type summaryDoc struct {
	ID     primitive.ObjectID `bson:"_id"`
	Result struct {
		CareerType string `bson:"careerType"`
		Summary    string `bson:"summary"`
	} `bson:"result"`
	CreatedAt time.Time `bson:"createdAt"`
}

type profileDoc struct {
	OwnerID   string     `bson:"_id"`
	Birthday  *time.Time `bson:"birthday,omitempty"`
	Gender    string     `bson:"gender"`
	UpdatedAt time.Time  `bson:"updatedAt"`
}

// toDoc converts a record through its JSON form into ordered BSON
func toDoc(rec *types.DiagnosisRecord) (*diagnosisDoc, error) {
	answers := rec.Answers
	if answers == nil {
		answers = types.AnswerSet{}
	}
	answersDoc, err := jsonToBSON(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to convert answers: %w", err)
	}
	resultDoc, err := jsonToBSON(rec.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}
	return &diagnosisDoc{
		OwnerID:   rec.OwnerID,
		Answers:   answersDoc,
		Result:    resultDoc,
		Memo:      rec.Memo,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func fromDoc(doc *diagnosisDoc) (*types.DiagnosisRecord, error) {
	rec := &types.DiagnosisRecord{
		ID:        doc.ID.Hex(),
		OwnerID:   doc.OwnerID,
		Memo:      doc.Memo,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}
	if err := bsonToJSON(doc.Answers, &rec.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}
	if err := bsonToJSON(doc.Result, &rec.Result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return rec, nil
}

func jsonToBSON(v any) (bson.D, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func bsonToJSON(doc bson.D, out any) error {
	if doc == nil {
		doc = bson.D{}
	}
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// CreateDiagnosis inserts a record and returns its ObjectID hex
func (s *Store) CreateDiagnosis(ctx context.Context, rec *types.DiagnosisRecord) (string, error) {
	doc, err := toDoc(rec)
	if err != nil {
		return "", err
	}
	res, err := s.diagnoses.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create diagnosis: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// GetDiagnosis retrieves a record. Unknown and malformed IDs return nil.
func (s *Store) GetDiagnosis(ctx context.Context, id string) (*types.DiagnosisRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc diagnosisDoc
	err = s.diagnoses.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diagnosis: %w", err)
	}
	return fromDoc(&doc)
}

// UpdateDiagnosisMemo sets memo and updatedAt
func (s *Store) UpdateDiagnosisMemo(ctx context.Context, id, memo string, updatedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid diagnosis id %q: %w", id, err)
	}
	_, err = s.diagnoses.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"memo": memo, "updatedAt": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("failed to update diagnosis memo: %w", err)
	}
	return nil
}

// DeleteDiagnosis deletes a record
func (s *Store) DeleteDiagnosis(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid diagnosis id %q: %w", id, err)
	}
	if _, err := s.diagnoses.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete diagnosis: %w", err)
	}
	return nil
}

// ListDiagnosesByOwner lists an owner's diagnoses, newest first
func (s *Store) ListDiagnosesByOwner(ctx context.Context, ownerID string) ([]types.DiagnosisSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"result.careerType": 1, "result.summary": 1, "createdAt": 1})

	cursor, err := s.diagnoses.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []summaryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode diagnoses: %w", err)
	}

	summaries := make([]types.DiagnosisSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, types.DiagnosisSummary{
			ID:         d.ID.Hex(),
			CareerType: d.Result.CareerType,
			Summary:    d.Result.Summary,
			CreatedAt:  d.CreatedAt.UTC(),
		})
	}
	return summaries, nil
}

// GetProfile returns the owner's profile, or nil if none was saved
func (s *Store) GetProfile(ctx context.Context, ownerID string) (*types.Profile, error) {
	var doc profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"_id": ownerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p := &types.Profile{OwnerID: doc.OwnerID, Gender: types.Gender(doc.Gender)}
	if doc.Birthday != nil {
		b := doc.Birthday.UTC()
		p.Birthday = &b
	}
	return p, nil
}

// UpsertProfile creates or replaces the owner's profile
func (s *Store) UpsertProfile(ctx context.Context, profile *types.Profile) error {
	doc := profileDoc{
		OwnerID:   profile.OwnerID,
		Birthday:  profile.Birthday,
		Gender:    string(profile.Gender),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.profiles.ReplaceOne(ctx, bson.M{"_id": profile.OwnerID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
