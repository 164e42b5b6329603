package mongo

import (
	"context"
	"errors"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const memberCollectionName = "members"

// memberDoc is the stored shape of a member row.
type memberDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Avatar   string             `bson:"avatar"`
	JoinDate string             `bson:"join_date"`
	PhotoURL string             `bson:"photo_url,omitempty"`
}

func (d memberDoc) toDomain() domain.Member {
	return domain.Member{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Avatar:   d.Avatar,
		JoinDate: d.JoinDate,
		PhotoURL: d.PhotoURL,
		Workouts: []domain.Workout{},
	}
}

// mongoMemberRepository implements repository.MemberRepository
type mongoMemberRepository struct {
	collection *mongo.Collection
}

// NewMongoMemberRepository creates a new Member repository.
func NewMongoMemberRepository(db *mongo.Database) repository.MemberRepository {
	return &mongoMemberRepository{
		collection: db.Collection(memberCollectionName),
	}
}

func (r *mongoMemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "join_date", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []memberDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	members := make([]domain.Member, 0, len(docs))
	for _, d := range docs {
		members = append(members, d.toDomain())
	}
	return members, nil
}

func (r *mongoMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc memberDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	m := doc.toDomain()
	return &m, nil
}

// Create inserts a new member row; the id is generated here, never by the caller.
func (r *mongoMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	if member.Name == "" {
		return errors.New("member name is required")
	}
	doc := memberDoc{
		ID:       primitive.NewObjectID(),
		Name:     member.Name,
		Avatar:   member.Avatar,
		JoinDate: member.JoinDate,
		PhotoURL: member.PhotoURL,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	member.ID = doc.ID.Hex()
	return nil
}

func (r *mongoMemberRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMemberRepository) UpdatePhoto(ctx context.Context, id, photoURL string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"photo_url": photoURL}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func memberIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "join_date", Value: 1}},
			Options: options.Index(),
		},
	}
}
