package mongo

import (
	"context"
	"neonfit/studio-tracker/internal/domain"
	"neonfit/studio-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

type workoutDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	MemberID primitive.ObjectID `bson:"member_id"`
	Date     string             `bson:"date"`
	Exercise string             `bson:"exercise"`
	Weight   float64            `bson:"weight"`
	Sets     int                `bson:"sets"`
	Reps     int                `bson:"reps"`
}

func (d workoutDoc) toDomain() domain.Workout {
	return domain.Workout{
		ID:       d.ID.Hex(),
		MemberID: d.MemberID.Hex(),
		Date:     d.Date,
		Exercise: d.Exercise,
		Weight:   d.Weight,
		Sets:     d.Sets,
		Reps:     d.Reps,
	}
}

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// ObjectIDs are monotonic per process, so _id breaks same-date ties in insertion order.
var workoutSort = bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}

func (r *mongoWorkoutRepository) find(ctx context.Context, filter bson.M) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(workoutSort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []workoutDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	workouts := make([]domain.Workout, 0, len(docs))
	for _, d := range docs {
		workouts = append(workouts, d.toDomain())
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) ListAll(ctx context.Context) ([]domain.Workout, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoWorkoutRepository) ListByMember(ctx context.Context, memberID string) ([]domain.Workout, error) {
	oid, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return []domain.Workout{}, nil
	}
	return r.find(ctx, bson.M{"member_id": oid})
}

func (r *mongoWorkoutRepository) ListByMemberAndDate(ctx context.Context, memberID, date string) ([]domain.Workout, error) {
	oid, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return []domain.Workout{}, nil
	}
	return r.find(ctx, bson.M{"member_id": oid, "date": date})
}

// CreateMany inserts all inputs in one round trip and returns the stored rows
// in input order.
func (r *mongoWorkoutRepository) CreateMany(ctx context.Context, memberID string, inputs []domain.WorkoutInput) ([]domain.Workout, error) {
	if len(inputs) == 0 {
		return []domain.Workout{}, nil
	}
	oid, err := objectID(memberID)
	if err != nil {
		return nil, err
	}

	docs := make([]interface{}, 0, len(inputs))
	created := make([]domain.Workout, 0, len(inputs))
	for _, in := range inputs {
		d := workoutDoc{
			ID:       primitive.NewObjectID(),
			MemberID: oid,
			Date:     in.Date,
			Exercise: in.Exercise,
			Weight:   in.Weight,
			Sets:     in.Sets,
			Reps:     in.Reps,
		}
		docs = append(docs, d)
		created = append(created, d.toDomain())
	}

	if _, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, err
	}
	return created, nil
}

// Update overwrites every field but the id and owner. The filter requires both
// the workout id and the member id to match.
func (r *mongoWorkoutRepository) Update(ctx context.Context, memberID string, workout domain.Workout) error {
	filter, err := ownedWorkoutFilter(memberID, workout.ID)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{
		"date":     workout.Date,
		"exercise": workout.Exercise,
		"weight":   workout.Weight,
		"sets":     workout.Sets,
		"reps":     workout.Reps,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, memberID, workoutID string) error {
	filter, err := ownedWorkoutFilter(memberID, workoutID)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) DeleteByMember(ctx context.Context, memberID string) error {
	oid, err := primitive.ObjectIDFromHex(memberID)
	if err != nil {
		return nil
	}
	_, err = r.collection.DeleteMany(ctx, bson.M{"member_id": oid})
	return err
}

func ownedWorkoutFilter(memberID, workoutID string) (bson.M, error) {
	mid, err := objectID(memberID)
	if err != nil {
		return nil, err
	}
	wid, err := objectID(workoutID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": wid, "member_id": mid}, nil
}

func workoutIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "member_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}
}

