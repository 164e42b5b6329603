package mongo

import (
	"context"
	"neonfit/studio-tracker/internal/repository"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// NewStore wires the studio repositories onto one database.
func NewStore(client *mongo.Client, dbName string) *repository.Store {
	db := client.Database(dbName)
	return &repository.Store{
		Members:  NewMongoMemberRepository(db),
		Workouts: NewMongoWorkoutRepository(db),
		Users:    NewMongoUserRepository(db),
		Close: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
			defer cancel()
			return client.Disconnect(ctx)
		},
	}
}

// EnsureIndexes creates the indexes of every studio collection. Failures are
// logged and do not stop the caller.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure := func(name string, indexes []mongo.IndexModel) {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			log.Warnf("mongo: failed to create indexes for collection %s: %v", name, err)
		}
	}
	ensure(memberCollectionName, memberIndexes())
	ensure(workoutCollectionName, workoutIndexes())
	ensure(userCollectionName, userIndexes())
}

// objectID converts a hex id; an unparsable id can never match a row.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrNotFound
	}
	return oid, nil
}
