package repo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepo struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

func NewMongoRepo(ctx context.Context, connectionString, dbName, collectionName string) (*MongoRepo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, errors.Wrap(err, "mongo.Connect")
	}

	return &MongoRepo{
		Client:     client,
		Collection: client.Database(dbName).Collection(collectionName),
	}, nil
}

// EnsureIndexes creates the owner index used by FindByOwner.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "r.Collection.Indexes().CreateOne")
	}
	return nil
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.Client.Disconnect(ctx)
}

func (r *MongoRepo) FindByOwner(ctx context.Context, userID string) ([]Note, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, errors.Wrap(err, "r.Collection.Find")
	}

	notes := []Note{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, errors.Wrap(err, "cursor.All")
	}

	return notes, nil
}

func (r *MongoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Note, error) {
	var note Note
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Note{}, ErrNotFound
		}
		return Note{}, errors.Wrap(err, "r.Collection.FindOne")
	}

	return note, nil
}

func (r *MongoRepo) Insert(ctx context.Context, note Note) (Note, error) {
	note.ID = primitive.NewObjectID()
	note.CreatedAt = time.Now().UTC()

	_, err := r.Collection.InsertOne(ctx, note)
	if err != nil {
		return Note{}, errors.Wrap(err, "r.Collection.InsertOne")
	}

	return note, nil
}

func (r *MongoRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, patch NotePatch) (Note, error) {
	// $set with an empty document is rejected by the server, so an empty
	// patch degrades to a plain read.
	if patch.IsEmpty() {
		return r.FindByID(ctx, id)
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Tag != nil {
		set["tag"] = *patch.Tag
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var note Note
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Note{}, ErrNotFound
		}
		return Note{}, errors.Wrap(err, "r.Collection.FindOneAndUpdate")
	}

	return note, nil
}

func (r *MongoRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "r.Collection.DeleteOne")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
