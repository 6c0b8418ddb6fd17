package post

//go:generate mockgen -source=mongo_interfaces.go -destination=mock_mongo_interfaces.go -package=post

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The mongo driver returns concrete types; Repo talks to these
// interfaces so tests can swap in gomock doubles.
type (
	IMongoCollection interface {
		InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (IMongoInsertOneResult, error)
		FindOne(context.Context, interface{}, ...*options.FindOneOptions) IMongoSingleResult
		Find(context.Context, interface{}, ...*options.FindOptions) (IMongoCursor, error)
	}

	IMongoCursor interface {
		Close(context.Context) error
		All(context.Context, interface{}) error
	}

	IMongoSingleResult interface {
		Decode(interface{}) error
	}

	IMongoInsertOneResult interface {
		InsertedID() interface{}
	}
)

var (
	_ IMongoCollection      = (*MongoCollection)(nil)
	_ IMongoCursor          = (*mongo.Cursor)(nil)
	_ IMongoSingleResult    = (*mongo.SingleResult)(nil)
	_ IMongoInsertOneResult = insertOneResult{}
)

// MongoCollection adapts *mongo.Collection to IMongoCollection.
type MongoCollection struct {
	Coll *mongo.Collection
}

type insertOneResult struct {
	res *mongo.InsertOneResult
}

func (r insertOneResult) InsertedID() interface{} {
	return r.res.InsertedID
}

func (c *MongoCollection) InsertOne(ctx context.Context, doc interface{}, opts ...*options.InsertOneOptions) (IMongoInsertOneResult, error) {
	res, err := c.Coll.InsertOne(ctx, doc, opts...)
	if err != nil {
		return nil, err
	}
	return insertOneResult{res: res}, nil
}

func (c *MongoCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) IMongoSingleResult {
	return c.Coll.FindOne(ctx, filter, opts...)
}

// Find returns a nil interface on error, never a typed nil cursor.
func (c *MongoCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (IMongoCursor, error) {
	cur, err := c.Coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return cur, nil
}
