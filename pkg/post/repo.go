package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoPost is the document layout of the posts collection.
type mongoPost struct {
	Id       primitive.ObjectID `bson:"_id,omitempty"`
	Date     *time.Time         `bson:"date,omitempty"`
	Image    *string            `bson:"image,omitempty"`
	Title    *string            `bson:"title,omitempty"`
	Category *int               `bson:"category,omitempty"`
	En       *string            `bson:"en,omitempty"`
	Pl       *string            `bson:"pl,omitempty"`
	Pt       *string            `bson:"pt,omitempty"`
}

func (d *mongoPost) toPost() *Post {
	p := &Post{
		Id:    PostId(d.Id.Hex()),
		Image: d.Image,
		Title: d.Title,
		En:    d.En,
		Pl:    d.Pl,
		Pt:    d.Pt,
	}
	if d.Date != nil {
		day := dayOf(*d.Date)
		p.Date = &day
	}
	if d.Category != nil {
		p.Category = Category(*d.Category)
	}
	return p
}

var latestFirst = bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}

// Repo stores posts in a MongoDB collection. Ids are ObjectID hex strings.
type Repo struct {
	posts IMongoCollection
}

func NewPostRepo(postsCol *mongo.Collection) *Repo {
	posts := &MongoCollection{
		Coll: postsCol,
	}
	return &Repo{
		posts: posts,
	}
}

func (r *Repo) Add(ctx context.Context, p *Post) (PostId, error) {
	category := int(p.Category)
	doc := &mongoPost{
		Id:       primitive.NewObjectID(),
		Image:    p.Image,
		Title:    p.Title,
		Category: &category,
		En:       p.En,
		Pl:       p.Pl,
		Pt:       p.Pt,
	}
	if p.Date != nil {
		day := dayOf(*p.Date)
		doc.Date = &day
	}

	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return PostId(``), fmt.Errorf("post/repo: failed inserting a post: %w", err)
	}
	p.Id = PostId(doc.Id.Hex())
	return p.Id, nil
}

func (r *Repo) GetById(ctx context.Context, id PostId) (*Post, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *Repo) GetLatest(ctx context.Context) (*Post, error) {
	return r.findOne(ctx, bson.M{}, options.FindOne().SetSort(latestFirst))
}

func (r *Repo) GetAll(ctx context.Context, byDateDesc bool) ([]*Post, error) {
	var opts []*options.FindOptions
	if byDateDesc {
		opts = append(opts, options.Find().SetSort(latestFirst))
	}

	cursor, err := r.posts.Find(ctx, bson.M{}, opts...)
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding posts: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []mongoPost{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("post/repo: failed getting posts from cursor: %w", err)
	}

	posts := make([]*Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toPost())
	}
	return posts, nil
}

func (r *Repo) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*Post, error) {
	doc := new(mongoPost)
	err := r.posts.FindOne(ctx, filter, opts...).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("post/repo: failed finding a post: %w", err)
	}
	return doc.toPost(), nil
}
