package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/bookspace/pkg/pagination"
)

// MongoRepository stores documents in one collection.
type MongoRepository[T any] struct {
	coll *mongo.Collection
	opts options[T]
	soft bool
}

func NewMongoRepository[T any](db *mongo.Database, collection string, opts ...Option[T]) *MongoRepository[T] {
	_, soft := softMeta(new(T))
	return &MongoRepository[T]{
		coll: db.Collection(collection),
		opts: newOptions(opts),
		soft: soft,
	}
}

// EnsureIndexes creates the unique indexes and the listing index. Unique
// indexes on soft-deleted entities only cover visible documents.
func (r *MongoRepository[T]) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	for _, u := range r.opts.unique {
		keys := make(bson.D, 0, len(u.Fields))
		for _, f := range u.Fields {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		idx := mongooptions.Index().SetUnique(true).SetName(u.Name)
		if r.soft {
			idx.SetPartialFilterExpression(bson.D{{Key: "deleted", Value: false}})
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: idx})
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create %s indexes: %w", r.coll.Name(), err)
	}
	return nil
}

func (r *MongoRepository[T]) Create(ctx context.Context, doc *T) error {
	stamp(meta(doc), r.opts.now())
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return r.translate(err, "insert")
	}
	return nil
}

func (r *MongoRepository[T]) Get(ctx context.Context, id bson.ObjectID) (*T, error) {
	var doc T
	err := r.coll.FindOne(ctx, r.byID(id)).Decode(&doc)
	if err != nil {
		return nil, r.translate(err, "find")
	}
	return &doc, nil
}

func (r *MongoRepository[T]) List(ctx context.Context, f Filter[T], p pagination.Params) (pagination.Page[T], error) {
	p = pagination.Clamp(p.Page, p.Limit)
	filter := r.visible()
	if f != nil {
		filter = append(filter, f.Query()...)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return pagination.Page[T]{}, r.translate(err, "count")
	}
	if p.Skip() >= total {
		return pagination.NewPage[T](nil, total, p), nil
	}

	cur, err := r.coll.Find(ctx, filter, mongooptions.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit)))
	if err != nil {
		return pagination.Page[T]{}, r.translate(err, "find")
	}
	items := make([]T, 0, p.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return pagination.Page[T]{}, r.translate(err, "decode")
	}
	return pagination.NewPage(items, total, p), nil
}

func (r *MongoRepository[T]) Replace(ctx context.Context, doc *T) error {
	b := meta(doc)
	current, err := r.Get(ctx, b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = meta(current).CreatedAt
	stamp(b, r.opts.now())

	res, err := r.coll.ReplaceOne(ctx, r.byID(b.ID), doc)
	if err != nil {
		return r.translate(err, "replace")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id bson.ObjectID) error {
	if r.soft {
		now := r.opts.now().UTC()
		res, err := r.coll.UpdateOne(ctx, r.byID(id), bson.D{{Key: "$set", Value: bson.D{
			{Key: "deleted", Value: true},
			{Key: "deletedAt", Value: now},
		}}})
		if err != nil {
			return r.translate(err, "soft delete")
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	res, err := r.coll.DeleteOne(ctx, r.byID(id))
	if err != nil {
		return r.translate(err, "delete")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository[T]) visible() bson.D {
	if !r.soft {
		return bson.D{}
	}
	return bson.D{{Key: "deleted", Value: bson.D{{Key: "$ne", Value: true}}}}
}

func (r *MongoRepository[T]) byID(id bson.ObjectID) bson.D {
	return append(bson.D{{Key: "_id", Value: id}}, r.visible()...)
}

// translate maps driver errors onto ErrNotFound and unique violations.
func (r *MongoRepository[T]) translate(err error, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return r.duplicate(err)
	}
	return fmt.Errorf("%s %s: %w", op, r.coll.Name(), err)
}

// duplicate picks the violated constraint from the server message, which
// names the index.
func (r *MongoRepository[T]) duplicate(err error) error {
	var we mongo.WriteException
	msg := err.Error()
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		msg = we.WriteErrors[0].Message
	}
	for _, u := range r.opts.unique {
		if strings.Contains(msg, "index: "+u.Name+" ") {
			return u.violation()
		}
	}
	if len(r.opts.unique) > 0 {
		return r.opts.unique[0].violation()
	}
	return fmt.Errorf("duplicate key in %s: %w", r.coll.Name(), err)
}
