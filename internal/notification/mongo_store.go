package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/bookspace/pkg/pagination"
)

// CollectionName is the notifications collection.
const CollectionName = "notifications"

type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the indexes the list and unread queries rely on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "isRead", Value: 1}, {Key: "account", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, p CreateParams) (*Notification, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.build(s.now())
	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (s *MongoStore) Get(ctx context.Context, user, id bson.ObjectID) (*Notification, error) {
	var n Notification
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "user", Value: user}}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find notification %s: %w", id.Hex(), err)
	}
	return &n, nil
}

func (s *MongoStore) ListForUser(ctx context.Context, user bson.ObjectID, page, limit int) (pagination.Page[Notification], error) {
	p := pagination.Clamp(page, limit)
	filter := bson.D{{Key: "user", Value: user}}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return pagination.Page[Notification]{}, fmt.Errorf("count notifications: %w", err)
	}
	if p.Skip() >= total {
		return pagination.NewPage[Notification](nil, total, p), nil
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
	items, err := s.find(ctx, filter, opts)
	if err != nil {
		return pagination.Page[Notification]{}, err
	}
	return pagination.NewPage(items, total, p), nil
}

func (s *MongoStore) ListUnread(ctx context.Context, user bson.ObjectID, account *bson.ObjectID) ([]Notification, error) {
	return s.find(ctx, unreadQuery(user, account), options.Find().SetSort(newestFirst))
}

func (s *MongoStore) CountUnread(ctx context.Context, user bson.ObjectID, account *bson.ObjectID) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, unreadQuery(user, account))
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (s *MongoStore) MarkRead(ctx context.Context, user bson.ObjectID, account *bson.ObjectID) (int64, error) {
	res, err := s.coll.UpdateMany(ctx, unreadQuery(user, account),
		bson.D{{Key: "$set", Value: bson.D{{Key: "isRead", Value: true}}}})
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return res.ModifiedCount, nil
}

func (s *MongoStore) MarkDelivered(ctx context.Context, id bson.ObjectID) error {
	res, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "isDelivered", Value: true}}}})
	if err != nil {
		return fmt.Errorf("mark notification delivered: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteAllForUser(ctx context.Context, user bson.ObjectID) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.D{{Key: "user", Value: user}})
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return res.DeletedCount, nil
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (s *MongoStore) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]Notification, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	items := make([]Notification, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return items, nil
}

// unreadQuery mirrors matchesAccount: a nil account matches only documents
// stored without the field.
func unreadQuery(user bson.ObjectID, account *bson.ObjectID) bson.D {
	q := bson.D{{Key: "user", Value: user}, {Key: "isRead", Value: false}}
	if account == nil {
		return append(q, bson.E{Key: "account", Value: bson.D{{Key: "$exists", Value: false}}})
	}
	return append(q, bson.E{Key: "account", Value: *account})
}
