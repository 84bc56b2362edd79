package updates

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores one Mongo document per update.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository ensures the lookup index exists and returns the repository.
func NewMongoRepository(ctx context.Context, col *mongo.Collection) (*MongoRepository, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "documentName", Value: 1}, {Key: "receivedAt", Value: 1}}}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, fmt.Errorf("create updates index: %w", err)
	}
	return &MongoRepository{col: col}, nil
}

func (m *MongoRepository) Append(ctx context.Context, u *Update) error {
	if _, err := m.col.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("insert update: %w", err)
	}
	return nil
}

func (m *MongoRepository) List(ctx context.Context, f Filter) ([]*Update, error) {
	filter := bson.M{}
	if f.DocumentName != "" {
		filter["documentName"] = f.DocumentName
	}
	opts := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: 1}})
	if f.Limit > 0 {
		// newest first, reversed below
		opts = options.Find().SetSort(bson.D{{Key: "receivedAt", Value: -1}}).SetLimit(int64(f.Limit))
	}
	cur, err := m.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find updates: %w", err)
	}
	defer cur.Close(ctx)

	out := []*Update{}
	for cur.Next(ctx) {
		var u Update
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if f.Limit > 0 {
		reverse(out)
	}
	return out, nil
}

// reverse flips a newest-first page back into receive order.
func reverse(list []*Update) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}
