package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/veldt/go_storefront/internal/domain"
)

// One document per (account, product) pair, matching the carts collection
// layout. Prices are stored as strings to keep decimal exactness.
type cartLineDoc struct {
	AccountID   string    `bson:"account_id"`
	ProductID   int64     `bson:"product_id"`
	ProductName string    `bson:"product_name"`
	UnitPrice   string    `bson:"unit_price"`
	Quantity    int       `bson:"quantity"`
	AddedAt     time.Time `bson:"added_at"`
}

func (d cartLineDoc) toDomain() (domain.CartLine, error) {
	price, err := decimal.NewFromString(d.UnitPrice)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("failed to parse stored unit price %q: %w", d.UnitPrice, err)
	}
	return domain.CartLine{
		AccountID:   d.AccountID,
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		UnitPrice:   price,
		Quantity:    d.Quantity,
		AddedAt:     d.AddedAt,
	}, nil
}

type MongoCartStore struct {
	collection *mongo.Collection
}

func NewMongoCartStore(db *mongo.Database) *MongoCartStore {
	return &MongoCartStore{
		collection: db.Collection("carts"),
	}
}

func (m *MongoCartStore) BulkRead(ctx context.Context, accountID string) ([]domain.CartLine, error) {
	filter := bson.M{"account_id": accountID}
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}})

	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}
	defer cur.Close(ctx)

	var docs []cartLineDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cart lines: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(docs))
	for _, d := range docs {
		line, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (m *MongoCartStore) UpsertIncrement(ctx context.Context, line domain.CartLine) error {
	filter := bson.M{
		"account_id": line.AccountID,
		"product_id": line.ProductID,
	}

	// $inc on the server's current quantity keeps concurrent sessions of the
	// same account convergent; the snapshot fields are only written on insert.
	update := bson.M{
		"$inc": bson.M{"quantity": line.Quantity},
		"$setOnInsert": bson.M{
			"product_name": line.ProductName,
			"unit_price":   line.UnitPrice.String(),
			"added_at":     time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}
	return nil
}

func (m *MongoCartStore) SetQuantity(ctx context.Context, accountID string, productID int64, quantity int) error {
	filter := bson.M{
		"account_id": accountID,
		"product_id": productID,
	}
	update := bson.M{
		"$set": bson.M{"quantity": quantity},
	}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set cart line quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (m *MongoCartStore) Delete(ctx context.Context, accountID string, productID int64) error {
	filter := bson.M{
		"account_id": accountID,
		"product_id": productID,
	}

	result, err := m.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (m *MongoCartStore) ClearAll(ctx context.Context, accountID string) error {
	filter := bson.M{"account_id": accountID}

	if _, err := m.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (m *MongoCartStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "account_id", Value: 1},
				{Key: "product_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}
