package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/veldt/go_storefront/internal/domain"
)

type orderLineDoc struct {
	ProductID   int64  `bson:"product_id"`
	ProductName string `bson:"product_name"`
	UnitPrice   string `bson:"unit_price"`
	Quantity    int    `bson:"quantity"`
}

type orderDoc struct {
	OrderID      string         `bson:"order_id"`
	AccountID    string         `bson:"account_id"`
	Street       string         `bson:"street"`
	City         string         `bson:"city"`
	Region       string         `bson:"region"`
	PostalCode   string         `bson:"postal_code"`
	Country      string         `bson:"country"`
	Lines        []orderLineDoc `bson:"lines"`
	Subtotal     string         `bson:"subtotal"`
	ShippingCost string         `bson:"shipping_cost"`
	Tax          string         `bson:"tax"`
	Total        string         `bson:"total"`
	PlacedAt     string         `bson:"placed_at"` // day precision, 2006-01-02
	CreatedAt    time.Time      `bson:"created_at"`
}

func orderToDoc(o domain.Order) orderDoc {
	lines := make([]orderLineDoc, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineDoc{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice.String(),
			Quantity:    l.Quantity,
		}
	}
	return orderDoc{
		OrderID:      o.OrderID,
		AccountID:    o.AccountID,
		Street:       o.Shipping.Street,
		City:         o.Shipping.City,
		Region:       o.Shipping.Region,
		PostalCode:   o.Shipping.PostalCode,
		Country:      o.Shipping.Country,
		Lines:        lines,
		Subtotal:     o.Subtotal.String(),
		ShippingCost: o.ShippingCost.String(),
		Tax:          o.Tax.String(),
		Total:        o.Total.String(),
		PlacedAt:     o.PlacedDate(),
		CreatedAt:    time.Now(),
	}
}

func (d orderDoc) toDomain() (domain.Order, error) {
	parse := func(field, s string) (decimal.Decimal, error) {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("failed to parse stored %s %q: %w", field, s, err)
		}
		return v, nil
	}

	subtotal, err := parse("subtotal", d.Subtotal)
	if err != nil {
		return domain.Order{}, err
	}
	shipping, err := parse("shipping cost", d.ShippingCost)
	if err != nil {
		return domain.Order{}, err
	}
	tax, err := parse("tax", d.Tax)
	if err != nil {
		return domain.Order{}, err
	}
	total, err := parse("total", d.Total)
	if err != nil {
		return domain.Order{}, err
	}
	placedAt, err := time.Parse(domain.PlacedDateFormat, d.PlacedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to parse stored placement date %q: %w", d.PlacedAt, err)
	}

	lines := make([]domain.OrderLine, len(d.Lines))
	for i, l := range d.Lines {
		price, err := parse("unit price", l.UnitPrice)
		if err != nil {
			return domain.Order{}, err
		}
		lines[i] = domain.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   price,
			Quantity:    l.Quantity,
		}
	}

	return domain.Order{
		OrderID:   d.OrderID,
		AccountID: d.AccountID,
		Shipping: domain.ShippingAddress{
			Street:     d.Street,
			City:       d.City,
			Region:     d.Region,
			PostalCode: d.PostalCode,
			Country:    d.Country,
		},
		Lines:        lines,
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Tax:          tax,
		Total:        total,
		PlacedAt:     placedAt,
	}, nil
}

type MongoOrderStore struct {
	collection *mongo.Collection
}

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{
		collection: db.Collection("orders"),
	}
}

func (m *MongoOrderStore) Create(ctx context.Context, order domain.Order) (string, error) {
	orderID, err := newOrderID()
	if err != nil {
		return "", fmt.Errorf("failed to generate order id: %w", err)
	}
	order.OrderID = orderID

	if _, err := m.collection.InsertOne(ctx, orderToDoc(order)); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	return orderID, nil
}

func (m *MongoOrderStore) ListByAccount(ctx context.Context, accountID string) ([]domain.Order, error) {
	filter := bson.M{"account_id": accountID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (m *MongoOrderStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}

const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newOrderID builds a human-shareable ORD-prefixed token. Nine random base-36
// characters give enough entropy to stay collision-resistant across
// concurrent checkouts without coordinating a counter.
func newOrderID() (string, error) {
	buf := make([]byte, 9)
	max := big.NewInt(int64(len(orderIDAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = orderIDAlphabet[n.Int64()]
	}
	return "ORD" + string(buf), nil
}
