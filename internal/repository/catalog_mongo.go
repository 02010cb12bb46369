package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/veldt/go_storefront/internal/domain"
)

type productDoc struct {
	ID          int64  `bson:"id"`
	Name        string `bson:"name"`
	Price       string `bson:"price"`
	Category    string `bson:"category,omitempty"`
	Description string `bson:"description,omitempty"`
}

func (d productDoc) toDomain() (domain.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to parse stored price %q: %w", d.Price, err)
	}
	return domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Price:       price,
		Category:    d.Category,
		Description: d.Description,
	}, nil
}

type categoryDoc struct {
	ID          int64  `bson:"id"`
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
}

type MongoCatalogStore struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewMongoCatalogStore(db *mongo.Database) *MongoCatalogStore {
	return &MongoCatalogStore{
		products:   db.Collection("products"),
		categories: db.Collection("categories"),
	}
}

func (m *MongoCatalogStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err := m.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (m *MongoCatalogStore) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var doc productDoc
	err := m.products.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Product{}, ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.toDomain()
}

func (m *MongoCatalogStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cur, err := m.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cur.Close(ctx)

	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(docs))
	for _, d := range docs {
		categories = append(categories, domain.Category{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
		})
	}
	return categories, nil
}

func (m *MongoCatalogStore) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var doc categoryDoc
	err := m.categories.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Category{}, ErrCategoryNotFound
		}
		return domain.Category{}, fmt.Errorf("failed to get category: %w", err)
	}
	return domain.Category{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
	}, nil
}
