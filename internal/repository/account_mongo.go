package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/veldt/go_storefront/internal/domain"
)

type accountDoc struct {
	Email     string    `bson:"email"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name"`
	Password  string    `bson:"password"` // bcrypt hash
	CreatedAt time.Time `bson:"created_at"`
}

type MongoAccountStore struct {
	collection *mongo.Collection
}

func NewMongoAccountStore(db *mongo.Database) *MongoAccountStore {
	return &MongoAccountStore{
		collection: db.Collection("users"),
	}
}

func (m *MongoAccountStore) Create(ctx context.Context, account domain.Account) error {
	// Check-then-insert mirrors the unique index below; the index is the
	// actual guarantee under concurrent signups.
	err := m.collection.FindOne(ctx, bson.M{"email": account.Email}).Err()
	if err == nil {
		return ErrDuplicateAccount
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing account: %w", err)
	}

	doc := accountDoc{
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Password:  account.PasswordHash,
		CreatedAt: time.Now(),
	}
	if _, err := m.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (m *MongoAccountStore) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	var doc accountDoc
	err := m.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("failed to find account: %w", err)
	}
	return domain.Account{
		Email:        doc.Email,
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		PasswordHash: doc.Password,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func (m *MongoAccountStore) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create account indexes: %w", err)
	}
	return nil
}
