package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/common"
	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection is the MongoDB collection holding accounts.
const Collection = "accounts"

type accountDocument struct {
	ID           string             `bson:"_id"`
	Email        string             `bson:"email,omitempty"`
	Password     []byte             `bson:"password,omitempty"`
	ActivateDate *time.Time         `bson:"activateDate,omitempty"`
	IsGuest      bool               `bson:"isGuest"`
	Preferences  models.Preferences `bson:"preferences"`
	Mobile       *models.Mobile     `bson:"mobile,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d accountDocument) model() *models.Account {
	return &models.Account{
		ID:           d.ID,
		Email:        d.Email,
		Password:     d.Password,
		ActivateDate: d.ActivateDate,
		IsGuest:      d.IsGuest,
		Preferences:  d.Preferences,
		Mobile:       d.Mobile,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(Collection)}
}

// EnsureIndexes creates the sparse unique index on email. Guests have no
// email field and are left out of the index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return fmt.Errorf("create accounts indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	id := uuid.NewString()
	doc := accountDocument{
		ID:           id,
		Email:        account.Email,
		Password:     account.Password,
		ActivateDate: account.ActivateDate,
		IsGuest:      account.IsGuest,
		Preferences:  account.Preferences,
		Mobile:       account.Mobile,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.ID = id
	return account, nil
}

func (r *MongoRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *MongoRepository) Exists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "email", Value: email}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D) (*models.Account, error) {
	var doc accountDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}
