package activations

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/idkeeper/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection is the MongoDB collection holding activations.
const Collection = "activations"

type activationDocument struct {
	ID               string    `bson:"_id"`
	AccountID        string    `bson:"accountId"`
	Kind             string    `bson:"kind"`
	VerifyToken      string    `bson:"verifyToken"`
	VerifyExpireDate time.Time `bson:"verifyExpireDate"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(Collection)}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "accountId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("account_created"),
	})
	if err != nil {
		return fmt.Errorf("create activations indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, a *models.Activation) (*models.Activation, error) {
	doc := activationDocument{
		ID:               uuid.NewString(),
		AccountID:        a.AccountID,
		Kind:             string(a.Kind),
		VerifyToken:      a.VerifyToken,
		VerifyExpireDate: a.VerifyExpireDate,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.ID = doc.ID
	return a, nil
}

func (r *MongoRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Activation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{{Key: "accountId", Value: accountID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var docs []activationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	items := make([]models.Activation, 0, len(docs))
	for _, d := range docs {
		items = append(items, models.Activation{
			ID:               d.ID,
			AccountID:        d.AccountID,
			Kind:             models.ActivationKind(d.Kind),
			VerifyToken:      d.VerifyToken,
			VerifyExpireDate: d.VerifyExpireDate,
			CreatedAt:        d.CreatedAt,
			UpdatedAt:        d.UpdatedAt,
		})
	}
	return items, nil
}
