package credentials

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

// Collection is the MongoDB collection holding credentials.
const Collection = "credentials"

type credentialDocument struct {
	ID                     string    `bson:"_id"`
	AccountID              string    `bson:"accountId"`
	DeviceUUID             string    `bson:"deviceUUID"`
	Device                 string    `bson:"device"`
	Platform               string    `bson:"platform"`
	AccessToken            string    `bson:"accessToken"`
	AccessTokenExpireDate  time.Time `bson:"accessTokenExpireDate"`
	RefreshToken           string    `bson:"refreshToken"`
	RefreshTokenExpireDate time.Time `bson:"refreshTokenExpireDate"`
	CreatedAt              time.Time `bson:"createdAt"`
	UpdatedAt              time.Time `bson:"updatedAt"`
}

func (d credentialDocument) model() *models.Credential {
	return &models.Credential{
		ID:                     d.ID,
		AccountID:              d.AccountID,
		DeviceUUID:             d.DeviceUUID,
		Device:                 d.Device,
		Platform:               d.Platform,
		AccessToken:            d.AccessToken,
		AccessTokenExpireDate:  d.AccessTokenExpireDate,
		RefreshToken:           d.RefreshToken,
		RefreshTokenExpireDate: d.RefreshTokenExpireDate,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
	}
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(Collection)}
}

// EnsureIndexes creates the unique indexes on both tokens and on the
// (accountId, deviceUUID) pair, plus the device lookup index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "accessToken", Value: 1}},
			Options: options.Index().SetName("access_token_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "refreshToken", Value: 1}},
			Options: options.Index().SetName("refresh_token_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "accountId", Value: 1}, {Key: "deviceUUID", Value: 1}},
			Options: options.Index().SetName("account_device_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "deviceUUID", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index().SetName("device_updated"),
		},
	})
	if err != nil {
		return fmt.Errorf("create credentials indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	filter := bson.D{{Key: "accountId", Value: c.AccountID}, {Key: "deviceUUID", Value: c.DeviceUUID}}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "device", Value: c.Device},
			{Key: "platform", Value: c.Platform},
			{Key: "accessToken", Value: c.AccessToken},
			{Key: "accessTokenExpireDate", Value: c.AccessTokenExpireDate},
			{Key: "refreshToken", Value: c.RefreshToken},
			{Key: "refreshTokenExpireDate", Value: c.RefreshTokenExpireDate},
			{Key: "updatedAt", Value: c.UpdatedAt},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "_id", Value: uuid.NewString()},
			{Key: "createdAt", Value: c.CreatedAt},
		}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc credentialDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, mapMongoWriteError(err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) FindByDeviceUUID(ctx context.Context, deviceUUID string) (*models.Credential, error) {
	opts := options.FindOne().SetSort(bson.D{
		{Key: "updatedAt", Value: -1},
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})
	return r.findOne(ctx, bson.D{{Key: "deviceUUID", Value: deviceUUID}}, opts)
}

func (r *MongoRepository) FindByAccessToken(ctx context.Context, token string) (*models.Credential, error) {
	return r.findOne(ctx, bson.D{{Key: "accessToken", Value: token}})
}

func (r *MongoRepository) FindByRefreshToken(ctx context.Context, token string) (*models.Credential, error) {
	return r.findOne(ctx, bson.D{{Key: "refreshToken", Value: token}})
}

func (r *MongoRepository) UpdateTokens(ctx context.Context, oldRefreshToken string, c *models.Credential) (*models.Credential, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "accessToken", Value: c.AccessToken},
		{Key: "accessTokenExpireDate", Value: c.AccessTokenExpireDate},
		{Key: "refreshToken", Value: c.RefreshToken},
		{Key: "refreshTokenExpireDate", Value: c.RefreshTokenExpireDate},
		{Key: "updatedAt", Value: c.UpdatedAt},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc credentialDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "refreshToken", Value: oldRefreshToken}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, mapMongoWriteError(err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.D, opts ...options.Lister[options.FindOneOptions]) (*models.Credential, error) {
	var doc credentialDocument
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

// mapMongoWriteError treats every duplicate key as a token collision.
// Concurrent upserts on the same (accountId, deviceUUID) can also surface
// here and are resolved the same way by retrying.
func mapMongoWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return common.ErrDuplicateToken
	}
	return fmt.Errorf("db error: %w", err)
}
