package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/activations"
	"github.com/dmitrijs2005/idkeeper/internal/server/repositories/credentials"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoRepositoryManager vends MongoDB-backed repositories. Uniqueness is
// enforced by indexes created in RunMigrations.
type MongoRepositoryManager struct {
	client      *mongo.Client
	accounts    *accounts.MongoRepository
	credentials *credentials.MongoRepository
	activations *activations.MongoRepository
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	db := client.Database(database)
	return &MongoRepositoryManager{
		client:      client,
		accounts:    accounts.NewMongoRepository(db),
		credentials: credentials.NewMongoRepository(db),
		activations: activations.NewMongoRepository(db),
	}
}

// OpenMongo connects to uri and checks the primary is reachable.
func OpenMongo(ctx context.Context, uri, database string) (RepositoryManager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoRepositoryManager(client, database), nil
}

func (m *MongoRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *MongoRepositoryManager) Credentials() credentials.Repository {
	return m.credentials
}

func (m *MongoRepositoryManager) Activations() activations.Repository {
	return m.activations
}

// RunMigrations creates the unique and lookup indexes.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.accounts.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := m.credentials.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.activations.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
