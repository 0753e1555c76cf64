package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Client wraps the driver handle scoped to the service database. The repos
// and the outbox store hang off DB; the raw client is only needed for
// lifecycle calls.
type Client struct {
	DB *mongo.Database
}

// New connects and selects the database. Retryable writes stay on because
// the repos rely on single-document CAS updates.
func New(uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true).SetAppName("weekstay")
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

// Ping backs the readiness check; a bounded timeout keeps a dead mongo from
// hanging the health handler.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.DB.Client().Ping(pingCtx, nil)
}

// Close disconnects the underlying client during shutdown.
func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}
