package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store groups the repositories that share one database handle.
type Store struct {
	client *mongo.Client

	Users    *UserRepository
	Sessions *SessionRepository
	Cars     *CarRepository
	Bookings *BookingRepository
	Logs     *LogRepository
}

// Connect dials MongoDB, verifies connectivity with a ping and returns a Store
// over the configured database.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return NewStore(client, client.Database(cfg.Database)), nil
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:   client,
		Users:    NewUserRepository(db),
		Sessions: NewSessionRepository(db),
		Cars:     NewCarRepository(db),
		Bookings: NewBookingRepository(db),
		Logs:     NewLogRepository(db),
	}
}

// EnsureIndexes creates every index the repositories rely on. The unique
// username index is what turns a concurrent duplicate registration into
// domain.ErrUserExists.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for name, fn := range map[string]func(context.Context) error{
		collectionUsers:    s.Users.EnsureIndexes,
		collectionSessions: s.Sessions.EnsureIndexes,
		collectionBookings: s.Bookings.EnsureIndexes,
		collectionLogs:     s.Logs.EnsureIndexes,
	} {
		if err := fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	return nil
}

// Ping reports whether the primary is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
