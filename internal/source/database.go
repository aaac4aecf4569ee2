package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mailrelay/mailrelay/internal/repository"
)

// DatabasePlaceholder is the body returned by the Database source.
const DatabasePlaceholder = "Pretend this came from a database!"

// Database is a stand-in database source configured with a connection
// string. It does not execute a query; see StoredMessage for that.
type Database struct {
	connectionString string
}

// NewDatabase creates a Database source.
func NewDatabase(connectionString string) *Database {
	return &Database{connectionString: connectionString}
}

// MessageBody returns DatabasePlaceholder.
func (d *Database) MessageBody(context.Context) (string, error) {
	if d.connectionString == "" {
		return "", fmt.Errorf("%w: empty connection string", ErrConnectionFailure)
	}
	return DatabasePlaceholder, nil
}

// String names the source for logs. The connection string is left out.
func (d *Database) String() string {
	return "database"
}

// BodyStore looks up a named message body.
type BodyStore interface {
	Body(ctx context.Context, name string) (string, error)
}

// StoredMessage reads a named body from a BodyStore such as
// repository.MessageRepository.
type StoredMessage struct {
	store BodyStore
	name  string
}

// NewStoredMessage creates a StoredMessage source.
func NewStoredMessage(store BodyStore, name string) *StoredMessage {
	return &StoredMessage{store: store, name: name}
}

// MessageBody queries the store.
func (s *StoredMessage) MessageBody(ctx context.Context) (string, error) {
	body, err := s.store.Body(ctx, s.name)
	if errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrMessageNotFound, s.name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnectionFailure, err)
	}
	return body, nil
}

// String names the source for logs.
func (s *StoredMessage) String() string {
	return "stored:" + s.name
}

// KeyReader reads string values by key, as database.Redis does.
type KeyReader interface {
	GetString(ctx context.Context, key string) (string, error)
}

// Redis reads a body stored under a Redis key.
type Redis struct {
	reader KeyReader
	key    string
}

// NewRedis creates a Redis source.
func NewRedis(reader KeyReader, key string) *Redis {
	return &Redis{reader: reader, key: key}
}

// MessageBody fetches the key.
func (r *Redis) MessageBody(ctx context.Context) (string, error) {
	body, err := r.reader.GetString(ctx, r.key)
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrMessageNotFound, r.key)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConnectionFailure, err)
	}
	return body, nil
}

// String names the source for logs.
func (r *Redis) String() string {
	return "redis:" + r.key
}
