package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	"github.com/aaronjt12/bw-sms-backend/internal/repository"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

const (
	usersPath         = "users"
	notificationsPath = "notifications"
)

type Config struct {
	URL          string
	KeyPrefix    string
	MaxRetries   int
	RetryBackoff time.Duration
	PoolSize     int
	MinIdleConns int
}

// Store keeps each document path in a hash: users is keyed by user id,
// notifications by a generated uuid. Appends are also published on the
// notifications channel so realtime consumers see them without polling.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(ctx context.Context, config Config) (*Store, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.MaxRetries > 0 {
		opts.MaxRetries = config.MaxRetries
	}
	if config.RetryBackoff > 0 {
		opts.MinRetryBackoff = config.RetryBackoff
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.MinIdleConns > 0 {
		opts.MinIdleConns = config.MinIdleConns
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewStoreWithClient(client, config.KeyPrefix), nil
}

func NewStoreWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) key(path string) string {
	return s.prefix + path
}

// NotificationsChannel is where every appended record is published
func (s *Store) NotificationsChannel() string {
	return s.key(notificationsPath)
}

func (s *Store) Append(ctx context.Context, record *model.NotificationRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return apperrors.NewStore("append notification", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key(notificationsPath), record.ID.String(), payload)
		pipe.Publish(ctx, s.NotificationsChannel(), payload)
		return nil
	})
	if err != nil {
		return apperrors.NewStore("append notification", err)
	}
	return nil
}

func (s *Store) All(ctx context.Context) (model.UserSnapshot, error) {
	values, err := s.client.HGetAll(ctx, s.key(usersPath)).Result()
	if err != nil {
		return nil, apperrors.NewStore("read users", err)
	}

	snapshot := make(model.UserSnapshot, len(values))
	for id, raw := range values {
		if !json.Valid([]byte(raw)) {
			// plain values are still returned, as JSON strings
			quoted, _ := json.Marshal(raw)
			snapshot[id] = quoted
			continue
		}
		snapshot[id] = json.RawMessage(raw)
	}
	return snapshot, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
