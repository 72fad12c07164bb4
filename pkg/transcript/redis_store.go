package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store keeps a rolling transcript of assistant conversations in Redis
// for audit and debugging. The authoritative conversation state always
// lives with the caller; this store is write-only from the server's
// perspective.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

type Entry struct {
	SiteId   string    `json:"site_id"`
	UserText string    `json:"user_text"`
	Reply    string    `json:"reply"`
	Route    string    `json:"route,omitempty"`
	At       time.Time `json:"at"`
}

func NewStore(redisURL string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Store{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

// Append records one completed turn. Failures are the caller's to log;
// transcript writes never block the reply.
func (s *Store) Append(ctx context.Context, siteId uuid.UUID, entry Entry) error {
	entry.SiteId = siteId.String()
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript entry: %w", err)
	}

	key := "transcript:" + siteId.String()
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}
