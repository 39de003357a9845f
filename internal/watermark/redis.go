package watermark

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	watermarkKey = "ticket-relay:watermark"
	processedKey = "ticket-relay:processed"
)

// RedisStore keeps the dedup state in Redis so multiple poller restarts
// (or hosts) share one view of what was already relayed.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

// Load reads the stored watermark, initializing it to the current time
// when the key is absent.
func (s *RedisStore) Load(ctx context.Context) (time.Time, error) {
	raw, err := s.client.Get(ctx, watermarkKey).Result()
	if errors.Is(err, redis.Nil) {
		ts := s.now().UTC()
		if err := s.client.Set(ctx, watermarkKey, ts.Format(time.RFC3339), 0).Err(); err != nil {
			return time.Time{}, err
		}
		return ts, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, raw)
}

// Save advances the watermark, ignoring values that would move it backwards.
func (s *RedisStore) Save(ctx context.Context, ts time.Time) error {
	current, err := s.Load(ctx)
	if err == nil && !ts.After(current) {
		return nil
	}
	return s.client.Set(ctx, watermarkKey, ts.UTC().Format(time.RFC3339), 0).Err()
}

// Seen reports whether the ticket ID is in the processed set.
func (s *RedisStore) Seen(ctx context.Context, ticketID int64) (bool, error) {
	return s.client.SIsMember(ctx, processedKey, strconv.FormatInt(ticketID, 10)).Result()
}

// MarkSeen records the ticket ID in the processed set.
func (s *RedisStore) MarkSeen(ctx context.Context, ticketID int64) error {
	return s.client.SAdd(ctx, processedKey, strconv.FormatInt(ticketID, 10)).Err()
}
