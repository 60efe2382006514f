package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"esglens/internal/ports"
)

const defaultTTL = 24 * time.Hour

// SeenURLs is a Redis-backed set of already-ingested article URLs per
// brand. It only short-circuits work: the Postgres uniqueness constraint
// stays authoritative, so losing the cache costs nothing but a re-check.
type SeenURLs struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SeenFilter = (*SeenURLs)(nil)

// NewSeenURLs connects to Redis at addr. TTL caps how long a brand's seen
// set outlives its last insert.
func NewSeenURLs(addr, password string, db int, ttl time.Duration) *SeenURLs {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SeenURLs{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		}),
		ttl: ttl,
	}
}

// Seen reports whether url was marked for brandID.
func (s *SeenURLs) Seen(ctx context.Context, brandID, url string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key(brandID), url).Result()
	if err != nil {
		return false, fmt.Errorf("seen check: %w", err)
	}
	return ok, nil
}

// MarkSeen records urls for brandID and refreshes the set's TTL.
func (s *SeenURLs) MarkSeen(ctx context.Context, brandID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	members := make([]any, 0, len(urls))
	for _, u := range urls {
		members = append(members, u)
	}

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.key(brandID), members...)
	pipe.Expire(ctx, s.key(brandID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SeenURLs) Close() error {
	return s.client.Close()
}

func (s *SeenURLs) key(brandID string) string {
	return "news:seen:" + brandID
}
