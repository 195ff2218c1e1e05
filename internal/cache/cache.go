package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Rdb is the process-wide Redis client. Nil when REDIS_URL is not
// configured; every helper degrades to a no-op in that case.
var Rdb *redis.Client

func Init(redisURL string) {
	if redisURL == "" {
		fmt.Println("cache: REDIS_URL not set, verification summary cache disabled")
		return
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		fmt.Println("cache: invalid REDIS_URL, cache disabled:", err)
		return
	}
	Rdb = redis.NewClient(opts)
	if err := Rdb.Ping(context.Background()).Err(); err != nil {
		fmt.Println("cache: redis unreachable, cache disabled:", err)
		Rdb = nil
		return
	}
	fmt.Println("(SUCCESS): connected to redis")
}

// Summary is the cached outcome of the latest verification attempt for a
// user: status and reason only, never raw OCR output.
type Summary struct {
	AttemptID  string    `json:"attempt_id"`
	Status     string    `json:"status"`
	IsVerified bool      `json:"is_verified"`
	Reason     string    `json:"reason"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const summaryTTL = 24 * time.Hour

func summaryKey(userID uint) string {
	return fmt.Sprintf("verification:summary:%d", userID)
}

func PutSummary(ctx context.Context, userID uint, s Summary) {
	if Rdb == nil {
		return
	}
	b, err := json.Marshal(s)
	if err != nil {
		return
	}
	if err := Rdb.Set(ctx, summaryKey(userID), b, summaryTTL).Err(); err != nil {
		fmt.Println("cache: failed to store verification summary:", err)
	}
}

func GetSummary(ctx context.Context, userID uint) (*Summary, bool) {
	if Rdb == nil {
		return nil, false
	}
	b, err := Rdb.Get(ctx, summaryKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var s Summary
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, false
	}
	return &s, true
}
