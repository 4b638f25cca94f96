package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/eleven-am/scene-narrator/internal/narration"
	"github.com/redis/go-redis/v9"
)

const (
	metricsTTL = 7 * 24 * time.Hour
	MaxHours   = 7 * 24
)

// Store keeps hourly narration counters in redis hashes.
type Store struct {
	redis *redis.Client
	now   func() time.Time
}

func NewStore(redisClient *redis.Client) *Store {
	return &Store{redis: redisClient, now: time.Now}
}

// Record implements narration.Recorder.
func (s *Store) Record(ctx context.Context, outcome narration.Outcome) error {
	key := RedisKey(s.now())

	pipe := s.redis.Pipeline()
	pipe.HIncrBy(ctx, key, FieldRequests, 1)
	switch {
	case outcome.Result.Succeeded():
		pipe.HIncrBy(ctx, key, FieldSucceeded, 1)
	case outcome.Result.Err.Kind == narration.KindValidation:
		pipe.HIncrBy(ctx, key, FieldValidationFailed, 1)
	default:
		pipe.HIncrBy(ctx, key, FieldFailed, 1)
	}
	pipe.HIncrBy(ctx, key, FieldTotalLatencyMs, outcome.Latency.Milliseconds())
	pipe.HIncrBy(ctx, key, FieldLatencyCount, 1)
	pipe.Expire(ctx, key, metricsTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetMetrics returns non-empty buckets for the last hours, newest first.
func (s *Store) GetMetrics(ctx context.Context, hours int) ([]Hourly, error) {
	if hours <= 0 {
		return nil, nil
	}
	if hours > MaxHours {
		hours = MaxHours
	}

	now := s.now().UTC()
	pipe := s.redis.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, hours)
	times := make([]time.Time, hours)
	for i := 0; i < hours; i++ {
		t := now.Add(-time.Duration(i) * time.Hour)
		times[i] = t
		cmds[i] = pipe.HGetAll(ctx, RedisKey(t))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	var buckets []Hourly
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			continue
		}

		h := Hourly{
			Date: times[i].Format("2006-01-02"),
			Hour: times[i].Hour(),
		}
		h.Requests = parseInt(data[FieldRequests])
		h.Succeeded = parseInt(data[FieldSucceeded])
		h.Failed = parseInt(data[FieldFailed])
		h.ValidationFailed = parseInt(data[FieldValidationFailed])

		totalLatency := parseInt(data[FieldTotalLatencyMs])
		latencyCount := parseInt(data[FieldLatencyCount])
		if latencyCount > 0 {
			h.AvgLatencyMs = totalLatency / latencyCount
		}

		buckets = append(buckets, h)
	}

	return buckets, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func parseInt(v string) int64 {
	n, _ := strconv.ParseInt(v, 10, 64)
	return n
}
