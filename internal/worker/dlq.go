package worker

// dlq.go keeps jobs that exhausted MaxJobAttempts under dlq:{queue}, with the
// original envelope intact so an operator can requeue them once the cause
// (SMTP outage, missing storage dir) is fixed.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type deadJob struct {
	Job
	Queue    string    `json:"queue"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

func dlqKey(queue string) string { return "dlq:" + queue }

// SendToDLQ parks job in the dead letter list of queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	data, err := json.Marshal(deadJob{Job: job, Queue: queue, Reason: reason, FailedAt: time.Now().UTC()})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, dlqKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Str("reason", reason).
		Msg("dlq: job parked")
}

// DLQLength is reported by the health endpoint.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, dlqKey(queue)).Result()
}

// Requeue moves up to max parked jobs back to queue, oldest first, with their
// attempt counter reset. It returns how many were moved.
func Requeue(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	moved := 0
	for moved < max {
		raw, err := rdb.RPop(ctx, dlqKey(queue)).Bytes()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return moved, err
		}
		var dj deadJob
		if err := json.Unmarshal(raw, &dj); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: dropping unreadable entry")
			continue
		}
		dj.Job.Attempts = 0
		if err := push(ctx, rdb, queue, dj.Job); err != nil {
			// put it back so nothing is lost
			_ = rdb.RPush(ctx, dlqKey(queue), raw).Err()
			return moved, fmt.Errorf("dlq: requeue: %w", err)
		}
		moved++
	}
	if moved > 0 {
		log.Info().Str("queue", queue).Int("jobs", moved).Msg("dlq: jobs requeued")
	}
	return moved, nil
}
