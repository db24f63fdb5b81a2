package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quizbr/quizbot/models"
)

const (
	keyScores = "quizbot:scores"
	keySent   = "quizbot:sent"
	keyPolls  = "quizbot:polls"
)

// Redis implements Store on a Redis instance: scores as a list of JSON
// entries, the sent set as a Redis set, polls as a hash keyed by poll ID.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an already-connected client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

type redisPoll struct {
	PollID       string `json:"poll_id"`
	CorrectIndex int    `json:"correct_index"`
	Weight       int    `json:"weight"`
	Comment      string `json:"comment,omitempty"`
	ChatID       int64  `json:"chat_id"`
	ThreadID     int    `json:"thread_id,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

func (r *Redis) AppendScore(ctx context.Context, entry models.ScoreEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode score entry: %w", err)
	}
	return r.client.RPush(ctx, keyScores, data).Err()
}

func (r *Redis) Scores(ctx context.Context) ([]models.ScoreEntry, error) {
	raw, err := r.client.LRange(ctx, keyScores, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]models.ScoreEntry, 0, len(raw))
	for _, item := range raw {
		var e models.ScoreEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("failed to decode score entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *Redis) MarkSent(ctx context.Context, questionID string) error {
	return r.client.SAdd(ctx, keySent, questionID).Err()
}

func (r *Redis) SentIDs(ctx context.Context) (map[string]struct{}, error) {
	members, err := r.client.SMembers(ctx, keySent).Result()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(members))
	for _, m := range members {
		ids[m] = struct{}{}
	}
	return ids, nil
}

func (r *Redis) SavePoll(ctx context.Context, rec models.PollRecord) error {
	data, err := json.Marshal(redisPoll{
		PollID:       rec.PollID,
		CorrectIndex: rec.CorrectIndex,
		Weight:       rec.Weight,
		Comment:      rec.Comment,
		ChatID:       rec.Dest.ChatID,
		ThreadID:     rec.Dest.ThreadID,
		CreatedAt:    rec.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode poll record: %w", err)
	}
	return r.client.HSet(ctx, keyPolls, rec.PollID, data).Err()
}

func (r *Redis) Polls(ctx context.Context) ([]models.PollRecord, error) {
	raw, err := r.client.HGetAll(ctx, keyPolls).Result()
	if err != nil {
		return nil, err
	}
	recs := make([]models.PollRecord, 0, len(raw))
	for _, item := range raw {
		var p redisPoll
		if err := json.Unmarshal([]byte(item), &p); err != nil {
			return nil, fmt.Errorf("failed to decode poll record: %w", err)
		}
		recs = append(recs, models.PollRecord{
			PollID:       p.PollID,
			CorrectIndex: p.CorrectIndex,
			Weight:       p.Weight,
			Comment:      p.Comment,
			Dest:         models.Destination{ChatID: p.ChatID, ThreadID: p.ThreadID},
			CreatedAt:    time.Unix(p.CreatedAt, 0),
		})
	}
	return recs, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
