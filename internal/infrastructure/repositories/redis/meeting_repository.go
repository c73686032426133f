package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	meetingKeyPrefix = "meetlive:meeting:"
	meetingIndexKey  = "meetlive:meetings"
)

// MeetingRepository stores advisory meeting records in Redis as JSON values,
// with a set keeping the index of known codes. A zero TTL keeps records until
// they are explicitly deleted.
type MeetingRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewMeetingRepository(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) ports.MeetingRepository {
	return &MeetingRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func meetingKey(code domain.SessionCode) string {
	return meetingKeyPrefix + string(code)
}

func (r *MeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	data, err := json.Marshal(meeting)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting: %w", err)
	}

	ok, err := r.client.SetNX(ctx, meetingKey(meeting.Code), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store meeting: %w", err)
	}
	if !ok {
		return domain.ErrMeetingExists
	}

	if err := r.client.SAdd(ctx, meetingIndexKey, string(meeting.Code)).Err(); err != nil {
		return fmt.Errorf("failed to index meeting: %w", err)
	}

	return nil
}

func (r *MeetingRepository) GetByCode(ctx context.Context, code domain.SessionCode) (*domain.Meeting, error) {
	data, err := r.client.Get(ctx, meetingKey(code)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}

	var meeting domain.Meeting
	if err := json.Unmarshal(data, &meeting); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meeting: %w", err)
	}

	return &meeting, nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	data, err := json.Marshal(meeting)
	if err != nil {
		return fmt.Errorf("failed to marshal meeting: %w", err)
	}

	ok, err := r.client.SetXX(ctx, meetingKey(meeting.Code), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	if !ok {
		return domain.ErrMeetingNotFound
	}

	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, code domain.SessionCode) error {
	deleted, err := r.client.Del(ctx, meetingKey(code)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	if deleted == 0 {
		return domain.ErrMeetingNotFound
	}

	if err := r.client.SRem(ctx, meetingIndexKey, string(code)).Err(); err != nil {
		return fmt.Errorf("failed to unindex meeting: %w", err)
	}

	return nil
}

func (r *MeetingRepository) List(ctx context.Context) ([]*domain.Meeting, error) {
	codes, err := r.client.SMembers(ctx, meetingIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	meetings := make([]*domain.Meeting, 0, len(codes))
	for _, code := range codes {
		m, err := r.GetByCode(ctx, domain.SessionCode(code))
		if err == domain.ErrMeetingNotFound {
			// Record expired out from under its index entry; prune it.
			r.client.SRem(ctx, meetingIndexKey, code)
			continue
		}
		if err != nil {
			if r.logger != nil {
				r.logger.Warnw("skipping unreadable meeting record", "code", code, "error", err)
			}
			continue
		}
		meetings = append(meetings, m)
	}

	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].CreatedAt.Before(meetings[j].CreatedAt)
	})

	return meetings, nil
}
