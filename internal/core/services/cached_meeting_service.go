package services

import (
	"context"
	"fmt"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
	"meetlive/pkg/cache"
)

// CachedMeetingService wraps MeetingService with read-through caching on
// GetMeeting and ListMeetings. Writes invalidate the affected keys.
type CachedMeetingService struct {
	baseService ports.MeetingService
	cache       *cache.Cache
}

// NewCachedMeetingService creates a new cached meeting service
func NewCachedMeetingService(baseService ports.MeetingService, c *cache.Cache) ports.MeetingService {
	return &CachedMeetingService{
		baseService: baseService,
		cache:       c,
	}
}

func meetingCacheKey(code domain.SessionCode) string {
	return fmt.Sprintf("meeting:%s", code)
}

const meetingListCacheKey = "meetings:list"

// CreateMeeting creates a meeting and invalidates the list cache
func (s *CachedMeetingService) CreateMeeting(ctx context.Context, code domain.SessionCode, hostID, hostName string) (*domain.Meeting, error) {
	meeting, err := s.baseService.CreateMeeting(ctx, code, hostID, hostName)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(meetingListCacheKey)
	return meeting, nil
}

// GetMeeting gets a meeting with caching
func (s *CachedMeetingService) GetMeeting(ctx context.Context, code domain.SessionCode) (*domain.Meeting, error) {
	value, err := s.cache.GetOrSet(ctx, meetingCacheKey(code), func(ctx context.Context) (interface{}, error) {
		return s.baseService.GetMeeting(ctx, code)
	})
	if err != nil {
		return nil, err
	}

	return value.(*domain.Meeting), nil
}

// EndMeeting ends a meeting and invalidates its caches
func (s *CachedMeetingService) EndMeeting(ctx context.Context, code domain.SessionCode) error {
	if err := s.baseService.EndMeeting(ctx, code); err != nil {
		return err
	}

	s.cache.Delete(meetingCacheKey(code))
	s.cache.Delete(meetingListCacheKey)
	return nil
}

// UpdateParticipants updates the roster and invalidates the affected caches
func (s *CachedMeetingService) UpdateParticipants(ctx context.Context, code domain.SessionCode, userID, action string) (*domain.Meeting, error) {
	meeting, err := s.baseService.UpdateParticipants(ctx, code, userID, action)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(meetingCacheKey(code))
	s.cache.Delete(meetingListCacheKey)
	return meeting, nil
}

// ListMeetings lists meetings with caching
func (s *CachedMeetingService) ListMeetings(ctx context.Context) ([]domain.MeetingSummary, error) {
	value, err := s.cache.GetOrSet(ctx, meetingListCacheKey, func(ctx context.Context) (interface{}, error) {
		return s.baseService.ListMeetings(ctx)
	})
	if err != nil {
		return nil, err
	}

	return value.([]domain.MeetingSummary), nil
}
