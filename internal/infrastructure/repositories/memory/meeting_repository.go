package memory

import (
	"context"
	"sort"
	"sync"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
)

type MeetingRepository struct {
	meetings map[domain.SessionCode]*domain.Meeting
	mu       sync.RWMutex
}

func NewMeetingRepository() ports.MeetingRepository {
	return &MeetingRepository{
		meetings: make(map[domain.SessionCode]*domain.Meeting),
	}
}

func (r *MeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.meetings[meeting.Code]; exists {
		return domain.ErrMeetingExists
	}

	r.meetings[meeting.Code] = cloneMeeting(meeting)
	return nil
}

func (r *MeetingRepository) GetByCode(ctx context.Context, code domain.SessionCode) (*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.meetings[code]
	if !exists {
		return nil, domain.ErrMeetingNotFound
	}

	return cloneMeeting(m), nil
}

func (r *MeetingRepository) Update(ctx context.Context, meeting *domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.meetings[meeting.Code]; !exists {
		return domain.ErrMeetingNotFound
	}

	r.meetings[meeting.Code] = cloneMeeting(meeting)
	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, code domain.SessionCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.meetings[code]; !exists {
		return domain.ErrMeetingNotFound
	}

	delete(r.meetings, code)
	return nil
}

func (r *MeetingRepository) List(ctx context.Context) ([]*domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meetings := make([]*domain.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		meetings = append(meetings, cloneMeeting(m))
	}

	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].CreatedAt.Before(meetings[j].CreatedAt)
	})

	return meetings, nil
}

// cloneMeeting keeps callers from mutating stored records in place.
func cloneMeeting(m *domain.Meeting) *domain.Meeting {
	c := *m
	c.Participants = append([]string(nil), m.Participants...)
	return &c
}
