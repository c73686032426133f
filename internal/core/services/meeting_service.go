package services

import (
	"context"
	"net/http"
	"time"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
	apperrors "meetlive/pkg/errors"

	"go.uber.org/zap"
)

const (
	ParticipantActionAdd    = "add"
	ParticipantActionRemove = "remove"
)

// meetingService is the advisory metadata CRUD behind the REST API. It shares
// nothing with the live signaling state and may drift from it.
type meetingService struct {
	repo   ports.MeetingRepository
	logger *zap.SugaredLogger
}

func NewMeetingService(repo ports.MeetingRepository, logger *zap.SugaredLogger) ports.MeetingService {
	return &meetingService{
		repo:   repo,
		logger: logger,
	}
}

func (s *meetingService) CreateMeeting(ctx context.Context, code domain.SessionCode, hostID, hostName string) (*domain.Meeting, error) {
	meeting := &domain.Meeting{
		Code:         code,
		HostID:       hostID,
		HostName:     hostName,
		Participants: []string{},
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, meeting); err != nil {
		if err == domain.ErrMeetingExists {
			return nil, apperrors.NewConflictError("meeting code already in use").WithContext("code", string(code))
		}
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to create meeting", http.StatusInternalServerError)
	}

	s.logger.Infow("meeting created", "code", code, "host_id", hostID)
	return meeting, nil
}

func (s *meetingService) GetMeeting(ctx context.Context, code domain.SessionCode) (*domain.Meeting, error) {
	meeting, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if err == domain.ErrMeetingNotFound {
			return nil, apperrors.NewNotFoundError("meeting").WithContext("code", string(code))
		}
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to get meeting", http.StatusInternalServerError)
	}
	return meeting, nil
}

func (s *meetingService) EndMeeting(ctx context.Context, code domain.SessionCode) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		if err == domain.ErrMeetingNotFound {
			return apperrors.NewNotFoundError("meeting").WithContext("code", string(code))
		}
		return apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to end meeting", http.StatusInternalServerError)
	}

	s.logger.Infow("meeting ended", "code", code)
	return nil
}

func (s *meetingService) UpdateParticipants(ctx context.Context, code domain.SessionCode, userID, action string) (*domain.Meeting, error) {
	meeting, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if err == domain.ErrMeetingNotFound {
			return nil, apperrors.NewNotFoundError("meeting").WithContext("code", string(code))
		}
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to get meeting", http.StatusInternalServerError)
	}

	switch action {
	case ParticipantActionAdd:
		meeting.AddParticipant(userID)
	case ParticipantActionRemove:
		meeting.RemoveParticipant(userID)
	default:
		return nil, apperrors.NewInvalidInputError("action must be add or remove").WithContext("action", action)
	}

	if err := s.repo.Update(ctx, meeting); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to update meeting", http.StatusInternalServerError)
	}

	return meeting, nil
}

func (s *meetingService) ListMeetings(ctx context.Context) ([]domain.MeetingSummary, error) {
	meetings, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to list meetings", http.StatusInternalServerError)
	}

	summaries := make([]domain.MeetingSummary, 0, len(meetings))
	for _, m := range meetings {
		summaries = append(summaries, m.Summary())
	}
	return summaries, nil
}
