package services

import (
	"context"
	"testing"
	"time"

	"meetlive/internal/core/domain"
	"meetlive/internal/infrastructure/repositories/memory"
	"meetlive/pkg/cache"
	apperrors "meetlive/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestMeetingService(t *testing.T) *meetingService {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()
	return NewMeetingService(memory.NewMeetingRepository(), logger).(*meetingService)
}

func TestMeetingService_CreateAndGet(t *testing.T) {
	svc := newTestMeetingService(t)
	ctx := context.Background()

	meeting, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCode("AB12CD"), meeting.Code)
	assert.Empty(t, meeting.Participants)

	got, err := svc.GetMeeting(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.HostName)
}

func TestMeetingService_CreateDuplicateIsConflict(t *testing.T) {
	svc := newTestMeetingService(t)
	ctx := context.Background()

	_, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)

	_, err = svc.CreateMeeting(ctx, "AB12CD", "host-2", "Eve")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeConflict, appErr.Code)
}

func TestMeetingService_GetAbsentIsNotFound(t *testing.T) {
	svc := newTestMeetingService(t)

	_, err := svc.GetMeeting(context.Background(), "NOPE99")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestMeetingService_UpdateParticipants(t *testing.T) {
	svc := newTestMeetingService(t)
	ctx := context.Background()

	_, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)

	meeting, err := svc.UpdateParticipants(ctx, "AB12CD", "user-1", ParticipantActionAdd)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, meeting.Participants)

	// Adding the same id twice keeps the roster deduplicated.
	meeting, err = svc.UpdateParticipants(ctx, "AB12CD", "user-1", ParticipantActionAdd)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, meeting.Participants)

	meeting, err = svc.UpdateParticipants(ctx, "AB12CD", "user-1", ParticipantActionRemove)
	require.NoError(t, err)
	assert.Empty(t, meeting.Participants)

	_, err = svc.UpdateParticipants(ctx, "AB12CD", "user-1", "promote")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
}

func TestMeetingService_EndMeeting(t *testing.T) {
	svc := newTestMeetingService(t)
	ctx := context.Background()

	_, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.EndMeeting(ctx, "AB12CD"))

	_, err = svc.GetMeeting(ctx, "AB12CD")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestMeetingService_ListMeetings(t *testing.T) {
	svc := newTestMeetingService(t)
	ctx := context.Background()

	_, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)
	_, err = svc.UpdateParticipants(ctx, "AB12CD", "user-1", ParticipantActionAdd)
	require.NoError(t, err)

	summaries, err := svc.ListMeetings(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.SessionCode("AB12CD"), summaries[0].Code)
	assert.Equal(t, 1, summaries[0].ParticipantCount)
}

func TestCachedMeetingService_ReadThrough(t *testing.T) {
	base := newTestMeetingService(t)
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)

	svc := NewCachedMeetingService(base, c)
	ctx := context.Background()

	_, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)

	first, err := svc.GetMeeting(ctx, "AB12CD")
	require.NoError(t, err)

	// Second read is served from the cache.
	second, err := svc.GetMeeting(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCachedMeetingService_WriteInvalidates(t *testing.T) {
	base := newTestMeetingService(t)
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)

	svc := NewCachedMeetingService(base, c)
	ctx := context.Background()

	_, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)

	_, err = svc.GetMeeting(ctx, "AB12CD")
	require.NoError(t, err)

	_, err = svc.UpdateParticipants(ctx, "AB12CD", "user-1", ParticipantActionAdd)
	require.NoError(t, err)

	got, err := svc.GetMeeting(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, got.Participants)
}

func TestCachedMeetingService_EndRemovesFromCache(t *testing.T) {
	base := newTestMeetingService(t)
	c := cache.New(time.Minute)
	t.Cleanup(c.Stop)

	svc := NewCachedMeetingService(base, c)
	ctx := context.Background()

	_, err := svc.CreateMeeting(ctx, "AB12CD", "host-1", "Alice")
	require.NoError(t, err)
	_, err = svc.GetMeeting(ctx, "AB12CD")
	require.NoError(t, err)

	require.NoError(t, svc.EndMeeting(ctx, "AB12CD"))

	_, err = svc.GetMeeting(ctx, "AB12CD")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
