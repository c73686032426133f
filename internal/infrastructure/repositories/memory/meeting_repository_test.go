package memory

import (
	"context"
	"testing"
	"time"

	"meetlive/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeeting(code domain.SessionCode, createdAt time.Time) *domain.Meeting {
	return &domain.Meeting{
		Code:         code,
		HostID:       "host-1",
		HostName:     "Alice",
		Participants: []string{},
		CreatedAt:    createdAt,
	}
}

func TestMeetingRepository_CreateAndGet(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newMeeting("AB12CD", time.Now())))

	got, err := repo.GetByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.HostName)

	err = repo.Create(ctx, newMeeting("AB12CD", time.Now()))
	assert.ErrorIs(t, err, domain.ErrMeetingExists)
}

func TestMeetingRepository_GetAbsent(t *testing.T) {
	repo := NewMeetingRepository()

	_, err := repo.GetByCode(context.Background(), "NOPE99")
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
}

func TestMeetingRepository_Update(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	m := newMeeting("AB12CD", time.Now())
	require.NoError(t, repo.Create(ctx, m))

	m.AddParticipant("user-1")
	require.NoError(t, repo.Update(ctx, m))

	got, err := repo.GetByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1"}, got.Participants)

	err = repo.Update(ctx, newMeeting("NOPE99", time.Now()))
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
}

func TestMeetingRepository_Delete(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newMeeting("AB12CD", time.Now())))
	require.NoError(t, repo.Delete(ctx, "AB12CD"))

	_, err := repo.GetByCode(ctx, "AB12CD")
	assert.ErrorIs(t, err, domain.ErrMeetingNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "AB12CD"), domain.ErrMeetingNotFound)
}

func TestMeetingRepository_ListSortedByCreation(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, newMeeting("NEWER1", now)))
	require.NoError(t, repo.Create(ctx, newMeeting("OLDER1", now.Add(-time.Hour))))

	meetings, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, domain.SessionCode("OLDER1"), meetings[0].Code)
	assert.Equal(t, domain.SessionCode("NEWER1"), meetings[1].Code)
}

func TestMeetingRepository_ReturnsCopies(t *testing.T) {
	repo := NewMeetingRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newMeeting("AB12CD", time.Now())))

	first, err := repo.GetByCode(ctx, "AB12CD")
	require.NoError(t, err)
	first.AddParticipant("user-1")

	second, err := repo.GetByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Empty(t, second.Participants)
}
