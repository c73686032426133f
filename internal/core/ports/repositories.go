package ports

import (
	"context"

	"meetlive/internal/core/domain"
)

// SessionRegistry owns the collection of live sessions. None of its
// operations fail: absence is an expected outcome callers handle.
type SessionRegistry interface {
	// GetOrCreate returns the session for code, creating an empty ownerless
	// one when the code is unknown.
	GetOrCreate(code domain.SessionCode) *domain.Session

	// Get returns the session for code, or false when the code is unknown.
	Get(code domain.SessionCode) (*domain.Session, bool)

	// Destroy removes the session; no-op for unknown codes.
	Destroy(code domain.SessionCode)

	// Codes snapshots the codes of all live sessions.
	Codes() []domain.SessionCode

	// Len reports the number of live sessions.
	Len() int
}

// MeetingRepository stores the advisory meeting metadata records.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByCode(ctx context.Context, code domain.SessionCode) (*domain.Meeting, error)
	Update(ctx context.Context, meeting *domain.Meeting) error
	Delete(ctx context.Context, code domain.SessionCode) error
	List(ctx context.Context) ([]*domain.Meeting, error)
}

// ConnectionDirectory maps live transport connections to the session and
// participant they currently represent. Pure bookkeeping, no policy.
type ConnectionDirectory interface {
	// Bind associates conn with (code, id), replacing any previous binding
	// for conn.
	Bind(conn domain.Conn, code domain.SessionCode, id domain.ParticipantID)

	// Lookup resolves the binding for conn.
	Lookup(conn domain.Conn) (domain.SessionCode, domain.ParticipantID, bool)

	// Forget drops the binding for conn; no-op when conn is unknown.
	Forget(conn domain.Conn)

	// Len reports the number of bound connections.
	Len() int
}
