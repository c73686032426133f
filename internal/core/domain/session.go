package domain

import (
	"strings"
	"sync"
	"time"
)

type (
	SessionCode   string
	ParticipantID string
)

// NormalizeCode canonicalizes a human-shareable session code. Codes are
// case-insensitive on the wire; everything inside the registry is upper-case.
func NormalizeCode(raw string) SessionCode {
	return SessionCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// Conn is the live transport attachment of a participant. The signaling core
// never touches the socket directly; it only sends typed events through this
// interface and closes connections it has replaced.
type Conn interface {
	Send(event string, payload interface{}) error
	Close() error
}

// Member is a participant admitted into a session's room.
type Member struct {
	ID          ParticipantID
	DisplayName string
	Conn        Conn
}

// PendingRequest is a not-yet-decided entry request from a non-owner.
type PendingRequest struct {
	ID          ParticipantID
	DisplayName string
	Conn        Conn
	RequestedAt time.Time
}

// Session is one active coordination context. The owner is kept separate from
// Members: the room is always Owner plus Members, and a participant id is
// never present in both Members and Pending at the same time.
//
// All mutation and routing reads happen under the session's own mutex; the
// registry never locks one session while holding another.
type Session struct {
	sync.Mutex

	Code       SessionCode
	Owner      *Member
	Members    map[ParticipantID]*Member
	Pending    map[ParticipantID]*PendingRequest
	CreatedAt  time.Time
	LastActive time.Time
}

func NewSession(code SessionCode) *Session {
	now := time.Now()
	return &Session{
		Code:       code,
		Members:    make(map[ParticipantID]*Member),
		Pending:    make(map[ParticipantID]*PendingRequest),
		CreatedAt:  now,
		LastActive: now,
	}
}

// Touch records activity for idle-expiry accounting. Callers hold the lock.
func (s *Session) Touch() {
	s.LastActive = time.Now()
}

// Roster returns the owner (when present) followed by all members. Callers
// hold the lock; the returned slice is a snapshot safe to iterate after
// unlocking, but the *Member values are shared.
func (s *Session) Roster() []*Member {
	roster := make([]*Member, 0, len(s.Members)+1)
	if s.Owner != nil {
		roster = append(roster, s.Owner)
	}
	for _, m := range s.Members {
		roster = append(roster, m)
	}
	return roster
}

// Resolve finds a routable participant: the owner or a current member.
// Pending requesters are not routable. Callers hold the lock.
func (s *Session) Resolve(id ParticipantID) (*Member, bool) {
	if s.Owner != nil && s.Owner.ID == id {
		return s.Owner, true
	}
	m, ok := s.Members[id]
	return m, ok
}
