package ports

import (
	"context"
	"encoding/json"

	"meetlive/internal/core/domain"
)

// RoomService is the session-coordination core: admission control, signaling
// relay, lifecycle broadcasts and disconnect reconciliation. Every method is
// a fast non-blocking state transition; outbound notifications are
// fire-and-forget. Returned errors exist for logging and for the transport's
// targeted decline messages; none of them leaves session state half-mutated.
type RoomService interface {
	// Create binds ownerID as owner of the (possibly new) session behind
	// code. Returns domain.ErrAlreadyOwned when a different owner holds the
	// code. Re-creating with the same id rebinds the owner's connection.
	Create(ctx context.Context, code domain.SessionCode, ownerID domain.ParticipantID, displayName string, conn domain.Conn) error

	// RequestEntry records a pending entry request (last write wins) and
	// notifies the owner. Requests against unknown or ownerless sessions are
	// dropped. An id that is already a member is treated as a reconnect: the
	// connection is rebound and approval is replayed to it.
	RequestEntry(ctx context.Context, code domain.SessionCode, id domain.ParticipantID, displayName string, conn domain.Conn) error

	// Approve converts the pending request into a member. The approved
	// connection receives the room snapshot before anyone is told about the
	// join. Returns domain.ErrNoSuchRequest when nothing is pending for id.
	Approve(ctx context.Context, code domain.SessionCode, id domain.ParticipantID) error

	// Reject removes the pending request and tells the requester.
	Reject(ctx context.Context, code domain.SessionCode, id domain.ParticipantID) error

	// Leave removes the member and broadcasts the departure. Unknown ids are
	// a no-op.
	Leave(ctx context.Context, code domain.SessionCode, id domain.ParticipantID) error

	// Remove is the owner-only eviction. The authorization check happens
	// before any mutation.
	Remove(ctx context.Context, code domain.SessionCode, caller, target domain.ParticipantID) error

	// End is the owner-only termination: broadcast then destroy.
	End(ctx context.Context, code domain.SessionCode, caller domain.ParticipantID) error

	// Relay forwards an opaque negotiation payload to the named target. An
	// unroutable target drops the message without notifying the origin.
	Relay(ctx context.Context, code domain.SessionCode, from, to domain.ParticipantID, kind domain.SignalKind, payload json.RawMessage) error

	// Disconnect reconciles an abruptly lost connection. The branch taken is
	// decided purely by membership lookup; a connection that was already
	// replaced by a reconnect is ignored.
	Disconnect(ctx context.Context, conn domain.Conn)

	// ExpireIdle ends every session idle for longer than the configured ttl.
	// Returns the codes of the sessions it ended.
	ExpireIdle(ctx context.Context) []domain.SessionCode
}

// MeetingService is the advisory metadata CRUD behind the REST API.
type MeetingService interface {
	CreateMeeting(ctx context.Context, code domain.SessionCode, hostID, hostName string) (*domain.Meeting, error)
	GetMeeting(ctx context.Context, code domain.SessionCode) (*domain.Meeting, error)
	EndMeeting(ctx context.Context, code domain.SessionCode) error
	UpdateParticipants(ctx context.Context, code domain.SessionCode, userID, action string) (*domain.Meeting, error)
	ListMeetings(ctx context.Context) ([]domain.MeetingSummary, error)
}

// MetricsCollector receives signaling lifecycle events. Implemented by the
// prometheus collector; a no-op is substituted when monitoring is disabled.
type MetricsCollector interface {
	SessionCreated()
	SessionDestroyed()
	ParticipantJoined()
	ParticipantLeft()
	EntryRequested()
	EntryResolved()
	MessageRelayed(kind domain.SignalKind)
	RelayDropped()
	Broadcast(event string)
}
