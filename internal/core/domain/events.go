package domain

// Inbound event names accepted by the signal server.
const (
	EventCreateSession  = "create-session"
	EventRequestEntry   = "request-entry"
	EventApproveEntry   = "approve-entry"
	EventRejectEntry    = "reject-entry"
	EventRelayOffer     = "relay-offer"
	EventRelayAnswer    = "relay-answer"
	EventRelayCandidate = "relay-candidate"
	EventRemoveMember   = "remove-member"
	EventLeaveSession   = "leave-session"
	EventEndSession     = "end-session"
)

// Outbound event names.
const (
	EventSessionCreated    = "session-created"
	EventEntryRequested    = "entry-requested"
	EventEntryRequestSent  = "entry-request-sent"
	EventEntryApproved     = "entry-approved"
	EventEntryRejected     = "entry-rejected"
	EventRoomSnapshot      = "room-snapshot"
	EventMemberJoined      = "member-joined"
	EventMemberLeft        = "member-left"
	EventMemberRemoved     = "member-removed"
	EventSessionEnded      = "session-ended"
	EventOwnerDisconnected = "owner-disconnected"
	EventError             = "error"
)

// User-facing reasons attached to terminal notifications.
const (
	ReasonRejected  = "Host rejected your join request"
	ReasonRemoved   = "Host removed you from the meeting"
	ReasonEnded     = "Host ended the meeting"
	ReasonOwnerLost = "Host disconnected"
	ReasonExpired   = "Meeting expired due to inactivity"
)
