package domain

import "encoding/json"

// SignalKind distinguishes the three negotiation message families the relay
// forwards. Payloads stay opaque end to end.
type SignalKind string

const (
	KindOffer     SignalKind = "offer"
	KindAnswer    SignalKind = "answer"
	KindCandidate SignalKind = "candidate"
)

func (k SignalKind) Valid() bool {
	switch k {
	case KindOffer, KindAnswer, KindCandidate:
		return true
	}
	return false
}

// RoomSnapshot is delivered to a freshly approved member before anyone else
// learns about the join, so the new member can set up negotiation state ahead
// of the first inbound offer.
type RoomSnapshot struct {
	Owner   ParticipantInfo   `json:"owner"`
	Members []ParticipantInfo `json:"members"`
}

type ParticipantInfo struct {
	ID          ParticipantID `json:"id"`
	DisplayName string        `json:"displayName"`
}

// SignalEnvelope is what the relay hands to the target connection. Payload is
// forwarded verbatim.
type SignalEnvelope struct {
	FromID          ParticipantID   `json:"fromId"`
	FromDisplayName string          `json:"fromDisplayName,omitempty"`
	Payload         json.RawMessage `json:"payload"`
}
