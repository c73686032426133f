package domain

import "time"

// Meeting is the advisory metadata record served by the REST API. It is
// deliberately independent from live Session state and may drift from it.
type Meeting struct {
	Code         SessionCode `json:"code"`
	HostID       string      `json:"hostId"`
	HostName     string      `json:"hostName"`
	Participants []string    `json:"participants"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// MeetingSummary is the listing shape exposed by the admin endpoint.
type MeetingSummary struct {
	Code             SessionCode `json:"code"`
	HostName         string      `json:"hostName"`
	ParticipantCount int         `json:"participantCount"`
	CreatedAt        time.Time   `json:"createdAt"`
}

func (m *Meeting) Summary() MeetingSummary {
	return MeetingSummary{
		Code:             m.Code,
		HostName:         m.HostName,
		ParticipantCount: len(m.Participants),
		CreatedAt:        m.CreatedAt,
	}
}

// AddParticipant appends a participant id if not already present.
func (m *Meeting) AddParticipant(userID string) {
	for _, p := range m.Participants {
		if p == userID {
			return
		}
	}
	m.Participants = append(m.Participants, userID)
}

// RemoveParticipant removes a participant id; unknown ids are a no-op.
func (m *Meeting) RemoveParticipant(userID string) {
	out := m.Participants[:0]
	for _, p := range m.Participants {
		if p != userID {
			out = append(out, p)
		}
	}
	m.Participants = out
}
