package services

import (
	"context"
	"encoding/json"
	"time"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"

	"go.uber.org/zap"
)

// RoomService implements admission control, signaling relay and disconnect
// reconciliation. Every operation locks exactly one session for its whole
// duration, which is what gives each session its serialized event timeline.
// Outbound sends happen under that lock so notifications for one session are
// observed in operation order.
type RoomService struct {
	registry  ports.SessionRegistry
	directory ports.ConnectionDirectory
	metrics   ports.MetricsCollector
	logger    *zap.SugaredLogger
	idleTTL   time.Duration
}

// NewRoomService creates the signaling core. A nil metrics collector is
// replaced with a no-op one. idleTTL <= 0 disables idle expiry.
func NewRoomService(
	registry ports.SessionRegistry,
	directory ports.ConnectionDirectory,
	metrics ports.MetricsCollector,
	logger *zap.SugaredLogger,
	idleTTL time.Duration,
) *RoomService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &RoomService{
		registry:  registry,
		directory: directory,
		metrics:   metrics,
		logger:    logger,
		idleTTL:   idleTTL,
	}
}

// send delivers one event to one connection. Send failures mean the connection
// is on its way out; its own disconnect path will clean up, so they are only
// logged.
func (s *RoomService) send(conn domain.Conn, event string, payload interface{}) {
	if conn == nil {
		return
	}
	if err := conn.Send(event, payload); err != nil {
		s.logger.Debugw("dropped outbound event", "event", event, "error", err)
	}
}

// broadcast sends event to the whole room (owner plus members), minus the
// excluded ids. Callers hold the session lock.
func (s *RoomService) broadcast(sess *domain.Session, event string, payload interface{}, exclude ...domain.ParticipantID) {
	s.metrics.Broadcast(event)
	for _, m := range sess.Roster() {
		skip := false
		for _, ex := range exclude {
			if m.ID == ex {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		s.send(m.Conn, event, payload)
	}
}

// rebind points the directory at conn for (code, id) and retires the previous
// connection, if any. The old connection's close will hit the disconnect path
// with a binding that no longer exists, which makes it a no-op.
func (s *RoomService) rebind(old, conn domain.Conn, code domain.SessionCode, id domain.ParticipantID) {
	if old != nil && old != conn {
		s.directory.Forget(old)
		if err := old.Close(); err != nil {
			s.logger.Debugw("closing replaced connection", "participant_id", id, "error", err)
		}
	}
	s.directory.Bind(conn, code, id)
}

func (s *RoomService) Create(ctx context.Context, code domain.SessionCode, ownerID domain.ParticipantID, displayName string, conn domain.Conn) error {
	sess := s.registry.GetOrCreate(code)

	sess.Lock()
	defer sess.Unlock()

	if sess.Owner != nil && sess.Owner.ID != ownerID {
		s.logger.Warnw("create declined, session already owned",
			"code", code,
			"owner_id", sess.Owner.ID,
			"caller_id", ownerID,
		)
		return domain.ErrAlreadyOwned
	}

	isNew := sess.Owner == nil
	var old domain.Conn
	if sess.Owner != nil {
		old = sess.Owner.Conn
	}

	sess.Owner = &domain.Member{ID: ownerID, DisplayName: displayName, Conn: conn}
	sess.Touch()
	s.rebind(old, conn, code, ownerID)

	if isNew {
		s.metrics.SessionCreated()
		s.logger.Infow("session created", "code", code, "owner_id", ownerID)
	} else {
		s.logger.Infow("owner connection rebound", "code", code, "owner_id", ownerID)
	}

	s.send(conn, domain.EventSessionCreated, map[string]interface{}{"code": code})
	return nil
}

func (s *RoomService) RequestEntry(ctx context.Context, code domain.SessionCode, id domain.ParticipantID, displayName string, conn domain.Conn) error {
	sess, ok := s.registry.Get(code)
	if !ok {
		s.logger.Debugw("entry request for unknown session", "code", code, "participant_id", id)
		return domain.ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Owner == nil {
		s.logger.Debugw("entry request for ownerless session", "code", code, "participant_id", id)
		return domain.ErrNoOwner
	}
	if sess.Owner.ID == id {
		s.logger.Debugw("owner requested entry to own session", "code", code, "participant_id", id)
		return domain.ErrSelfRequest
	}

	// An id that is already a member is a reconnect: rebind and replay the
	// approval privately, nobody else needs to hear about it.
	if m, exists := sess.Members[id]; exists {
		old := m.Conn
		m.Conn = conn
		if displayName != "" {
			m.DisplayName = displayName
		}
		sess.Touch()
		s.rebind(old, conn, code, id)
		s.logger.Infow("member connection rebound", "code", code, "participant_id", id)

		s.send(conn, domain.EventEntryApproved, map[string]interface{}{"code": code})
		s.send(conn, domain.EventRoomSnapshot, s.snapshotFor(sess, id))
		return nil
	}

	prior, replacing := sess.Pending[id]
	var old domain.Conn
	if replacing {
		old = prior.Conn
	}

	sess.Pending[id] = &domain.PendingRequest{
		ID:          id,
		DisplayName: displayName,
		Conn:        conn,
		RequestedAt: time.Now(),
	}
	sess.Touch()
	s.rebind(old, conn, code, id)

	if !replacing {
		s.metrics.EntryRequested()
	}

	s.send(sess.Owner.Conn, domain.EventEntryRequested, map[string]interface{}{
		"participantId": id,
		"displayName":   displayName,
		"code":          code,
	})
	s.send(conn, domain.EventEntryRequestSent, map[string]interface{}{})

	s.logger.Infow("entry requested", "code", code, "participant_id", id)
	return nil
}

func (s *RoomService) Approve(ctx context.Context, code domain.SessionCode, id domain.ParticipantID) error {
	sess, ok := s.registry.Get(code)
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	req, ok := sess.Pending[id]
	if !ok {
		s.logger.Debugw("approve without pending request", "code", code, "participant_id", id)
		return domain.ErrNoSuchRequest
	}

	delete(sess.Pending, id)
	member := &domain.Member{ID: req.ID, DisplayName: req.DisplayName, Conn: req.Conn}
	sess.Members[id] = member
	sess.Touch()

	s.metrics.EntryResolved()
	s.metrics.ParticipantJoined()

	// The approved connection gets its approval and the room snapshot before
	// the join is announced, so it can prepare negotiation state ahead of the
	// first inbound offer.
	s.send(member.Conn, domain.EventEntryApproved, map[string]interface{}{"code": code})
	s.send(member.Conn, domain.EventRoomSnapshot, s.snapshotFor(sess, id))

	s.broadcast(sess, domain.EventMemberJoined, map[string]interface{}{
		"participantId": id,
		"displayName":   member.DisplayName,
	})

	s.logger.Infow("entry approved", "code", code, "participant_id", id)
	return nil
}

func (s *RoomService) Reject(ctx context.Context, code domain.SessionCode, id domain.ParticipantID) error {
	sess, ok := s.registry.Get(code)
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	req, ok := sess.Pending[id]
	if !ok {
		s.logger.Debugw("reject without pending request", "code", code, "participant_id", id)
		return domain.ErrNoSuchRequest
	}

	delete(sess.Pending, id)
	sess.Touch()
	s.directory.Forget(req.Conn)
	s.metrics.EntryResolved()

	s.send(req.Conn, domain.EventEntryRejected, map[string]interface{}{
		"reason": domain.ReasonRejected,
	})

	s.logger.Infow("entry rejected", "code", code, "participant_id", id)
	return nil
}

func (s *RoomService) Leave(ctx context.Context, code domain.SessionCode, id domain.ParticipantID) error {
	sess, ok := s.registry.Get(code)
	if !ok {
		return nil
	}

	sess.Lock()
	defer sess.Unlock()

	m, ok := sess.Members[id]
	if !ok {
		return nil
	}

	delete(sess.Members, id)
	sess.Touch()
	s.directory.Forget(m.Conn)
	s.metrics.ParticipantLeft()

	s.broadcast(sess, domain.EventMemberLeft, map[string]interface{}{
		"participantId": id,
	})

	s.logger.Infow("member left", "code", code, "participant_id", id)
	return nil
}

func (s *RoomService) Remove(ctx context.Context, code domain.SessionCode, caller, target domain.ParticipantID) error {
	sess, ok := s.registry.Get(code)
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Owner == nil || sess.Owner.ID != caller {
		s.logger.Warnw("remove denied, caller is not owner", "code", code, "caller_id", caller)
		return domain.ErrNotOwner
	}

	m, ok := sess.Members[target]
	if !ok {
		s.logger.Debugw("remove of unknown member", "code", code, "target_id", target)
		return nil
	}

	delete(sess.Members, target)
	sess.Touch()
	s.directory.Forget(m.Conn)
	s.metrics.ParticipantLeft()

	s.send(m.Conn, domain.EventMemberRemoved, map[string]interface{}{
		"reason": domain.ReasonRemoved,
	})
	s.broadcast(sess, domain.EventMemberLeft, map[string]interface{}{
		"participantId": target,
	})

	s.logger.Infow("member removed", "code", code, "target_id", target, "caller_id", caller)
	return nil
}

func (s *RoomService) End(ctx context.Context, code domain.SessionCode, caller domain.ParticipantID) error {
	sess, ok := s.registry.Get(code)
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.Lock()
	if sess.Owner == nil || sess.Owner.ID != caller {
		sess.Unlock()
		s.logger.Warnw("end denied, caller is not owner", "code", code, "caller_id", caller)
		return domain.ErrNotOwner
	}

	s.broadcast(sess, domain.EventSessionEnded, map[string]interface{}{
		"reason": domain.ReasonEnded,
	})
	s.teardownLocked(sess)
	sess.Unlock()

	s.registry.Destroy(code)
	s.metrics.SessionDestroyed()

	s.logger.Infow("session ended", "code", code, "caller_id", caller)
	return nil
}

func (s *RoomService) Relay(ctx context.Context, code domain.SessionCode, from, to domain.ParticipantID, kind domain.SignalKind, payload json.RawMessage) error {
	if !kind.Valid() {
		s.metrics.RelayDropped()
		return domain.ErrUnroutable
	}

	sess, ok := s.registry.Get(code)
	if !ok {
		s.metrics.RelayDropped()
		return domain.ErrUnroutable
	}

	sess.Lock()
	defer sess.Unlock()

	target, ok := sess.Resolve(to)
	if !ok {
		// Best-effort negotiation: the origin is never told about drops.
		s.metrics.RelayDropped()
		s.logger.Debugw("relay target not routable", "code", code, "from_id", from, "target_id", to, "kind", kind)
		return domain.ErrUnroutable
	}

	var fromName string
	if sender, ok := sess.Resolve(from); ok {
		fromName = sender.DisplayName
	}

	sess.Touch()
	s.metrics.MessageRelayed(kind)

	s.send(target.Conn, string(kind), domain.SignalEnvelope{
		FromID:          from,
		FromDisplayName: fromName,
		Payload:         payload,
	})
	return nil
}

func (s *RoomService) Disconnect(ctx context.Context, conn domain.Conn) {
	code, id, ok := s.directory.Lookup(conn)
	if !ok {
		return
	}
	s.directory.Forget(conn)

	sess, ok := s.registry.Get(code)
	if !ok {
		return
	}

	sess.Lock()

	// Branch purely on membership. The conn identity checks guard against a
	// connection that was replaced by a reconnect after this lookup started.
	if req, ok := sess.Pending[id]; ok {
		if req.Conn != conn {
			sess.Unlock()
			return
		}
		delete(sess.Pending, id)
		sess.Touch()
		s.metrics.EntryResolved()
		sess.Unlock()
		s.logger.Debugw("pending requester disconnected", "code", code, "participant_id", id)
		return
	}

	if m, ok := sess.Members[id]; ok {
		if m.Conn != conn {
			sess.Unlock()
			return
		}
		delete(sess.Members, id)
		sess.Touch()
		s.metrics.ParticipantLeft()
		s.broadcast(sess, domain.EventMemberLeft, map[string]interface{}{
			"participantId": id,
		})
		sess.Unlock()
		s.logger.Infow("member disconnected", "code", code, "participant_id", id)
		return
	}

	if sess.Owner != nil && sess.Owner.ID == id {
		if sess.Owner.Conn != conn {
			sess.Unlock()
			return
		}
		s.broadcast(sess, domain.EventOwnerDisconnected, map[string]interface{}{
			"reason": domain.ReasonOwnerLost,
		}, id)
		s.teardownLocked(sess)
		sess.Unlock()

		s.registry.Destroy(code)
		s.metrics.SessionDestroyed()
		s.logger.Infow("owner disconnected, session destroyed", "code", code, "owner_id", id)
		return
	}

	sess.Unlock()
}

// ExpireIdle ends every session whose last activity is older than the idle
// ttl. Disabled when the ttl is zero.
func (s *RoomService) ExpireIdle(ctx context.Context) []domain.SessionCode {
	if s.idleTTL <= 0 {
		return nil
	}

	var expired []domain.SessionCode
	cutoff := time.Now().Add(-s.idleTTL)

	for _, code := range s.registry.Codes() {
		sess, ok := s.registry.Get(code)
		if !ok {
			continue
		}

		sess.Lock()
		if sess.LastActive.After(cutoff) {
			sess.Unlock()
			continue
		}

		s.broadcast(sess, domain.EventSessionEnded, map[string]interface{}{
			"reason": domain.ReasonExpired,
		})
		s.teardownLocked(sess)
		sess.Unlock()

		s.registry.Destroy(code)
		s.metrics.SessionDestroyed()
		expired = append(expired, code)
		s.logger.Infow("idle session expired", "code", code)
	}

	return expired
}

// StartSweeper runs ExpireIdle on the given interval until ctx is cancelled.
func (s *RoomService) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.idleTTL <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ExpireIdle(ctx)
			}
		}
	}()
}

// teardownLocked drops every remaining directory binding and empties the
// session. Callers hold the lock and destroy the registry entry afterwards.
func (s *RoomService) teardownLocked(sess *domain.Session) {
	for _, m := range sess.Members {
		s.directory.Forget(m.Conn)
		s.metrics.ParticipantLeft()
	}
	for _, req := range sess.Pending {
		s.directory.Forget(req.Conn)
		s.metrics.EntryResolved()
	}
	if sess.Owner != nil {
		s.directory.Forget(sess.Owner.Conn)
	}
	sess.Members = make(map[domain.ParticipantID]*domain.Member)
	sess.Pending = make(map[domain.ParticipantID]*domain.PendingRequest)
	sess.Owner = nil
}

// snapshotFor builds the room view delivered to a freshly approved member.
// The member itself is excluded. Callers hold the lock.
func (s *RoomService) snapshotFor(sess *domain.Session, id domain.ParticipantID) domain.RoomSnapshot {
	snap := domain.RoomSnapshot{
		Members: make([]domain.ParticipantInfo, 0, len(sess.Members)),
	}
	if sess.Owner != nil {
		snap.Owner = domain.ParticipantInfo{ID: sess.Owner.ID, DisplayName: sess.Owner.DisplayName}
	}
	for _, m := range sess.Members {
		if m.ID == id {
			continue
		}
		snap.Members = append(snap.Members, domain.ParticipantInfo{ID: m.ID, DisplayName: m.DisplayName})
	}
	return snap
}

// noopMetrics swallows all metric events.
type noopMetrics struct{}

func (noopMetrics) SessionCreated()                       {}
func (noopMetrics) SessionDestroyed()                     {}
func (noopMetrics) ParticipantJoined()                    {}
func (noopMetrics) ParticipantLeft()                      {}
func (noopMetrics) EntryRequested()                       {}
func (noopMetrics) EntryResolved()                        {}
func (noopMetrics) MessageRelayed(kind domain.SignalKind) {}
func (noopMetrics) RelayDropped()                         {}
func (noopMetrics) Broadcast(event string)                {}
