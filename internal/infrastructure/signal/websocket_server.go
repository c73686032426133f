package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
	"meetlive/pkg/validation"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SignalMessage is the inbound envelope.
type SignalMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type createSessionPayload struct {
	Code        string `json:"code"`
	OwnerID     string `json:"ownerId"`
	DisplayName string `json:"displayName,omitempty"`
}

type requestEntryPayload struct {
	Code          string `json:"code"`
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

type entryDecisionPayload struct {
	Code          string `json:"code"`
	ParticipantID string `json:"participantId"`
}

type relayPayload struct {
	Code     string          `json:"code"`
	TargetID string          `json:"targetId"`
	Payload  json.RawMessage `json:"payload"`
}

type memberPayload struct {
	Code          string `json:"code"`
	ParticipantID string `json:"participantId,omitempty"`
}

// WebSocketServer upgrades connections at /ws and translates wire frames into
// room service operations. It holds no session state of its own; sender
// identity comes from the connection directory.
type WebSocketServer struct {
	rooms     ports.RoomService
	directory ports.ConnectionDirectory

	pingInterval    time.Duration
	pongTimeout     time.Duration
	writeTimeout    time.Duration
	maxMessageBytes int64

	rateLimit rate.Limit
	rateBurst int

	logger *zap.SugaredLogger
}

func NewWebSocketServer(rooms ports.RoomService, directory ports.ConnectionDirectory, logger *zap.SugaredLogger) *WebSocketServer {
	return &WebSocketServer{
		rooms:           rooms,
		directory:       directory,
		pingInterval:    30 * time.Second, // Default ping interval
		pongTimeout:     60 * time.Second, // Default pong timeout
		writeTimeout:    10 * time.Second, // Default write timeout
		maxMessageBytes: 64 * 1024,
		rateLimit:       rate.Inf,
		logger:          logger,
	}
}

// SetPingInterval sets ping interval for WebSocket connections
func (s *WebSocketServer) SetPingInterval(interval time.Duration) {
	s.pingInterval = interval
}

// SetPongTimeout sets pong timeout for WebSocket connections
func (s *WebSocketServer) SetPongTimeout(timeout time.Duration) {
	s.pongTimeout = timeout
}

// SetWriteTimeout sets the per-write deadline
func (s *WebSocketServer) SetWriteTimeout(timeout time.Duration) {
	s.writeTimeout = timeout
}

// SetMaxMessageBytes caps the size of inbound frames; 0 means unlimited
func (s *WebSocketServer) SetMaxMessageBytes(limit int64) {
	s.maxMessageBytes = limit
}

// SetRateLimit enables per-connection inbound rate limiting
func (s *WebSocketServer) SetRateLimit(messagesPerSecond float64, burst int) {
	s.rateLimit = rate.Limit(messagesPerSecond)
	s.rateBurst = burst
}

func (s *WebSocketServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	wc := newWSConn(conn, s.writeTimeout)
	defer wc.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Infow("connection established", "remote", remote)

	if s.maxMessageBytes > 0 {
		conn.SetReadLimit(s.maxMessageBytes)
	}
	conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
		return nil
	})

	var limiter *rate.Limiter
	if s.rateLimit != rate.Inf {
		limiter = rate.NewLimiter(s.rateLimit, s.rateBurst)
	}

	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	messageChan := make(chan SignalMessage, 10)
	errorChan := make(chan error, 1)

	go func() {
		for {
			var msg SignalMessage
			if err := conn.ReadJSON(&msg); err != nil {
				errorChan <- err
				return
			}
			conn.SetReadDeadline(time.Now().Add(s.pongTimeout))
			messageChan <- msg
		}
	}()

	for {
		select {
		case msg := <-messageChan:
			if limiter != nil && !limiter.Allow() {
				s.logger.Warnw("inbound message rate limit exceeded, dropping", "remote", remote, "type", msg.Type)
				continue
			}
			if err := s.handleMessage(context.Background(), wc, msg); err != nil {
				s.logger.Infow("error handling message", "remote", remote, "type", msg.Type, "error", err)
				s.sendError(wc, err.Error())
			}

		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.Infow("error sending ping", "remote", remote, "error", err)
				goto cleanup
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Infow("error reading message", "remote", remote, "error", err)
			}
			goto cleanup
		}
	}

cleanup:
	s.rooms.Disconnect(context.Background(), wc)
	s.logger.Infow("connection closed", "remote", remote)
}

// handleMessage dispatches one inbound frame. Only malformed frames produce an
// error (and thus an outbound error event); declined or unroutable operations
// are logged by the room service and stay silent on the wire.
func (s *WebSocketServer) handleMessage(ctx context.Context, wc *wsConn, msg SignalMessage) error {
	if msg.Type == "" {
		return fmt.Errorf("message type is required")
	}

	switch msg.Type {
	case domain.EventCreateSession:
		return s.handleCreateSession(ctx, wc, msg)
	case domain.EventRequestEntry:
		return s.handleRequestEntry(ctx, wc, msg)
	case domain.EventApproveEntry:
		return s.handleEntryDecision(ctx, wc, msg, true)
	case domain.EventRejectEntry:
		return s.handleEntryDecision(ctx, wc, msg, false)
	case domain.EventRelayOffer:
		return s.handleRelay(ctx, wc, msg, domain.KindOffer)
	case domain.EventRelayAnswer:
		return s.handleRelay(ctx, wc, msg, domain.KindAnswer)
	case domain.EventRelayCandidate:
		return s.handleRelay(ctx, wc, msg, domain.KindCandidate)
	case domain.EventRemoveMember:
		return s.handleRemoveMember(ctx, wc, msg)
	case domain.EventLeaveSession:
		return s.handleLeaveSession(ctx, wc, msg)
	case domain.EventEndSession:
		return s.handleEndSession(ctx, wc, msg)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (s *WebSocketServer) handleCreateSession(ctx context.Context, wc *wsConn, msg SignalMessage) error {
	var payload createSessionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid create-session payload: %w", err)
	}
	if err := validation.ValidateMeetingCode(payload.Code); err != nil {
		return fmt.Errorf("invalid create-session payload: %w", err)
	}
	if err := validation.ValidateParticipantID(payload.OwnerID); err != nil {
		return fmt.Errorf("invalid create-session payload: %w", err)
	}
	if payload.DisplayName != "" {
		if err := validation.ValidateDisplayName(payload.DisplayName); err != nil {
			return fmt.Errorf("invalid create-session payload: %w", err)
		}
	}

	code := domain.NormalizeCode(payload.Code)
	if err := s.rooms.Create(ctx, code, domain.ParticipantID(payload.OwnerID), payload.DisplayName, wc); err != nil {
		s.logger.Infow("create-session declined", "code", code, "error", err)
	}
	return nil
}

func (s *WebSocketServer) handleRequestEntry(ctx context.Context, wc *wsConn, msg SignalMessage) error {
	var payload requestEntryPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid request-entry payload: %w", err)
	}
	if err := validation.ValidateMeetingCode(payload.Code); err != nil {
		return fmt.Errorf("invalid request-entry payload: %w", err)
	}
	if err := validation.ValidateParticipantID(payload.ParticipantID); err != nil {
		return fmt.Errorf("invalid request-entry payload: %w", err)
	}
	if err := validation.ValidateDisplayName(payload.DisplayName); err != nil {
		return fmt.Errorf("invalid request-entry payload: %w", err)
	}

	code := domain.NormalizeCode(payload.Code)
	if err := s.rooms.RequestEntry(ctx, code, domain.ParticipantID(payload.ParticipantID), payload.DisplayName, wc); err != nil {
		s.logger.Debugw("request-entry dropped", "code", code, "error", err)
	}
	return nil
}

func (s *WebSocketServer) handleEntryDecision(ctx context.Context, wc *wsConn, msg SignalMessage, approve bool) error {
	var payload entryDecisionPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid entry decision payload: %w", err)
	}

	code := domain.NormalizeCode(payload.Code)
	id := domain.ParticipantID(payload.ParticipantID)

	var err error
	if approve {
		err = s.rooms.Approve(ctx, code, id)
	} else {
		err = s.rooms.Reject(ctx, code, id)
	}
	if err != nil {
		s.logger.Debugw("entry decision ignored", "code", code, "participant_id", id, "approve", approve, "error", err)
	}
	return nil
}

func (s *WebSocketServer) handleRelay(ctx context.Context, wc *wsConn, msg SignalMessage, kind domain.SignalKind) error {
	var payload relayPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid relay payload: %w", err)
	}

	code, from, ok := s.senderIdentity(wc)
	if !ok {
		s.logger.Debugw("relay from unbound connection dropped", "kind", kind)
		return nil
	}
	if payload.Code != "" {
		code = domain.NormalizeCode(payload.Code)
	}

	if err := s.rooms.Relay(ctx, code, from, domain.ParticipantID(payload.TargetID), kind, payload.Payload); err != nil {
		s.logger.Debugw("relay dropped", "code", code, "target_id", payload.TargetID, "kind", kind, "error", err)
	}
	return nil
}

func (s *WebSocketServer) handleRemoveMember(ctx context.Context, wc *wsConn, msg SignalMessage) error {
	var payload memberPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid remove-member payload: %w", err)
	}

	_, caller, ok := s.senderIdentity(wc)
	if !ok {
		s.logger.Debugw("remove-member from unbound connection dropped")
		return nil
	}

	code := domain.NormalizeCode(payload.Code)
	if err := s.rooms.Remove(ctx, code, caller, domain.ParticipantID(payload.ParticipantID)); err != nil {
		s.logger.Infow("remove-member declined", "code", code, "caller_id", caller, "error", err)
	}
	return nil
}

func (s *WebSocketServer) handleLeaveSession(ctx context.Context, wc *wsConn, msg SignalMessage) error {
	var payload memberPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid leave-session payload: %w", err)
	}

	code := domain.NormalizeCode(payload.Code)
	id := domain.ParticipantID(payload.ParticipantID)
	if id == "" {
		_, boundID, ok := s.senderIdentity(wc)
		if !ok {
			s.logger.Debugw("leave-session from unbound connection dropped", "code", code)
			return nil
		}
		id = boundID
	}

	if err := s.rooms.Leave(ctx, code, id); err != nil {
		s.logger.Debugw("leave-session ignored", "code", code, "participant_id", id, "error", err)
	}
	return nil
}

func (s *WebSocketServer) handleEndSession(ctx context.Context, wc *wsConn, msg SignalMessage) error {
	var payload memberPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("invalid end-session payload: %w", err)
	}

	_, caller, ok := s.senderIdentity(wc)
	if !ok {
		s.logger.Debugw("end-session from unbound connection dropped")
		return nil
	}

	code := domain.NormalizeCode(payload.Code)
	if err := s.rooms.End(ctx, code, caller); err != nil {
		s.logger.Infow("end-session declined", "code", code, "caller_id", caller, "error", err)
	}
	return nil
}

// senderIdentity resolves who this connection currently is.
func (s *WebSocketServer) senderIdentity(wc *wsConn) (domain.SessionCode, domain.ParticipantID, bool) {
	return s.directory.Lookup(wc)
}

func (s *WebSocketServer) sendError(wc *wsConn, message string) {
	if err := wc.Send(domain.EventError, map[string]interface{}{"message": message}); err != nil {
		s.logger.Debugw("failed to send error frame", "error", err)
	}
}

// HealthCheck reports liveness and the number of bound connections.
func (s *WebSocketServer) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().Unix(),
		"connections": s.directory.Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
