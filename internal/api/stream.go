package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/gabrielflorianoo/VoiceCalc/internal/calc"
)

// EventType names the websocket payloads emitted on a session stream.
type EventType string

const (
	EventListening  EventType = "listening"
	EventInterim    EventType = "interim"
	EventProcessing EventType = "processing"
	EventResult     EventType = "result"
	EventState      EventType = "state"
	EventError      EventType = "error"
)

// VoiceState mirrors the microphone indicator shown by the client.
type VoiceState string

const (
	VoiceIdle       VoiceState = "IDLE"
	VoiceListening  VoiceState = "LISTENING"
	VoiceProcessing VoiceState = "PROCESSING"
	VoiceError      VoiceState = "ERROR"
)

const listeningFeedback = "Ouvindo..."

// StreamMessage is a transcript segment sent by the client. Interim
// segments only update the feedback line; final ones are interpreted.
type StreamMessage struct {
	Transcript string `json:"transcript"`
	Final      bool   `json:"final"`
}

// StreamEvent describes websocket payloads emitted on a session stream.
type StreamEvent struct {
	Type       EventType   `json:"type"`
	SessionID  string      `json:"session_id"`
	VoiceState VoiceState  `json:"voice_state,omitempty"`
	Transcript string      `json:"transcript,omitempty"`
	Feedback   string      `json:"feedback,omitempty"`
	Cue        calc.Cue    `json:"cue,omitempty"`
	Outcome    *OutcomeDTO `json:"outcome,omitempty"`
	State      *StateDTO   `json:"state,omitempty"`
	Message    string      `json:"message,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// SessionNotifier tracks websocket clients per calculator session and fans
// out state changes to them.
type SessionNotifier struct {
	mu      sync.Mutex
	clients map[string]map[*wsClient]struct{}
	last    map[string]StreamEvent
}

// NewSessionNotifier constructs a notifier instance.
func NewSessionNotifier() *SessionNotifier {
	return &SessionNotifier{
		clients: make(map[string]map[*wsClient]struct{}),
		last:    make(map[string]StreamEvent),
	}
}

// Register attaches a websocket connection to a session and replays the
// last known state to it.
func (n *SessionNotifier) Register(sessionID string, conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	set, ok := n.clients[sessionID]
	if !ok {
		set = make(map[*wsClient]struct{})
		n.clients[sessionID] = set
	}
	set[client] = struct{}{}
	last, hasLast := n.last[sessionID]
	n.mu.Unlock()

	if hasLast {
		_ = client.writeJSON(last)
	}
	return client
}

// Unregister removes the client from the session and closes the socket.
func (n *SessionNotifier) Unregister(sessionID string, client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	if set, ok := n.clients[sessionID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(n.clients, sessionID)
		}
	}
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the event to every client of the session.
func (n *SessionNotifier) Broadcast(sessionID string, event StreamEvent) {
	event.SessionID = sessionID
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	defer n.mu.Unlock()
	if event.Type == EventState {
		n.last[sessionID] = event
	}
	for client := range n.clients[sessionID] {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients[sessionID], client)
			_ = client.conn.Close()
		}
	}
}

// Send writes an event to a single client.
func (n *SessionNotifier) Send(sessionID string, client *wsClient, event StreamEvent) error {
	event.SessionID = sessionID
	event.Timestamp = time.Now().UTC()
	return client.writeJSON(event)
}

// Subscribers returns the number of clients attached to a session.
func (n *SessionNotifier) Subscribers(sessionID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.clients[sessionID])
}

// CloseSession disconnects every client of a session and forgets its state.
func (n *SessionNotifier) CloseSession(sessionID string) {
	n.mu.Lock()
	set := n.clients[sessionID]
	delete(n.clients, sessionID)
	delete(n.last, sessionID)
	n.mu.Unlock()

	for client := range set {
		_ = client.conn.Close()
	}
}

// CloseAll disconnects every client.
func (n *SessionNotifier) CloseAll() {
	n.mu.Lock()
	all := n.clients
	n.clients = make(map[string]map[*wsClient]struct{})
	n.last = make(map[string]StreamEvent)
	n.mu.Unlock()

	for _, set := range all {
		for client := range set {
			_ = client.conn.Close()
		}
	}
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}

func (s *Server) handleStream(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.sessions.Snapshot(id); err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}

	upgrader := websocket.Upgrader{
		HandshakeTimeout:  5 * time.Second,
		EnableCompression: true,
		CheckOrigin: func(r *http.Request) bool {
			if len(s.allowedOrigins) == 0 {
				return true
			}
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			for _, allowed := range s.allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("upgrade websocket")
		return
	}

	client := s.notifier.Register(id, conn)
	log := logrus.WithFields(logrus.Fields{
		"session": id,
		"remote":  conn.RemoteAddr().String(),
	})
	log.Info("voice websocket connected")
	defer s.notifier.Unregister(id, client)

	_ = s.notifier.Send(id, client, StreamEvent{
		Type:       EventListening,
		VoiceState: VoiceListening,
		Feedback:   listeningFeedback,
		Cue:        calc.CueStart,
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Info("voice websocket closed")
			} else {
				log.WithError(err).Warn("voice websocket unexpected close")
			}
			return
		}

		var msg StreamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			_ = s.notifier.Send(id, client, StreamEvent{Type: EventError, VoiceState: VoiceError, Message: "invalid message: " + err.Error()})
			continue
		}
		if !s.handleSegment(id, client, msg) {
			return
		}
	}
}

// handleSegment processes one transcript segment. It returns false when
// the stream should end.
func (s *Server) handleSegment(id string, client *wsClient, msg StreamMessage) bool {
	transcript := strings.TrimSpace(msg.Transcript)
	if !msg.Final {
		if transcript != "" {
			_ = s.notifier.Send(id, client, StreamEvent{
				Type:       EventInterim,
				VoiceState: VoiceListening,
				Transcript: transcript,
				Feedback:   transcript,
			})
		}
		return true
	}
	if transcript == "" {
		_ = s.notifier.Send(id, client, StreamEvent{Type: EventResult, VoiceState: VoiceIdle})
		return true
	}

	_ = s.notifier.Send(id, client, StreamEvent{
		Type:       EventProcessing,
		VoiceState: VoiceProcessing,
		Transcript: transcript,
		Feedback:   transcript,
	})

	out, st, err := s.applyTranscript(id, transcript)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, calc.ErrSessionNotFound) {
			msg = "session expired"
		}
		_ = s.notifier.Send(id, client, StreamEvent{Type: EventError, VoiceState: VoiceError, Message: msg, Cue: calc.CueError})
		return false
	}

	dto := OutcomeFromModel(out, st)
	event := StreamEvent{
		Type:       EventResult,
		VoiceState: VoiceIdle,
		Transcript: transcript,
		Feedback:   transcript,
		Cue:        out.Cue,
		Outcome:    &dto,
		State:      &dto.State,
	}
	if !out.Success {
		event.VoiceState = VoiceError
		event.Feedback = out.Feedback
	}
	_ = s.notifier.Send(id, client, event)
	return true
}
