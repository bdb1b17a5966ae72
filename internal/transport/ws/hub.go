package ws

import (
	"encoding/json"
	"log"
	"sync"

	"formflow/internal/engine"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgIntegrityReport MessageType = "integrity_report"
	MsgSessionProgress MessageType = "session_progress"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages builder preview connections. A builder subscribes to one
// survey and receives integrity reports after each save plus respondent
// progress events from the session runner.
type Hub struct {
	// survey id -> connections
	conns map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *broadcastMessage
}

// Connection represents one builder WebSocket connection
type Connection struct {
	SurveyID string
	Send     chan []byte
}

type broadcastMessage struct {
	SurveyID string
	Message  *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *broadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SurveyID] == nil {
				h.conns[conn.SurveyID] = make(map[*Connection]bool)
			}
			h.conns[conn.SurveyID][conn] = true
			h.mu.Unlock()
			log.Printf("Builder connected to survey %s", conn.SurveyID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.SurveyID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.conns, conn.SurveyID)
				}
				log.Printf("Builder disconnected from survey %s", conn.SurveyID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.SurveyID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// IntegrityReport pushes a fresh design-time report to the survey's
// builders (implements service.Broadcaster)
func (h *Hub) IntegrityReport(surveyID string, report *engine.IntegrityReport) {
	h.send(surveyID, MsgIntegrityReport, report)
}

// SessionProgress pushes a respondent's position to the survey's builders;
// an empty question id means the session completed (implements
// service.Broadcaster)
func (h *Hub) SessionProgress(surveyID, sessionID, questionID string) {
	h.send(surveyID, MsgSessionProgress, map[string]string{
		"sessionId":  sessionID,
		"questionId": questionID,
	})
}

func (h *Hub) send(surveyID string, msgType MessageType, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.broadcast <- &broadcastMessage{
		SurveyID: surveyID,
		Message:  &Message{Type: msgType, Payload: data},
	}
}
