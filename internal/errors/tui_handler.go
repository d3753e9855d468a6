package errors

import (
	"sync"
	"time"
)

// maxTUIMessages bounds the status history kept for the TUI.
const maxTUIMessages = 50

// TUIHandler stores messages for display in the TUI status bar.
type TUIHandler struct {
	mu       sync.RWMutex
	messages []Message
	onError  func(msg Message)
	now      func() time.Time
}

// Message is one status bar entry.
type Message struct {
	Text      string
	Type      MessageType
	Timestamp time.Time
}

// MessageType is the severity of a Message.
type MessageType int

const (
	MessageTypeError MessageType = iota
	MessageTypeWarning
	MessageTypeInfo
	MessageTypeSuccess
)

// String returns the label shown in front of a status message.
func (t MessageType) String() string {
	switch t {
	case MessageTypeError:
		return "error"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeSuccess:
		return "ok"
	default:
		return "info"
	}
}

// NewTUIHandler creates a handler; onError, when set, sees every new message.
func NewTUIHandler(onError func(msg Message)) *TUIHandler {
	return &TUIHandler{
		onError: onError,
		now:     time.Now,
	}
}

func (h *TUIHandler) Error(msg string)   { h.addMessage(msg, MessageTypeError) }
func (h *TUIHandler) Warning(msg string) { h.addMessage(msg, MessageTypeWarning) }
func (h *TUIHandler) Info(msg string)    { h.addMessage(msg, MessageTypeInfo) }
func (h *TUIHandler) Success(msg string) { h.addMessage(msg, MessageTypeSuccess) }

func (h *TUIHandler) addMessage(msg string, msgType MessageType) {
	h.mu.Lock()
	message := Message{Text: msg, Type: msgType, Timestamp: h.now()}
	h.messages = append(h.messages, message)
	if over := len(h.messages) - maxTUIMessages; over > 0 {
		h.messages = append([]Message(nil), h.messages[over:]...)
	}
	cb := h.onError
	h.mu.Unlock()

	if cb != nil {
		cb(message)
	}
}

// GetLatest returns the most recent message.
func (h *TUIHandler) GetLatest() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// Latest returns the most recent message if it is younger than ttl.
func (h *TUIHandler) Latest(ttl time.Duration) (Message, bool) {
	msg, ok := h.GetLatest()
	if !ok || h.now().Sub(msg.Timestamp) > ttl {
		return Message{}, false
	}
	return msg, true
}

// Clear drops all messages.
func (h *TUIHandler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

// GetAll returns a copy of the stored messages, oldest first.
func (h *TUIHandler) GetAll() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}
