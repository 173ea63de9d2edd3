package websocket

import (
	"encoding/json"
	"time"

	"helperhive/pkg/errors"
	"helperhive/pkg/logger"
)

const (
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeSubscribe    = "subscribe"
	MessageTypeUnsubscribe  = "unsubscribe"
	MessageTypeSubscribed   = "subscribed"
	MessageTypeUnsubscribed = "unsubscribed"
	MessageTypeSnapshot     = "snapshot"
	MessageTypeSendMessage  = "send_message"
	MessageTypeMessageSent  = "message_sent"
	MessageTypeError        = "error"
)

// InboundMessage is what clients send.
type InboundMessage struct {
	Type  string          `json:"type"`
	Topic string          `json:"topic,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// WSMessage is what the server sends.
type WSMessage struct {
	Type      string      `json:"type"`
	Topic     string      `json:"topic,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandleClientMessage processes one incoming frame.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var in InboundMessage
	if err := json.Unmarshal(messageBytes, &in); err != nil {
		m.sendError(client, "", errors.InvalidInput("invalid message format", err))
		return
	}

	switch in.Type {
	case MessageTypePing:
		m.sendToClient(client, WSMessage{Type: MessageTypePong})

	case MessageTypeSubscribe:
		m.handleSubscribe(client, in)

	case MessageTypeUnsubscribe:
		client.stopSubscription(in.Topic)
		m.sendToClient(client, WSMessage{Type: MessageTypeUnsubscribed, Topic: in.Topic})

	case MessageTypeSendMessage:
		m.handleSendMessage(client, in)

	default:
		logger.Debug("Websocket: unknown message type %q from %s", in.Type, client.UserID)
		m.sendError(client, in.Topic, errors.InvalidInput("unknown message type", nil))
	}
}

func (m *Manager) handleSubscribe(client *Client, in InboundMessage) {
	if in.Topic == "" {
		m.sendError(client, "", errors.InvalidInput("topic is required", nil))
		return
	}
	if m.hooks.Subscribe == nil {
		m.sendError(client, in.Topic, errors.Unavailable("subscriptions are not available", nil))
		return
	}

	topic := in.Topic
	push := func(data interface{}) {
		m.sendToClient(client, WSMessage{Type: MessageTypeSnapshot, Topic: topic, Data: data})
	}

	stop, err := m.hooks.Subscribe(m.ctx, client.UserID, topic, in.Data, push)
	if err != nil {
		m.sendError(client, topic, err)
		return
	}

	client.setSubscription(topic, stop)
	m.sendToClient(client, WSMessage{Type: MessageTypeSubscribed, Topic: topic})
}

func (m *Manager) handleSendMessage(client *Client, in InboundMessage) {
	if m.hooks.SendMessage == nil {
		m.sendError(client, "", errors.Unavailable("messaging is not available", nil))
		return
	}

	result, err := m.hooks.SendMessage(m.ctx, client.UserID, in.Data)
	if err != nil {
		m.sendError(client, "", err)
		return
	}

	m.sendToClient(client, WSMessage{Type: MessageTypeMessageSent, Data: result})
}

func (m *Manager) sendError(client *Client, topic string, err error) {
	data := ErrorData{Code: errors.CodeInternal, Message: "internal error"}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		data = ErrorData{Code: appErr.Code, Message: appErr.Message}
	} else {
		logger.Error("Websocket request from %s failed: %v", client.UserID, err)
	}

	m.sendToClient(client, WSMessage{Type: MessageTypeError, Topic: topic, Data: data})
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	message.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)

	payload, err := json.Marshal(message)
	if err != nil {
		logger.Error("Websocket: failed to encode %s message: %v", message.Type, err)
		return
	}

	if !client.enqueue(payload) {
		logger.Warn("Websocket send buffer full for user %s, dropping %s", client.UserID, message.Type)
	}
}
