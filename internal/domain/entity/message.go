package entity

import "time"

type Message struct {
	ID              string    `json:"id" firestore:"id"`
	SenderID        string    `json:"sender_id" firestore:"senderId"`
	RecipientID     string    `json:"recipient_id" firestore:"recipientId"`
	Body            string    `json:"body" firestore:"body"`
	ConversationKey string    `json:"conversation_key" firestore:"conversationKey"`
	Participants    []string  `json:"participants" firestore:"participants"`
	SentAt          time.Time `json:"sent_at" firestore:"sentAt"`
}

// Counterpart returns the other participant from userID's point of view.
func (m *Message) Counterpart(userID string) string {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

// Conversation is the summary document of one pair of users. It is written
// together with every message and always holds the pair's latest one.
type Conversation struct {
	Key           string    `json:"key" firestore:"key"`
	Participants  []string  `json:"participants" firestore:"participants"`
	LastMessage   Message   `json:"last_message" firestore:"lastMessage"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
}

// Record folds m into the summary unless the summary already holds a newer
// message.
func (c *Conversation) Record(m *Message) bool {
	if !c.LastMessageAt.IsZero() && m.SentAt.Before(c.LastMessageAt) {
		return false
	}
	c.Key = m.ConversationKey
	c.Participants = m.Participants
	c.LastMessage = *m
	c.LastMessageAt = m.SentAt
	return true
}

// Counterpart returns the other participant from userID's point of view.
func (c *Conversation) Counterpart(userID string) string {
	return c.LastMessage.Counterpart(userID)
}
