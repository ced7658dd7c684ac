package domain

import "time"

// Conversation is a two-party chat thread between a customer and a provider.
type Conversation struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id" gorm:"uniqueIndex:idx_conversations_pair"`
	ProviderID int64     `json:"provider_id" gorm:"uniqueIndex:idx_conversations_pair"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Conversation) TableName() string { return "conversations" }

// Participant reports whether userID is one of the two parties.
func (c *Conversation) Participant(userID int64) bool {
	return c.CustomerID == userID || c.ProviderID == userID
}

// Recipient returns the party that is not senderID.
func (c *Conversation) Recipient(senderID int64) int64 {
	if senderID == c.CustomerID {
		return c.ProviderID
	}
	return c.CustomerID
}

// Message is a single chat turn. Immutable once written except the Seen
// flag, which is set by the recipient's read action.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	ConversationID int64     `json:"conversation_id" gorm:"index:idx_messages_conversation"`
	SenderID       int64     `json:"sender_id"`
	Body           string    `json:"body,omitempty" gorm:"type:text"`
	ImageURL       string    `json:"image_url,omitempty"`
	Seen           bool      `json:"seen"`
	SentAt         time.Time `json:"sent_at" gorm:"index:idx_messages_conversation"`
}

func (Message) TableName() string { return "messages" }
