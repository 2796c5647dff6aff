package domain

import "time"

type (
	MessageID     string
	MessageType   string
	MessageStatus string
)

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageAudio    MessageType = "audio"
	MessageVideo    MessageType = "video"
	MessageFile     MessageType = "file"
	MessageLocation MessageType = "location"
	MessageContact  MessageType = "contact"
	MessageCall     MessageType = "call"
)

const (
	StatusSent      MessageStatus = "sent"
	StatusDelivered MessageStatus = "delivered"
	StatusSeen      MessageStatus = "seen"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Reaction struct {
	UserID UserID `json:"userId"`
	Emoji  string `json:"emoji"`
}

// Message is a chat message. Media fields hold URLs already issued by the
// object store; this service never sees binary media.
type Message struct {
	ID         MessageID     `json:"_id"`
	SenderID   UserID        `json:"senderId"`
	ReceiverID UserID        `json:"receiverId,omitempty"`
	GroupID    GroupID       `json:"groupId,omitempty"`
	Type       MessageType   `json:"type"`
	Text       string        `json:"text,omitempty"`
	MediaURL   string        `json:"mediaUrl,omitempty"`
	FileName   string        `json:"fileName,omitempty"`
	Location   *Location     `json:"location,omitempty"`
	Contact    *Contact      `json:"contact,omitempty"`
	Status     MessageStatus `json:"status"`
	Reactions  []Reaction    `json:"reactions"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Counterpart returns the other participant of a direct message.
func (m *Message) Counterpart(uid UserID) UserID {
	if m.SenderID == uid {
		return m.ReceiverID
	}
	return m.SenderID
}
