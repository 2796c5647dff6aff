package app

import (
	"time"

	"github.com/dkeye/Pulse/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Outbound event names.
const (
	EventOnlineUsers       = "getOnlineUsers"
	EventUserOffline       = "userOffline"
	EventTyping            = "typing"
	EventStopTyping        = "stopTyping"
	EventMessagesSeen      = "messagesSeen"
	EventMessageReaction   = "messageReaction"
	EventNewMessage        = "newMessage"
	EventCallIncoming      = "call:incoming"
	EventCallConnected     = "call:connected"
	EventCallRejected      = "call:rejected"
	EventCallEnded         = "call:ended"
	EventICECandidate      = "ice:candidate"
	EventPairingCode       = "pairing:code"
	EventPairingAuthorized = "pairing:authorized"
	EventError             = "error"
	EventPong              = "pong"
)

// Event is anything the emitter can put on the wire.
type Event interface {
	EventType() string
}

// Head carries the envelope type; embedding it flattens "type" into the payload.
type Head struct {
	Type string `json:"type"`
}

func (h Head) EventType() string { return h.Type }

type OnlineUsersEvent struct {
	Head
	Users []domain.UserID `json:"users"`
}

type UserOfflineEvent struct {
	Head
	UserID   domain.UserID `json:"userId"`
	LastSeen time.Time     `json:"lastSeen"`
}

type TypingEvent struct {
	Head
	SenderID domain.UserID `json:"senderId"`
}

type MessagesSeenEvent struct {
	Head
	ReceiverID domain.UserID `json:"receiverId"`
}

type ReactionEvent struct {
	Head
	MessageID domain.MessageID  `json:"messageId"`
	Reactions []domain.Reaction `json:"reactions"`
}

type NewMessageEvent struct {
	Head
	Message *domain.Message `json:"message"`
}

type CallIncomingEvent struct {
	Head
	From     domain.UserID             `json:"from"`
	Offer    webrtc.SessionDescription `json:"offer"`
	CallType domain.CallType           `json:"callType"`
	IsGroup  bool                      `json:"isGroup,omitempty"`
	GroupID  domain.GroupID            `json:"groupId,omitempty"`
}

type CallConnectedEvent struct {
	Head
	From   domain.UserID             `json:"from"`
	Answer webrtc.SessionDescription `json:"ans"`
}

// CallPeerEvent is used for call:rejected and call:ended.
type CallPeerEvent struct {
	Head
	From domain.UserID `json:"from"`
}

type ICECandidateEvent struct {
	Head
	From      domain.UserID           `json:"from"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

type PairingCodeEvent struct {
	Head
	Code string `json:"pairingCode"`
}

type PairingAuthorizedEvent struct {
	Head
	Token string `json:"pairingToken"`
}

type ErrorEvent struct {
	Head
	Error string `json:"error"`
}

func NewErrorEvent(code string) ErrorEvent {
	return ErrorEvent{Head: Head{Type: EventError}, Error: code}
}

type PongEvent struct {
	Head
	Timestamp int64 `json:"ts"`
}

func NewPongEvent(now time.Time) PongEvent {
	return PongEvent{Head: Head{Type: EventPong}, Timestamp: now.UnixMilli()}
}
