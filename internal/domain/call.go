package domain

import (
	"errors"
	"time"
)

type (
	CallID     string
	CallType   string
	CallStatus string
)

const (
	CallAudio CallType = "audio"
	CallVideo CallType = "video"
)

const (
	CallCompleted CallStatus = "completed"
	CallMissed    CallStatus = "missed"
	CallRejected  CallStatus = "rejected"
)

var (
	ErrCallType   = errors.New("invalid call type")
	ErrCallStatus = errors.New("invalid call status")
)

// CallRecord is the history entry written after a call is torn down.
type CallRecord struct {
	ID         CallID     `json:"_id"`
	CallerID   UserID     `json:"callerId"`
	ReceiverID UserID     `json:"receiverId"`
	Type       CallType   `json:"type"`
	Status     CallStatus `json:"status"`
	Duration   int        `json:"duration"`
	StartedAt  time.Time  `json:"startedAt"`
	EndedAt    *time.Time `json:"endedAt,omitempty"`
}

func ParseCallType(s string) (CallType, error) {
	switch CallType(s) {
	case CallAudio, CallVideo:
		return CallType(s), nil
	case "":
		return CallVideo, nil
	}
	return "", ErrCallType
}

func ParseCallStatus(s string) (CallStatus, error) {
	switch CallStatus(s) {
	case CallCompleted, CallMissed, CallRejected:
		return CallStatus(s), nil
	case "":
		return CallCompleted, nil
	}
	return "", ErrCallStatus
}
