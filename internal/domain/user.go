// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"
)

type UserID string

// Visibility says who may see a profile field.
type Visibility string

const (
	VisibleEveryone Visibility = "everyone"
	VisibleNobody   Visibility = "nobody"
)

var ErrVisibility = errors.New("invalid visibility")

func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case VisibleEveryone, VisibleNobody:
		return Visibility(s), nil
	case "":
		return VisibleEveryone, nil
	}
	return "", ErrVisibility
}

// Privacy holds the subset of a user's privacy settings the server has to
// honour.
type Privacy struct {
	ReadReceipts bool       `json:"readReceipts"`
	ProfilePic   Visibility `json:"profilePic"`
	About        Visibility `json:"about"`
}

type User struct {
	ID            UserID         `json:"_id"`
	FullName      string         `json:"fullName"`
	Email         string         `json:"email"`
	ProfilePic    string         `json:"profilePic"`
	About         string         `json:"about"`
	LastSeen      time.Time      `json:"lastSeen"`
	Privacy       Privacy        `json:"privacy"`
	PushTokens    []string       `json:"-"`
	LinkedDevices []LinkedDevice `json:"linkedDevices,omitempty"`
}

// Public is u as any other user sees it: hidden fields blanked, devices
// and push tokens dropped.
func (u User) Public() User {
	if u.Privacy.ProfilePic == VisibleNobody {
		u.ProfilePic = ""
	}
	if u.Privacy.About == VisibleNobody {
		u.About = ""
	}
	u.PushTokens = nil
	u.LinkedDevices = nil
	return u
}

// ReadReceiptsEnabled treats an unknown user as consenting, so a missing
// record never blocks receipts on its own.
func (u *User) ReadReceiptsEnabled() bool {
	if u == nil {
		return true
	}
	return u.Privacy.ReadReceipts
}

func (u *User) DisplayName() string {
	if u == nil || u.FullName == "" {
		return "Someone"
	}
	return u.FullName
}
