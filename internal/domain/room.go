package domain

import "strings"

type RoomName string

const pairingRoomPrefix = "pairing:"

type Room struct {
	Name RoomName
}

// UserRoom is the room every session of a user joins on connect.
func UserRoom(id UserID) RoomName { return RoomName(id) }

// PairingRoom is the short-lived room a pairing device waits in.
func PairingRoom(code string) RoomName { return RoomName(pairingRoomPrefix + code) }

func (n RoomName) IsPairing() bool { return strings.HasPrefix(string(n), pairingRoomPrefix) }
