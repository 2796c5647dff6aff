package domain

import (
	"errors"
	"time"
)

const (
	MaxDeviceIDLen   = 128
	MaxDeviceNameLen = 64
	defaultDevice    = "Unknown Device"
)

var (
	ErrDeviceIDEmpty   = errors.New("device id empty")
	ErrDeviceIDTooLong = errors.New("device id too long")
)

// DeviceInfo is what a redeeming device reports about itself.
type DeviceInfo struct {
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	UserAgent  string `json:"userAgent"`
}

type LinkedDevice struct {
	DeviceID     string    `json:"deviceId"`
	DeviceName   string    `json:"deviceName"`
	UserAgent    string    `json:"userAgent,omitempty"`
	LoginAt      time.Time `json:"loginAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// NewLinkedDevice is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewLinkedDevice(info DeviceInfo, now time.Time) (LinkedDevice, error) {
	if info.DeviceID == "" {
		return LinkedDevice{}, ErrDeviceIDEmpty
	}
	if len(info.DeviceID) > MaxDeviceIDLen {
		return LinkedDevice{}, ErrDeviceIDTooLong
	}
	name := info.DeviceName
	if name == "" {
		name = defaultDevice
	}
	if len(name) > MaxDeviceNameLen {
		name = name[:MaxDeviceNameLen]
	}
	return LinkedDevice{
		DeviceID:     info.DeviceID,
		DeviceName:   name,
		UserAgent:    info.UserAgent,
		LoginAt:      now,
		LastActiveAt: now,
	}, nil
}
