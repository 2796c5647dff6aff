package orch

import (
	"context"
	"strings"

	"github.com/dkeye/Pulse/internal/domain"
)

func (o *Orchestrator) AddPushToken(ctx context.Context, uid domain.UserID, token string) error {
	return o.Store.AddPushToken(ctx, uid, strings.TrimSpace(token))
}

func (o *Orchestrator) RemovePushToken(ctx context.Context, uid domain.UserID, token string) error {
	return o.Store.RemovePushToken(ctx, uid, strings.TrimSpace(token))
}

func (o *Orchestrator) Devices(ctx context.Context, uid domain.UserID) ([]domain.LinkedDevice, error) {
	u, err := o.Store.FindUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	return u.LinkedDevices, nil
}

func (o *Orchestrator) RemoveDevice(ctx context.Context, uid domain.UserID, deviceID string) error {
	return o.Store.RemoveLinkedDevice(ctx, uid, deviceID)
}

// TouchDevice bumps lastActiveAt of a linked device; unknown devices are ignored.
func (o *Orchestrator) TouchDevice(ctx context.Context, uid domain.UserID, deviceID string) error {
	if deviceID == "" {
		return nil
	}
	return o.Store.TouchLinkedDevice(ctx, uid, deviceID, o.Now().UTC())
}
