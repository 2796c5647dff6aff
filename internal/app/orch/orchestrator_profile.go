package orch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
)

// ProfileUpdate carries the fields a user may change; nil means unchanged.
type ProfileUpdate struct {
	FullName     *string        `json:"fullName"`
	ProfilePic   *string        `json:"profilePic"`
	About        *string        `json:"about"`
	ReadReceipts *bool          `json:"readReceipts"`
	Privacy      *PrivacyUpdate `json:"privacy"`
}

type PrivacyUpdate struct {
	ReadReceipts *bool   `json:"readReceipts"`
	ProfilePic   *string `json:"profilePic"`
	About        *string `json:"about"`
}

func (p *PrivacyUpdate) apply(dst *domain.Privacy) error {
	if p.ReadReceipts != nil {
		dst.ReadReceipts = *p.ReadReceipts
	}
	if p.ProfilePic != nil {
		v, err := domain.ParseVisibility(*p.ProfilePic)
		if err != nil {
			return fmt.Errorf("profilePic: %w", err)
		}
		dst.ProfilePic = v
	}
	if p.About != nil {
		v, err := domain.ParseVisibility(*p.About)
		if err != nil {
			return fmt.Errorf("about: %w", err)
		}
		dst.About = v
	}
	return nil
}

func (o *Orchestrator) Profile(ctx context.Context, uid domain.UserID) (*domain.User, error) {
	return o.Store.FindUser(ctx, uid)
}

// UpdateProfile applies p to uid, creating the record on first use.
func (o *Orchestrator) UpdateProfile(ctx context.Context, uid domain.UserID, p ProfileUpdate) (*domain.User, error) {
	u, err := o.Store.FindUser(ctx, uid)
	switch {
	case errors.Is(err, core.ErrNotFound):
		u = &domain.User{ID: uid, Privacy: domain.Privacy{
			ReadReceipts: true,
			ProfilePic:   domain.VisibleEveryone,
			About:        domain.VisibleEveryone,
		}}
	case err != nil:
		return nil, err
	}
	if p.FullName != nil {
		u.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.ProfilePic != nil {
		u.ProfilePic = *p.ProfilePic
	}
	if p.About != nil {
		u.About = strings.TrimSpace(*p.About)
	}
	if p.ReadReceipts != nil {
		u.Privacy.ReadReceipts = *p.ReadReceipts
	}
	if p.Privacy != nil {
		if err := p.Privacy.apply(&u.Privacy); err != nil {
			return nil, err
		}
	}
	if err := o.Store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}
