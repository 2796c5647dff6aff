package orch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Pulse/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrEmptyMessage = errors.New("empty message")
	ErrNotMember    = errors.New("not a group member")
	ErrBadGroup     = errors.New("group needs a name and at least one other member")
)

// Draft is an outgoing message as a client submits it. Media arrives as URLs
// already issued by the object store; the first one present decides the type.
type Draft struct {
	Text     string           `json:"text"`
	Image    string           `json:"image"`
	Audio    string           `json:"audio"`
	Video    string           `json:"video"`
	File     string           `json:"file"`
	FileName string           `json:"fileName"`
	Location *domain.Location `json:"location"`
	Contact  *domain.Contact  `json:"contact"`
}

func (d Draft) message(from domain.UserID) (*domain.Message, error) {
	m := &domain.Message{
		SenderID: from,
		Type:     domain.MessageText,
		Text:     strings.TrimSpace(d.Text),
		Status:   domain.StatusSent,
	}
	switch {
	case d.Image != "":
		m.Type, m.MediaURL = domain.MessageImage, d.Image
	case d.Audio != "":
		m.Type, m.MediaURL = domain.MessageAudio, d.Audio
	case d.Video != "":
		m.Type, m.MediaURL = domain.MessageVideo, d.Video
	case d.File != "":
		m.Type, m.MediaURL, m.FileName = domain.MessageFile, d.File, d.FileName
	case d.Location != nil:
		m.Type, m.Location = domain.MessageLocation, d.Location
	case d.Contact != nil:
		m.Type, m.Contact = domain.MessageContact, d.Contact
	case m.Text == "":
		return nil, ErrEmptyMessage
	}
	return m, nil
}

func (o *Orchestrator) newMessage(from domain.UserID, d Draft) (*domain.Message, error) {
	m, err := d.message(from)
	if err != nil {
		return nil, err
	}
	m.ID = domain.MessageID(uuid.NewString())
	m.CreatedAt = o.Now().UTC()
	m.Reactions = []domain.Reaction{}
	return m, nil
}

// SendMessage persists a direct message, then relays it and falls back to
// push for an offline receiver. Delivery problems never fail the send.
func (o *Orchestrator) SendMessage(ctx context.Context, from, to domain.UserID, d Draft) (*domain.Message, error) {
	m, err := o.newMessage(from, d)
	if err != nil {
		return nil, err
	}
	m.ReceiverID = to
	if err := o.Store.InsertMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	o.Delivery.DeliverDirect(ctx, m)
	return m, nil
}

func (o *Orchestrator) Conversation(ctx context.Context, uid, other domain.UserID) ([]domain.Message, error) {
	return o.Store.ListConversation(ctx, uid, other)
}

func (o *Orchestrator) React(ctx context.Context, uid domain.UserID, id domain.MessageID, emoji string) (*domain.Message, error) {
	return o.Relay.React(ctx, uid, id, emoji)
}

func (o *Orchestrator) CreateGroup(ctx context.Context, admin domain.UserID, name string, members []domain.UserID, pic string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	members = lo.Uniq(lo.Without(lo.Compact(members), admin))
	if name == "" || len(members) == 0 {
		return nil, ErrBadGroup
	}
	g := &domain.Group{
		ID:        domain.GroupID(uuid.NewString()),
		Name:      name,
		Admin:     admin,
		Members:   append([]domain.UserID{admin}, members...),
		GroupPic:  pic,
		CreatedAt: o.Now().UTC(),
	}
	if err := o.Store.InsertGroup(ctx, g); err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return g, nil
}

func (o *Orchestrator) Groups(ctx context.Context, uid domain.UserID) ([]domain.Group, error) {
	return o.Store.ListGroupsForUser(ctx, uid)
}

func (o *Orchestrator) memberGroup(ctx context.Context, uid domain.UserID, id domain.GroupID) (*domain.Group, error) {
	g, err := o.Store.FindGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.HasMember(uid) {
		return nil, ErrNotMember
	}
	return g, nil
}

func (o *Orchestrator) SendGroupMessage(ctx context.Context, from domain.UserID, id domain.GroupID, d Draft) (*domain.Message, error) {
	g, err := o.memberGroup(ctx, from, id)
	if err != nil {
		return nil, err
	}
	m, err := o.newMessage(from, d)
	if err != nil {
		return nil, err
	}
	m.GroupID = id
	if err := o.Store.InsertMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	o.Delivery.DeliverGroup(ctx, m, g)
	return m, nil
}

func (o *Orchestrator) GroupHistory(ctx context.Context, uid domain.UserID, id domain.GroupID) ([]domain.Message, error) {
	if _, err := o.memberGroup(ctx, uid, id); err != nil {
		return nil, err
	}
	return o.Store.ListGroupMessages(ctx, id)
}
