package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/dkeye/Pulse/internal/domain"
	"github.com/dkeye/Pulse/internal/metrics"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const (
	PushKindCall    = "call"
	PushKindMessage = "message"
)

// Pusher hands prepared payloads to the gateway. Failures end here.
type Pusher struct {
	Gateway core.PushGateway
	Metrics *metrics.Metrics
}

func NewPusher(gw core.PushGateway, m *metrics.Metrics) *Pusher {
	return &Pusher{Gateway: gw, Metrics: m}
}

// Notify returns how many tokens the gateway accepted.
func (p *Pusher) Notify(ctx context.Context, kind string, tokens []string, payload core.PushPayload) int {
	if p == nil || p.Gateway == nil || len(tokens) == 0 {
		return 0
	}
	results, err := p.Gateway.Send(ctx, tokens, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.push").Str("kind", kind).Int("tokens", len(tokens)).Msg("push gateway")
		for range tokens {
			p.Metrics.Push(kind, false)
		}
		return 0
	}
	ok := 0
	for _, res := range results {
		if res.Err != nil {
			p.Metrics.Push(kind, false)
			log.Warn().Err(res.Err).Str("module", "app.push").Str("kind", kind).Str("token", shortToken(res.Token)).Msg("push token failed")
			continue
		}
		p.Metrics.Push(kind, true)
		ok++
	}
	return ok
}

func shortToken(t string) string {
	if len(t) <= 8 {
		return t
	}
	return t[:8] + "…"
}

// CallPush is the notification for an incoming call.
func CallPush(caller *domain.User, callerID domain.UserID, media domain.CallType, offer webrtc.SessionDescription) core.PushPayload {
	name := caller.DisplayName()
	offerJSON, err := json.Marshal(offer)
	if err != nil {
		offerJSON = []byte("{}")
	}
	return core.PushPayload{
		Title:    fmt.Sprintf("Incoming %s call from %s", media, name),
		Body:     "Tap to answer",
		Priority: core.PushHigh,
		Tag:      "incoming-call",
		Data: map[string]string{
			"chatId":       string(callerID),
			"type":         "call",
			"callType":     string(media),
			"callerName":   name,
			"offer":        string(offerJSON),
			"click_action": "/",
		},
	}
}

// MessagePush is the notification for a message the receiver was not online for.
func MessagePush(sender *domain.User, msg *domain.Message) core.PushPayload {
	title := "New message from " + sender.DisplayName()
	chatID := string(msg.SenderID)
	if msg.GroupID != "" {
		title = "New message in group"
		chatID = string(msg.GroupID)
	}
	return core.PushPayload{
		Title:    title,
		Body:     Preview(msg),
		Priority: core.PushNormal,
		Tag:      "new-message",
		Data: map[string]string{
			"chatId":    chatID,
			"type":      "message",
			"messageId": string(msg.ID),
		},
	}
}

// Preview is the one-line summary shown in a notification. A caption wins
// over the media placeholder.
func Preview(msg *domain.Message) string {
	if text := strings.TrimSpace(msg.Text); text != "" {
		return text
	}
	switch msg.Type {
	case domain.MessageImage:
		return "📷 Photo"
	case domain.MessageAudio:
		return "🎤 Voice message"
	case domain.MessageVideo:
		return "🎥 Video"
	case domain.MessageFile:
		if msg.FileName != "" {
			return "📎 " + msg.FileName
		}
		return "📎 File"
	case domain.MessageLocation:
		return "📍 Location"
	case domain.MessageContact:
		return "👤 Contact"
	case domain.MessageCall:
		return "📞 Call"
	}
	if msg.Text != "" {
		return msg.Text
	}
	return "New message"
}
