// Package push delivers notifications through Firebase Cloud Messaging.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dkeye/Pulse/internal/core"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultEndpoint = "https://fcm.googleapis.com"
	messagingScope  = "https://www.googleapis.com/auth/firebase.messaging"
)

var ErrNoProject = errors.New("fcm: project id missing")

type Config struct {
	ProjectID       string
	CredentialsFile string
	Endpoint        string
	Concurrency     int
	Timeout         time.Duration
}

// FCM sends one HTTP v1 request per token, a bounded number at a time.
type FCM struct {
	client      *http.Client
	url         string
	concurrency int
	timeout     time.Duration
}

var _ core.PushGateway = (*FCM)(nil)

// NewFCM uses client as is; it must already attach credentials.
func NewFCM(cfg Config, client *http.Client) (*FCM, error) {
	if cfg.ProjectID == "" {
		return nil, ErrNoProject
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &FCM{
		client:      client,
		url:         fmt.Sprintf("%s/v1/projects/%s/messages:send", endpoint, cfg.ProjectID),
		concurrency: cfg.Concurrency,
		timeout:     cfg.Timeout,
	}, nil
}

// NewFCMFromCredentials builds an authorised client from a service account file.
func NewFCMFromCredentials(ctx context.Context, cfg Config) (*FCM, error) {
	raw, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("fcm credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, raw, messagingScope)
	if err != nil {
		return nil, fmt.Errorf("fcm credentials: %w", err)
	}
	if cfg.ProjectID == "" {
		cfg.ProjectID = creds.ProjectID
	}
	return NewFCM(cfg, oauth2.NewClient(ctx, creds.TokenSource))
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Android      fcmAndroid        `json:"android"`
	Webpush      fcmWebpush        `json:"webpush"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmAndroid struct {
	Priority     string `json:"priority"`
	Notification struct {
		Sound     string `json:"sound"`
		ChannelID string `json:"channel_id"`
		Priority  string `json:"notification_priority"`
	} `json:"notification"`
}

type fcmWebpush struct {
	Headers      map[string]string `json:"headers"`
	Notification map[string]any    `json:"notification"`
	FCMOptions   struct {
		Link string `json:"link"`
	} `json:"fcm_options"`
}

func buildMessage(token string, p core.PushPayload) fcmMessage {
	high := p.Priority == core.PushHigh
	m := fcmMessage{
		Token:        token,
		Notification: fcmNotification{Title: p.Title, Body: p.Body},
		Data:         p.Data,
	}
	m.Android.Priority = "normal"
	m.Android.Notification.Sound = "default"
	m.Android.Notification.ChannelID = "default"
	m.Android.Notification.Priority = "PRIORITY_DEFAULT"
	urgency := "normal"
	if high {
		m.Android.Priority = "high"
		m.Android.Notification.Priority = "PRIORITY_HIGH"
		urgency = "high"
	}
	m.Webpush.Headers = map[string]string{"Urgency": urgency}
	m.Webpush.Notification = map[string]any{
		"requireInteraction": high,
		"vibrate":            []int{200, 100, 200, 100, 200},
		"silent":             false,
		"tag":                p.Tag,
	}
	m.Webpush.FCMOptions.Link = "/"
	return m
}

// Send never fails as a whole; every token gets its own result.
func (f *FCM) Send(ctx context.Context, tokens []string, payload core.PushPayload) ([]core.PushResult, error) {
	results := make([]core.PushResult, len(tokens))
	p := pool.New().WithMaxGoroutines(f.concurrency)
	for i, tok := range tokens {
		i, tok := i, tok
		p.Go(func() {
			results[i] = core.PushResult{Token: tok, Err: f.sendOne(ctx, tok, payload)}
		})
	}
	p.Wait()
	return results, nil
}

func (f *FCM) sendOne(ctx context.Context, token string, payload core.PushPayload) error {
	body, err := json.Marshal(fcmRequest{Message: buildMessage(token, payload)})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fcm send: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// LogGateway stands in when push is disabled.
type LogGateway struct{}

func (LogGateway) Send(_ context.Context, tokens []string, p core.PushPayload) ([]core.PushResult, error) {
	log.Info().Str("module", "adapters.push").Int("tokens", len(tokens)).Str("title", p.Title).Msg("push disabled, dropping notification")
	results := make([]core.PushResult, len(tokens))
	for i, tok := range tokens {
		results[i] = core.PushResult{Token: tok}
	}
	return results, nil
}
